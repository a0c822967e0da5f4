package wgsl

import (
	"regexp"
	"strconv"

	"github.com/shaderdesk/shaderdesk/playground"
)

var (
	// computeAttrRegex matches the @compute attribute that begins a
	// dispatchable entry point declaration.
	computeAttrRegex = regexp.MustCompile(`@compute\b`)

	// fnNameRegex captures the function name after an entry attribute.
	fnNameRegex = regexp.MustCompile(`\bfn\s+(\w+)`)

	// workgroupSizeRegex captures 1-3 integer dimensions from
	// @workgroup_size(x[, y[, z]]).
	workgroupSizeRegex = regexp.MustCompile(`@workgroup_size\(\s*(\d+)\s*(?:,\s*(\d+)\s*(?:,\s*(\d+)\s*)?)?\)`)

	// customRefRegex matches references to fields of the Custom uniform
	// struct, which define the shader's adjustable parameters.
	customRefRegex = regexp.MustCompile(`\bcustom\.(\w+)`)

	// screenRefRegex and storageRefRegex classify what an entry point
	// writes, for the Image/Buffer/Compute kind split.
	screenRefRegex  = regexp.MustCompile(`\bscreen\b`)
	storageRefRegex = regexp.MustCompile(`\batomic_storage\b`)
)

// stripComments blanks out line and block comments, preserving newlines so
// byte offsets keep mapping to the same rows.
func stripComments(source string) string {
	out := []byte(source)
	i := 0
	for i < len(out) {
		if out[i] == '/' && i+1 < len(out) && out[i+1] == '/' {
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
			continue
		}
		if out[i] == '/' && i+1 < len(out) && out[i+1] == '*' {
			for i < len(out) && !(out[i] == '*' && i+1 < len(out) && out[i+1] == '/') {
				if out[i] != '\n' {
					out[i] = ' '
				}
				i++
			}
			if i+1 < len(out) {
				out[i] = ' '
				out[i+1] = ' '
				i += 2
			}
			continue
		}
		i++
	}
	return string(out)
}

// ParseEntryPoints extracts the dispatchable entry points from user
// source, in order of appearance. Only @compute functions dispatch in the
// playground; the kind is classified by what the function body touches:
// the screen texture makes it an image pass, the shared atomic storage
// buffer a buffer pass, anything else plain compute.
func ParseEntryPoints(source string) []playground.EntryPoint {
	cleaned := stripComments(source)

	var entries []playground.EntryPoint
	for _, attr := range computeAttrRegex.FindAllStringIndex(cleaned, -1) {
		rest := cleaned[attr[1]:]
		name := fnNameRegex.FindStringSubmatch(rest)
		if name == nil {
			continue
		}
		nameIdx := fnNameRegex.FindStringSubmatchIndex(rest)

		size := [3]uint32{1, 1, 1}
		if m := workgroupSizeRegex.FindStringSubmatch(rest[:nameIdx[0]]); m != nil {
			for i := 0; i < 3; i++ {
				if m[i+1] != "" {
					if v, err := strconv.ParseUint(m[i+1], 10, 32); err == nil {
						size[i] = uint32(v)
					}
				}
			}
		}

		body := functionBody(cleaned, attr[1]+nameIdx[1])
		kind := playground.KindCompute
		switch {
		case screenRefRegex.MatchString(body):
			kind = playground.KindImage
		case storageRefRegex.MatchString(body):
			kind = playground.KindBuffer
		}

		entries = append(entries, playground.EntryPoint{
			Name:          name[1],
			Kind:          kind,
			WorkgroupSize: size,
		})
	}
	return entries
}

// functionBody returns the brace-delimited body of the function whose
// signature starts at offset, or an empty string when the braces never
// close (validation reports that separately).
func functionBody(source string, offset int) string {
	open := -1
	for i := offset; i < len(source); i++ {
		if source[i] == '{' {
			open = i
			break
		}
	}
	if open < 0 {
		return ""
	}
	depth := 0
	for i := open; i < len(source); i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return source[open : i+1]
			}
		}
	}
	return ""
}

// ParseUniforms extracts custom uniform declarations from user source:
// every distinct custom.<name> reference, in order of first appearance.
// Defaults and ranges come from #param pragmas when present, otherwise a
// zero default over [0, 1].
func ParseUniforms(source string, params map[string]playground.UniformDecl) []playground.UniformDecl {
	cleaned := stripComments(source)

	var decls []playground.UniformDecl
	seen := make(map[string]bool)
	for _, m := range customRefRegex.FindAllStringSubmatch(cleaned, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true

		decl := playground.UniformDecl{Name: name, Min: 0, Max: 1}
		if p, ok := params[name]; ok {
			decl.Default = p.Default
			decl.Min = p.Min
			decl.Max = p.Max
		}
		decls = append(decls, decl)
	}
	return decls
}
