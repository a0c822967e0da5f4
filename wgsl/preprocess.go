package wgsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shaderdesk/shaderdesk/playground"
)

// Preprocess strips #param pragma lines from user source and collects the
// declared defaults and ranges. Pragma lines are blanked rather than
// removed so every remaining token keeps its original row.
//
// Pragma form: #param <name> <default> [<min> <max>]
//
// A malformed pragma is a compile failure like any other: the returned
// diagnostic points at the offending line.
func Preprocess(source string) (string, map[string]playground.UniformDecl, *playground.Diagnostic) {
	params := make(map[string]playground.UniformDecl)
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#param") {
			continue
		}
		row := i + 1

		fields := strings.Fields(trimmed)
		if len(fields) != 3 && len(fields) != 5 {
			return "", nil, &playground.Diagnostic{
				Summary: "malformed #param pragma: want '#param name default [min max]'",
				Row:     row,
				Col:     firstCol(line),
			}
		}

		name := fields[1]
		decl := playground.UniformDecl{Name: name, Min: 0, Max: 1}
		values := make([]float32, 0, 3)
		for _, f := range fields[2:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return "", nil, &playground.Diagnostic{
					Summary: fmt.Sprintf("malformed #param pragma: %q is not a number", f),
					Row:     row,
					Col:     firstCol(line),
				}
			}
			values = append(values, float32(v))
		}
		decl.Default = values[0]
		if len(values) == 3 {
			decl.Min = values[1]
			decl.Max = values[2]
			if decl.Min > decl.Max {
				return "", nil, &playground.Diagnostic{
					Summary: fmt.Sprintf("#param %s: min %g exceeds max %g", name, decl.Min, decl.Max),
					Row:     row,
					Col:     firstCol(line),
				}
			}
		}
		params[name] = decl
		lines[i] = ""
	}

	return strings.Join(lines, "\n"), params, nil
}

// firstCol is the 1-based column of the first non-blank character.
func firstCol(line string) int {
	col := 1
	for _, r := range line {
		if r != ' ' && r != '\t' {
			return col
		}
		col++
	}
	return 1
}
