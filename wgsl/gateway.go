package wgsl

import (
	"context"
	"fmt"

	"github.com/shaderdesk/shaderdesk/playground"
)

// Gateway is an in-process CompileGateway backed by the front end. It
// gives the playground an offline compile path: structural diagnostics,
// entry-point discovery, and uniform extraction, without an engine.
type Gateway struct {
	// PassF32 selects 32-bit float pass storage in the prelude, the
	// same switch the engine exposes.
	PassF32 bool
}

// NewGateway creates a Gateway with default options.
func NewGateway() *Gateway {
	return &Gateway{}
}

// Compile analyzes the requested source snapshot. Diagnostics are
// reported in the user's own row/column coordinates: the unit handed to
// validation starts with the synthesized prelude, so rows are shifted
// back by the prelude's line count before they leave the gateway. A row
// that lands inside the prelude itself clamps to zero, which downstream
// mapping renders as a whole-document marker.
func (g *Gateway) Compile(ctx context.Context, req playground.CompileRequest) (playground.CompileResult, error) {
	if err := ctx.Err(); err != nil {
		return playground.CompileResult{}, err
	}

	fail := func(d playground.Diagnostic) (playground.CompileResult, error) {
		return playground.CompileResult{Revision: req.Revision, Diagnostic: d}, nil
	}

	processed, params, diag := Preprocess(req.Source)
	if diag != nil {
		return fail(*diag)
	}

	uniforms := ParseUniforms(processed, params)
	if len(uniforms) > MaxCustomParams {
		return fail(playground.Diagnostic{
			Summary: fmt.Sprintf("too many custom params: %d, limit %d", len(uniforms), MaxCustomParams),
			Row:     1,
			Col:     1,
		})
	}

	names := make([]string, len(uniforms))
	for i, u := range uniforms {
		names[i] = u.Name
	}
	prelude := BuildPrelude(names, g.PassF32)

	if diag := Validate(prelude + processed); diag != nil {
		preludeLines := countLines(prelude)
		if diag.Row > preludeLines {
			diag.Row -= preludeLines
		} else {
			diag.Row = 0
		}
		return fail(*diag)
	}

	return playground.CompileResult{
		Revision:    req.Revision,
		OK:          true,
		EntryPoints: ParseEntryPoints(processed),
		Uniforms:    uniforms,
	}, nil
}
