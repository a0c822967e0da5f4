package wgsl

import (
	"strings"
	"testing"
)

func TestValidate_BalancedUnitPasses(t *testing.T) {
	unit := BuildPrelude([]string{"radius"}, false) + `
@compute @workgroup_size(1)
fn main_image(@builtin(global_invocation_id) id: uint3) {
    let r = custom.radius; // trailing comment with { unbalanced bracket
}
`
	if diag := Validate(unit); diag != nil {
		t.Errorf("valid unit rejected: %+v", diag)
	}
}

func TestValidate_UnclosedBracePointsAtOpener(t *testing.T) {
	diag := Validate("fn f() {\n    let x = 1;\n")
	if diag == nil {
		t.Fatal("unclosed brace not reported")
	}
	if diag.Row != 1 || diag.Col != 8 {
		t.Errorf("position = %d:%d, want 1:8 (the opening brace)", diag.Row, diag.Col)
	}
	if !strings.Contains(diag.Summary, "unclosed") {
		t.Errorf("summary = %q, want an unclosed-bracket message", diag.Summary)
	}
}

func TestValidate_UnexpectedCloser(t *testing.T) {
	diag := Validate("fn f() {}\n}\n")
	if diag == nil {
		t.Fatal("stray closing brace not reported")
	}
	if diag.Row != 2 || diag.Col != 1 {
		t.Errorf("position = %d:%d, want 2:1", diag.Row, diag.Col)
	}
}

func TestValidate_MismatchedPair(t *testing.T) {
	diag := Validate("fn f() { let a = (1]; }\n")
	if diag == nil {
		t.Fatal("mismatched bracket pair not reported")
	}
	if !strings.Contains(diag.Summary, "mismatched") {
		t.Errorf("summary = %q, want a mismatch message", diag.Summary)
	}
}

func TestValidate_UnterminatedBlockComment(t *testing.T) {
	diag := Validate("fn f() {}\n/* never closed\n")
	if diag == nil {
		t.Fatal("unterminated block comment not reported")
	}
	if diag.Row != 2 || diag.Col != 1 {
		t.Errorf("position = %d:%d, want 2:1", diag.Row, diag.Col)
	}
}

func TestValidate_BracketsInsideCommentsIgnored(t *testing.T) {
	if diag := Validate("// {{{ ((\nfn f() {}\n/* ]]] */\n"); diag != nil {
		t.Errorf("comment brackets leaked into validation: %+v", diag)
	}
}
