package wgsl

import (
	"strings"
	"testing"
)

func TestPreprocess_ShortPragma(t *testing.T) {
	processed, params, diag := Preprocess("#param speed 1.5\nfn f() {}\n")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %+v", diag)
	}
	decl, ok := params["speed"]
	if !ok {
		t.Fatal("speed pragma not collected")
	}
	if decl.Default != 1.5 || decl.Min != 0 || decl.Max != 1 {
		t.Errorf("speed decl = %+v, want default 1.5 over [0 1]", decl)
	}
	if strings.Contains(processed, "#param") {
		t.Error("pragma line not blanked")
	}
}

func TestPreprocess_FullPragma(t *testing.T) {
	_, params, diag := Preprocess("#param radius 0.5 -1.0 2.0\n")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %+v", diag)
	}
	decl := params["radius"]
	if decl.Default != 0.5 || decl.Min != -1 || decl.Max != 2 {
		t.Errorf("radius decl = %+v, want 0.5 over [-1 2]", decl)
	}
}

func TestPreprocess_BlankingPreservesRows(t *testing.T) {
	source := "fn a() {}\n  #param radius 1.0\nfn b() {}\n"
	processed, _, diag := Preprocess(source)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %+v", diag)
	}
	if countLines(processed) != countLines(source) {
		t.Errorf("line count changed: %d -> %d", countLines(source), countLines(processed))
	}
	if lines := strings.Split(processed, "\n"); lines[2] != "fn b() {}" {
		t.Errorf("row 3 = %q, want fn b() {} in place", lines[2])
	}
}

func TestPreprocess_WrongFieldCount(t *testing.T) {
	_, _, diag := Preprocess("fn a() {}\n#param radius 1.0 2.0\n")
	if diag == nil {
		t.Fatal("four-field pragma accepted")
	}
	if diag.Row != 2 || diag.Col != 1 {
		t.Errorf("position = %d:%d, want 2:1", diag.Row, diag.Col)
	}
}

func TestPreprocess_NonNumericValue(t *testing.T) {
	_, _, diag := Preprocess("  #param radius fast\n")
	if diag == nil {
		t.Fatal("non-numeric pragma accepted")
	}
	if diag.Col != 3 {
		t.Errorf("col = %d, want 3 (first non-blank character)", diag.Col)
	}
	if !strings.Contains(diag.Summary, `"fast"`) {
		t.Errorf("summary = %q, want the offending token quoted", diag.Summary)
	}
}

func TestPreprocess_MinExceedsMax(t *testing.T) {
	_, _, diag := Preprocess("#param radius 0.5 2.0 1.0\n")
	if diag == nil {
		t.Fatal("inverted range accepted")
	}
	if !strings.Contains(diag.Summary, "exceeds max") {
		t.Errorf("summary = %q, want a range message", diag.Summary)
	}
}
