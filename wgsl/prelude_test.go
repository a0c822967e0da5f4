package wgsl

import (
	"strings"
	"testing"
)

func TestBuildPrelude_CustomStructCarriesNames(t *testing.T) {
	p := BuildPrelude([]string{"radius", "speed"}, false)

	for _, want := range []string{"radius: float,", "speed: float,", "struct Custom {"} {
		if !strings.Contains(p, want) {
			t.Errorf("prelude missing %q", want)
		}
	}
}

func TestBuildPrelude_EmptyNamesGetDummyField(t *testing.T) {
	p := BuildPrelude(nil, false)
	if !strings.Contains(p, "_dummy: float,") {
		t.Error("empty Custom struct not padded with dummy field")
	}
}

func TestBuildPrelude_PassFormatSwitch(t *testing.T) {
	if p := BuildPrelude(nil, false); !strings.Contains(p, "texture_storage_2d_array<rgba16float,write>") {
		t.Error("16-bit pass format missing")
	}
	if p := BuildPrelude(nil, true); !strings.Contains(p, "texture_storage_2d_array<rgba32float,write>") {
		t.Error("32-bit pass format missing")
	}
}

func TestBuildPrelude_FixedBindingsPresent(t *testing.T) {
	p := BuildPrelude(nil, false)
	for _, want := range []string{
		"var screen:",
		"atomic_storage",
		"var pass_in:",
		"var channel0:",
		"var channel1:",
		"fn keyDown(",
		"fn assert(",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prelude missing %q", want)
		}
	}
}

func TestBuildPrelude_LineCountGrowsWithParams(t *testing.T) {
	base := countLines(BuildPrelude([]string{"a"}, false))
	more := countLines(BuildPrelude([]string{"a", "b", "c"}, false))
	if more != base+2 {
		t.Errorf("prelude grew by %d lines for two extra params, want 2", more-base)
	}
}
