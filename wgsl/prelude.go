// Package wgsl is an in-process WGSL front end for the playground. It
// synthesizes the playground prelude, extracts dispatchable entry points
// and custom uniform declarations from user source, and reports syntax
// problems as diagnostics positioned in the user's own coordinates.
//
// It deliberately stops short of full WGSL validation: the external engine
// remains the authority on whether a shader actually compiles. The front
// end exists so the editor gets fast feedback and so the playground can
// run offline.
package wgsl

import (
	"fmt"
	"strings"
)

const (
	// MaxCustomParams bounds the Custom uniform struct.
	MaxCustomParams = 16

	// NumKeycodes sizes the keyboard bitfield uniform.
	NumKeycodes = 256

	// NumAssertCounters sizes the assert counter storage buffer.
	NumAssertCounters = 10
)

// BuildPrelude generates the WGSL prelude prepended to every user shader:
// scalar/vector type aliases, the Time/Mouse/Custom uniform structs, the
// fixed binding table, and the keyDown/assert helpers. names supplies the
// fields of the Custom struct; an empty list gets a dummy field so the
// struct is never empty.
func BuildPrelude(names []string, passF32 bool) string {
	var b strings.Builder

	for _, alias := range [][2]string{{"int", "i32"}, {"uint", "u32"}, {"float", "f32"}} {
		fmt.Fprintf(&b, "alias %s = %s;\n", alias[0], alias[1])
		for _, n := range []int{2, 3, 4} {
			fmt.Fprintf(&b, "alias %s%d = vec%d<%s>;\n", alias[0], n, n, alias[1])
		}
	}

	b.WriteString("struct Time { frame: uint, elapsed: float }\n")
	b.WriteString("struct Mouse { pos: uint2, click: int }\n")

	b.WriteString("struct Custom {\n")
	if len(names) == 0 {
		names = []string{"_dummy"}
	}
	for _, name := range names {
		fmt.Fprintf(&b, "    %s: float,\n", name)
	}
	b.WriteString("}\n")

	passFormat := "rgba16float"
	if passF32 {
		passFormat = "rgba32float"
	}

	b.WriteString("@group(0) @binding(0) var<uniform> custom: Custom;\n")
	b.WriteString("@group(0) @binding(1) var<uniform> time: Time;\n")
	b.WriteString("@group(0) @binding(2) var<uniform> mouse: Mouse;\n")
	b.WriteString("@group(0) @binding(3) var<uniform> _keyboard: array<vec4<u32>,2>;\n")
	b.WriteString("@group(0) @binding(4) var screen: texture_storage_2d<rgba16float,write>;\n")
	b.WriteString("@group(0) @binding(5) var<storage,read_write> atomic_storage: array<atomic<i32>>;\n")
	b.WriteString("@group(0) @binding(6) var pass_in: texture_2d_array<f32>;\n")
	fmt.Fprintf(&b, "@group(0) @binding(7) var pass_out: texture_storage_2d_array<%s,write>;\n", passFormat)
	b.WriteString("@group(0) @binding(8) var<storage,read_write> _assert_counts: array<atomic<u32>>;\n")
	b.WriteString("@group(0) @binding(10) var channel0: texture_2d<f32>;\n")
	b.WriteString("@group(0) @binding(11) var channel1: texture_2d<f32>;\n")
	b.WriteString("@group(0) @binding(20) var nearest: sampler;\n")
	b.WriteString("@group(0) @binding(21) var bilinear: sampler;\n")
	b.WriteString("@group(0) @binding(22) var trilinear: sampler;\n")

	b.WriteString("fn keyDown(keycode: uint) -> bool {\n")
	b.WriteString("    return ((_keyboard[keycode / 128u][(keycode % 128u) / 32u] >> (keycode % 32u)) & 1u) == 1u;\n")
	b.WriteString("}\n")
	b.WriteString("fn assert(index: int, success: bool) {\n")
	b.WriteString("    if (!success) { atomicAdd(&_assert_counts[index], 1u); }\n")
	b.WriteString("}\n")

	return b.String()
}

// countLines reports how many lines s occupies; the prelude ends with a
// newline, so this is also the row offset of the first user line minus one.
func countLines(s string) int {
	return strings.Count(s, "\n")
}
