package wgsl

import (
	"fmt"

	"github.com/shaderdesk/shaderdesk/playground"
)

type bracketPos struct {
	ch  byte
	row int
	col int
}

// Validate runs the front end's structural checks over a compiled unit and
// returns a diagnostic positioned in unit coordinates, or nil. It catches
// the mistakes the editor most wants fast feedback on — unbalanced
// brackets and unterminated block comments — and leaves real semantic
// validation to the engine.
func Validate(unit string) *playground.Diagnostic {
	var stack []bracketPos
	row, col := 1, 1

	match := map[byte]byte{'}': '{', ')': '(', ']': '['}

	i := 0
	for i < len(unit) {
		ch := unit[i]

		// Comments are opaque to bracket matching.
		if ch == '/' && i+1 < len(unit) && unit[i+1] == '/' {
			for i < len(unit) && unit[i] != '\n' {
				i++
			}
			continue
		}
		if ch == '/' && i+1 < len(unit) && unit[i+1] == '*' {
			openRow, openCol := row, col
			i += 2
			col += 2
			for {
				if i >= len(unit) {
					return &playground.Diagnostic{
						Summary: "unterminated block comment",
						Row:     openRow,
						Col:     openCol,
					}
				}
				if unit[i] == '*' && i+1 < len(unit) && unit[i+1] == '/' {
					i += 2
					col += 2
					break
				}
				if unit[i] == '\n' {
					row++
					col = 1
				} else {
					col++
				}
				i++
			}
			continue
		}

		switch ch {
		case '{', '(', '[':
			stack = append(stack, bracketPos{ch: ch, row: row, col: col})
		case '}', ')', ']':
			if len(stack) == 0 {
				return &playground.Diagnostic{
					Summary: fmt.Sprintf("unexpected %q", string(ch)),
					Row:     row,
					Col:     col,
				}
			}
			top := stack[len(stack)-1]
			if top.ch != match[ch] {
				return &playground.Diagnostic{
					Summary: fmt.Sprintf("mismatched %q: open %q at %d:%d", string(ch), string(top.ch), top.row, top.col),
					Row:     row,
					Col:     col,
				}
			}
			stack = stack[:len(stack)-1]
		case '\n':
			row++
			col = 1
			i++
			continue
		}

		col++
		i++
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return &playground.Diagnostic{
			Summary: fmt.Sprintf("unclosed %q", string(top.ch)),
			Row:     top.row,
			Col:     top.col,
		}
	}
	return nil
}
