package playground

import "strings"

// Severity of an editor marker.
type Severity int

const (
	// SeverityError marks a compile error. The mapper only produces
	// errors today; the type keeps the editor boundary honest.
	SeverityError Severity = iota
)

// Marker is an editor-anchored range annotation conveying a diagnostic's
// location and message. Rows and columns are 1-based; EndCol follows the
// editor's max-column convention (one past the last character).
type Marker struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
	Message  string
	Severity Severity
}

// Document provides line-indexed access to the text markers anchor to.
// Rows are 1-based.
type Document interface {
	LineCount() int
	Line(row int) string
}

// LineDocument is a Document over a plain string, split once.
type LineDocument []string

// NewLineDocument splits text into a LineDocument.
func NewLineDocument(text string) LineDocument {
	return LineDocument(strings.Split(text, "\n"))
}

func (d LineDocument) LineCount() int {
	return len(d)
}

func (d LineDocument) Line(row int) string {
	return d[row-1]
}

// lineMaxColumn is the editor convention: one past the last character.
func lineMaxColumn(doc Document, row int) int {
	n := 1
	for range doc.Line(row) {
		n++
	}
	return n
}

// firstNonWhitespaceColumn returns the 1-based column of the first
// non-blank character, or 1 for an all-blank line.
func firstNonWhitespaceColumn(line string) int {
	col := 1
	for _, r := range line {
		if r != ' ' && r != '\t' {
			return col
		}
		col++
	}
	return 1
}

// MapToMarkers converts a compiler diagnostic into editor marker ranges.
// It is a pure function of its inputs, safe to call repeatedly for the
// same diagnostic.
//
// Some compilers report a fault one token past the true end of a line;
// when the column sits exactly at the row's max column the marker moves to
// the following row. A row the document cannot represent (a position in an
// included file, or past the end) falls back to one marker spanning the
// whole document, so a diagnostic is never silently dropped.
func MapToMarkers(diag Diagnostic, doc Document) []Marker {
	if diag.Success {
		return nil
	}

	row := diag.Row
	if row >= 1 && row <= doc.LineCount() && diag.Col == lineMaxColumn(doc, row) {
		row++
	}

	if row >= 1 && row < doc.LineCount() {
		return []Marker{{
			StartRow: row,
			StartCol: firstNonWhitespaceColumn(doc.Line(row)),
			EndRow:   row,
			EndCol:   lineMaxColumn(doc, row),
			Message:  diag.Summary,
			Severity: SeverityError,
		}}
	}

	last := doc.LineCount()
	return []Marker{{
		StartRow: 1,
		StartCol: 1,
		EndRow:   last,
		EndCol:   lineMaxColumn(doc, last),
		Message:  diag.Summary,
		Severity: SeverityError,
	}}
}
