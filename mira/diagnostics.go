package mira

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a 1-based line/column location in module source text.
type Position struct {
	Line   int
	Column int
}

// ParseError reports module source that could not be scanned, with enough
// context to point a script author at the offending line.
type ParseError struct {
	Path   string
	Pos    Position
	Source string
	Msg    string
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "<source>"
	}
	msg := fmt.Sprintf("%s: %s at line %d, column %d", where, e.Msg, e.Pos.Line, e.Pos.Column)
	if frame := codeFrame(e.Source, e.Pos); frame != "" {
		msg += "\n" + frame
	}
	return msg
}

// codeFrame renders the offending source line with a caret under the column.
func codeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := lines[pos.Line-1]
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}
