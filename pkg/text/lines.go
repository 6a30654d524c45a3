package text

import "sort"

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For a last line without a newline, this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of text).
	EndOffset int
}

// Lines is a line table over a source text.
type Lines struct {
	content []byte
	lines   []LineInfo
}

// NewLines builds the line table for content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func NewLines(content []byte) *Lines {
	return &Lines{content: content, lines: buildLines(content)}
}

func buildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// Last line, possibly without a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// Count returns the number of lines.
func (l *Lines) Count() int {
	return len(l.lines)
}

// Line returns the metadata of a 1-based line number.
func (l *Lines) Line(line int) (LineInfo, bool) {
	if line < 1 || line > len(l.lines) {
		return LineInfo{}, false
	}
	return l.lines[line-1], true
}

// PositionAt converts a byte offset to a 1-based line and column.
// Column counts bytes, not runes. Returns the zero Position if the offset
// is out of range.
func (l *Lines) PositionAt(offset int) Position {
	if offset < 0 || len(l.lines) == 0 || offset > len(l.content) {
		return Position{}
	}

	if offset == len(l.content) {
		last := l.lines[len(l.lines)-1]
		return Position{Line: len(l.lines), Column: offset - last.StartOffset + 1}
	}

	lineIdx := sort.Search(len(l.lines), func(i int) bool {
		return l.lines[i].EndOffset > offset
	})
	if lineIdx >= len(l.lines) {
		lineIdx = len(l.lines) - 1
	}

	return Position{Line: lineIdx + 1, Column: offset - l.lines[lineIdx].StartOffset + 1}
}

// Offset converts a 1-based line and column to a byte offset.
func (l *Lines) Offset(pos Position) (int, bool) {
	info, ok := l.Line(pos.Line)
	if !ok || pos.Column < 1 {
		return 0, false
	}

	offset := info.StartOffset + pos.Column - 1
	if offset > info.EndOffset {
		return 0, false
	}
	return offset, true
}

// Content returns the text of a 1-based line, excluding the newline.
func (l *Lines) Content(line int) []byte {
	info, ok := l.Line(line)
	if !ok {
		return nil
	}
	return l.content[info.StartOffset:info.NewlineStart]
}
