package jdast

import "sort"

// LineInfo holds the byte range of one source line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of content).
	EndOffset int
}

// LineIndex maps token offsets back to source lines, used when reporting
// parse errors.
type LineIndex struct {
	Content []byte
	Lines   []LineInfo
}

// NewLineIndex builds the line table for content.
func NewLineIndex(content []byte) *LineIndex {
	return &LineIndex{Content: content, Lines: BuildLines(content)}
}

// BuildLines constructs line metadata from content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
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

	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Returns (0, 0) if the offset is negative
// or the content is empty.
func (l *LineIndex) LineAt(offset int) (int, int) {
	if offset < 0 || len(l.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(l.Content) {
		last := l.Lines[len(l.Lines)-1]
		return len(l.Lines), offset - last.StartOffset + 1
	}

	lineIdx := sort.Search(len(l.Lines), func(i int) bool {
		return l.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(l.Lines) {
		lineIdx = len(l.Lines) - 1
	}

	return lineIdx + 1, offset - l.Lines[lineIdx].StartOffset + 1
}

// LineContent returns a 1-based line without its newline, or "" when out of range.
func (l *LineIndex) LineContent(line int) string {
	if line < 1 || line > len(l.Lines) {
		return ""
	}
	info := l.Lines[line-1]
	return string(l.Content[info.StartOffset:info.NewlineStart])
}
