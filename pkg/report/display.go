package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SourceExcerpt returns the source lines covered by start..end with a line
// number gutter and a caret underline beneath the covered columns.
func SourceExcerpt(start, end *Position) string {
	if start == nil {
		return ""
	}
	if end == nil || end.Line < start.Line {
		end = start
	}

	all := strings.Split(start.Source, "\n")
	if start.Line >= len(all) {
		return ""
	}
	lastLine := end.Line
	if lastLine >= len(all) {
		lastLine = len(all) - 1
	}

	var lines [][]rune
	for ln := start.Line; ln <= lastLine; ln++ {
		lines = append(lines, []rune(strings.ReplaceAll(all[ln], "\t", " ")))
	}

	// Trim the common indentation so deeply nested code stays readable.
	minIndent := math.MaxInt
	for _, line := range lines {
		indent := 0
		for _, c := range line {
			if c != ' ' {
				break
			}
			indent++
		}
		if indent < len(line) && indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == math.MaxInt {
		minIndent = 0
	}

	gutter := len(strconv.Itoa(lastLine + 1))
	lineNumFmt := "%-" + strconv.Itoa(gutter) + "d | "

	var b strings.Builder
	for i, line := range lines {
		text := line
		if len(text) >= minIndent {
			text = text[minIndent:]
		}
		fmt.Fprintf(&b, lineNumFmt, start.Line+i+1)
		b.WriteString(string(text))
		b.WriteByte('\n')

		prefix := 0
		if i == 0 {
			prefix = start.Column - minIndent
		}
		stop := len(line)
		if i == len(lines)-1 {
			stop = end.Column
		}
		width := stop - minIndent - prefix
		if prefix < 0 {
			prefix = 0
		}
		if width < 1 {
			width = 1
		}
		b.WriteString(strings.Repeat(" ", gutter))
		b.WriteString(" | ")
		b.WriteString(strings.Repeat(" ", prefix))
		b.WriteString(strings.Repeat("^", width))
		b.WriteByte('\n')
	}
	return b.String()
}
