package main

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// Matches shorthand repeats such as "Blah <i>[x10]</i>" or "Blah <i>[3x]</i>"
var repetitionRe = regexp.MustCompile(`^(?P<content>.+)[\s\x{00A0}]<i>\[x?(?P<num>\d+)x?\]</i>$`)

// maxExpandedLen caps the size of one expanded line
const maxExpandedLen = 1 << 16

// ExpandRepetition rewrites every annotated line into its repeated form.
// Every output line, including the last, ends with a newline.
func ExpandRepetition(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for line := range ExpandLines(text) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// ExpandLines yields one expanded line, without terminator, per input line
func ExpandLines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range splitLines(text) {
			if !yield(expandLine(line)) {
				return
			}
		}
	}
}

func expandLine(line string) string {
	m := repetitionRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}

	content := m[repetitionRe.SubexpIndex("content")]
	num, err := strconv.Atoi(m[repetitionRe.SubexpIndex("num")])
	if err != nil {
		return line
	}

	unit := content + " "
	if num > maxExpandedLen/len(unit) {
		return line
	}
	return strings.Repeat(unit, num)
}

// splitLines splits on \n, \r\n and \r. A trailing terminator does not
// produce an extra empty line.
func splitLines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(text) > 0 {
			i := strings.IndexAny(text, "\r\n")
			if i == -1 {
				yield(text)
				return
			}

			next := i + 1
			if text[i] == '\r' && next < len(text) && text[next] == '\n' {
				next++
			}
			if !yield(text[:i]) {
				return
			}
			text = text[next:]
		}
	}
}
