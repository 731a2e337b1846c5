package main

import (
	"slices"
	"strings"
	"testing"
)

func TestExpandRepetition(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"x before count", "Hello <i>[x3]</i>", "Hello Hello Hello \n"},
		{"x after count", "Hello <i>[3x]</i>", "Hello Hello Hello \n"},
		{"bare count", "Hey <i>[2]</i>", "Hey Hey \n"},
		{"multi word content", "You do it to yourself <i>[x2]</i>", "You do it to yourself You do it to yourself \n"},
		{"no annotation", "Just a line", "Just a line\n"},
		{"annotation only", "<i>[x3]</i>", "<i>[x3]</i>\n"},
		{"annotation not at end", "Hello <i>[x3]</i> there", "Hello <i>[x3]</i> there\n"},
		{"missing space", "Hello<i>[x3]</i>", "Hello<i>[x3]</i>\n"},
		{"zero count", "Gone <i>[x0]</i>", "\n"},
		{"mixed lines", "One\nTwo <i>[x2]</i>\nThree", "One\nTwo Two \nThree\n"},
		{"blank lines kept", "A\n\nB", "A\n\nB\n"},
		{"trailing newline not doubled", "A\nB\n", "A\nB\n"},
		{"no-break space", "Hello\u00a0<i>[x2]</i>", "Hello Hello \n"},
		{"crlf endings", "A <i>[x2]</i>\r\nB\r\n", "A A \nB\n"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpandRepetition(tt.input)
			if result != tt.expected {
				t.Errorf("ExpandRepetition(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExpandRepetitionLineCount(t *testing.T) {
	input := "Intro\nChorus <i>[x4]</i>\n\nVerse line\nOutro <i>[2x]</i>"

	result := ExpandRepetition(input)

	inputLines := strings.Split(input, "\n")
	if got := strings.Count(result, "\n"); got != len(inputLines) {
		t.Fatalf("output has %d lines, want %d", got, len(inputLines))
	}
	if !strings.HasSuffix(result, "\n") {
		t.Error("output should end with a newline")
	}

	outputLines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
	for i, line := range inputLines {
		if !strings.Contains(line, "<i>[") && outputLines[i] != line {
			t.Errorf("line %d = %q, want %q", i, outputLines[i], line)
		}
	}
}

func TestExpandRepetitionHugeCount(t *testing.T) {
	tests := []string{
		"Hello <i>[x9223372036854775807]</i>",
		"la <i>[x5000000000000000000]</i>",
		"la <i>[x1000000000]</i>",
		"la <i>[x99999999999999999999]</i>",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if got := ExpandRepetition(input); got != input+"\n" {
				t.Errorf("ExpandRepetition(%q) = %q, want line unchanged", input, got)
			}
		})
	}

	table := &Table{Rows: []Row{
		{Title: "A", Lyrics: "la <i>[x5000000000000000000]</i>\nna <i>[x2]</i>", Status: StatusFound},
	}}
	out := ExpandTable(table)
	if want := "la <i>[x5000000000000000000]</i>\nna na \n"; out.Rows[0].Lyrics != want {
		t.Errorf("ExpandTable() lyrics = %q, want %q", out.Rows[0].Lyrics, want)
	}
}

func TestExpandLinesStops(t *testing.T) {
	var got []string
	for line := range ExpandLines("a <i>[x2]</i>\nb\nc") {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}

	want := []string{"a a ", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("ExpandLines() = %q, want %q", got, want)
	}
}

func TestExpandRepetitionIdempotentOnPlainText(t *testing.T) {
	once := ExpandRepetition("Creep <i>[x2]</i>\nWeirdo")
	twice := ExpandRepetition(once)
	if once != twice {
		t.Errorf("second pass changed output: %q -> %q", once, twice)
	}
}
