package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lyrics.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readTable(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestAddStatus(t *testing.T) {
	path := writeTable(t, ",artist,album,title,lyrics\n"+
		"0,Radiohead,Pablo Honey,Creep,words\n"+
		"1,Radiohead,Pablo Honey,You,\n")

	if err := addStatus(path); err != nil {
		t.Fatalf("addStatus() error = %v", err)
	}

	expected := ",artist,album,title,lyrics,status\n" +
		"0,Radiohead,Pablo Honey,Creep,words,found\n" +
		"1,Radiohead,Pablo Honey,You,,pending\n"
	if got := readTable(t, path); got != expected {
		t.Errorf("table = %q, want %q", got, expected)
	}

	// Running again leaves the table alone
	if err := addStatus(path); err != nil {
		t.Fatalf("second addStatus() error = %v", err)
	}
	if got := readTable(t, path); got != expected {
		t.Errorf("table changed on second run: %q", got)
	}
}

func TestAddStatusKeepsPermissions(t *testing.T) {
	path := writeTable(t, "artist,album,title,lyrics\nRadiohead,Kid A,Idioteque,\n")
	if err := os.Chmod(path, 0644); err != nil {
		t.Fatal(err)
	}

	if err := addStatus(path); err != nil {
		t.Fatalf("addStatus() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0644 {
		t.Errorf("mode = %v, want %v", got, os.FileMode(0644))
	}
}

func TestAddStatusNoLyricsColumn(t *testing.T) {
	path := writeTable(t, "artist,album,title\nRadiohead,Kid A,Idioteque\n")
	if err := addStatus(path); err == nil {
		t.Error("addStatus() expected error for table without lyrics column")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	path := writeTable(t, "artist,album,title,lyrics\n"+
		"Radiohead,Kid A,Idioteque,a\n"+
		"Radiohead,Kid A,Idioteque,b\n"+
		"Radiohead,Kid A,Idioteque,c\n"+
		"Radiohead,Amnesiac,Knives Out,d\n")

	var out bytes.Buffer
	// Delete the first copy, keep the second
	if err := removeDuplicates(path, strings.NewReader("y\nn\n"), &out); err != nil {
		t.Fatalf("removeDuplicates() error = %v", err)
	}

	expected := "artist,album,title,lyrics\n" +
		"Radiohead,Kid A,Idioteque,a\n" +
		"Radiohead,Kid A,Idioteque,c\n" +
		"Radiohead,Amnesiac,Knives Out,d\n"
	if got := readTable(t, path); got != expected {
		t.Errorf("table = %q, want %q", got, expected)
	}
	if !strings.Contains(out.String(), "Removed 1 duplicate rows") {
		t.Errorf("output missing summary: %q", out.String())
	}
}

func TestRemoveDuplicatesNoInput(t *testing.T) {
	content := "artist,album,title,lyrics\n" +
		"Radiohead,Kid A,Idioteque,a\n" +
		"Radiohead,Kid A,Idioteque,b\n"
	path := writeTable(t, content)

	var out bytes.Buffer
	if err := removeDuplicates(path, strings.NewReader(""), &out); err != nil {
		t.Fatalf("removeDuplicates() error = %v", err)
	}
	if got := readTable(t, path); got != content {
		t.Errorf("table changed without confirmation: %q", got)
	}
}
