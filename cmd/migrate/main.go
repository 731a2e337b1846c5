package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 3 {
		logrus.Fatal("Usage: migrate <add-status|remove-duplicates> <table.csv>")
	}

	command := os.Args[1]
	tablePath := os.Args[2]

	switch command {
	case "add-status":
		if err := addStatus(tablePath); err != nil {
			logrus.Fatal(err)
		}
	case "remove-duplicates":
		if err := removeDuplicates(tablePath, os.Stdin, os.Stdout); err != nil {
			logrus.Fatal(err)
		}
	default:
		logrus.Fatalf("Unknown command %q", command)
	}
}

// addStatus appends a status column to a table written before statuses were
// tracked. Rows with lyrics become found, the rest pending.
func addStatus(tablePath string) error {
	records, err := readRecords(tablePath)
	if err != nil {
		return err
	}

	header := records[0]
	if slices.Contains(header, "status") {
		logrus.Infof("%s already has a status column, skipping", tablePath)
		return nil
	}

	lyricsCol := slices.Index(header, "lyrics")
	if lyricsCol < 0 {
		return fmt.Errorf("%s: no lyrics column", tablePath)
	}

	records[0] = append(header, "status")
	pending := 0
	for i := 1; i < len(records); i++ {
		status := "found"
		if records[i][lyricsCol] == "" {
			status = "pending"
			pending++
		}
		records[i] = append(records[i], status)
	}

	logrus.WithFields(logrus.Fields{
		"rows":    len(records) - 1,
		"pending": pending,
	}).Infof("Adding status column to %s", tablePath)
	return writeRecords(tablePath, records)
}

// removeDuplicates finds rows sharing artist, album and title and asks before
// dropping every copy after the first.
func removeDuplicates(tablePath string, in io.Reader, out io.Writer) error {
	records, err := readRecords(tablePath)
	if err != nil {
		return err
	}

	header := records[0]
	var keyCols []int
	for _, name := range []string{"artist", "album", "title"} {
		col := slices.Index(header, name)
		if col < 0 {
			return fmt.Errorf("%s: no %s column", tablePath, name)
		}
		keyCols = append(keyCols, col)
	}

	var order []string
	keyToRows := make(map[string][]int)
	for i := 1; i < len(records); i++ {
		parts := make([]string, len(keyCols))
		for j, col := range keyCols {
			parts[j] = records[i][col]
		}
		key := strings.Join(parts, " / ")
		if _, ok := keyToRows[key]; !ok {
			order = append(order, key)
		}
		keyToRows[key] = append(keyToRows[key], i)
	}

	reader := bufio.NewReader(in)
	drop := make(map[int]bool)
	for _, key := range order {
		rows := keyToRows[key]
		if len(rows) <= 1 {
			continue
		}

		fmt.Fprintf(out, "\nFound %d copies of %s:\n", len(rows), key)
		for i, row := range rows {
			if i == 0 {
				fmt.Fprintf(out, "  KEEP: line %d\n", row+1)
				continue
			}

			if confirmDelete(reader, out, row+1) {
				drop[row] = true
				fmt.Fprintf(out, "  REMOVED: line %d\n", row+1)
			} else {
				fmt.Fprintf(out, "  SKIP: line %d\n", row+1)
			}
		}
	}

	if len(drop) == 0 {
		fmt.Fprintln(out, "\nNo rows removed")
		return nil
	}

	kept := records[:1]
	for i := 1; i < len(records); i++ {
		if !drop[i] {
			kept = append(kept, records[i])
		}
	}

	fmt.Fprintf(out, "\nRemoved %d duplicate rows\n", len(drop))
	return writeRecords(tablePath, kept)
}

func confirmDelete(reader *bufio.Reader, out io.Writer, line int) bool {
	for {
		fmt.Fprintf(out, "  DELETE line %d? [y/N]: ", line)
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			if err != io.EOF {
				logrus.Errorf("Error reading input: %v", err)
			}
			return false
		}
		response := strings.ToLower(strings.TrimSpace(input))
		switch response {
		case "y", "yes":
			return true
		case "", "n", "no":
			return false
		default:
			fmt.Fprintln(out, "  Please enter y or n.")
		}
	}
}

func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %s is empty", path)
	}
	return records, nil
}

func writeRecords(path string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".migrate-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("writing table: %w", err)
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("setting table permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
