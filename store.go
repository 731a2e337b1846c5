package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// TableStore loads and persists the lyrics table
type TableStore interface {
	Load(ctx context.Context) (*Table, error)
	Save(ctx context.Context, table *Table) error
	Close() error
}

// OpenStore picks the store implementation from the table path extension
func OpenStore(path, encoding string) (TableStore, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLiteStore(path)
	default:
		return &CSVStore{Path: path, Encoding: encoding}, nil
	}
}

var tableColumns = []string{"artist", "album", "title", "lyrics", "status"}

// CSVStore keeps the table in a delimited file. A leading unnamed index
// column, as written by pandas, is kept on save.
type CSVStore struct {
	Path     string
	Encoding string
}

func (s *CSVStore) Close() error {
	return nil
}

// Load reads the table. A missing file is an error: seed the table first.
func (s *CSVStore) Load(ctx context.Context) (*Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening table %s: %w", s.Path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.Encoding == "latin1" {
		r = charmap.ISO8859_1.NewDecoder().Reader(f)
	}

	table, err := ReadTableCSV(r)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", s.Path, err)
	}
	return table, nil
}

// Save writes the table atomically, always as UTF-8
func (s *CSVStore) Save(ctx context.Context, table *Table) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".lyrics-*.csv")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteTableCSV(tmp, table); err != nil {
		tmp.Close()
		return fmt.Errorf("writing table: %w", err)
	}
	if err := tmp.Chmod(tableFileMode(s.Path)); err != nil {
		tmp.Close()
		return fmt.Errorf("setting table permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.Path, err)
	}
	return nil
}

// tableFileMode returns the permissions of the existing table, or 0644
func tableFileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}

// ReadTableCSV parses a table with at least artist, album, title and
// lyrics columns. Without a status column, rows with empty lyrics are
// pending and the others found.
func ReadTableCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	table := &Table{HasIndex: len(header) > 0 && strings.TrimSpace(header[0]) == ""}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			columns[name] = i
		}
	}
	for _, name := range tableColumns[:4] {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing %q column", name)
		}
	}
	statusCol, hasStatus := columns["status"]

	table.Rows = make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := Row{
			Artist: rec[columns["artist"]],
			Album:  rec[columns["album"]],
			Title:  rec[columns["title"]],
			Lyrics: rec[columns["lyrics"]],
		}
		if table.HasIndex {
			row.Index = rec[0]
		}

		var status string
		if hasStatus {
			status = strings.TrimSpace(rec[statusCol])
		}
		switch {
		case status != "":
			row.Status = ParseStatus(status)
		case row.Lyrics == "":
			row.Status = StatusPending
		default:
			row.Status = StatusFound
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// WriteTableCSV writes the table with a status column and \n line endings
func WriteTableCSV(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)

	header := tableColumns
	if table.HasIndex {
		header = append([]string{""}, tableColumns...)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		status := row.Status
		if status == "" {
			status = StatusPending
		}
		rec := []string{row.Artist, row.Album, row.Title, row.Lyrics, string(status)}
		if table.HasIndex {
			index := row.Index
			if index == "" {
				index = strconv.Itoa(i)
			}
			rec = append([]string{index}, rec...)
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
