package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS lyrics (
	position INTEGER PRIMARY KEY,
	idx      TEXT NOT NULL DEFAULT '',
	artist   TEXT NOT NULL,
	album    TEXT NOT NULL,
	title    TEXT NOT NULL,
	lyrics   TEXT,
	status   TEXT NOT NULL DEFAULT 'pending'
)`

// SQLiteStore keeps the table in a SQLite database. Pending rows have NULL
// lyrics, so an intentional empty string stays distinguishable.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the database at path
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (*Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, artist, album, title, lyrics, status FROM lyrics ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying lyrics: %w", err)
	}
	defer rows.Close()

	table := &Table{}
	for rows.Next() {
		var (
			row    Row
			lyrics sql.NullString
			status string
		)
		if err := rows.Scan(&row.Index, &row.Artist, &row.Album, &row.Title, &lyrics, &status); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row.Lyrics = lyrics.String
		row.Status = ParseStatus(status)
		if !lyrics.Valid {
			row.Status = StatusPending
		}
		if row.Index != "" {
			table.HasIndex = true
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return table, nil
}

// Save replaces the stored table in a single transaction
func (s *SQLiteStore) Save(ctx context.Context, table *Table) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lyrics`); err != nil {
			return fmt.Errorf("clearing lyrics: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO lyrics (position, idx, artist, album, title, lyrics, status) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for i, row := range table.Rows {
			var lyrics sql.NullString
			if !row.Pending() {
				lyrics = sql.NullString{String: row.Lyrics, Valid: true}
			}
			status := row.Status
			if status == "" {
				status = StatusPending
			}
			if _, err := stmt.ExecContext(ctx, i, row.Index, row.Artist, row.Album, row.Title, lyrics, string(status)); err != nil {
				return fmt.Errorf("inserting row %d: %w", i, err)
			}
		}
		return nil
	})
}

// withTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
