// processor.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// Fetcher looks up the lyrics of a single song
type Fetcher interface {
	FetchLyrics(ctx context.Context, artist, title string) *LyricsResult
}

// FillOptions selects which rows a fill pass visits and how titles are built
type FillOptions struct {
	// Album restricts the pass to one album
	Album string
	// Refetch visits selected rows even when they are already populated
	Refetch bool
	// StripParenthetical queries "Title" for "Title (Live)"
	StripParenthetical bool
	// AliasOnly marks rows without an alias as skipped instead of querying them
	AliasOnly bool
}

// LyricsProcessor handles the table fill and expand passes
type LyricsProcessor struct {
	fetcher         Fetcher
	store           TableStore
	aliases         AliasTable
	delay           time.Duration
	checkpointEvery int
	wait            func(ctx context.Context, d time.Duration) error
}

// NewLyricsProcessor creates a processor for the configured site and table
func NewLyricsProcessor(settings *Settings, store TableStore) (*LyricsProcessor, error) {
	fetcher, err := NewLyricsFetcher(settings.Site)
	if err != nil {
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	return &LyricsProcessor{
		fetcher:         fetcher,
		store:           store,
		aliases:         settings.AliasTable(),
		delay:           settings.Delay,
		checkpointEvery: settings.CheckpointEvery,
		wait:            countdown,
	}, nil
}

// Fill looks up lyrics for the selected rows and returns the updated table.
// The input table is not modified. The table is saved every checkpointEvery
// processed rows and once at the end, also when ctx is cancelled.
func (p *LyricsProcessor) Fill(ctx context.Context, table *Table, opts FillOptions) (*Table, []ProcessingResult, error) {
	out := table.Clone()
	selected := p.selectRows(out, opts)

	logrus.Infof("Processing %d of %d rows...", len(selected), len(out.Rows))

	var (
		results   []ProcessingResult
		requests  int
		processed int
		chars     int
		runErr    error
	)

	for n, i := range selected {
		row := &out.Rows[i]
		log := logrus.WithFields(logrus.Fields{"row": i, "album": row.Album, "title": row.Title})

		if opts.AliasOnly && !p.aliases.Has(row.Title) {
			row.Lyrics = ""
			row.Status = StatusSkipped
			results = append(results, ProcessingResult{Row: i, Title: row.Title, Status: StatusSkipped})
			log.Infof("[%d/%d] Skipped: no alias", n+1, len(selected))
		} else {
			if requests > 0 {
				logrus.Infof("Waiting %s...", p.delay)
				if err := p.wait(ctx, p.delay); err != nil {
					runErr = err
					break
				}
			}

			title := p.queryTitle(row.Title, opts)
			result := p.fetcher.FetchLyrics(ctx, row.Artist, title)
			requests++
			if ctx.Err() != nil {
				// Leave the in-flight row pending
				runErr = ctx.Err()
				break
			}

			row.Lyrics = ""
			if result.Found() {
				row.Lyrics = result.Text
				chars += len(result.Text)
			}
			row.Status = result.Status
			results = append(results, ProcessingResult{
				Row:    i,
				Title:  row.Title,
				URL:    result.URL,
				Status: result.Status,
				Error:  result.Err,
			})

			if result.Found() {
				log.Infof("[%d/%d] ✓ Found %s", n+1, len(selected), title)
			} else {
				log.Warnf("[%d/%d] ✗ %s: %s", n+1, len(selected), title, result.Status)
			}
		}

		processed++
		if p.store != nil && p.checkpointEvery > 0 && processed%p.checkpointEvery == 0 {
			if err := p.store.Save(context.WithoutCancel(ctx), out); err != nil {
				return out, results, fmt.Errorf("saving checkpoint: %w", err)
			}
			log.Debug("Checkpoint saved")
		}
	}

	if p.store != nil {
		if err := p.store.Save(context.WithoutCancel(ctx), out); err != nil {
			return out, results, fmt.Errorf("saving table: %w", err)
		}
	}

	logrus.Infof("Done. Processed: %d, Requests: %d, Lyrics: %s chars",
		processed, requests, humanize.Comma(int64(chars)))
	return out, results, runErr
}

// selectRows returns the indexes visited by a fill pass, in table order
func (p *LyricsProcessor) selectRows(table *Table, opts FillOptions) []int {
	var selected []int
	for i, row := range table.Rows {
		if opts.Album != "" && row.Album != opts.Album {
			continue
		}
		if !row.Pending() && !opts.Refetch {
			continue
		}
		selected = append(selected, i)
	}
	return selected
}

// queryTitle applies the alias table, then the parenthetical strip
func (p *LyricsProcessor) queryTitle(title string, opts FillOptions) string {
	if p.aliases.Has(title) {
		return p.aliases.ResolveTitle(title)
	}
	if opts.StripParenthetical {
		title, _, _ = strings.Cut(title, " (")
	}
	return title
}

// Expand applies ExpandRepetition to every populated row, then saves once
func (p *LyricsProcessor) Expand(ctx context.Context, table *Table) (*Table, error) {
	out := ExpandTable(table)
	if p.store != nil {
		if err := p.store.Save(ctx, out); err != nil {
			return out, fmt.Errorf("saving table: %w", err)
		}
	}
	return out, nil
}

// ExpandTable returns a copy of table with repetition shorthand expanded
func ExpandTable(table *Table) *Table {
	out := table.Clone()
	expanded := 0
	for i := range out.Rows {
		if out.Rows[i].Lyrics == "" {
			continue
		}
		out.Rows[i].Lyrics = ExpandRepetition(out.Rows[i].Lyrics)
		expanded++
	}
	logrus.Infof("Expanded repetitions in %d rows", expanded)
	return out
}

// countdown blocks for d while drawing a progress bar; it returns early
// with the context error when ctx is cancelled.
func countdown(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	seconds := int64(d / time.Second)
	bar := progressbar.NewOptions64(seconds,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Waiting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)

	timer := time.NewTimer(d)
	defer timer.Stop()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = bar.Clear()
			return ctx.Err()
		case <-timer.C:
			_ = bar.Finish()
			return nil
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// IsInterrupted reports whether err comes from a cancelled run
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
