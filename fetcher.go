package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LyricsFetcher downloads lyrics pages and extracts the lyrics block
type LyricsFetcher struct {
	client    *http.Client
	locator   ContentLocator
	baseURL   string
	userAgent string
	prefixes  []string
}

// NewLyricsFetcher creates a fetcher for the configured lyrics site
func NewLyricsFetcher(site SiteSettings) (*LyricsFetcher, error) {
	locator, err := NewLocator(site)
	if err != nil {
		return nil, fmt.Errorf("creating locator: %w", err)
	}

	return &LyricsFetcher{
		client: &http.Client{
			Timeout: site.Timeout,
		},
		locator:   locator,
		baseURL:   site.BaseURL,
		userAgent: site.UserAgent,
		prefixes:  site.ArtistPrefixes,
	}, nil
}

// FetchLyrics looks up the lyrics of one song. It never returns an error:
// failures are logged and reported through the result status.
func (f *LyricsFetcher) FetchLyrics(ctx context.Context, artist, title string) *LyricsResult {
	query := LyricsQuery{Artist: artist, Title: title}
	url := BuildLyricsURL(f.baseURL, query, f.prefixes)
	log := logrus.WithFields(logrus.Fields{"artist": artist, "title": title, "url": url})
	log.Info("Fetching lyrics")

	result := &LyricsResult{URL: url, FetchedAt: time.Now()}

	page, err := f.fetchPage(ctx, url)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			result.Status = StatusNotFound
		} else {
			result.Status = StatusTransportError
		}
		result.Err = err
		log.WithError(err).Warn("Fetch failed")
		return result
	}

	text, err := f.locator.Locate(page)
	if err != nil {
		result.Status = StatusFormatError
		result.Err = err
		log.WithError(err).Warnf("Page layout not recognised by %s locator", f.locator.Name())
		return result
	}

	if text == "" {
		result.Status = StatusNotFound
		log.Warn("Lyrics block is empty")
		return result
	}

	result.Text = text
	result.Status = StatusFound
	log.Debugf("Extracted %d chars", len(text))
	return result
}

func (f *LyricsFetcher) fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}
