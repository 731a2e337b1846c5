package main

import (
	"errors"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// ErrMarkerNotFound is returned when the lyrics region cannot be located in
// the page, usually because the site changed its markup.
var ErrMarkerNotFound = errors.New("lyrics marker not found")

// ContentLocator finds the lyrics block inside a fetched page
type ContentLocator interface {
	Name() string
	Locate(page string) (string, error)
}

// SentinelLocator returns the text strictly between the first Start marker
// and the first End marker that follows it.
type SentinelLocator struct {
	Start string
	End   string
}

func (l *SentinelLocator) Name() string {
	return "sentinel"
}

func (l *SentinelLocator) Locate(page string) (string, error) {
	if l.Start == "" || l.End == "" {
		return "", fmt.Errorf("sentinel locator: empty marker")
	}

	startIdx := strings.Index(page, l.Start)
	if startIdx == -1 {
		return "", fmt.Errorf("start marker: %w", ErrMarkerNotFound)
	}
	remaining := page[startIdx+len(l.Start):]

	endIdx := strings.Index(remaining, l.End)
	if endIdx == -1 {
		return "", fmt.Errorf("end marker after start: %w", ErrMarkerNotFound)
	}

	return cleanLyrics(remaining[:endIdx]), nil
}

// SelectorLocator picks the first element matching a CSS selector and
// renders its content as plain text.
type SelectorLocator struct {
	Selector  string
	converter *md.Converter
}

// NewSelectorLocator creates a locator for sites with stable lyrics elements
func NewSelectorLocator(selector string) *SelectorLocator {
	return &SelectorLocator{
		Selector:  selector,
		converter: md.NewConverter("", true, &md.Options{EscapeMode: "disabled"}),
	}
}

func (l *SelectorLocator) Name() string {
	return "selector"
}

func (l *SelectorLocator) Locate(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	selection := doc.Find(l.Selector).First()
	if selection.Length() == 0 {
		return "", fmt.Errorf("selector %q: %w", l.Selector, ErrMarkerNotFound)
	}

	inner, err := selection.Html()
	if err != nil {
		return "", fmt.Errorf("rendering selection: %w", err)
	}

	text, err := l.converter.ConvertString(inner)
	if err != nil {
		return "", fmt.Errorf("converting HTML to text: %w", err)
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// markupTokens are removed one after another, in this order
var markupTokens = []string{"<br>", "</br>", "</div>"}

// cleanLyrics removes line-break and closing div markup and trims whitespace
func cleanLyrics(s string) string {
	for _, token := range markupTokens {
		s = strings.ReplaceAll(s, token, "")
	}
	return strings.TrimSpace(s)
}

// NewLocator builds the locator configured for the lyrics site
func NewLocator(site SiteSettings) (ContentLocator, error) {
	switch site.Locator {
	case "", "sentinel":
		return &SentinelLocator{Start: site.StartMarker, End: site.EndMarker}, nil
	case "selector":
		if site.Selector == "" {
			return nil, fmt.Errorf("selector locator requires site.selector")
		}
		return NewSelectorLocator(site.Selector), nil
	default:
		return nil, fmt.Errorf("unknown locator %q", site.Locator)
	}
}
