package main

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Slugify lower-cases s and removes every character outside [a-z0-9]
func Slugify(s string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "")
}

// ArtistSlug slugifies an artist name and strips the first matching prefix.
// The strip is a plain string prefix: "Theory" with prefix "the" becomes "ory".
func ArtistSlug(artist string, prefixes []string) string {
	slug := Slugify(artist)
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(slug, prefix) {
			return slug[len(prefix):]
		}
	}
	return slug
}

// Slugs returns the artist and title slugs used to build the lyrics URL
func (q LyricsQuery) Slugs(prefixes []string) (artist, title string) {
	return ArtistSlug(q.Artist, prefixes), Slugify(q.Title)
}

// BuildLyricsURL joins the site base with /<artist>/<title>.html
func BuildLyricsURL(baseURL string, q LyricsQuery, prefixes []string) string {
	artist, title := q.Slugs(prefixes)
	return strings.TrimSuffix(baseURL, "/") + "/" + artist + "/" + title + ".html"
}
