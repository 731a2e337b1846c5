package main

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic", "Creep", "creep"},
		{"spaces and punctuation", "Everything In Its Right Place", "everythinginitsrightplace"},
		{"apostrophe", "I Might Be Wrong", "imightbewrong"},
		{"ampersand", "High & Dry", "highdry"},
		{"slash", "Pull / Pulk Revolving Doors", "pullpulkrevolvingdoors"},
		{"digits kept", "15 Step", "15step"},
		{"question mark", "How Do You?", "howdoyou"},
		{"non ascii dropped", "Café Naïve", "cafnave"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			if again := Slugify(result); again != result {
				t.Errorf("Slugify not idempotent: %q -> %q", result, again)
			}
		})
	}
}

func TestArtistSlug(t *testing.T) {
	prefixes := []string{"the"}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"leading the", "The Beatles", "beatles"},
		{"no prefix", "Radiohead", "radiohead"},
		{"prefix inside word", "Theory", "ory"},
		{"the only", "The", ""},
		{"the in middle", "Rage Against The Machine", "rageagainstthemachine"},
		{"lower case the", "the national", "national"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ArtistSlug(tt.input, prefixes)
			if result != tt.expected {
				t.Errorf("ArtistSlug(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestArtistSlugNoPrefixes(t *testing.T) {
	if got := ArtistSlug("The Who", nil); got != "thewho" {
		t.Errorf("ArtistSlug() = %q, want %q", got, "thewho")
	}
}

func TestBuildLyricsURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		query    LyricsQuery
		expected string
	}{
		{
			"basic",
			"http://azlyrics.com/lyrics",
			LyricsQuery{Artist: "Radiohead", Title: "Paranoid Android"},
			"http://azlyrics.com/lyrics/radiohead/paranoidandroid.html",
		},
		{
			"trailing slash",
			"http://azlyrics.com/lyrics/",
			LyricsQuery{Artist: "The Smiths", Title: "There Is a Light"},
			"http://azlyrics.com/lyrics/smiths/thereisalight.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildLyricsURL(tt.baseURL, tt.query, []string{"the"})
			if result != tt.expected {
				t.Errorf("BuildLyricsURL() = %q, want %q", result, tt.expected)
			}
		})
	}
}
