package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Album is one entry of the discography manifest
type Album struct {
	Name   string
	Tracks []string
}

// Manifest lists the albums of the artist in release order
type Manifest struct {
	Albums []Album
}

// LoadManifest reads a discography YAML file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return manifest, nil
}

// ParseManifest accepts either a sequence of single-album mappings
//
//	- OK Computer:
//	    - Airbag
//
// or one mapping of album name to tracks. Album order is kept as written.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("manifest is empty")
	}

	root := doc.Content[0]
	manifest := &Manifest{}

	switch root.Kind {
	case yaml.SequenceNode:
		for _, item := range root.Content {
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: expected album mapping", item.Line)
			}
			albums, err := decodeAlbums(item)
			if err != nil {
				return nil, err
			}
			manifest.Albums = append(manifest.Albums, albums...)
		}
	case yaml.MappingNode:
		albums, err := decodeAlbums(root)
		if err != nil {
			return nil, err
		}
		manifest.Albums = albums
	default:
		return nil, fmt.Errorf("line %d: expected a list or mapping of albums", root.Line)
	}

	if len(manifest.Albums) == 0 {
		return nil, fmt.Errorf("manifest has no albums")
	}
	return manifest, nil
}

func decodeAlbums(node *yaml.Node) ([]Album, error) {
	albums := make([]Album, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var tracks []string
		if err := value.Decode(&tracks); err != nil {
			return nil, fmt.Errorf("line %d: tracks of %q: %w", value.Line, key.Value, err)
		}
		albums = append(albums, Album{Name: key.Value, Tracks: tracks})
	}
	return albums, nil
}

// SeedTable builds a table with one pending row per track
func SeedTable(artist string, manifest *Manifest) *Table {
	table := &Table{HasIndex: true}
	for _, album := range manifest.Albums {
		for _, title := range album.Tracks {
			table.Rows = append(table.Rows, Row{
				Index:  fmt.Sprint(len(table.Rows)),
				Artist: artist,
				Album:  album.Name,
				Title:  title,
				Status: StatusPending,
			})
		}
	}
	return table
}
