package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/petalfall/asset"
	"github.com/lixenwraith/petalfall/playback"
)

var (
	// ErrEmptyPlaylist is returned for a manifest without items
	ErrEmptyPlaylist = errors.New("playlist has no items")

	// ErrInvalid is returned for out-of-range settings or manifest entries
	ErrInvalid = errors.New("invalid configuration")
)

// Playlist is the decoded manifest
type Playlist struct {
	Items     []playback.Item `yaml:"items"`
	VoiceOver string          `yaml:"voiceover"`
}

// LoadPlaylist reads the manifest at path, or the built-in one when path is empty
func LoadPlaylist(path string) (Playlist, error) {
	data := []byte(asset.DefaultPlaylistYAML)
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Playlist{}, fmt.Errorf("read playlist: %w", err)
		}
	}
	return ParsePlaylist(data)
}

// ParsePlaylist decodes and validates a manifest
func ParsePlaylist(data []byte) (Playlist, error) {
	var pl Playlist
	if err := yaml.Unmarshal(data, &pl); err != nil {
		return Playlist{}, fmt.Errorf("decode playlist: %w", err)
	}
	if len(pl.Items) == 0 {
		return Playlist{}, ErrEmptyPlaylist
	}

	for i := range pl.Items {
		it := &pl.Items[i]
		it.Title = strings.TrimSpace(it.Title)
		it.Source = strings.TrimSpace(it.Source)
		if it.Source == "" {
			return Playlist{}, fmt.Errorf("%w: item %d has no source", ErrInvalid, i)
		}
		if it.Title == "" {
			it.Title = it.Source
		}
	}
	pl.VoiceOver = strings.TrimSpace(pl.VoiceOver)
	return pl, nil
}
