// Package config loads runtime settings from the environment, flags and the playlist manifest
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/petalfall/constants"
)

// Config holds every runtime setting
// Environment variables supply defaults; command-line flags override them
type Config struct {
	Debug       bool          `env:"PETALFALL_DEBUG"         envDefault:"false"`
	Autoplay    bool          `env:"PETALFALL_AUTOPLAY"      envDefault:"false"`
	Origin      string        `env:"PETALFALL_ORIGIN"        envDefault:"http://localhost:8080/"`
	Playlist    string        `env:"PETALFALL_PLAYLIST"`
	VoiceOver   string        `env:"PETALFALL_VOICEOVER"`
	MaxPetals   int           `env:"PETALFALL_MAX_PETALS"    envDefault:"0"`
	Deterrents  bool          `env:"PETALFALL_DETERRENTS"    envDefault:"true"`
	RedirectURL string        `env:"PETALFALL_REDIRECT_URL"  envDefault:"https://example.com/"`
	Volume      float64       `env:"PETALFALL_VOLUME"        envDefault:"0.6"`
	Ducked      float64       `env:"PETALFALL_DUCKED_VOLUME" envDefault:"0.2"`
	VoiceDelay  time.Duration `env:"PETALFALL_VOICE_DELAY"   envDefault:"1s"`
	Seed        uint64        `env:"PETALFALL_SEED"`
	NoAudio     bool          `env:"PETALFALL_NO_AUDIO"      envDefault:"false"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Origin:      "http://localhost:8080/",
		Deterrents:  true,
		RedirectURL: "https://example.com/",
		Volume:      constants.AmbientVolume,
		Ducked:      constants.DuckedVolume,
		VoiceDelay:  constants.VoiceOverDelay,
	}
}

// FromEnv parses PETALFALL_* variables over the defaults
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Load parses the environment, then args as command-line flags
func Load(name string, args []string) (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// RegisterFlags binds flags to cfg, using its current values as defaults
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Write logs to logs/petalfall.log")
	fs.BoolVar(&c.Autoplay, "autoplay", c.Autoplay, "Allow audio before the first click or key press")
	fs.StringVar(&c.Origin, "origin", c.Origin, "URL probed for round-trip latency")
	fs.StringVar(&c.Playlist, "playlist", c.Playlist, "YAML playlist manifest (default: built-in)")
	fs.StringVar(&c.VoiceOver, "voiceover", c.VoiceOver, "Voice-over source, overrides the manifest")
	fs.IntVar(&c.MaxPetals, "max-petals", c.MaxPetals, "Live petal cap, 0 for uncapped")
	fs.BoolVar(&c.Deterrents, "deterrents", c.Deterrents, "Intercept inspection shortcuts")
	fs.StringVar(&c.RedirectURL, "redirect", c.RedirectURL, "Redirect target shown when a shortcut is intercepted")
	fs.Float64Var(&c.Volume, "volume", c.Volume, "Ambient playlist volume, 0.0-1.0")
	fs.Float64Var(&c.Ducked, "ducked", c.Ducked, "Ambient volume after the voice-over ends")
	fs.DurationVar(&c.VoiceDelay, "voice-delay", c.VoiceDelay, "Delay before the voice-over autoplay attempt")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Random seed, 0 picks one")
	fs.BoolVar(&c.NoAudio, "no-audio", c.NoAudio, "Skip speaker initialization")
}

// Validate rejects out-of-range values
func (c Config) Validate() error {
	switch {
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume %v", ErrInvalid, c.Volume)
	case c.Ducked < 0 || c.Ducked > 1:
		return fmt.Errorf("%w: ducked volume %v", ErrInvalid, c.Ducked)
	case c.MaxPetals < 0:
		return fmt.Errorf("%w: max petals %d", ErrInvalid, c.MaxPetals)
	case c.VoiceDelay < 0:
		return fmt.Errorf("%w: voice delay %v", ErrInvalid, c.VoiceDelay)
	case c.Origin == "":
		return fmt.Errorf("%w: empty origin", ErrInvalid)
	}
	return nil
}
