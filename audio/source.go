package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/petalfall/constants"
)

// SourceKind identifies how a source reference is decoded
type SourceKind int

const (
	SourceTone SourceKind = iota
	SourceWAV
	SourceMP3
)

func (k SourceKind) String() string {
	switch k {
	case SourceTone:
		return "tone"
	case SourceWAV:
		return "wav"
	case SourceMP3:
		return "mp3"
	default:
		return "unknown"
	}
}

const tonePrefix = "tone:"

// Source is a parsed audio reference
// References are file paths ending in .wav or .mp3, or "tone:<hz>:<duration>"
type Source struct {
	Ref      string
	Kind     SourceKind
	Path     string
	Freq     float64
	Duration time.Duration
}

// ParseSource validates ref without touching the filesystem
func ParseSource(ref string) (Source, error) {
	if rest, ok := strings.CutPrefix(ref, tonePrefix); ok {
		freqStr, durStr, found := strings.Cut(rest, ":")
		if !found {
			return Source{}, fmt.Errorf("%w: %q: want tone:<hz>:<duration>", ErrUnsupportedSource, ref)
		}
		freq, err := strconv.ParseFloat(freqStr, 64)
		if err != nil || freq <= 0 {
			return Source{}, fmt.Errorf("%w: %q: bad frequency", ErrUnsupportedSource, ref)
		}
		dur, err := time.ParseDuration(durStr)
		if err != nil || dur <= 0 {
			return Source{}, fmt.Errorf("%w: %q: bad duration", ErrUnsupportedSource, ref)
		}
		return Source{Ref: ref, Kind: SourceTone, Freq: freq, Duration: dur}, nil
	}

	switch strings.ToLower(filepath.Ext(ref)) {
	case ".wav":
		return Source{Ref: ref, Kind: SourceWAV, Path: ref}, nil
	case ".mp3":
		return Source{Ref: ref, Kind: SourceMP3, Path: ref}, nil
	}
	return Source{}, fmt.Errorf("%w: %q", ErrUnsupportedSource, ref)
}

// open decodes src into a finite streamer at rate
// The returned closer releases the underlying file and is never nil
func (src Source) open(rate beep.SampleRate) (beep.Streamer, func() error, error) {
	noop := func() error { return nil }

	if src.Kind == SourceTone {
		s, err := newToneStreamer(src.Freq, src.Duration, rate)
		if err != nil {
			return nil, noop, fmt.Errorf("synthesize %s: %w", src.Ref, err)
		}
		return s, noop, nil
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", src.Path, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch src.Kind {
	case SourceWAV:
		stream, format, err = wav.Decode(f)
	case SourceMP3:
		stream, format, err = mp3.Decode(f)
	default:
		err = ErrUnsupportedSource
	}
	if err != nil {
		f.Close()
		return nil, noop, fmt.Errorf("decode %s: %w", src.Path, err)
	}

	var out beep.Streamer = stream
	if format.SampleRate != rate {
		out = beep.Resample(constants.AudioResampleQuality, format.SampleRate, rate, stream)
	}
	return out, stream.Close, nil
}
