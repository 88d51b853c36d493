package page

import (
	"github.com/lixenwraith/petalfall/audio"
	"github.com/lixenwraith/petalfall/playback"
)

// AudioBackend adapts the audio engine to the playback controllers
func AudioBackend(eng *audio.Engine) playback.Backend {
	return playback.BackendFunc(func(src string) (playback.Track, error) {
		tr, err := eng.Load(src)
		if err != nil {
			return nil, err
		}
		return tr, nil
	})
}
