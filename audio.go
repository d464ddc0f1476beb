package spacehole

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const sampleRate = 44100

// Music is a looping background track.
type Music struct {
	player *audio.Player
}

// LoadMusic decodes a WAV file from fsys into an endless loop at the given
// volume. It does not start playback.
func LoadMusic(fsys fs.FS, path string, volume float64) (*Music, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("load music: %w", err)
	}
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode music %s: %w", path, err)
	}

	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	player, err := ctx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	if err != nil {
		return nil, fmt.Errorf("music player: %w", err)
	}
	player.SetVolume(volume)
	return &Music{player: player}, nil
}

// Play starts or resumes the loop.
func (m *Music) Play() {
	m.player.Play()
}

// Playing reports whether the loop is playing.
func (m *Music) Playing() bool {
	return m.player.IsPlaying()
}

// Close stops playback and releases the player.
func (m *Music) Close() error {
	return m.player.Close()
}
