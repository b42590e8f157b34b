// Package playback defines the sound backend used by the ear-training game.
package playback

import (
	"errors"

	"github.com/quartal/tritone/internal/pitch"
)

// ErrUnavailable reports that no playback device can sound the interval.
// The session treats it as recoverable and degrades to a text prompt.
var ErrUnavailable = errors.New("playback unavailable")

// Player sounds two notes, in sequence or simultaneously when harmonic.
// Implementations may block until playback finishes.
type Player interface {
	Play(first, second pitch.Note, harmonic bool) error
}

// Null is a Player without a device; Play always fails with ErrUnavailable.
type Null struct{}

// Play implements Player.
func (Null) Play(first, second pitch.Note, harmonic bool) error {
	return ErrUnavailable
}
