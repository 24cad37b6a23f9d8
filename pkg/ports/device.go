package ports

import (
	"context"
	"image"
	"io"

	"github.com/aretw0/talebox/pkg/domain"
)

// Display paints still images on the panel.
// Implementations scale or crop to the physical panel.
type Display interface {
	Draw(img image.Image) error
	PowerOn() error
	PowerOff() error
	Clear() error
}

// Decoder turns an image asset into a decoded image. name carries the format hint.
type Decoder func(r io.Reader, name string) (image.Image, error)

// AudioSink streams narration.
//
// Play takes ownership of r and closes it. The completion callback fires at most once,
// possibly from another goroutine. Playback replaced by a later Play or ended by Stop
// never fires it.
type AudioSink interface {
	Play(r io.ReadCloser, onComplete func()) error
	TogglePause()
	IsPaused() bool
	VolumeUp()
	VolumeDown()
	// Volume returns the level on a 0..10 scale.
	Volume() int
	Stop()
}

// InputSource produces debounced key presses.
// Next blocks until a relevant key is pressed or ctx is done.
type InputSource interface {
	Next(ctx context.Context) (domain.Key, domain.Status, error)
}

// Services starts and stops the helper services (network, upload server) that the
// settings screen exposes.
type Services interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
}
