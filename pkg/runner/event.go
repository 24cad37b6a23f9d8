package runner

import "github.com/aretw0/talebox/pkg/domain"

// Event is one entry of the controller queue.
type Event struct {
	Key domain.Key
	// Status is the held-key snapshot taken by the input device, zero otherwise.
	Status domain.Status
	// Completion marks events synthesized at the end of playback or of an overlay,
	// as opposed to user actions.
	Completion bool
}

// Next is what the controller does before waiting for the next event.
type Next int

const (
	// NextNone renders nothing.
	NextNone Next = iota
	// NextNormal draws the stage image and starts its audio.
	NextNormal
	// NextImage draws the stage image only.
	NextImage
	// NextAudio starts the stage audio only.
	NextAudio
	// NextVolume shows the volume overlay.
	NextVolume
	// NextPause shows the pause overlay.
	NextPause
	// NextPlay shows the play overlay.
	NextPlay
	// NextTimeout keeps the screen and the pending timeout as they are.
	NextTimeout
	// NextSettings enters settings mode.
	NextSettings
	// NextShutdown ends the loop.
	NextShutdown
)

var nextNames = [...]string{
	NextNone:     "none",
	NextNormal:   "normal",
	NextImage:    "image",
	NextAudio:    "audio",
	NextVolume:   "volume",
	NextPause:    "pause",
	NextPlay:     "play",
	NextTimeout:  "timeout",
	NextSettings: "settings",
	NextShutdown: "shutdown",
}

func (n Next) String() string {
	if n < 0 || int(n) >= len(nextNames) {
		return "unknown"
	}
	return nextNames[n]
}

// Enabled reports whether controls accept key.
// RIGHT doubles as the pause button on stages without wheel.
func Enabled(controls domain.ControlSettings, key domain.Key) bool {
	switch key {
	case domain.KeyLeft:
		return controls.Wheel
	case domain.KeyRight:
		return controls.Wheel || controls.Pause
	case domain.KeyUp, domain.KeyDown:
		return true
	case domain.KeyHome:
		return controls.Home
	case domain.KeyOK:
		return controls.OK
	case domain.KeyPause:
		return controls.Pause
	default:
		return false
	}
}

// CompletionKey is the key synthesized when the audio of a stage ends.
// KeyNone means the end of playback is not reported.
func CompletionKey(controls domain.ControlSettings) domain.Key {
	switch {
	case controls.OK || controls.Autoplay:
		return domain.KeyOK
	case controls.Home:
		return domain.KeyHome
	default:
		return domain.KeyNone
	}
}
