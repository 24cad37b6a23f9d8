package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/ports"
)

// DefaultQueueSize is the default capacity of the event queue.
const DefaultQueueSize = 16

// DefaultOverlayTimeout is how long volume and pause overlays stay on screen.
const DefaultOverlayTimeout = 800 * time.Millisecond

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithDisplay configures the screen.
func WithDisplay(d ports.Display) Option {
	return func(r *Runner) {
		r.display = d
	}
}

// WithAudio configures the audio back-end.
func WithAudio(a ports.AudioSink) Option {
	return func(r *Runner) {
		r.audio = a
	}
}

// WithInput configures the button device. Without one, events only come from
// signals, playback, timeouts and Send.
func WithInput(in ports.InputSource) Option {
	return func(r *Runner) {
		r.input = in
	}
}

// WithDecoder configures how stage images and overlays are decoded.
func WithDecoder(d ports.Decoder) Option {
	return func(r *Runner) {
		r.decoder = d
	}
}

// WithOverlayDir sets the folder holding volumeNN.png, pause.png, play.png and settings.png.
func WithOverlayDir(dir string) Option {
	return func(r *Runner) {
		r.overlayDir = dir
	}
}

// WithOverlayTimeout sets how long overlays stay on screen.
func WithOverlayTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.overlayTimeout = d
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithServices configures the services started while the settings screen is shown.
func WithServices(s ports.Services) Option {
	return func(r *Runner) {
		r.services = s
	}
}

// WithReloadSource sets a channel signaled when the library changed on disk.
func WithReloadSource(ch <-chan struct{}) Option {
	return func(r *Runner) {
		r.reloads = ch
	}
}

// WithSignals enables or disables the translation of SIGINT/SIGTERM into shutdown.
// Enabled by default.
func WithSignals(enabled bool) Option {
	return func(r *Runner) {
		r.signals = enabled
	}
}

// WithQueueSize sets the capacity of the event queue.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		r.queueSize = n
	}
}
