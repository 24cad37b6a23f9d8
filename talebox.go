package talebox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/talebox/pkg/adapters/descriptor"
	"github.com/aretw0/talebox/pkg/adapters/imaging"
	"github.com/aretw0/talebox/pkg/adapters/packfs"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/library"
	"github.com/aretw0/talebox/pkg/ports"
	"github.com/aretw0/talebox/pkg/runner"
)

// ThumbnailWidth is the width of the cover thumbnails written next to packs.
const ThumbnailWidth = 128

// Player is the high-level entry point: a loaded library and the controller
// that presents it.
type Player struct {
	Library *library.Library
	Runner  *runner.Runner

	logger  *slog.Logger
	watch   bool
	reloads chan struct{}

	loaders    []ports.StoryLoader
	runnerOpts []runner.Option
	debounce   time.Duration
}

// Option defines a functional option for configuring the Player.
type Option func(*Player)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithLoaders replaces the default book formats (binary pack, then descriptor).
func WithLoaders(loaders ...ports.StoryLoader) Option {
	return func(p *Player) {
		p.loaders = loaders
	}
}

// WithWatch reloads the library when its folder changes. debounce <= 0 keeps
// the library default.
func WithWatch(debounce time.Duration) Option {
	return func(p *Player) {
		p.watch = true
		p.debounce = debounce
	}
}

// WithDisplay sets the screen.
func WithDisplay(d ports.Display) Option {
	return WithRunnerOptions(runner.WithDisplay(d))
}

// WithAudio sets the audio back-end.
func WithAudio(a ports.AudioSink) Option {
	return WithRunnerOptions(runner.WithAudio(a))
}

// WithInput sets the button device.
func WithInput(in ports.InputSource) Option {
	return WithRunnerOptions(runner.WithInput(in))
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return WithRunnerOptions(runner.WithHooks(hooks))
}

// WithRunnerOptions passes options through to the controller.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(p *Player) {
		p.runnerOpts = append(p.runnerOpts, opts...)
	}
}

// New scans the library at root and prepares the controller.
// It fails when root cannot be read; an empty library only fails on Run.
func New(ctx context.Context, root string, opts ...Option) (*Player, error) {
	p := &Player{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		reloads: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	p.logger = p.logger.With("library", filepath.Base(absRoot))

	if p.loaders == nil {
		p.loaders = []ports.StoryLoader{
			packfs.New(
				packfs.WithThumbnailer(imaging.Thumbnailer{MaxWidth: ThumbnailWidth}),
				packfs.WithLogger(p.logger),
			),
			descriptor.New(),
		}
	}

	libOpts := []library.Option{library.WithLoaders(p.loaders...), library.WithLogger(p.logger)}
	if p.debounce > 0 {
		libOpts = append(libOpts, library.WithDebounce(p.debounce))
	}
	p.Library = library.New(absRoot, libOpts...)
	if err := p.Library.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	p.logger.Info("library loaded", "books", p.Library.Len())

	runnerOpts := []runner.Option{
		runner.WithLogger(p.logger),
		runner.WithDecoder(imaging.Decode),
		runner.WithReloadSource(p.reloads),
	}
	p.Runner = runner.New(p.Library, append(runnerOpts, p.runnerOpts...)...)
	return p, nil
}

// Run drives the controller until shutdown or ctx cancellation.
func (p *Player) Run(ctx context.Context) error {
	if p.watch {
		changes, err := p.Library.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch library: %w", err)
		}
		go func() {
			for range changes {
				select {
				case p.reloads <- struct{}{}:
				default:
				}
			}
		}()
	}
	return p.Runner.Run(ctx)
}
