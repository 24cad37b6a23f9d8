package runner

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/talebox/pkg/book"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/library"
	"github.com/aretw0/talebox/pkg/ports"
)

// ErrStopped is returned by Send once Run has returned.
var ErrStopped = errors.New("runner stopped")

// Runner is the player controller. It owns the library and every book cursor:
// producers only push events, and Run is the single consumer.
type Runner struct {
	library  *library.Library
	display  ports.Display
	audio    ports.AudioSink
	input    ports.InputSource
	decoder  ports.Decoder
	services ports.Services
	reloads  <-chan struct{}
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	overlayDir     string
	overlayTimeout time.Duration
	signals        bool
	queueSize      int

	events   chan Event
	done     chan struct{}
	doneOnce sync.Once

	timeout       *Timeout
	settings      bool
	pendingReload bool
	snapshot      atomic.Pointer[Snapshot]
}

// New creates a Runner over lib.
func New(lib *library.Library, opts ...Option) *Runner {
	r := &Runner{
		library:        lib,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		decoder:        decodeImage,
		overlayTimeout: DefaultOverlayTimeout,
		signals:        true,
		queueSize:      DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.events = make(chan Event, max(r.queueSize, 1))
	r.done = make(chan struct{})
	r.snapshot.Store(&Snapshot{})
	return r
}

func decodeImage(rd io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// Send queues an event as if a producer had pushed it.
// It fails once the controller stopped or when ctx is done first.
func (r *Runner) Send(ctx context.Context, ev Event) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	select {
	case r.events <- ev:
		return nil
	case <-r.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// emit is used by producers; events pushed after the controller stopped are dropped.
func (r *Runner) emit(ev Event) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// Run executes the controller loop until a shutdown event or ctx cancellation.
// It returns domain.ErrEmptyLibrary when there is no book to show.
func (r *Runner) Run(ctx context.Context) error {
	if r.display == nil || r.audio == nil {
		return errors.New("runner: display and audio are required")
	}
	defer r.doneOnce.Do(func() { close(r.done) })

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.startProducers(ctx)

	next := NextNormal
	for {
		b := r.library.Current()
		if b == nil {
			return domain.ErrEmptyLibrary
		}
		p, ok := b.Current()
		if !ok {
			return fmt.Errorf("book %s at stage %q: %w", b.ID(), b.Cursor().Stage, domain.ErrInvalidStage)
		}

		if r.pendingReload && p.Root && next != NextTimeout {
			r.reload(ctx)
			continue
		}

		if next != NextTimeout {
			r.timeout.Cancel()
		}

		r.logger.Debug("render", "book", b.ID(), "stage", p.StageID, "next", next)
		if err := r.render(ctx, next, b, p); err != nil {
			r.audio.Stop()
			return err
		}
		r.publish(b, p, next)
		if next == NextShutdown {
			return nil
		}

		var ev Event
		select {
		case ev = <-r.events:
		case <-ctx.Done():
			r.audio.Stop()
			return ctx.Err()
		}

		r.logger.Debug("event", "key", ev.Key, "completion", ev.Completion, "status", uint16(ev.Status))
		if r.hooks.OnInput != nil {
			r.hooks.OnInput(ctx, &domain.InputEvent{
				EventBase:  r.base(domain.EventInput, b),
				Key:        ev.Key,
				Completion: ev.Completion,
			})
		}
		next = r.classify(ctx, ev, b, p)
	}
}

func (r *Runner) startProducers(ctx context.Context) {
	if r.signals {
		sm := NewSignalManager()
		go func() {
			<-ctx.Done()
			sm.Stop()
		}()
		go sm.Listen(ctx, func() {
			r.logger.Info("termination signal received")
			r.emit(Event{Key: domain.KeyEnd})
		})
	}

	if r.input != nil {
		go r.pollInput(ctx)
	}

	if r.reloads != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-r.reloads:
					if !ok {
						return
					}
					r.emit(Event{Key: domain.KeyReload})
				}
			}
		}()
	}
}

func (r *Runner) pollInput(ctx context.Context) {
	backoff := 100 * time.Millisecond
	for {
		key, status, err := r.input.Next(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.logger.Info("input device closed")
				return
			}
			r.logger.Warn("input read failed", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}
		if key == domain.KeyNone {
			continue
		}
		r.emit(Event{Key: key, Status: status})
	}
}

// classify turns an event into the next presentation step, in priority order.
func (r *Runner) classify(ctx context.Context, ev Event, b *book.Book, p domain.Presentation) Next {
	switch {
	case ev.Key == domain.KeyEnd:
		return NextShutdown
	case r.settings:
		if ev.Key == domain.KeyResume {
			return r.leaveSettings(ctx)
		}
		return NextNone
	case ev.Key == domain.KeyTick:
		return NextImage
	case ev.Completion && !p.Controls.Autoplay:
		if r.timeout.Pending() {
			return NextTimeout
		}
		return NextImage
	case ev.Key == domain.KeyReload:
		r.pendingReload = true
		if p.Root {
			return NextNormal
		}
		return NextTimeout
	}
	return r.handleKey(ctx, ev, b, p)
}

func (r *Runner) handleKey(ctx context.Context, ev Event, b *book.Book, p domain.Presentation) Next {
	// Playback completion and the cover page ignore the stage controls.
	if !ev.Completion && !p.Root && !Enabled(p.Controls, ev.Key) {
		return NextTimeout
	}

	switch ev.Key {
	case domain.KeyLeft:
		if p.Root {
			r.library.WheelLeft()
			r.bookSelected(ctx)
		} else {
			b.WheelLeft()
		}
		return NextNormal

	case domain.KeyRight:
		switch {
		case p.Root:
			r.library.WheelRight()
			r.bookSelected(ctx)
		case p.Controls.Wheel:
			b.WheelRight()
		case p.Controls.Pause:
			return r.togglePause()
		}
		return NextNormal

	case domain.KeyUp:
		r.audio.VolumeUp()
		return NextVolume

	case domain.KeyDown:
		if ev.Status.Held(domain.KeyHome) {
			return NextSettings
		}
		r.audio.VolumeDown()
		return NextVolume

	case domain.KeyHome:
		if p.Root {
			return NextNone
		}
		r.navigate(ctx, b, p, b.Home)
		return NextNormal

	case domain.KeyOK:
		r.navigate(ctx, b, p, b.OK)
		return NextNormal

	case domain.KeyPause:
		return r.togglePause()
	}
	return NextTimeout
}

func (r *Runner) navigate(ctx context.Context, b *book.Book, p domain.Presentation, move func() bool) {
	if move() {
		return
	}
	r.logger.Info("navigation failed, back to cover", "book", b.ID(), "stage", p.StageID)
	if r.hooks.OnNavigationFailure != nil {
		r.hooks.OnNavigationFailure(ctx, &domain.StageEvent{
			EventBase: r.base(domain.EventNavigationFailure, b),
			StageID:   p.StageID,
			Root:      p.Root,
		})
	}
}

func (r *Runner) togglePause() Next {
	r.audio.TogglePause()
	if r.audio.IsPaused() {
		return NextPause
	}
	return NextPlay
}

func (r *Runner) bookSelected(ctx context.Context) {
	b := r.library.Current()
	r.logger.Info("book selected", "book", b.ID(), "title", b.Title())
	if r.hooks.OnBookSelect != nil {
		r.hooks.OnBookSelect(ctx, &domain.StageEvent{
			EventBase: r.base(domain.EventBookSelect, b),
			StageID:   b.Cursor().Stage,
			Root:      true,
		})
	}
}

func (r *Runner) leaveSettings(ctx context.Context) Next {
	r.settings = false
	if r.services != nil {
		if err := r.services.Down(ctx); err != nil {
			r.logger.Warn("stopping settings services failed", "err", err)
		}
	}
	r.reload(ctx)
	return NextNormal
}

func (r *Runner) reload(ctx context.Context) {
	r.pendingReload = false
	if err := r.library.Reload(ctx); err != nil {
		r.logger.Error("library reload failed", "err", err)
	}
}

func (r *Runner) base(t domain.EventType, b *book.Book) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, BookID: b.ID()}
}

// render performs the side effects of next for the current stage.
func (r *Runner) render(ctx context.Context, next Next, b *book.Book, p domain.Presentation) error {
	if next == NextNormal || next == NextImage {
		if err := r.drawStage(b, p); err != nil {
			return err
		}
	}
	if next == NextNormal || next == NextAudio {
		if err := r.playStage(b, p); err != nil {
			return err
		}
	}
	if next == NextNormal && r.hooks.OnStageEnter != nil {
		r.hooks.OnStageEnter(ctx, &domain.StageEvent{
			EventBase: r.base(domain.EventStageEnter, b),
			StageID:   p.StageID,
			Root:      p.Root,
		})
	}

	switch next {
	case NextVolume:
		return r.overlay(fmt.Sprintf("volume%02d.png", r.audio.Volume()), true)
	case NextPause:
		return r.overlay("pause.png", true)
	case NextPlay:
		return r.overlay("play.png", true)
	case NextSettings:
		r.settings = true
		r.audio.Stop()
		if r.services != nil {
			if err := r.services.Up(ctx); err != nil {
				r.logger.Warn("starting settings services failed", "err", err)
			}
		}
		return r.overlay("settings.png", false)
	case NextShutdown:
		r.audio.Stop()
		if err := r.display.PowerOff(); err != nil {
			return err
		}
		return r.display.Clear()
	}
	return nil
}

func (r *Runner) drawStage(b *book.Book, p domain.Presentation) error {
	if p.Image == "" {
		if err := r.display.PowerOff(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		if err := r.display.Clear(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		return nil
	}

	rc, err := b.OpenImage(p.Image)
	if err != nil {
		return fmt.Errorf("book %s: image %s: %w", b.ID(), p.Image, err)
	}
	img, err := r.decoder(rc, p.Image)
	rc.Close()
	if err != nil {
		return fmt.Errorf("book %s: %w", b.ID(), err)
	}
	return r.show(img)
}

func (r *Runner) show(img image.Image) error {
	if err := r.display.Draw(img); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	if err := r.display.PowerOn(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func (r *Runner) playStage(b *book.Book, p domain.Presentation) error {
	if p.Audio == "" {
		r.audio.Stop()
		return nil
	}

	rc, err := b.OpenAudio(p.Audio)
	if err != nil {
		return fmt.Errorf("book %s: audio %s: %w", b.ID(), p.Audio, err)
	}

	key := CompletionKey(p.Controls)
	return r.audio.Play(rc, func() {
		if key != domain.KeyNone {
			r.emit(Event{Key: key, Completion: true})
		}
	})
}

// overlay draws a player asset over the stage and optionally arms the dismiss timeout.
// Missing overlay assets are logged only.
func (r *Runner) overlay(name string, dismiss bool) error {
	if dismiss {
		r.timeout = AfterTimeout(r.overlayTimeout, func() {
			r.emit(Event{Key: domain.KeyTick, Completion: true})
		})
	}
	if r.overlayDir == "" {
		return nil
	}

	path := filepath.Join(r.overlayDir, name)
	f, err := os.Open(path)
	if err != nil {
		r.logger.Warn("overlay unavailable", "path", path, "err", err)
		return nil
	}
	defer f.Close()

	img, err := r.decoder(f, name)
	if err != nil {
		r.logger.Warn("overlay unavailable", "path", path, "err", err)
		return nil
	}
	return r.show(img)
}
