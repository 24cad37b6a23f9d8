package process

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Volume levels on a 0..10 scale. Playback never goes below MinVolume.
const (
	MinVolume     = 2
	MaxVolume     = 10
	DefaultVolume = MinVolume
)

// Player implements ports.AudioSink by piping each asset into the "player" command.
// Volume changes run the optional "mixer" command.
type Player struct {
	runner *Runner
	logger *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	gen    uint64
	paused bool
	volume int
}

// PlayerOption configures the Player.
type PlayerOption func(*Player)

// WithPlayerLogger sets the logger.
func WithPlayerLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithVolume sets the initial level, clamped to MinVolume..MaxVolume.
func WithVolume(level int) PlayerOption {
	return func(p *Player) {
		p.volume = clamp(level)
	}
}

// NewPlayer creates a Player using the commands registered in r.
func NewPlayer(r *Runner, opts ...PlayerOption) *Player {
	p := &Player{
		runner: r,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		volume: DefaultVolume,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play implements ports.AudioSink.
func (p *Player) Play(r io.ReadCloser, onComplete func()) error {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	cmd, err := p.runner.Command(context.Background(), CommandPlayer, p.args())
	if err != nil {
		r.Close()
		return err
	}
	cmd.Stdin = r
	if err := cmd.Start(); err != nil {
		r.Close()
		return err
	}

	p.gen++
	gen := p.gen
	p.cmd = cmd
	p.paused = false

	go func() {
		err := cmd.Wait()
		r.Close()

		p.mu.Lock()
		current := p.gen == gen
		if current {
			p.cmd = nil
			p.paused = false
		}
		p.mu.Unlock()

		switch {
		case !current:
		case err != nil:
			p.logger.Warn("audio player failed", "err", err)
		default:
			onComplete()
		}
	}()
	return nil
}

// Stop implements ports.AudioSink.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	if p.cmd == nil {
		return
	}
	if p.paused {
		_ = unix.Kill(p.cmd.Process.Pid, unix.SIGCONT)
	}
	_ = p.cmd.Process.Kill()
	p.cmd = nil
	p.paused = false
}

// TogglePause implements ports.AudioSink. It does nothing when nothing plays.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil {
		return
	}
	sig := unix.SIGSTOP
	if p.paused {
		sig = unix.SIGCONT
	}
	if err := unix.Kill(p.cmd.Process.Pid, sig); err != nil {
		p.logger.Warn("audio pause toggle failed", "err", err)
		return
	}
	p.paused = !p.paused
}

// IsPaused implements ports.AudioSink.
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// VolumeUp implements ports.AudioSink.
func (p *Player) VolumeUp() { p.setVolume(1) }

// VolumeDown implements ports.AudioSink.
func (p *Player) VolumeDown() { p.setVolume(-1) }

// Volume implements ports.AudioSink.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) setVolume(delta int) {
	p.mu.Lock()
	p.volume = clamp(p.volume + delta)
	args := p.args()
	p.mu.Unlock()

	if !p.runner.Has(CommandMixer) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := p.runner.Execute(ctx, CommandMixer, args); err != nil {
		p.logger.Warn("mixer failed", "err", err)
	}
}

func (p *Player) args() map[string]any {
	return map[string]any{
		"volume":  p.volume,
		"percent": p.volume * 10,
	}
}

func clamp(level int) int {
	return min(max(level, MinVolume), MaxVolume)
}
