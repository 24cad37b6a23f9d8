package talebox_test

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/talebox"
	"github.com/aretw0/talebox/internal/testutils"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const story = `
title: Lighthouse
stageNodes:
  - uuid: cover
    squareOne: true
    image: cover.png
    okTransition: {actionNode: start, optionIndex: 0}
    controlSettings: {wheel: true, ok: true}
  - uuid: shore
    image: shore.png
    audio: shore.mp3
    homeTransition: {actionNode: back, optionIndex: 0}
    controlSettings: {home: true, pause: true}
actionNodes:
  - id: start
    options: [shore]
  - id: back
    options: [cover]
`

type screen struct {
	mu    sync.Mutex
	draws int
}

func (s *screen) Draw(image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	return nil
}
func (s *screen) PowerOn() error  { return nil }
func (s *screen) PowerOff() error { return nil }
func (s *screen) Clear() error    { return nil }

type speaker struct {
	mu     sync.Mutex
	played int
}

func (s *speaker) Play(r io.ReadCloser, onComplete func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played++
	return r.Close()
}
func (s *speaker) TogglePause()   {}
func (s *speaker) IsPaused() bool { return false }
func (s *speaker) VolumeUp()      {}
func (s *speaker) VolumeDown()    {}
func (s *speaker) Volume() int    { return 2 }
func (s *speaker) Stop()          {}

func library(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutils.WriteBook(t, root, "lighthouse", story, map[string][]byte{
		"cover.png": testutils.PNG(t),
		"shore.png": testutils.PNG(t),
		"shore.mp3": []byte("ID3"),
	})
	return root
}

func waitStage(t *testing.T, p *talebox.Player, stage string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.Runner.Snapshot().Stage == stage
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPlayer_Run(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	disp, audio := &screen{}, &speaker{}
	p, err := talebox.New(ctx, library(t),
		talebox.WithDisplay(disp),
		talebox.WithAudio(audio),
		talebox.WithRunnerOptions(runner.WithSignals(false)),
	)
	require.NoError(t, err)
	require.Equal(t, 1, p.Library.Len())

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	waitStage(t, p, "cover")
	assert.Equal(t, "Lighthouse", p.Runner.Snapshot().Title)

	require.NoError(t, p.Runner.Send(ctx, runner.Event{Key: domain.KeyOK}))
	waitStage(t, p, "shore")

	require.NoError(t, p.Runner.Send(ctx, runner.Event{Key: domain.KeyHome}))
	waitStage(t, p, "cover")

	require.NoError(t, p.Runner.Send(ctx, runner.Event{Key: domain.KeyEnd}))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("player did not stop")
	}

	audio.mu.Lock()
	assert.Equal(t, 1, audio.played)
	audio.mu.Unlock()
}

func TestPlayer_WatchReloads(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	root := library(t)
	p, err := talebox.New(ctx, root,
		talebox.WithDisplay(&screen{}),
		talebox.WithAudio(&speaker{}),
		talebox.WithWatch(20*time.Millisecond),
		talebox.WithRunnerOptions(runner.WithSignals(false)),
	)
	require.NoError(t, err)

	go p.Run(ctx)
	waitStage(t, p, "cover")

	second := filepath.Join(root, "another")
	require.NoError(t, os.Rename(filepath.Join(root, "lighthouse"), second))

	require.Eventually(t, func() bool {
		return p.Runner.Snapshot().Book == "another"
	}, 3*time.Second, 10*time.Millisecond)
}

func TestNew_MissingLibrary(t *testing.T) {
	_, err := talebox.New(context.Background(), filepath.Join(t.TempDir(), "nope"))

	var ioErr *domain.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, talebox.Version)
}
