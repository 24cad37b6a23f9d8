package process_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/talebox/pkg/adapters/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackedReader struct {
	io.Reader
	closed chan struct{}
}

func (r *trackedReader) Close() error {
	close(r.closed)
	return nil
}

func track(s string) *trackedReader {
	return &trackedReader{Reader: strings.NewReader(s), closed: make(chan struct{})}
}

func player(t *testing.T, script string) *process.Player {
	t.Helper()
	r := process.NewRunner()
	r.Register(process.CommandPlayer, "sh", "-c", script)
	p := process.NewPlayer(r)
	t.Cleanup(p.Stop)
	return p
}

func TestPlayer_CompletesOnce(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	p := player(t, "cat > "+out)

	done := make(chan struct{}, 2)
	src := track("narration")
	require.NoError(t, p.Play(src, func() { done <- struct{}{} }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("completion not reported")
	}
	<-src.closed

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "narration", string(data))

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, done, 0, "completion fired more than once")
}

func TestPlayer_StopSuppressesCompletion(t *testing.T) {
	p := player(t, "exec sleep 5")

	fired := make(chan struct{}, 1)
	src := track("")
	require.NoError(t, p.Play(src, func() { fired <- struct{}{} }))
	p.Stop()

	select {
	case <-src.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("source not closed after stop")
	}
	select {
	case <-fired:
		t.Fatal("stopped playback reported completion")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPlayer_ReplacedPlaybackDoesNotComplete(t *testing.T) {
	p := player(t, `read -r line; [ "$line" = fast ] || exec sleep 5`)

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	require.NoError(t, p.Play(track("slow\n"), func() { first <- struct{}{} }))
	require.NoError(t, p.Play(track("fast\n"), func() { second <- struct{}{} }))

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("second playback did not complete")
	}
	select {
	case <-first:
		t.Fatal("replaced playback reported completion")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPlayer_FailedPlayerDoesNotComplete(t *testing.T) {
	p := player(t, "exit 1")

	fired := make(chan struct{}, 1)
	src := track("x")
	require.NoError(t, p.Play(src, func() { fired <- struct{}{} }))
	<-src.closed

	select {
	case <-fired:
		t.Fatal("failed playback reported completion")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPlayer_TogglePause(t *testing.T) {
	p := player(t, "exec sleep 5")

	p.TogglePause()
	assert.False(t, p.IsPaused(), "nothing to pause")

	require.NoError(t, p.Play(track(""), func() {}))
	p.TogglePause()
	assert.True(t, p.IsPaused())
	p.TogglePause()
	assert.False(t, p.IsPaused())

	p.TogglePause()
	p.Stop()
	assert.False(t, p.IsPaused())
}

func TestPlayer_UnregisteredCommand(t *testing.T) {
	p := process.NewPlayer(process.NewRunner())

	src := track("")
	assert.Error(t, p.Play(src, func() {}))
	<-src.closed
}

func TestPlayer_Volume(t *testing.T) {
	out := filepath.Join(t.TempDir(), "volume")
	r := process.NewRunner()
	r.Register(process.CommandMixer, "sh", "-c", "echo $TALEBOX_ARG_VOLUME $TALEBOX_ARG_PERCENT > "+out)
	p := process.NewPlayer(r)

	assert.Equal(t, process.DefaultVolume, p.Volume())
	p.VolumeDown()
	assert.Equal(t, process.MinVolume, p.Volume())

	for range 12 {
		p.VolumeUp()
	}
	assert.Equal(t, process.MaxVolume, p.Volume())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "10 100\n", string(data))

	assert.Equal(t, 5, process.NewPlayer(r, process.WithVolume(5)).Volume())
	assert.Equal(t, process.MaxVolume, process.NewPlayer(r, process.WithVolume(42)).Volume())
}

func TestServices(t *testing.T) {
	dir := t.TempDir()
	r := process.NewRunner(process.WithBaseDir(dir))
	r.Register(process.CommandServicesUp, "sh", "-c", "echo up > state")
	s := process.NewServices(r)

	require.NoError(t, s.Up(context.Background()))
	data, err := os.ReadFile(filepath.Join(dir, "state"))
	require.NoError(t, err)
	assert.Equal(t, "up\n", string(data))

	// Unregistered commands are skipped.
	assert.NoError(t, s.Down(context.Background()))

	r.Register(process.CommandServicesDown, "false")
	assert.Error(t, s.Down(context.Background()))
}
