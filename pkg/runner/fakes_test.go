package runner_test

import (
	"context"
	"image"
	"io"
	"sync"

	"github.com/aretw0/talebox/pkg/domain"
	"github.com/stretchr/testify/mock"
)

// tagged is a decoded image remembering the asset content it came from.
type tagged struct {
	*image.Gray
	tag string
}

func decodeTag(r io.Reader, _ string) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return tagged{Gray: image.NewGray(image.Rect(0, 0, 1, 1)), tag: string(data)}, nil
}

type fakeDisplay struct {
	mu     sync.Mutex
	draws  []string
	on     bool
	clears int
}

func (d *fakeDisplay) Draw(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draws = append(d.draws, img.(tagged).tag)
	return nil
}

func (d *fakeDisplay) PowerOn() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.on = true
	return nil
}

func (d *fakeDisplay) PowerOff() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.on = false
	return nil
}

func (d *fakeDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clears++
	return nil
}

func (d *fakeDisplay) Draws() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.draws...)
}

func (d *fakeDisplay) Last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.draws) == 0 {
		return ""
	}
	return d.draws[len(d.draws)-1]
}

func (d *fakeDisplay) State() (on bool, clears int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.on, d.clears
}

// fakeAudio keeps the completion callback of the current track so tests decide when it ends.
type fakeAudio struct {
	mu       sync.Mutex
	played   []string
	complete func()
	paused   bool
	volume   int
	stops    int
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{volume: 2}
}

func (a *fakeAudio) Play(r io.ReadCloser, onComplete func()) error {
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.played = append(a.played, string(data))
	a.complete = onComplete
	a.paused = false
	return nil
}

// Finish ends the current track.
func (a *fakeAudio) Finish() {
	a.mu.Lock()
	fn := a.complete
	a.complete = nil
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (a *fakeAudio) TogglePause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = !a.paused
}

func (a *fakeAudio) IsPaused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

func (a *fakeAudio) VolumeUp() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.volume = min(a.volume+1, 10)
}

func (a *fakeAudio) VolumeDown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.volume = max(a.volume-1, 2)
}

func (a *fakeAudio) Volume() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.volume
}

func (a *fakeAudio) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.complete = nil
	a.stops++
}

func (a *fakeAudio) Played() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.played...)
}

func (a *fakeAudio) Stops() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stops
}

// chanInput is an InputSource fed by the test.
type chanInput chan Press

type Press struct {
	Key    domain.Key
	Status domain.Status
}

func (c chanInput) Next(ctx context.Context) (domain.Key, domain.Status, error) {
	select {
	case p := <-c:
		return p.Key, p.Status, nil
	case <-ctx.Done():
		return domain.KeyNone, 0, ctx.Err()
	}
}

type mockServices struct {
	mock.Mock
}

func (m *mockServices) Up(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockServices) Down(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
