package console

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/talebox/pkg/adapters/imaging"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Default canvas size in cells, used when the output is not a terminal.
const (
	DefaultColumns = 64
	DefaultRows    = 24
)

// Display implements ports.Display on a terminal.
// Each text cell shows two pixels stacked vertically.
type Display struct {
	out  *termenv.Output
	fd   int
	cols int
	rows int

	mu sync.Mutex
	on bool
}

// DisplayOption configures the Display.
type DisplayOption func(*Display)

// WithSize fixes the canvas size in cells instead of querying the terminal.
func WithSize(cols, rows int) DisplayOption {
	return func(d *Display) {
		d.cols, d.rows = cols, rows
	}
}

// WithProfile forces a color profile, e.g. termenv.TrueColor.
func WithProfile(p termenv.Profile) DisplayOption {
	return func(d *Display) {
		d.out = termenv.NewOutput(d.out.Writer(), termenv.WithProfile(p))
	}
}

// NewDisplay creates a Display writing to w.
func NewDisplay(w io.Writer, opts ...DisplayOption) *Display {
	d := &Display{
		out: termenv.NewOutput(w),
		fd:  -1,
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		d.fd = int(f.Fd())
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Display) size() (int, int) {
	if d.cols > 0 && d.rows > 0 {
		return d.cols, d.rows
	}
	if d.fd >= 0 {
		if cols, rows, err := term.GetSize(d.fd); err == nil && cols > 0 && rows > 1 {
			// Keep the last line free so the frame does not scroll.
			return cols, rows - 1
		}
	}
	return DefaultColumns, DefaultRows
}

// Draw implements ports.Display.
func (d *Display) Draw(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cols, rows := d.size()
	frame := Render(d.out, imaging.Fit(img, cols, rows*2))

	d.out.MoveCursor(1, 1)
	if _, err := io.WriteString(d.out, frame); err != nil {
		return fmt.Errorf("console draw: %w", err)
	}
	return nil
}

// PowerOn implements ports.Display.
func (d *Display) PowerOn() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.on {
		d.out.HideCursor()
		d.on = true
	}
	return nil
}

// PowerOff implements ports.Display.
func (d *Display) PowerOff() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.on {
		d.out.ShowCursor()
		d.on = false
	}
	return nil
}

// Clear implements ports.Display.
func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out.ClearScreen()
	return nil
}

// Render draws img as rows of upper-half blocks, the top pixel in the
// foreground and the bottom one in the background.
func Render(p *termenv.Output, img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := hex(img.At(x, y))
			bottom := top
			if y+1 < b.Max.Y {
				bottom = hex(img.At(x, y+1))
			}
			sb.WriteString(p.String("▀").Foreground(p.Color(top)).Background(p.Color(bottom)).String())
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
