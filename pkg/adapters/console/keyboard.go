package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aretw0/talebox/pkg/domain"
	"golang.org/x/term"
)

// Press is one decoded keystroke.
type Press struct {
	Key    domain.Key
	Status domain.Status
}

// Keyboard implements ports.InputSource on a terminal in raw mode.
//
//	arrows         wheel and volume
//	enter          OK
//	esc, backspace HOME
//	space, p       pause
//	s              settings (DOWN with HOME held)
//	r              leave settings
//	q, ctrl-c      quit
type Keyboard struct {
	in    io.Reader
	state *term.State
	fd    int

	once    sync.Once
	presses chan Press
	errs    chan error
}

// NewKeyboard reads keys from in. When in is a terminal it is switched to raw
// mode until Close.
func NewKeyboard(in io.Reader) (*Keyboard, error) {
	k := &Keyboard{
		in:      in,
		fd:      -1,
		presses: make(chan Press, 16),
		errs:    make(chan error, 1),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return nil, fmt.Errorf("raw mode: %w", err)
		}
		k.fd, k.state = int(f.Fd()), state
	}
	return k, nil
}

// Next implements ports.InputSource.
func (k *Keyboard) Next(ctx context.Context) (domain.Key, domain.Status, error) {
	k.once.Do(func() { go k.read() })

	// Keys read before a failure are delivered first.
	select {
	case p := <-k.presses:
		return p.Key, p.Status, nil
	default:
	}

	select {
	case p := <-k.presses:
		return p.Key, p.Status, nil
	case err := <-k.errs:
		return domain.KeyNone, 0, err
	case <-ctx.Done():
		return domain.KeyNone, 0, ctx.Err()
	}
}

func (k *Keyboard) read() {
	buf := make([]byte, 64)
	for {
		n, err := k.in.Read(buf)
		for _, p := range ParseKeys(buf[:n]) {
			k.presses <- p
		}
		if err != nil {
			k.errs <- err
			return
		}
	}
}

// Close restores the terminal.
func (k *Keyboard) Close() error {
	if k.state == nil {
		return nil
	}
	return term.Restore(k.fd, k.state)
}

// ParseKeys decodes the keystrokes in one read. Unknown bytes are skipped.
func ParseKeys(b []byte) []Press {
	var out []Press
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c == 0x1b && i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
			if key, ok := arrows[b[i+2]]; ok {
				out = append(out, Press{Key: key})
			}
			i += 2
			continue
		}
		switch c {
		case 's', 'S':
			out = append(out, Press{Key: domain.KeyDown, Status: domain.Status(0).With(domain.KeyHome, true)})
		default:
			if key, ok := bytesToKeys[c]; ok {
				out = append(out, Press{Key: key})
			}
		}
	}
	return out
}

var arrows = map[byte]domain.Key{
	'A': domain.KeyUp,
	'B': domain.KeyDown,
	'C': domain.KeyRight,
	'D': domain.KeyLeft,
}

var bytesToKeys = map[byte]domain.Key{
	'\r': domain.KeyOK,
	'\n': domain.KeyOK,
	0x1b: domain.KeyHome,
	0x7f: domain.KeyHome,
	0x08: domain.KeyHome,
	' ':  domain.KeyPause,
	'p':  domain.KeyPause,
	'r':  domain.KeyResume,
	'q':  domain.KeyEnd,
	0x03: domain.KeyEnd,
}
