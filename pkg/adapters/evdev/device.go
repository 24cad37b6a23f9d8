package evdev

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/talebox/pkg/domain"
	"golang.org/x/sys/unix"
)

// Device implements ports.InputSource on top of a Linux event device.
//
// Next sleeps in epoll until the device becomes readable or the context is
// cancelled; a self-pipe wakes the wait on cancellation.
type Device struct {
	path   string
	logger *slog.Logger
	keymap map[uint16]domain.Key

	fd    int
	epfd  int
	wake  [2]int
	tr    *Translator
	buf   []byte
	queue []RawEvent
}

// Option configures the Device.
type Option func(*Device)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Device) {
		d.logger = logger
	}
}

// WithKeymap replaces DefaultKeymap.
func WithKeymap(keymap map[uint16]domain.Key) Option {
	return func(d *Device) {
		d.keymap = keymap
	}
}

// Open opens the event device at path, e.g. /dev/input/event0.
func Open(path string, opts ...Option) (*Device, error) {
	d := &Device{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		keymap: DefaultKeymap,
		fd:     -1,
		epfd:   -1,
		wake:   [2]int{-1, -1},
		buf:    make([]byte, EventSize*64),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.tr = NewTranslator(d.keymap)

	if err := d.open(); err != nil {
		d.Close()
		return nil, &domain.IOError{Path: path, Err: err}
	}
	return d, nil
}

func (d *Device) open() error {
	var err error
	if d.fd, err = unix.Open(d.path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0); err != nil {
		return err
	}
	if d.epfd, err = unix.EpollCreate1(unix.EPOLL_CLOEXEC); err != nil {
		return fmt.Errorf("epoll: %w", err)
	}
	if err = unix.Pipe2(d.wake[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return fmt.Errorf("pipe: %w", err)
	}
	for _, fd := range []int{d.fd, d.wake[0]} {
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		if err = unix.EpollCtl(d.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
			return fmt.Errorf("epoll_ctl: %w", err)
		}
	}
	return nil
}

// Next implements ports.InputSource. It must not be called concurrently.
func (d *Device) Next(ctx context.Context) (domain.Key, domain.Status, error) {
	stop := context.AfterFunc(ctx, func() {
		_, _ = unix.Write(d.wake[1], []byte{0})
	})
	defer stop()

	for {
		for len(d.queue) > 0 {
			ev := d.queue[0]
			d.queue = d.queue[1:]
			if key, status, ok := d.tr.Feed(ev); ok {
				d.logger.Debug("key pressed", "key", key)
				return key, status, nil
			}
		}

		if err := ctx.Err(); err != nil {
			return domain.KeyNone, d.tr.Status(), err
		}
		if err := d.wait(); err != nil {
			return domain.KeyNone, d.tr.Status(), err
		}
		if err := d.fill(); err != nil {
			return domain.KeyNone, d.tr.Status(), err
		}
	}
}

func (d *Device) wait() error {
	events := make([]unix.EpollEvent, 2)
	for {
		n, err := unix.EpollWait(d.epfd, events, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return &domain.IOError{Path: d.path, Err: err}
		}
		for _, ev := range events[:n] {
			if int(ev.Fd) == d.wake[0] {
				d.drainWake()
			}
		}
		return nil
	}
}

func (d *Device) drainWake() {
	var b [16]byte
	for {
		if n, err := unix.Read(d.wake[0], b[:]); n <= 0 || err != nil {
			return
		}
	}
}

// fill reads whatever the device has buffered into the queue.
func (d *Device) fill() error {
	for {
		n, err := unix.Read(d.fd, d.buf)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			return nil
		case err != nil:
			return &domain.IOError{Path: d.path, Err: err}
		case n == 0:
			return &domain.IOError{Path: d.path, Err: io.EOF}
		}
		for off := 0; off+EventSize <= n; off += EventSize {
			d.queue = append(d.queue, Decode(d.buf[off:off+EventSize]))
		}
		if n < len(d.buf) {
			return nil
		}
	}
}

// Close releases the device.
func (d *Device) Close() error {
	var errs []error
	for _, fd := range []int{d.fd, d.epfd, d.wake[0], d.wake[1]} {
		if fd >= 0 {
			errs = append(errs, unix.Close(fd))
		}
	}
	d.fd, d.epfd, d.wake = -1, -1, [2]int{-1, -1}
	return errors.Join(errs...)
}
