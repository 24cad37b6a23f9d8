package evdev_test

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/talebox/pkg/adapters/evdev"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

const (
	btnSelect = 0x13a
	btnStart  = 0x13b
	dpadDown  = 0x221
)

func encode(typ, code uint16, value int32) []byte {
	buf := make([]byte, evdev.EventSize)
	binary.NativeEndian.PutUint16(buf[16:], typ)
	binary.NativeEndian.PutUint16(buf[18:], code)
	binary.NativeEndian.PutUint32(buf[20:], uint32(value))
	return buf
}

func TestDecode(t *testing.T) {
	ev := evdev.Decode(encode(1, btnStart, -1))
	assert.Equal(t, evdev.RawEvent{Type: 1, Code: btnStart, Value: -1}, ev)
}

func TestTranslator(t *testing.T) {
	tr := evdev.NewTranslator(evdev.DefaultKeymap)

	_, _, ok := tr.Feed(evdev.RawEvent{Type: 0, Code: 0, Value: 0})
	assert.False(t, ok, "sync events are ignored")

	_, _, ok = tr.Feed(evdev.RawEvent{Type: 1, Code: 0x2ff, Value: 1})
	assert.False(t, ok, "unmapped buttons are ignored")

	key, status, ok := tr.Feed(evdev.RawEvent{Type: 1, Code: btnSelect, Value: 1})
	require.True(t, ok)
	assert.Equal(t, domain.KeyHome, key)
	assert.True(t, status.Held(domain.KeyHome))

	_, _, ok = tr.Feed(evdev.RawEvent{Type: 1, Code: btnSelect, Value: 2})
	assert.False(t, ok, "autorepeat is absorbed")

	key, status, ok = tr.Feed(evdev.RawEvent{Type: 1, Code: dpadDown, Value: 1})
	require.True(t, ok)
	assert.Equal(t, domain.KeyDown, key)
	assert.True(t, status.Held(domain.KeyHome), "chord keeps the held key")

	_, status, ok = tr.Feed(evdev.RawEvent{Type: 1, Code: btnSelect, Value: 0})
	assert.False(t, ok)
	assert.False(t, status.Held(domain.KeyHome))
	assert.True(t, status.Held(domain.KeyDown))
}

func fifoDevice(t *testing.T) (*evdev.Device, *os.File) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event0")
	require.NoError(t, unix.Mkfifo(path, 0o600))

	dev, err := evdev.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { dev.Close() })

	w, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return dev, w
}

func TestDevice_Next(t *testing.T) {
	dev, w := fifoDevice(t)

	go func() {
		time.Sleep(20 * time.Millisecond)
		w.Write(encode(1, btnStart, 1))
		w.Write(encode(0, 0, 0))
		w.Write(encode(1, btnStart, 0))
		w.Write(encode(1, 0x133, 1))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key, _, err := dev.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KeyOK, key)

	key, status, err := dev.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KeyPause, key)
	assert.False(t, status.Held(domain.KeyOK))
}

func TestDevice_NextCancelled(t *testing.T) {
	dev, _ := fifoDevice(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, _, err := dev.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_Missing(t *testing.T) {
	_, err := evdev.Open(filepath.Join(t.TempDir(), "nope"))

	var ioErr *domain.IOError
	assert.ErrorAs(t, err, &ioErr)
}
