package cipher

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Reader exposes a protected stream as plain bytes.
// The deciphered header is held in memory; the tail is read through from the source.
type Reader struct {
	src    io.ReadSeeker
	header []byte
	pos    int64
	srcPos int64
}

// NewReader reads and deciphers the header of src.
func NewReader(src io.ReadSeeker) (*Reader, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	buf := make([]byte, BlockSize)
	n, err := io.ReadFull(src, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &Reader{
		src:    src,
		header: Decrypt(buf[:n]),
		srcPos: int64(n),
	}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if r.pos < int64(len(r.header)) {
		n := copy(p, r.header[r.pos:])
		r.pos += int64(n)
		return n, nil
	}

	if r.srcPos != r.pos {
		if _, err := r.src.Seek(r.pos, io.SeekStart); err != nil {
			return 0, err
		}
		r.srcPos = r.pos
	}

	n, err := r.src.Read(p)
	r.pos += int64(n)
	r.srcPos += int64(n)
	return n, err
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.pos + offset
	case io.SeekEnd:
		size, err := r.src.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		r.srcPos = size
		abs = size + offset
	default:
		return 0, fmt.Errorf("cipher: invalid whence %d", whence)
	}

	if abs < 0 {
		return 0, errors.New("cipher: negative position")
	}
	r.pos = abs
	return abs, nil
}

// File is a protected file opened for plain reading.
type File struct {
	*Reader
	f *os.File
}

// Open opens a protected file.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decipher %s: %w", path, err)
	}
	return &File{Reader: r, f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}
