// Package library holds the books found under a library root and the book selected
// while browsing covers.
package library

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/talebox/pkg/book"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/ports"
)

// DisabledMarker is the file that excludes a book directory from the library.
const DisabledMarker = ".factory_disabled"

// Library is an ordered list of books with a selection index.
// It is not safe for concurrent use; Watch is the exception.
type Library struct {
	root     string
	loaders  []ports.StoryLoader
	logger   *slog.Logger
	debounce time.Duration

	books []*book.Book
	index int
}

// Option configures the Library.
type Option func(*Library)

// WithLoaders sets the book formats probed in each directory, in order.
func WithLoaders(loaders ...ports.StoryLoader) Option {
	return func(l *Library) {
		l.loaders = loaders
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// WithDebounce sets how long Watch waits for the file system to settle.
func WithDebounce(d time.Duration) Option {
	return func(l *Library) {
		l.debounce = d
	}
}

// New creates an empty library rooted at root. Call Load to scan it.
func New(root string, opts ...Option) *Library {
	l := &Library{
		root:     root,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the scanned directory.
func (l *Library) Root() string { return l.root }

// Load scans the library root and selects the first book.
// Books that cannot be loaded are logged and left out.
func (l *Library) Load(ctx context.Context) error {
	books, err := l.scan(ctx)
	if err != nil {
		return err
	}
	l.books = books
	l.index = 0
	return nil
}

// Reload rescans the library root. The selection stays on the same book when it
// is still present. An empty rescan keeps the current books.
func (l *Library) Reload(ctx context.Context) error {
	books, err := l.scan(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 && len(l.books) > 0 {
		l.logger.Warn("library rescan found no book, keeping the current ones", "root", l.root)
		return nil
	}

	selected := ""
	if cur := l.Current(); cur != nil {
		selected = cur.ID()
	}

	l.books = books
	l.index = 0
	for i, b := range books {
		if b.ID() == selected {
			l.index = i
			break
		}
	}
	l.logger.Info("library reloaded", "root", l.root, "books", len(books))
	return nil
}

func (l *Library) scan(ctx context.Context) ([]*book.Book, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, &domain.IOError{Path: l.root, Err: err}
	}

	var books []*book.Book
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := filepath.Join(l.root, entry.Name())
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, DisabledMarker)); err == nil {
			l.logger.Debug("skipping disabled book", "dir", dir)
			continue
		}

		b, err := l.load(ctx, dir)
		switch {
		case errors.Is(err, domain.ErrFactoryDisabled):
			l.logger.Debug("skipping disabled book", "dir", dir)
		case err != nil:
			l.logger.Warn("skipping book", "dir", dir, "err", err)
		case b != nil:
			books = append(books, b)
		}
	}
	return books, nil
}

func (l *Library) load(ctx context.Context, dir string) (*book.Book, error) {
	for _, loader := range l.loaders {
		if !loader.Detect(dir) {
			continue
		}
		story, assets, err := loader.Load(ctx, dir)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("book loaded", "dir", dir, "format", loader.Name(), "stages", len(story.Stages))
		return book.New(filepath.Base(dir), story, assets)
	}
	l.logger.Debug("no book format detected", "dir", dir)
	return nil, nil
}

// Len returns the number of books.
func (l *Library) Len() int { return len(l.books) }

// Index returns the selection index.
func (l *Library) Index() int { return l.index }

// Books returns the books in library order.
func (l *Library) Books() []*book.Book { return l.books }

// Current returns the selected book, or nil when the library is empty.
func (l *Library) Current() *book.Book {
	if len(l.books) == 0 {
		return nil
	}
	return l.books[l.index]
}

// WheelLeft selects the previous book, wrapping around. The library must not be empty.
func (l *Library) WheelLeft() {
	n := len(l.books)
	l.index = (l.index - 1 + n) % n
}

// WheelRight selects the next book, wrapping around. The library must not be empty.
func (l *Library) WheelRight() {
	l.index = (l.index + 1) % len(l.books)
}
