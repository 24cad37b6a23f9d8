package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/ports"
)

// Book is an in-memory book: its graph and the raw assets it references.
type Book struct {
	Story  *domain.Story
	Images map[string][]byte
	Audio  map[string][]byte
}

// Loader implements ports.StoryLoader using an in-memory map keyed by directory name.
// Safe for concurrent use.
type Loader struct {
	mu    sync.RWMutex
	books map[string][]byte
	media map[string]Book
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{
		books: make(map[string][]byte),
		media: make(map[string]Book),
	}
}

// NewFromStories creates a Loader holding stories without assets.
// This handles serialization automatically, improving DX for tests.
func NewFromStories(stories map[string]*domain.Story) (*Loader, error) {
	l := NewLoader()
	for name, s := range stories {
		if err := l.Add(name, Book{Story: s}); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add registers b under the directory name name, replacing any previous book.
func (l *Loader) Add(name string, b Book) error {
	if name == "" {
		return fmt.Errorf("book name: %w", domain.ErrMissingIdentifier)
	}
	if b.Story == nil {
		return fmt.Errorf("book %s has no story", name)
	}
	data, err := json.Marshal(b.Story)
	if err != nil {
		return fmt.Errorf("failed to marshal book %s: %w", name, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.books[name] = data
	l.media[name] = b
	return nil
}

// Remove forgets the book registered under name.
func (l *Loader) Remove(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.books, name)
	delete(l.media, name)
}

// Names returns the registered book names in order.
func (l *Loader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.books))
	for k := range l.books {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys
}

// Name implements ports.StoryLoader.
func (l *Loader) Name() string { return "memory" }

// Detect implements ports.StoryLoader. Only the base name of dir is considered.
func (l *Loader) Detect(dir string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.books[filepath.Base(dir)]
	return ok
}

// Load implements ports.StoryLoader. Every call returns a fresh copy of the story.
func (l *Loader) Load(ctx context.Context, dir string) (*domain.Story, ports.AssetResolver, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	name := filepath.Base(dir)
	l.mu.RLock()
	data, ok := l.books[name]
	media := l.media[name]
	l.mu.RUnlock()
	if !ok {
		return nil, nil, &domain.IOError{Path: dir, Err: os.ErrNotExist}
	}

	var story domain.Story
	if err := json.Unmarshal(data, &story); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal book %s: %w", name, err)
	}
	return &story, assets{images: media.Images, audio: media.Audio}, nil
}

type assets struct {
	images map[string][]byte
	audio  map[string][]byte
}

func (a assets) OpenImage(name string) (io.ReadCloser, error) {
	return open(a.images, name)
}

func (a assets) OpenAudio(name string) (io.ReadCloser, error) {
	return open(a.audio, name)
}

func open(files map[string][]byte, name string) (io.ReadCloser, error) {
	data, ok := files[name]
	if !ok {
		return nil, &domain.IOError{Path: name, Err: os.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
