package ports

import (
	"context"
	"io"

	"github.com/aretw0/talebox/pkg/domain"
)

// StoryLoader defines how the library reads one on-disk book format.
type StoryLoader interface {
	// Name identifies the format in logs.
	Name() string

	// Detect reports whether dir holds a book in this format.
	Detect(dir string) bool

	// Load decodes the book stored in dir.
	// It returns domain.ErrFactoryDisabled for books that must be skipped silently.
	Load(ctx context.Context, dir string) (*domain.Story, AssetResolver, error)
}

// AssetResolver opens the assets referenced by stage image and audio names.
// Protected assets are deciphered transparently by the returned stream.
type AssetResolver interface {
	OpenImage(name string) (io.ReadCloser, error)
	OpenAudio(name string) (io.ReadCloser, error)
}

// Thumbnailer renders a cover thumbnail used by library browsing UIs.
type Thumbnailer interface {
	Thumbnail(src io.Reader, name string, dst string) error
}

// Watchable defines an interface for sources that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying books change.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
