// Package packfs loads books stored as binary packs, with protected assets under rf/ and sf/.
package packfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/talebox/pkg/assets"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/pack"
	"github.com/aretw0/talebox/pkg/ports"
)

// Loader implements ports.StoryLoader for binary packs.
type Loader struct {
	thumbnailer ports.Thumbnailer
	logger      *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithThumbnailer renders missing cover thumbnails while loading.
func WithThumbnailer(t ports.Thumbnailer) Option {
	return func(l *Loader) {
		l.thumbnailer = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a pack loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements ports.StoryLoader.
func (l *Loader) Name() string { return "pack" }

// Detect implements ports.StoryLoader. All four index files must be present.
func (l *Loader) Detect(dir string) bool {
	for _, name := range []string{pack.NodeIndexFile, pack.LinkIndexFile, pack.ImageIndexFile, pack.SoundIndexFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// Load implements ports.StoryLoader.
func (l *Loader) Load(ctx context.Context, dir string) (*domain.Story, ports.AssetResolver, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	opts := []pack.Option{pack.WithLogger(l.logger)}
	if l.thumbnailer != nil {
		opts = append(opts, pack.WithThumbnailer(l.thumbnailer))
	}

	p, err := pack.Decode(dir, opts...)
	if err != nil {
		return nil, nil, err
	}
	if p.Header.FactoryDisabled != 0 {
		return nil, nil, fmt.Errorf("pack %s: %w", dir, domain.ErrFactoryDisabled)
	}

	return p.Story, assets.Dir{
		Images:    filepath.Join(dir, pack.ImageDir),
		Audio:     filepath.Join(dir, pack.SoundDir),
		Protected: true,
	}, nil
}
