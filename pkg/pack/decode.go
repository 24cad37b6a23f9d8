package pack

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/talebox/pkg/cipher"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/ports"
	"github.com/google/uuid"
)

// Pack is a decoded story pack.
type Pack struct {
	Dir    string
	Header Header
	Story  *domain.Story
}

// Option configures Decode.
type Option func(*decoder)

// WithThumbnailer renders thumbnail.png from the cover image when it is missing.
func WithThumbnailer(t ports.Thumbnailer) Option {
	return func(d *decoder) {
		d.thumbnailer = t
	}
}

// WithLogger sets the logger used for non-fatal problems.
func WithLogger(logger *slog.Logger) Option {
	return func(d *decoder) {
		d.logger = logger
	}
}

// WithIDGenerator replaces the random identifiers given to non-root stages and choices.
func WithIDGenerator(gen func() string) Option {
	return func(d *decoder) {
		d.newID = gen
	}
}

type decoder struct {
	dir         string
	thumbnailer ports.Thumbnailer
	logger      *slog.Logger
	newID       func() string

	links []uint32
	ids   []string
	story *domain.Story
}

// Decode reads the pack stored in dir.
//
// The first node is the root stage and is identified by the directory name; every
// other stage and every choice receives a generated identifier.
func Decode(dir string, opts ...Option) (*Pack, error) {
	d := &decoder{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}

	rootID := filepath.Base(filepath.Clean(dir))
	if rootID == "." || rootID == string(filepath.Separator) || rootID == "" {
		return nil, fmt.Errorf("pack %q: %w", dir, domain.ErrMissingIdentifier)
	}

	header, nodes, err := d.readNodes()
	if err != nil {
		return nil, err
	}

	raw, err := d.readProtected(LinkIndexFile)
	if err != nil {
		return nil, err
	}
	d.links = parseLinks(raw)

	raw, err = d.readProtected(ImageIndexFile)
	if err != nil {
		return nil, err
	}
	images := parseNames(raw)

	raw, err = d.readProtected(SoundIndexFile)
	if err != nil {
		return nil, err
	}
	sounds := parseNames(raw)

	d.story = &domain.Story{
		Format:    fmt.Sprintf("v%d", header.FormatVersion),
		Version:   int(header.PackVersion),
		NightMode: exists(filepath.Join(dir, NightModeFile)),
		Stages:    make([]domain.Stage, len(nodes)),
	}

	d.ids = make([]string, len(nodes))
	d.ids[0] = rootID
	for i := 1; i < len(nodes); i++ {
		d.ids[i] = d.newID()
	}

	for i, node := range nodes {
		d.story.Stages[i] = domain.Stage{
			ID:    d.ids[i],
			Root:  i == 0,
			Image: lookup(images, node.Image),
			Audio: lookup(sounds, node.Sound),
			Controls: domain.ControlSettings{
				Wheel:    flag(node.Wheel),
				OK:       flag(node.OKOn),
				Home:     flag(node.HomeOn),
				Pause:    flag(node.Pause),
				Autoplay: flag(node.Autoplay),
			},
		}
	}

	// Options reference stages by position, so transitions are resolved once every ID exists.
	for i, node := range nodes {
		stage := &d.story.Stages[i]
		if stage.OK, err = d.transition(node.OK); err != nil {
			return nil, err
		}
		if stage.Home, err = d.transition(node.Home); err != nil {
			return nil, err
		}
	}

	// Factory-disabled packs are skipped by loaders and stay untouched on disk.
	if cover := d.story.Stages[0].Image; cover != "" && header.FactoryDisabled == 0 {
		d.thumbnail(cover)
	}

	return &Pack{Dir: dir, Header: header, Story: d.story}, nil
}

// readNodes parses the ni file. Headers are normally stored plain; a protected header
// is accepted as well.
func (d *decoder) readNodes() (Header, []Node, error) {
	path := filepath.Join(d.dir, NodeIndexFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Header{}, nil, &domain.IOError{Path: path, Err: err}
	}
	if len(raw) < HeaderSize {
		return Header{}, nil, &domain.FormatError{Path: path, Reason: fmt.Sprintf("header is %d bytes, want %d", len(raw), HeaderSize)}
	}

	header, err := parseHeader(raw)
	if err != nil {
		return Header{}, nil, &domain.FormatError{Path: path, Reason: err.Error()}
	}
	if !header.fits(len(raw)) {
		if protected, err := parseHeader(cipher.Decrypt(raw[:HeaderSize])); err == nil && protected.fits(len(raw)) {
			header = protected
		}
	}

	switch {
	case header.StageCount == 0:
		return Header{}, nil, &domain.FormatError{Path: path, Reason: "no stage node"}
	case header.NodesOffset < HeaderSize || header.NodeSize < NodeSize:
		return Header{}, nil, &domain.FormatError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported node table at %d, node size %d", header.NodesOffset, header.NodeSize),
		}
	case header.end() > uint64(len(raw)):
		return Header{}, nil, &domain.FormatError{
			Path:   path,
			Reason: fmt.Sprintf("node table truncated: %d nodes declared", header.StageCount),
		}
	}

	nodes := make([]Node, header.StageCount)
	for i := range nodes {
		off := int(header.NodesOffset) + i*int(header.NodeSize)
		if nodes[i], err = parseNode(raw[off:]); err != nil {
			return Header{}, nil, &domain.FormatError{Path: path, Reason: err.Error()}
		}
	}
	return header, nodes, nil
}

func (d *decoder) readProtected(name string) ([]byte, error) {
	path := filepath.Join(d.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.IOError{Path: path, Err: err}
	}
	return cipher.Decrypt(raw), nil
}

func (d *decoder) transition(rec TransitionRecord) (*domain.Transition, error) {
	if rec.Index < 0 || rec.Count < 1 {
		return nil, nil
	}

	path := filepath.Join(d.dir, LinkIndexFile)
	start, end := int(rec.Index), int(rec.Index)+int(rec.Count)
	if end > len(d.links) {
		return nil, &domain.FormatError{
			Path:   path,
			Reason: fmt.Sprintf("options %d..%d out of %d links", start, end, len(d.links)),
		}
	}

	options := make([]string, 0, rec.Count)
	for _, idx := range d.links[start:end] {
		if int(idx) >= len(d.ids) {
			return nil, &domain.FormatError{Path: path, Reason: fmt.Sprintf("link to unknown stage %d", idx)}
		}
		options = append(options, d.ids[idx])
	}

	choice := domain.Choice{ID: d.newID(), Options: options}
	d.story.Choices = append(d.story.Choices, choice)

	return &domain.Transition{ChoiceID: choice.ID, Option: max(int(rec.Selected), 0)}, nil
}

// thumbnail renders the cover thumbnail. Failures never prevent decoding.
func (d *decoder) thumbnail(image string) {
	if d.thumbnailer == nil {
		return
	}

	dst := filepath.Join(d.dir, ThumbnailFile)
	if exists(dst) {
		return
	}

	err := func() error {
		f, err := cipher.Open(filepath.Join(d.dir, ImageDir, filepath.FromSlash(image)))
		if err != nil {
			return err
		}
		defer f.Close()
		return d.thumbnailer.Thumbnail(f, image, dst)
	}()
	if err != nil {
		d.logger.Warn("thumbnail generation failed", "dir", d.dir, "image", image, "err", err)
	}
}

func lookup(names []string, index int32) string {
	if index < 0 || int(index) >= len(names) {
		return ""
	}
	return names[index]
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
