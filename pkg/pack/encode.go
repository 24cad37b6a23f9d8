package pack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/aretw0/talebox/pkg/cipher"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/ports"
)

var absent = TransitionRecord{Index: -1, Count: -1, Selected: -1}

type encoder struct {
	index   map[string]int
	choices map[string]domain.Choice
	links   []uint32
	images  assetTable
	sounds  assetTable
}

type assetTable struct {
	names []string
	index map[string]int32
}

func (t *assetTable) add(name string) (int32, error) {
	if name == "" {
		return -1, nil
	}
	if i, ok := t.index[name]; ok {
		return i, nil
	}
	if len(name) > NameSize {
		return 0, fmt.Errorf("asset name %q longer than %d bytes", name, NameSize)
	}
	if t.index == nil {
		t.index = make(map[string]int32)
	}
	i := int32(len(t.names))
	t.names = append(t.names, name)
	t.index[name] = i
	return i, nil
}

func (t *assetTable) bytes() []byte {
	var b bytes.Buffer
	for _, name := range t.names {
		b.Write(formatName(name))
	}
	return b.Bytes()
}

// Encode writes the index files describing story into dir.
// Asset names are stored verbatim and must fit the 12-byte name tables.
// The root stage is written first since decoders identify it by position.
func Encode(dir string, story *domain.Story) error {
	root, ok := story.RootStage()
	if !ok {
		return domain.ErrNoRootStage
	}

	stages := make([]domain.Stage, 0, len(story.Stages))
	stages = append(stages, *root)
	for _, s := range story.Stages {
		if s.ID != root.ID {
			stages = append(stages, s)
		}
	}

	e := &encoder{
		index:   make(map[string]int, len(stages)),
		choices: make(map[string]domain.Choice, len(story.Choices)),
	}
	for i, s := range stages {
		e.index[s.ID] = i
	}
	for _, c := range story.Choices {
		e.choices[c.ID] = c
	}

	var ni bytes.Buffer
	nodes := make([]Node, len(stages))
	for i, s := range stages {
		node, err := e.node(s)
		if err != nil {
			return fmt.Errorf("stage %s: %w", s.ID, err)
		}
		nodes[i] = node
	}

	header := Header{
		FormatVersion: 1,
		PackVersion:   uint16(max(story.Version, 1)),
		NodesOffset:   HeaderSize,
		NodeSize:      NodeSize,
		StageCount:    uint32(len(nodes)),
		ImageCount:    uint32(len(e.images.names)),
		SoundCount:    uint32(len(e.sounds.names)),
	}
	if err := binary.Write(&ni, binary.LittleEndian, &header); err != nil {
		return err
	}
	if err := binary.Write(&ni, binary.LittleEndian, nodes); err != nil {
		return err
	}

	li := make([]byte, 4*len(e.links))
	for i, l := range e.links {
		binary.LittleEndian.PutUint32(li[i*4:], l)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.IOError{Path: dir, Err: err}
	}
	files := map[string][]byte{
		NodeIndexFile:  ni.Bytes(),
		LinkIndexFile:  cipher.Encrypt(li),
		ImageIndexFile: cipher.Encrypt(e.images.bytes()),
		SoundIndexFile: cipher.Encrypt(e.sounds.bytes()),
	}
	if story.NightMode {
		files[NightModeFile] = nil
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return &domain.IOError{Path: path, Err: err}
		}
	}
	return nil
}

func (e *encoder) node(s domain.Stage) (Node, error) {
	var (
		n   Node
		err error
	)
	if n.Image, err = e.images.add(s.Image); err != nil {
		return n, err
	}
	if n.Sound, err = e.sounds.add(s.Audio); err != nil {
		return n, err
	}
	if n.OK, err = e.record(s.OK); err != nil {
		return n, err
	}
	if n.Home, err = e.record(s.Home); err != nil {
		return n, err
	}

	n.Wheel = unflag(s.Controls.Wheel)
	n.OKOn = unflag(s.Controls.OK)
	n.HomeOn = unflag(s.Controls.Home)
	n.Pause = unflag(s.Controls.Pause)
	n.Autoplay = unflag(s.Controls.Autoplay)
	return n, nil
}

func (e *encoder) record(t *domain.Transition) (TransitionRecord, error) {
	if t == nil {
		return absent, nil
	}

	c, ok := e.choices[t.ChoiceID]
	if !ok || len(c.Options) == 0 {
		return absent, fmt.Errorf("unknown or empty choice %q", t.ChoiceID)
	}

	start := len(e.links)
	for _, opt := range c.Options {
		idx, ok := e.index[opt]
		if !ok {
			return absent, fmt.Errorf("choice %s: unknown stage %q", c.ID, opt)
		}
		e.links = append(e.links, uint32(idx))
	}

	return TransitionRecord{
		Index:    int32(start),
		Count:    int32(len(c.Options)),
		Selected: int32(t.Option),
	}, nil
}

// Build writes a complete pack into dir: every asset is renamed to a short name,
// copied in protected form under rf/ or sf/, then the index files are encoded.
func Build(dir string, story *domain.Story, assets ports.AssetResolver) error {
	out := *story
	out.Stages = slices.Clone(story.Stages)

	images := make(map[string]string)
	sounds := make(map[string]string)
	for i := range out.Stages {
		s := &out.Stages[i]
		var err error
		if s.Image, err = copyAsset(dir, ImageDir, s.Image, images, assets.OpenImage); err != nil {
			return err
		}
		if s.Audio, err = copyAsset(dir, SoundDir, s.Audio, sounds, assets.OpenAudio); err != nil {
			return err
		}
	}
	return Encode(dir, &out)
}

func copyAsset(dir, sub, name string, seen map[string]string, open func(string) (io.ReadCloser, error)) (string, error) {
	if name == "" {
		return "", nil
	}
	if short, ok := seen[name]; ok {
		return short, nil
	}

	rc, err := open(name)
	if err != nil {
		return "", fmt.Errorf("open asset %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", &domain.IOError{Path: name, Err: err}
	}

	short := fmt.Sprintf("000/%08X", len(seen))
	path := filepath.Join(dir, sub, filepath.FromSlash(short))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &domain.IOError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, cipher.Encrypt(data), 0o644); err != nil {
		return "", &domain.IOError{Path: path, Err: err}
	}

	seen[name] = short
	return short, nil
}
