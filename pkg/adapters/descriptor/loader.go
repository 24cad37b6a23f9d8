// Package descriptor loads books described by a plain story file (JSON or YAML)
// with their assets stored unprotected in an assets folder.
package descriptor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/talebox/pkg/assets"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// AssetDir is the folder holding images and audio next to the story file.
const AssetDir = "assets"

// Files lists the accepted story file names, in lookup order.
var Files = []string{"story.json", "story.yaml", "story.yml"}

// Loader implements ports.StoryLoader for plain descriptors.
type Loader struct{}

// New creates a descriptor loader.
func New() *Loader {
	return &Loader{}
}

// Name implements ports.StoryLoader.
func (l *Loader) Name() string { return "descriptor" }

// Detect implements ports.StoryLoader.
func (l *Loader) Detect(dir string) bool {
	_, ok := find(dir)
	return ok
}

// Load implements ports.StoryLoader.
func (l *Loader) Load(ctx context.Context, dir string) (*domain.Story, ports.AssetResolver, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	path, ok := find(dir)
	if !ok {
		return nil, nil, &domain.IOError{Path: dir, Err: os.ErrNotExist}
	}

	story, err := Parse(path)
	if err != nil {
		return nil, nil, err
	}

	base := filepath.Join(dir, AssetDir)
	return story, assets.Dir{Images: base, Audio: base}, nil
}

// Parse reads a story file. The format is chosen by extension; JSON is the default.
func Parse(path string) (*domain.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.IOError{Path: path, Err: err}
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var story domain.Story
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &story,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := validate(&story); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &story, nil
}

func validate(story *domain.Story) error {
	ids := make(map[string]bool, len(story.Stages))
	roots := 0
	for _, s := range story.Stages {
		if s.ID == "" {
			return fmt.Errorf("stage without uuid: %w", domain.ErrMissingIdentifier)
		}
		if ids[s.ID] {
			return fmt.Errorf("duplicate stage %s", s.ID)
		}
		ids[s.ID] = true
		if s.Root {
			roots++
		}
	}
	switch {
	case roots == 0:
		return domain.ErrNoRootStage
	case roots > 1:
		return fmt.Errorf("%d root stages", roots)
	}

	choices := make(map[string]bool, len(story.Choices))
	for _, c := range story.Choices {
		if c.ID == "" {
			return fmt.Errorf("action node without id: %w", domain.ErrMissingIdentifier)
		}
		if len(c.Options) == 0 {
			return fmt.Errorf("action node %s has no options", c.ID)
		}
		for _, opt := range c.Options {
			if !ids[opt] {
				return fmt.Errorf("action node %s: unknown stage %s", c.ID, opt)
			}
		}
		choices[c.ID] = true
	}

	// Option indices are checked when the transition is taken.
	for _, s := range story.Stages {
		if s.OK != nil && !choices[s.OK.ChoiceID] {
			return fmt.Errorf("stage %s: ok transition to unknown action node %q", s.ID, s.OK.ChoiceID)
		}
		if s.Home != nil && !choices[s.Home.ChoiceID] {
			return fmt.Errorf("stage %s: home transition to unknown action node %q", s.ID, s.Home.ChoiceID)
		}
	}
	return nil
}

func find(dir string) (string, bool) {
	for _, name := range Files {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
