package book

import (
	"fmt"
	"io"

	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/ports"
)

// Cursor is the navigation state of a book.
// Choice is empty until a transition has been taken.
type Cursor struct {
	Stage  string
	Choice string
	Option int
}

// Book is the story model of one book.
type Book struct {
	id     string
	story  *domain.Story
	assets ports.AssetResolver

	stages  map[string]*domain.Stage
	choices map[string]*domain.Choice
	root    string

	cursor Cursor
}

// New indexes story and places the cursor on its root stage.
func New(id string, story *domain.Story, assets ports.AssetResolver) (*Book, error) {
	b := &Book{
		id:      id,
		story:   story,
		assets:  assets,
		stages:  make(map[string]*domain.Stage, len(story.Stages)),
		choices: make(map[string]*domain.Choice, len(story.Choices)),
	}

	for i := range story.Stages {
		s := &story.Stages[i]
		if s.Root {
			if b.root != "" {
				return nil, fmt.Errorf("book %s: several root stages (%s, %s)", id, b.root, s.ID)
			}
			b.root = s.ID
		}
		b.stages[s.ID] = s
	}
	for i := range story.Choices {
		b.choices[story.Choices[i].ID] = &story.Choices[i]
	}

	if b.root == "" {
		return nil, fmt.Errorf("book %s: %w", id, domain.ErrNoRootStage)
	}

	b.Reset()
	return b, nil
}

// ID returns the book identifier, usually its directory name.
func (b *Book) ID() string { return b.id }

// Title returns the story title, or the book ID when the story has none.
func (b *Book) Title() string {
	if b.story.Title != "" {
		return b.story.Title
	}
	return b.id
}

// Story returns the underlying graph.
func (b *Book) Story() *domain.Story { return b.story }

// Cursor returns the navigation state.
func (b *Book) Cursor() Cursor { return b.cursor }

// Reset moves the cursor back to the root stage.
func (b *Book) Reset() {
	b.cursor = Cursor{Stage: b.root}
}

// OK takes the OK transition of the current stage.
// It reports false and resets the cursor when the transition cannot be followed.
func (b *Book) OK() bool {
	return b.follow(func(s *domain.Stage) *domain.Transition { return s.OK })
}

// Home takes the HOME transition of the current stage.
// It reports false and resets the cursor when the transition cannot be followed.
func (b *Book) Home() bool {
	return b.follow(func(s *domain.Stage) *domain.Transition { return s.Home })
}

func (b *Book) follow(pick func(*domain.Stage) *domain.Transition) bool {
	stage, ok := b.stages[b.cursor.Stage]
	if !ok {
		b.Reset()
		return false
	}

	t := pick(stage)
	if t == nil {
		b.Reset()
		return false
	}

	choice, ok := b.choices[t.ChoiceID]
	if !ok || t.Option < 0 || t.Option >= len(choice.Options) {
		b.Reset()
		return false
	}

	b.cursor = Cursor{
		Stage:  choice.Options[t.Option],
		Choice: choice.ID,
		Option: t.Option,
	}
	return true
}

// WheelLeft selects the previous option of the current choice, wrapping around.
func (b *Book) WheelLeft() bool {
	return b.wheel(-1)
}

// WheelRight selects the next option of the current choice, wrapping around.
func (b *Book) WheelRight() bool {
	return b.wheel(1)
}

func (b *Book) wheel(step int) bool {
	if b.cursor.Choice == "" {
		return false
	}
	choice, ok := b.choices[b.cursor.Choice]
	if !ok || len(choice.Options) == 0 {
		return false
	}

	n := len(choice.Options)
	idx := ((b.cursor.Option+step)%n + n) % n
	b.cursor.Option = idx
	b.cursor.Stage = choice.Options[idx]
	return true
}

// Current returns what must be presented for the current stage.
// It reports false when the cursor no longer points to a known stage.
func (b *Book) Current() (domain.Presentation, bool) {
	s, ok := b.stages[b.cursor.Stage]
	if !ok {
		return domain.Presentation{}, false
	}
	return domain.Presentation{
		StageID:  s.ID,
		Root:     s.Root,
		Controls: s.Controls,
		Image:    s.Image,
		Audio:    s.Audio,
	}, true
}

// OpenImage opens an image asset of the book.
func (b *Book) OpenImage(name string) (io.ReadCloser, error) {
	if b.assets == nil {
		return nil, fmt.Errorf("book %s: no asset source", b.id)
	}
	return b.assets.OpenImage(name)
}

// OpenAudio opens an audio asset of the book.
func (b *Book) OpenAudio(name string) (io.ReadCloser, error) {
	if b.assets == nil {
		return nil, fmt.Errorf("book %s: no asset source", b.id)
	}
	return b.assets.OpenAudio(name)
}
