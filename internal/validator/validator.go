package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/talebox/pkg/domain"
)

// Report lists what ValidateStory found. Errors break navigation; warnings
// (unreachable stages, dead ends) only make a book less pleasant.
type Report struct {
	Errors   []string
	Warnings []string
}

// Err folds the errors into one error, or nil.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidateStory checks for broken links and crawls the graph from the cover to
// find the stages no transition reaches.
func ValidateStory(story *domain.Story) Report {
	var r Report

	stages := make(map[string]*domain.Stage, len(story.Stages))
	roots := 0
	for i := range story.Stages {
		s := &story.Stages[i]
		if _, dup := stages[s.ID]; dup {
			r.Errors = append(r.Errors, fmt.Sprintf("duplicate stage '%s'", s.ID))
		}
		stages[s.ID] = s
		if s.Root {
			roots++
		}
	}
	choices := make(map[string]*domain.Choice, len(story.Choices))
	for i := range story.Choices {
		choices[story.Choices[i].ID] = &story.Choices[i]
	}

	switch roots {
	case 0:
		r.Errors = append(r.Errors, "no cover stage")
		return r
	case 1:
	default:
		r.Errors = append(r.Errors, fmt.Sprintf("%d cover stages", roots))
	}

	for _, c := range story.Choices {
		if len(c.Options) == 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("choice '%s' has no option", c.ID))
		}
		for _, o := range c.Options {
			if _, ok := stages[o]; !ok {
				r.Errors = append(r.Errors, fmt.Sprintf("choice '%s' leads to missing stage '%s'", c.ID, o))
			}
		}
	}

	// Crawler
	root, _ := story.RootStage()
	visited := map[string]bool{}
	queue := []string{root.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		s, ok := stages[id]
		if !ok {
			continue
		}
		if s.OK == nil && s.Home == nil && !s.Root {
			r.Warnings = append(r.Warnings, fmt.Sprintf("stage '%s' is a dead end", id))
		}
		for name, t := range map[string]*domain.Transition{"ok": s.OK, "home": s.Home} {
			if t == nil {
				continue
			}
			c, ok := choices[t.ChoiceID]
			if !ok {
				r.Errors = append(r.Errors, fmt.Sprintf("stage '%s' %s transition: missing choice '%s'", id, name, t.ChoiceID))
				continue
			}
			if t.Option >= len(c.Options) {
				r.Errors = append(r.Errors, fmt.Sprintf("stage '%s' %s transition: option %d out of range", id, name, t.Option))
			}
			// The wheel can reach every option of the choice.
			for _, o := range c.Options {
				if !visited[o] {
					queue = append(queue, o)
				}
			}
		}
	}

	for _, s := range story.Stages {
		if !visited[s.ID] {
			r.Warnings = append(r.Warnings, fmt.Sprintf("stage '%s' is unreachable", s.ID))
		}
	}
	return r
}
