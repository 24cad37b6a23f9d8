package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/talebox/pkg/domain"
)

// GraphOverlay contains player state to highlight on the graph.
type GraphOverlay struct {
	VisitedStages []string
	CurrentStage  string
}

// GenerateMermaid produces a Mermaid flowchart of a story.
// Shapes:
// - Cover: ((Circle))
// - Autoplay stage: [[Subroutine]]
// - Stage: [Rectangle]
// - Choice: {Rhombus}
// OK transitions are solid arrows, HOME transitions dotted ones.
func GenerateMermaid(story *domain.Story, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, stage := range story.Stages {
		id := stageID(stage.ID)
		label := stage.Name
		if label == "" {
			label = stage.ID
		}
		label = strings.ReplaceAll(label, "\"", "'")

		opener, closer := "[", "]"
		switch {
		case stage.Root:
			opener, closer = "((", "))"
		case stage.Controls.Autoplay:
			opener, closer = "[[", "]]"
		}
		if stage.Audio != "" {
			label += " <br/> ♪"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

		if t := stage.OK; t != nil {
			fmt.Fprintf(&sb, "    %s -- \"ok #%d\" --> %s\n", id, t.Option, choiceID(t.ChoiceID))
		}
		if t := stage.Home; t != nil {
			fmt.Fprintf(&sb, "    %s -. \"home #%d\" .-> %s\n", id, t.Option, choiceID(t.ChoiceID))
		}
	}

	for _, choice := range story.Choices {
		id := choiceID(choice.ID)
		fmt.Fprintf(&sb, "    %s{\"%s\"}\n", id, strings.ReplaceAll(choice.ID, "\"", "'"))
		for i, option := range choice.Options {
			fmt.Fprintf(&sb, "    %s -- \"%d\" --> %s\n", id, i, stageID(option))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, s := range overlay.VisitedStages {
			if s == "" || visited[s] {
				continue
			}
			visited[s] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", stageID(s))
		}

		if overlay.CurrentStage != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", stageID(overlay.CurrentStage))
		}
	}

	return sb.String()
}

func stageID(id string) string  { return "s_" + sanitizeMermaidID(id) }
func choiceID(id string) string { return "c_" + sanitizeMermaidID(id) }

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
