package domain

// Transition points a stage to a Choice.
// Option is the entry highlighted when the transition is taken, before any wheel input.
type Transition struct {
	ChoiceID string `json:"actionNode" mapstructure:"actionNode"`
	Option   int    `json:"optionIndex" mapstructure:"optionIndex"`
}

// Choice is a branch point: an ordered, non-empty list of stage IDs.
type Choice struct {
	ID      string   `json:"id" mapstructure:"id"`
	Options []string `json:"options" mapstructure:"options"`
}
