package domain

// ControlSettings gates which physical controls are accepted while a stage is current.
type ControlSettings struct {
	Wheel    bool `json:"wheel" mapstructure:"wheel"`
	OK       bool `json:"ok" mapstructure:"ok"`
	Home     bool `json:"home" mapstructure:"home"`
	Pause    bool `json:"pause" mapstructure:"pause"`
	Autoplay bool `json:"autoplay" mapstructure:"autoplay"`
}

// Stage represents one page of a book in the story graph.
type Stage struct {
	ID   string `json:"uuid" mapstructure:"uuid"`
	Name string `json:"name,omitempty" mapstructure:"name"`

	// Root marks the cover page. It is the entry point and the reset target.
	Root bool `json:"squareOne,omitempty" mapstructure:"squareOne"`

	// Image and Audio are asset names; empty means absent.
	Image string `json:"image,omitempty" mapstructure:"image"`
	Audio string `json:"audio,omitempty" mapstructure:"audio"`

	OK   *Transition `json:"okTransition,omitempty" mapstructure:"okTransition"`
	Home *Transition `json:"homeTransition,omitempty" mapstructure:"homeTransition"`

	Controls ControlSettings `json:"controlSettings" mapstructure:"controlSettings"`
}

// Story is the decoded graph of one book.
type Story struct {
	Format    string   `json:"format" mapstructure:"format"`
	Version   int      `json:"version" mapstructure:"version"`
	Title     string   `json:"title,omitempty" mapstructure:"title"`
	NightMode bool     `json:"nightModeAvailable" mapstructure:"nightModeAvailable"`
	Stages    []Stage  `json:"stageNodes" mapstructure:"stageNodes"`
	Choices   []Choice `json:"actionNodes" mapstructure:"actionNodes"`
}

// RootStage returns the stage flagged as the cover page.
func (s *Story) RootStage() (*Stage, bool) {
	for i := range s.Stages {
		if s.Stages[i].Root {
			return &s.Stages[i], true
		}
	}
	return nil, false
}

// Presentation is what the controller needs to render the current stage.
type Presentation struct {
	StageID  string
	Root     bool
	Controls ControlSettings
	Image    string
	Audio    string
}
