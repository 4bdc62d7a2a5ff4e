package model

// PauseCategory groups pauses by the kind of activity.
type PauseCategory string

const (
	CategoryBreathe  PauseCategory = "breathe"
	CategoryMove     PauseCategory = "move"
	CategorySense    PauseCategory = "sense"
	CategoryLightAir PauseCategory = "light-air"
	CategoryNature   PauseCategory = "nature"
	CategoryConnect  PauseCategory = "connect"
	CategoryFocus    PauseCategory = "focus"
)

// Pause is a single guided micro-break.
type Pause struct {
	ID              string        `yaml:"id" json:"id"`
	Title           string        `yaml:"title" json:"title"`
	Category        PauseCategory `yaml:"category" json:"category"`
	Instruction     string        `yaml:"instruction" json:"instruction"`
	DurationSeconds int           `yaml:"durationSeconds" json:"durationSeconds"`
	DurationLabel   string        `yaml:"durationLabel" json:"durationLabel"`
	Citation        string        `yaml:"citation" json:"citation"`
	CitationDetail  string        `yaml:"citationDetail" json:"citationDetail"`
}

// Category describes a pause category for display.
type Category struct {
	Key   PauseCategory `yaml:"key"`
	Label string        `yaml:"label"`
	Color string        `yaml:"color"`
}
