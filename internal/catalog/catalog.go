// Package catalog holds the pause library and the fixed question sets.
package catalog

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dtroode/pauselab/internal/model"
	"github.com/dtroode/pauselab/internal/scoring"
)

//go:embed pauses.yaml
var embedded []byte

type document struct {
	Categories          []model.Category `yaml:"categories"`
	AssessmentQuestions []string         `yaml:"assessmentQuestions"`
	LikertLabels        []string         `yaml:"likertLabels"`
	FeelingQuestions    []string         `yaml:"feelingQuestions"`
	Pauses              []model.Pause    `yaml:"pauses"`
}

// Catalog is read-only after Load.
type Catalog struct {
	doc  document
	byID map[string]int
}

// Load parses the embedded library.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// Parse builds a catalog from YAML and checks its integrity.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(doc.AssessmentQuestions) != scoring.QuestionCount {
		return nil, fmt.Errorf("catalog has %d assessment questions, want %d", len(doc.AssessmentQuestions), scoring.QuestionCount)
	}
	if len(doc.LikertLabels) != scoring.MaxScore-scoring.MinScore+1 {
		return nil, fmt.Errorf("catalog has %d likert labels", len(doc.LikertLabels))
	}
	if len(doc.FeelingQuestions) == 0 {
		return nil, fmt.Errorf("catalog has no feeling questions")
	}

	known := make(map[model.PauseCategory]bool, len(doc.Categories))
	for _, c := range doc.Categories {
		known[c.Key] = true
	}

	byID := make(map[string]int, len(doc.Pauses))
	for i, p := range doc.Pauses {
		if p.ID == "" {
			return nil, fmt.Errorf("pause %d has no id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate pause id %q", p.ID)
		}
		if !known[p.Category] {
			return nil, fmt.Errorf("pause %q has unknown category %q", p.ID, p.Category)
		}
		if p.DurationSeconds <= 0 {
			return nil, fmt.Errorf("pause %q has no duration", p.ID)
		}
		byID[p.ID] = i
	}

	return &Catalog{doc: doc, byID: byID}, nil
}

func (c *Catalog) Pauses() []model.Pause {
	return slices.Clone(c.doc.Pauses)
}

func (c *Catalog) ByID(id string) (model.Pause, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.Pause{}, fmt.Errorf("%w: %q", model.ErrUnknownPause, id)
	}
	return c.doc.Pauses[i], nil
}

func (c *Catalog) ByCategory(category model.PauseCategory) []model.Pause {
	var out []model.Pause
	for _, p := range c.doc.Pauses {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Categories() []model.Category {
	return slices.Clone(c.doc.Categories)
}

// Category returns display info for key.
func (c *Catalog) Category(key model.PauseCategory) (model.Category, bool) {
	for _, cat := range c.doc.Categories {
		if cat.Key == key {
			return cat, true
		}
	}
	return model.Category{}, false
}

// Favourites resolves ids in the given order, skipping ids no longer in the
// library.
func (c *Catalog) Favourites(ids []string) []model.Pause {
	out := make([]model.Pause, 0, len(ids))
	for _, id := range ids {
		if i, ok := c.byID[id]; ok {
			out = append(out, c.doc.Pauses[i])
		}
	}
	return out
}

// Random picks a pause other than excludeID when the library allows it.
func (c *Catalog) Random(rnd *rand.Rand, excludeID string) model.Pause {
	pauses := c.doc.Pauses
	if _, ok := c.byID[excludeID]; ok && len(pauses) > 1 {
		n := rnd.IntN(len(pauses) - 1)
		if n >= c.byID[excludeID] {
			n++
		}
		return pauses[n]
	}
	return pauses[rnd.IntN(len(pauses))]
}

func (c *Catalog) AssessmentQuestions() []string {
	return slices.Clone(c.doc.AssessmentQuestions)
}

// LikertLabel returns the label for a score in 1..5.
func (c *Catalog) LikertLabel(score int) string {
	i := score - scoring.MinScore
	if i < 0 || i >= len(c.doc.LikertLabels) {
		return ""
	}
	return c.doc.LikertLabels[i]
}

func (c *Catalog) FeelingQuestion(rnd *rand.Rand) string {
	return c.doc.FeelingQuestions[rnd.IntN(len(c.doc.FeelingQuestions))]
}
