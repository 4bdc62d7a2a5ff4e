package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/pauselab/internal/model"
	"github.com/dtroode/pauselab/internal/scoring"
)

// parseScores reads "4,3,0,5,2". Zero marks an unanswered item and is
// recorded as neutral.
func parseScores(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: --scores is required", model.ErrInvalidScores)
	}

	parts := strings.Split(raw, ",")
	scores := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", model.ErrInvalidScores, p)
		}
		scores = append(scores, v)
	}

	scores = scoring.FillUnanswered(scores)
	if err := scoring.ValidateScores(scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func parseRating(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 || v > 10 {
		return 0, fmt.Errorf("%w: got %q", model.ErrInvalidRating, raw)
	}
	return v, nil
}

// parseDemographics builds demographics from the flags that were set.
func parseDemographics(cmd *cobra.Command, age int, gender string) (model.Demographics, error) {
	var d model.Demographics
	if cmd.Flags().Changed("age") {
		d.Age = &age
	}
	if cmd.Flags().Changed("gender") {
		g := model.Gender(strings.ToLower(strings.TrimSpace(gender)))
		d.Gender = &g
	}

	if err := d.Validate(); err != nil {
		return model.Demographics{}, err
	}
	return d, nil
}
