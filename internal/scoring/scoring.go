// Package scoring holds the pure rules of the study: assessment banding,
// streaks, the felt-better ratio and study-week windowing.
package scoring

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dtroode/pauselab/internal/model"
)

const (
	// QuestionCount is the number of items in the assessment.
	QuestionCount = 5
	// MinScore and MaxScore bound a single Likert answer.
	MinScore = 1
	MaxScore = 5
	// NeutralScore is used for unanswered or skipped items.
	NeutralScore = 3

	// StudyWeeks is the length of the program.
	StudyWeeks = 4

	highThreshold  = 20
	mixedThreshold = 15
)

// CalculateBand classifies an assessment total.
func CalculateBand(total int) model.Band {
	switch {
	case total >= highThreshold:
		return model.BandHigh
	case total >= mixedThreshold:
		return model.BandMixed
	default:
		return model.BandLow
	}
}

// BandLabel returns the short heading shown for a band.
func BandLabel(band model.Band) string {
	switch band {
	case model.BandHigh:
		return "You feel mostly in control"
	case model.BandMixed:
		return "Mixed feelings about control"
	default:
		return "Technology often feels in charge"
	}
}

// BandDescription returns the explanatory paragraph shown for a band.
func BandDescription(band model.Band) string {
	switch band {
	case model.BandHigh:
		return "Your responses suggest you generally feel in command of your technology use. The pauses ahead can help maintain that balance."
	case model.BandMixed:
		return "Your responses suggest your relationship with technology has room for improvement. The pauses ahead are designed to help."
	default:
		return "Your responses suggest technology often feels like it is in the driving seat. You are not alone, and the pauses ahead are here to help."
	}
}

// ValidateScores checks that scores holds one answer per question within range.
func ValidateScores(scores []int) error {
	if len(scores) != QuestionCount {
		return fmt.Errorf("%w: want %d answers, got %d", model.ErrInvalidScores, QuestionCount, len(scores))
	}
	for i, s := range scores {
		if s < MinScore || s > MaxScore {
			return fmt.Errorf("%w: answer %d is %d", model.ErrInvalidScores, i+1, s)
		}
	}
	return nil
}

// FillUnanswered returns a copy of scores where zero (unanswered) items are neutral.
func FillUnanswered(scores []int) []int {
	out := slices.Clone(scores)
	for i, s := range out {
		if s == 0 {
			out[i] = NeutralScore
		}
	}
	return out
}

// NeutralScores is the result recorded when the assessment is skipped.
func NeutralScores() []int {
	out := make([]int, QuestionCount)
	for i := range out {
		out[i] = NeutralScore
	}
	return out
}

// NewAssessment builds an assessment result whose total and band derive from scores.
func NewAssessment(scores []int, at time.Time) model.AssessmentResult {
	total := 0
	for _, s := range scores {
		total += s
	}

	return model.AssessmentResult{
		Date:   at,
		Scores: slices.Clone(scores),
		Total:  total,
		Band:   CalculateBand(total),
	}
}

// CalculateStreak counts consecutive calendar days, in now's location, with at
// least one completed pause. The run must end today or yesterday, so a streak
// survives until the end of a day without a pause.
func CalculateStreak(pauses []model.CompletedPause, now time.Time) int {
	if len(pauses) == 0 {
		return 0
	}

	loc := now.Location()
	seen := make(map[int64]struct{}, len(pauses))
	days := make([]int64, 0, len(pauses))
	for _, p := range pauses {
		d := dayNumber(p.CompletedAt.In(loc))
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}

	today := dayNumber(now)
	_, hasToday := seen[today]
	_, hasYesterday := seen[today-1]
	if !hasToday && !hasYesterday {
		return 0
	}

	slices.Sort(days)
	slices.Reverse(days)

	check := today
	if !hasToday {
		check = today - 1
	}

	streak := 0
	for _, d := range days {
		if d > check {
			continue
		}
		if d != check {
			break
		}
		streak++
		check--
	}

	return streak
}

// dayNumber maps a wall-clock date to a day index that is immune to DST shifts.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / int64(24*time.Hour/time.Second)
}

// CalculateFeltBetterPercent is the rounded share of pauses after which the user
// felt better, 0 when there are none.
func CalculateFeltBetterPercent(pauses []model.CompletedPause) int {
	if len(pauses) == 0 {
		return 0
	}

	better := 0
	for _, p := range pauses {
		if p.Feeling == model.FeelingBetter {
			better++
		}
	}

	return int(math.Round(float64(better) / float64(len(pauses)) * 100))
}

// StudyWeekNumber returns the 1-based program week, capped at StudyWeeks.
func StudyWeekNumber(firstOpenDate *time.Time, now time.Time) int {
	if firstOpenDate == nil {
		return 1
	}

	days := int(math.Floor(now.Sub(*firstOpenDate).Hours() / 24))
	week := days/7 + 1

	return max(1, min(week, StudyWeeks))
}

// Summary bundles the derived values shown on the progress screen.
type Summary struct {
	Streak            int
	FeltBetterPercent int
	StudyWeek         int
	TotalPauses       int
	LatestBand        model.Band
	HasAssessment     bool
}

// Summarize derives the progress summary from a record.
func Summarize(data model.UserData, now time.Time) Summary {
	s := Summary{
		Streak:            CalculateStreak(data.CompletedPauses, now),
		FeltBetterPercent: CalculateFeltBetterPercent(data.CompletedPauses),
		StudyWeek:         StudyWeekNumber(data.FirstOpenDate, now),
		TotalPauses:       len(data.CompletedPauses),
	}
	if a, ok := data.LatestAssessment(); ok {
		s.LatestBand = a.Band
		s.HasAssessment = true
	}
	return s
}
