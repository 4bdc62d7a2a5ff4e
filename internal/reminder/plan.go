// Package reminder schedules the study's daily and weekly prompts.
package reminder

import (
	"fmt"
	"time"
)

// Reminder fires daily at Hour:Minute, or weekly when Weekday is set.
type Reminder struct {
	Title   string
	Body    string
	Hour    int
	Minute  int
	Weekday *time.Weekday
}

func weekday(d time.Weekday) *time.Weekday { return &d }

// DefaultPlan is the reminder set enabled by onboarding.
func DefaultPlan() []Reminder {
	return []Reminder{
		{Title: "Morning pause", Body: "Start your day with intention. Take a 2-minute break.", Hour: 9},
		{Title: "Afternoon reset", Body: "Midday check-in. A short pause can shift your focus.", Hour: 13},
		{Title: "Evening wind-down", Body: "End the day mindfully. One pause before you switch off.", Hour: 19},
		{Title: "Weekly reflection", Body: "How in control of your tech use did you feel this week?", Hour: 18, Weekday: weekday(time.Sunday)},
	}
}

// Validate rejects out-of-range clock values.
func (r Reminder) Validate() error {
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("reminder %q: hour %d out of range", r.Title, r.Hour)
	}
	if r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("reminder %q: minute %d out of range", r.Title, r.Minute)
	}
	return nil
}

// Next returns the first fire time strictly after after, in after's location.
func (r Reminder) Next(after time.Time) time.Time {
	y, m, d := after.Date()
	next := time.Date(y, m, d, r.Hour, r.Minute, 0, 0, after.Location())

	if r.Weekday != nil {
		shift := (int(*r.Weekday) - int(next.Weekday()) + 7) % 7
		next = next.AddDate(0, 0, shift)
		if !next.After(after) {
			next = next.AddDate(0, 0, 7)
		}
		return next
	}

	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Due returns the reminders firing soonest after after, and when.
func Due(plan []Reminder, after time.Time) ([]Reminder, time.Time) {
	var (
		due  []Reminder
		when time.Time
	)
	for _, r := range plan {
		next := r.Next(after)
		switch {
		case when.IsZero() || next.Before(when):
			due = []Reminder{r}
			when = next
		case next.Equal(when):
			due = append(due, r)
		}
	}
	return due, when
}
