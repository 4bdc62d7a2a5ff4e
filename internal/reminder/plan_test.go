package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminder_Next(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	// 2024-03-13 is a Wednesday.
	base := func(h, m int) time.Time { return time.Date(2024, 3, 13, h, m, 0, 0, loc) }

	tests := []struct {
		name     string
		reminder Reminder
		after    time.Time
		want     time.Time
	}{
		{
			name:     "later today",
			reminder: Reminder{Hour: 13},
			after:    base(9, 30),
			want:     base(13, 0),
		},
		{
			name:     "exact time rolls to tomorrow",
			reminder: Reminder{Hour: 9},
			after:    base(9, 0),
			want:     time.Date(2024, 3, 14, 9, 0, 0, 0, loc),
		},
		{
			name:     "passed today",
			reminder: Reminder{Hour: 9, Minute: 15},
			after:    base(20, 0),
			want:     time.Date(2024, 3, 14, 9, 15, 0, 0, loc),
		},
		{
			name:     "weekly later this week",
			reminder: Reminder{Hour: 18, Weekday: weekday(time.Sunday)},
			after:    base(10, 0),
			want:     time.Date(2024, 3, 17, 18, 0, 0, 0, loc),
		},
		{
			name:     "weekly same day before time",
			reminder: Reminder{Hour: 18, Weekday: weekday(time.Wednesday)},
			after:    base(10, 0),
			want:     base(18, 0),
		},
		{
			name:     "weekly same day after time",
			reminder: Reminder{Hour: 18, Weekday: weekday(time.Wednesday)},
			after:    base(18, 0),
			want:     time.Date(2024, 3, 20, 18, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.reminder.Next(tt.after)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestDue(t *testing.T) {
	plan := []Reminder{
		{Title: "a", Hour: 9},
		{Title: "b", Hour: 13},
		{Title: "c", Hour: 9},
	}
	after := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)

	due, when := Due(plan, after)
	require.Len(t, due, 2)
	assert.Equal(t, "a", due[0].Title)
	assert.Equal(t, "c", due[1].Title)
	assert.Equal(t, time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), when)

	due, when = Due(plan, when)
	require.Len(t, due, 1)
	assert.Equal(t, "b", due[0].Title)
	assert.Equal(t, 13, when.Hour())
}

func TestDefaultPlan(t *testing.T) {
	plan := DefaultPlan()
	require.Len(t, plan, 4)

	weekly := 0
	for _, r := range plan {
		require.NoError(t, r.Validate())
		if r.Weekday != nil {
			weekly++
			assert.Equal(t, time.Sunday, *r.Weekday)
			assert.Equal(t, 18, r.Hour)
		}
	}
	assert.Equal(t, 1, weekly)
}

func TestReminder_Validate(t *testing.T) {
	assert.Error(t, Reminder{Title: "x", Hour: 24}.Validate())
	assert.Error(t, Reminder{Title: "x", Hour: -1}.Validate())
	assert.Error(t, Reminder{Title: "x", Minute: 60}.Validate())
	assert.NoError(t, Reminder{Title: "x", Hour: 23, Minute: 59}.Validate())
}
