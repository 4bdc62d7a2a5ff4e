package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pauselab/internal/model"
)

func TestCalculateBand(t *testing.T) {
	for total := 5; total <= 25; total++ {
		got := CalculateBand(total)
		switch {
		case total >= 20:
			assert.Equal(t, model.BandHigh, got, "total %d", total)
		case total >= 15:
			assert.Equal(t, model.BandMixed, got, "total %d", total)
		default:
			assert.Equal(t, model.BandLow, got, "total %d", total)
		}
	}

	cases := []struct {
		total int
		want  model.Band
	}{
		{20, model.BandHigh},
		{19, model.BandMixed},
		{15, model.BandMixed},
		{14, model.BandLow},
		{25, model.BandHigh},
		{5, model.BandLow},
	}
	for _, c := range cases {
		if got := CalculateBand(c.total); got != c.want {
			t.Fatalf("CalculateBand(%d)=%s, want %s", c.total, got, c.want)
		}
	}
}

func TestBandText(t *testing.T) {
	bands := []model.Band{model.BandHigh, model.BandMixed, model.BandLow}
	labels := map[string]bool{}
	descriptions := map[string]bool{}
	for _, b := range bands {
		labels[BandLabel(b)] = true
		descriptions[BandDescription(b)] = true
	}

	assert.Len(t, labels, 3)
	assert.Len(t, descriptions, 3)
	assert.Equal(t, "You feel mostly in control", BandLabel(model.BandHigh))
	assert.Equal(t, "Technology often feels in charge", BandLabel(model.BandLow))
}

func TestValidateScores(t *testing.T) {
	tests := []struct {
		name    string
		scores  []int
		wantErr bool
	}{
		{name: "valid", scores: []int{1, 2, 3, 4, 5}},
		{name: "too few", scores: []int{1, 2, 3, 4}, wantErr: true},
		{name: "too many", scores: []int{1, 2, 3, 4, 5, 5}, wantErr: true},
		{name: "zero", scores: []int{0, 2, 3, 4, 5}, wantErr: true},
		{name: "six", scores: []int{1, 2, 3, 4, 6}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScores(tt.scores)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidScores)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFillUnansweredAndNeutral(t *testing.T) {
	in := []int{5, 0, 1, 0, 4}
	out := FillUnanswered(in)

	assert.Equal(t, []int{5, 3, 1, 3, 4}, out)
	assert.Equal(t, []int{5, 0, 1, 0, 4}, in, "input must not be modified")

	neutral := NeutralScores()
	assert.Equal(t, []int{3, 3, 3, 3, 3}, neutral)
	assert.Equal(t, model.BandMixed, NewAssessment(neutral, time.Now()).Band)
}

func TestNewAssessment(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	scores := []int{4, 4, 4, 4, 5}

	got := NewAssessment(scores, at)

	assert.Equal(t, at, got.Date)
	assert.Equal(t, 21, got.Total)
	assert.Equal(t, model.BandHigh, got.Band)
	assert.Equal(t, scores, got.Scores)

	scores[0] = 1
	assert.Equal(t, 4, got.Scores[0], "result must not alias input")
}

func completedOn(t time.Time, feeling model.Feeling) model.CompletedPause {
	return model.CompletedPause{PauseID: "breathe-1", CompletedAt: t, Feeling: feeling}
}

func TestCalculateStreak(t *testing.T) {
	now := time.Date(2025, 5, 14, 15, 30, 0, 0, time.Local)
	day := func(offset int, hour int) time.Time {
		return time.Date(2025, 5, 14+offset, hour, 0, 0, 0, time.Local)
	}

	tests := []struct {
		name   string
		pauses []model.CompletedPause
		want   int
	}{
		{
			name: "empty",
			want: 0,
		},
		{
			name: "today, yesterday, day before",
			pauses: []model.CompletedPause{
				completedOn(day(0, 9), model.FeelingBetter),
				completedOn(day(-1, 9), model.FeelingSame),
				completedOn(day(-2, 9), model.FeelingWorse),
			},
			want: 3,
		},
		{
			name: "yesterday only still counts",
			pauses: []model.CompletedPause{
				completedOn(day(-1, 22), model.FeelingBetter),
			},
			want: 1,
		},
		{
			name: "gap yesterday resets",
			pauses: []model.CompletedPause{
				completedOn(day(-2, 9), model.FeelingBetter),
			},
			want: 0,
		},
		{
			name: "unordered input with duplicates",
			pauses: []model.CompletedPause{
				completedOn(day(-2, 8), model.FeelingBetter),
				completedOn(day(0, 7), model.FeelingBetter),
				completedOn(day(-1, 23), model.FeelingBetter),
				completedOn(day(0, 12), model.FeelingBetter),
				completedOn(day(-1, 1), model.FeelingBetter),
			},
			want: 3,
		},
		{
			name: "run stops at first missing day",
			pauses: []model.CompletedPause{
				completedOn(day(0, 9), model.FeelingBetter),
				completedOn(day(-1, 9), model.FeelingBetter),
				completedOn(day(-3, 9), model.FeelingBetter),
				completedOn(day(-4, 9), model.FeelingBetter),
			},
			want: 2,
		},
		{
			name: "yesterday-anchored run",
			pauses: []model.CompletedPause{
				completedOn(day(-1, 9), model.FeelingBetter),
				completedOn(day(-2, 9), model.FeelingBetter),
				completedOn(day(-3, 9), model.FeelingBetter),
			},
			want: 3,
		},
		{
			name: "midnight boundaries",
			pauses: []model.CompletedPause{
				completedOn(time.Date(2025, 5, 14, 0, 0, 0, 0, time.Local), model.FeelingBetter),
				completedOn(time.Date(2025, 5, 13, 23, 59, 59, 0, time.Local), model.FeelingBetter),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreak(tt.pauses, now))
		})
	}
}

func TestCalculateStreak_UsesNowLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2025, 5, 14, 8, 0, 0, 0, tokyo)

	// 2025-05-13 20:00 UTC is already 2025-05-14 in Tokyo.
	pauses := []model.CompletedPause{
		completedOn(time.Date(2025, 5, 13, 20, 0, 0, 0, time.UTC), model.FeelingBetter),
		completedOn(time.Date(2025, 5, 13, 1, 0, 0, 0, time.UTC), model.FeelingBetter),
	}

	assert.Equal(t, 2, CalculateStreak(pauses, now))
}

func TestCalculateFeltBetterPercent(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 0, CalculateFeltBetterPercent(nil))
	assert.Equal(t, 0, CalculateFeltBetterPercent([]model.CompletedPause{}))

	four := []model.CompletedPause{
		completedOn(now, model.FeelingBetter),
		completedOn(now, model.FeelingSame),
		completedOn(now, model.FeelingWorse),
		completedOn(now, model.FeelingSame),
	}
	assert.Equal(t, 25, CalculateFeltBetterPercent(four))

	three := []model.CompletedPause{
		completedOn(now, model.FeelingBetter),
		completedOn(now, model.FeelingBetter),
		completedOn(now, model.FeelingSame),
	}
	assert.Equal(t, 67, CalculateFeltBetterPercent(three))

	eight := make([]model.CompletedPause, 0, 8)
	for i := 0; i < 8; i++ {
		f := model.FeelingSame
		if i < 5 {
			f = model.FeelingBetter
		}
		eight = append(eight, completedOn(now, f))
	}
	// 62.5 rounds half up
	assert.Equal(t, 63, CalculateFeltBetterPercent(eight))
}

func TestStudyWeekNumber(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	ago := func(days int) *time.Time {
		t := now.AddDate(0, 0, -days)
		return &t
	}

	tests := []struct {
		name  string
		first *time.Time
		want  int
	}{
		{name: "absent", first: nil, want: 1},
		{name: "same day", first: ago(0), want: 1},
		{name: "six days", first: ago(6), want: 1},
		{name: "seven days", first: ago(7), want: 2},
		{name: "ten days", first: ago(10), want: 2},
		{name: "twenty one days", first: ago(21), want: 4},
		{name: "thirty days clamps", first: ago(30), want: 4},
		{name: "future start clamps low", first: ago(-3), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StudyWeekNumber(tt.first, now))
		})
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	first := now.AddDate(0, 0, -8)

	data := model.DefaultUserData()
	data.FirstOpenDate = &first
	data.Assessments = append(data.Assessments,
		NewAssessment([]int{1, 1, 1, 1, 1}, first),
		NewAssessment([]int{4, 4, 4, 4, 4}, now),
	)
	data.CompletedPauses = append(data.CompletedPauses,
		completedOn(now, model.FeelingBetter),
		completedOn(now.AddDate(0, 0, -1), model.FeelingSame),
	)

	s := Summarize(data, now)
	require.True(t, s.HasAssessment)
	assert.Equal(t, model.BandHigh, s.LatestBand)
	assert.Equal(t, 2, s.Streak)
	assert.Equal(t, 50, s.FeltBetterPercent)
	assert.Equal(t, 2, s.StudyWeek)
	assert.Equal(t, 2, s.TotalPauses)

	empty := Summarize(model.DefaultUserData(), now)
	assert.False(t, empty.HasAssessment)
	assert.Equal(t, 0, empty.Streak)
	assert.Equal(t, 1, empty.StudyWeek)
}
