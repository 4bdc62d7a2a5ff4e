package model

import (
	"fmt"
	"slices"
	"time"
)

// MinParticipantAge is the youngest age accepted into the study.
const MinParticipantAge = 18

// Band classifies an assessment total.
type Band string

const (
	BandHigh  Band = "high"
	BandMixed Band = "mixed"
	BandLow   Band = "low"
)

// Feeling is the self-reported change after a pause.
type Feeling string

const (
	FeelingWorse  Feeling = "worse"
	FeelingSame   Feeling = "same"
	FeelingBetter Feeling = "better"
)

// ParseFeeling converts user input into a Feeling.
func ParseFeeling(s string) (Feeling, error) {
	switch f := Feeling(s); f {
	case FeelingWorse, FeelingSame, FeelingBetter:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFeeling, s)
}

// Gender as reported during onboarding.
type Gender string

const (
	GenderFemale         Gender = "female"
	GenderMale           Gender = "male"
	GenderNonBinary      Gender = "non-binary"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

// Demographics are optional onboarding answers.
type Demographics struct {
	Age    *int    `json:"age"`
	Gender *Gender `json:"gender"`
}

// Validate checks caller input before it reaches the progress store.
func (d Demographics) Validate() error {
	if d.Age != nil && *d.Age < MinParticipantAge {
		return ErrUnderage
	}
	if d.Gender != nil {
		switch *d.Gender {
		case GenderFemale, GenderMale, GenderNonBinary, GenderPreferNotToSay:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidGender, *d.Gender)
		}
	}
	return nil
}

func (d Demographics) clone() Demographics {
	var out Demographics
	if d.Age != nil {
		age := *d.Age
		out.Age = &age
	}
	if d.Gender != nil {
		g := *d.Gender
		out.Gender = &g
	}
	return out
}

// AssessmentResult is one completed self-report assessment.
type AssessmentResult struct {
	Date   time.Time `json:"date"`
	Scores []int     `json:"scores"`
	Total  int       `json:"total"`
	Band   Band      `json:"band"`
}

// CompletedPause is one finished pause activity.
type CompletedPause struct {
	PauseID     string    `json:"pauseId"`
	CompletedAt time.Time `json:"completedAt"`
	Feeling     Feeling   `json:"feeling"`
	DoneEarly   bool      `json:"doneEarly"`
}

// WeeklyCheckIn is one weekly 0-10 control rating.
type WeeklyCheckIn struct {
	Date       time.Time `json:"date"`
	Rating     int       `json:"rating"`
	WeekNumber int       `json:"weekNumber"`
}

// UserData is the single persisted record for a device.
type UserData struct {
	DeviceID           string             `json:"deviceId"`
	OnboardingComplete bool               `json:"onboardingComplete"`
	Demographics       Demographics       `json:"demographics"`
	ResearchConsent    bool               `json:"researchConsent"`
	RemindersEnabled   bool               `json:"remindersEnabled"`
	FavouritePauses    []string           `json:"favouritePauses"`
	Assessments        []AssessmentResult `json:"assessments"`
	CompletedPauses    []CompletedPause   `json:"completedPauses"`
	WeeklyCheckIns     []WeeklyCheckIn    `json:"weeklyCheckIns"`
	FirstOpenDate      *time.Time         `json:"firstOpenDate"`
}

// DefaultUserData returns the record used when nothing has been stored yet.
func DefaultUserData() UserData {
	return UserData{
		ResearchConsent:  true,
		RemindersEnabled: true,
		FavouritePauses:  []string{},
		Assessments:      []AssessmentResult{},
		CompletedPauses:  []CompletedPause{},
		WeeklyCheckIns:   []WeeklyCheckIn{},
	}
}

// Normalize replaces nil collections with empty ones so records written by
// older versions behave like fresh ones.
func (u *UserData) Normalize() {
	if u.FavouritePauses == nil {
		u.FavouritePauses = []string{}
	}
	if u.Assessments == nil {
		u.Assessments = []AssessmentResult{}
	}
	if u.CompletedPauses == nil {
		u.CompletedPauses = []CompletedPause{}
	}
	if u.WeeklyCheckIns == nil {
		u.WeeklyCheckIns = []WeeklyCheckIn{}
	}
}

// Clone returns a deep copy sharing no memory with u.
func (u UserData) Clone() UserData {
	out := u
	out.Demographics = u.Demographics.clone()
	out.FavouritePauses = slices.Clone(u.FavouritePauses)
	out.CompletedPauses = slices.Clone(u.CompletedPauses)
	out.WeeklyCheckIns = slices.Clone(u.WeeklyCheckIns)

	if u.Assessments != nil {
		out.Assessments = make([]AssessmentResult, len(u.Assessments))
		for i, a := range u.Assessments {
			a.Scores = slices.Clone(a.Scores)
			out.Assessments[i] = a
		}
	}

	if u.FirstOpenDate != nil {
		t := *u.FirstOpenDate
		out.FirstOpenDate = &t
	}

	return out
}

// IsFavourite reports whether pauseID is in the favourites set.
func (u UserData) IsFavourite(pauseID string) bool {
	return slices.Contains(u.FavouritePauses, pauseID)
}

// LatestAssessment returns the most recent assessment, if any.
func (u UserData) LatestAssessment() (AssessmentResult, bool) {
	if len(u.Assessments) == 0 {
		return AssessmentResult{}, false
	}
	return u.Assessments[len(u.Assessments)-1], true
}
