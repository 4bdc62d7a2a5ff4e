package model

import "errors"

var (
	// ErrNotFound is returned by key-value stores when the key is absent.
	ErrNotFound = errors.New("not found")

	// ErrUnderage rejects participants younger than MinParticipantAge.
	ErrUnderage = errors.New("participant must be 18 or older")
	// ErrInvalidGender rejects gender values outside the known set.
	ErrInvalidGender = errors.New("invalid gender")
	// ErrInvalidScores rejects assessment answers that are not 5 values in 1..5.
	ErrInvalidScores = errors.New("invalid assessment scores")
	// ErrInvalidRating rejects weekly check-in ratings outside 0..10.
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
	// ErrInvalidFeeling rejects unknown post-pause feelings.
	ErrInvalidFeeling = errors.New("invalid feeling")
	// ErrNotStarted is returned by the progress store before Start is called.
	ErrNotStarted = errors.New("progress store not started")
	// ErrAlreadyOnboarded rejects a second onboarding of the same record.
	ErrAlreadyOnboarded = errors.New("onboarding already completed")
	// ErrExportStorageDisabled is returned when remote export storage is not configured.
	ErrExportStorageDisabled = errors.New("export storage is not configured")
	// ErrUnknownPause is returned when a pause id is not in the catalog.
	ErrUnknownPause = errors.New("unknown pause")
)
