package model

import "time"

// ExportDemographics is the privacy-reduced form of Demographics.
type ExportDemographics struct {
	AgeRange string  `json:"ageRange"`
	Gender   *Gender `json:"gender"`
}

// ExportDocument is the research export. It never carries the device id.
type ExportDocument struct {
	ExportDate      time.Time          `json:"exportDate"`
	Demographics    ExportDemographics `json:"demographics"`
	Assessments     []AssessmentResult `json:"assessments"`
	CompletedPauses []CompletedPause   `json:"completedPauses"`
	WeeklyCheckIns  []WeeklyCheckIn    `json:"weeklyCheckIns"`
	TotalPauses     int                `json:"totalPauses"`
	StudyStartDate  *time.Time         `json:"studyStartDate"`
}

// ExportResult is what an export run produced.
type ExportResult struct {
	Document  ExportDocument
	Payload   []byte
	Receipt   string
	ObjectKey string
}
