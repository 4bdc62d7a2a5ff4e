package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dtroode/pauselab/internal/logger"
	"github.com/dtroode/pauselab/internal/model"
	"github.com/dtroode/pauselab/internal/token"
)

// ExportFileName is the default name for a locally written export.
const ExportFileName = "beolab-data.json"

const ageNotProvided = "not provided"

// ReceiptSigner signs exported bytes and checks receipts against them.
type ReceiptSigner interface {
	Issue(document []byte) (receipt string, exportID string, err error)
	Verify(receipt string, document []byte) (token.ReceiptClaims, error)
}

// Export produces the privacy-reduced research export.
type Export struct {
	storage  model.Storage
	receipts ReceiptSigner
	logger   *logger.Logger
	now      func() time.Time
}

// NewExport builds an exporter. storage may be nil, in which case nothing is
// uploaded.
func NewExport(storage model.Storage, receipts ReceiptSigner, logger *logger.Logger) *Export {
	return &Export{
		storage:  storage,
		receipts: receipts,
		logger:   logger,
		now:      time.Now,
	}
}

// Export renders data, signs it and uploads it when storage is configured.
func (e *Export) Export(ctx context.Context, data model.UserData) (model.ExportResult, error) {
	doc := BuildExport(data, e.now())

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return model.ExportResult{}, fmt.Errorf("failed to encode export: %w", err)
	}

	receipt, exportID, err := e.receipts.Issue(payload)
	if err != nil {
		return model.ExportResult{}, fmt.Errorf("failed to issue receipt: %w", err)
	}

	result := model.ExportResult{
		Document: doc,
		Payload:  payload,
		Receipt:  receipt,
	}

	if e.storage == nil {
		return result, nil
	}

	key := exportKey(doc.ExportDate, exportID)
	if err := e.storage.Upload(ctx, key+".json", bytes.NewReader(payload)); err != nil {
		return model.ExportResult{}, fmt.Errorf("failed to upload export: %w", err)
	}
	if err := e.storage.Upload(ctx, key+".jwt", bytes.NewReader([]byte(receipt))); err != nil {
		if delErr := e.storage.Delete(ctx, key+".json"); delErr != nil {
			e.logger.Warn("Export: failed to remove unsigned export", "key", key+".json", "error", delErr)
		}
		return model.ExportResult{}, fmt.Errorf("failed to upload receipt: %w", err)
	}

	result.ObjectKey = key + ".json"
	e.logger.Info("Export: uploaded", "key", result.ObjectKey, "pauses", doc.TotalPauses)

	return result, nil
}

// Verify checks that receipt was issued by this installation for document.
func (e *Export) Verify(document []byte, receipt string) (token.ReceiptClaims, error) {
	claims, err := e.receipts.Verify(strings.TrimSpace(receipt), document)
	if err != nil {
		return token.ReceiptClaims{}, fmt.Errorf("failed to verify export: %w", err)
	}
	return claims, nil
}

// VerifyUploaded downloads an uploaded export and its receipt and verifies
// them. objectKey is the ".json" key returned by Export.
func (e *Export) VerifyUploaded(ctx context.Context, objectKey string) (token.ReceiptClaims, error) {
	if e.storage == nil {
		return token.ReceiptClaims{}, model.ErrExportStorageDisabled
	}

	exists, err := e.storage.Exists(ctx, objectKey)
	if err != nil {
		return token.ReceiptClaims{}, fmt.Errorf("failed to check export: %w", err)
	}
	if !exists {
		return token.ReceiptClaims{}, fmt.Errorf("export %q: %w", objectKey, model.ErrNotFound)
	}

	document, err := e.download(ctx, objectKey)
	if err != nil {
		return token.ReceiptClaims{}, err
	}
	receipt, err := e.download(ctx, strings.TrimSuffix(objectKey, ".json")+".jwt")
	if err != nil {
		return token.ReceiptClaims{}, err
	}

	return e.Verify(document, string(receipt))
}

func (e *Export) download(ctx context.Context, key string) ([]byte, error) {
	rc, err := e.storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return body, nil
}

func exportKey(at time.Time, exportID string) string {
	return fmt.Sprintf("exports/%s/%s", at.UTC().Format(time.DateOnly), exportID)
}

// BuildExport drops the device id and buckets age into ranges.
func BuildExport(data model.UserData, now time.Time) model.ExportDocument {
	var gender *model.Gender
	if data.Demographics.Gender != nil {
		g := *data.Demographics.Gender
		gender = &g
	}

	var start *time.Time
	if data.FirstOpenDate != nil {
		t := *data.FirstOpenDate
		start = &t
	}

	assessments := make([]model.AssessmentResult, len(data.Assessments))
	for i, a := range data.Assessments {
		a.Scores = slices.Clone(a.Scores)
		assessments[i] = a
	}

	return model.ExportDocument{
		ExportDate: now,
		Demographics: model.ExportDemographics{
			AgeRange: AgeRange(data.Demographics.Age),
			Gender:   gender,
		},
		Assessments:     assessments,
		CompletedPauses: append([]model.CompletedPause{}, data.CompletedPauses...),
		WeeklyCheckIns:  append([]model.WeeklyCheckIn{}, data.WeeklyCheckIns...),
		TotalPauses:     len(data.CompletedPauses),
		StudyStartDate:  start,
	}
}

// AgeRange maps an age to its export bucket.
func AgeRange(age *int) string {
	if age == nil || *age <= 0 {
		return ageNotProvided
	}

	switch a := *age; {
	case a < 25:
		return "18-24"
	case a < 35:
		return "25-34"
	case a < 45:
		return "35-44"
	case a < 55:
		return "45-54"
	case a < 65:
		return "55-64"
	default:
		return "65+"
	}
}
