package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"

	"github.com/google/uuid"
)

// RequiredDocuments - фиксированный набор документов, проверяемых перед награждением.
var RequiredDocuments = []string{
	"business_license",
	"tax_clearance",
	"insurance_certificate",
}

// defaultRecheckInterval - срок повторной проверки, если ни один документ не несет даты истечения.
const defaultRecheckInterval = 30 * 24 * time.Hour

// VerificationReport - ответ внешнего коллаборатора по одному документу.
type VerificationReport struct {
	Status models.DocumentStatus `json:"status"`
	Expiry *time.Time            `json:"expiry,omitempty"`
	Notes  string                `json:"notes,omitempty"`
}

// DocumentVerifier - внешний коллаборатор проверки документов.
// Движок не заглядывает в содержимое документов сам.
type DocumentVerifier interface {
	Verify(ctx context.Context, vendorID, documentType string) (*VerificationReport, error)
}

type PreCheckService struct {
	Verifier DocumentVerifier
	Repo     repository.PreCheckRepository
}

// NewPreCheckService создает новый экземпляр PreCheckService.
func NewPreCheckService(verifier DocumentVerifier, repo repository.PreCheckRepository) *PreCheckService {
	return &PreCheckService{Verifier: verifier, Repo: repo}
}

// PreCheck выполняет комплаенс-проверку поставщика по тендеру.
// Результат рекомендательный: pending не блокирует прохождение, но снижает общий балл.
func (s *PreCheckService) PreCheck(ctx context.Context, vendorID, tenderID string) (*models.PreCheckResult, error) {
	if vendorID == "" || tenderID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "vendorId and tenderId are required")
	}

	now := time.Now().UTC()
	result := models.PreCheckResult{
		ID:        uuid.New().String(),
		VendorID:  vendorID,
		TenderID:  tenderID,
		CheckedAt: now,
	}

	var total float64
	var earliestExpiry *time.Time
	for _, docType := range RequiredDocuments {
		report, err := s.Verifier.Verify(ctx, vendorID, docType)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusBadGateway, models.ErrInternal,
				fmt.Sprintf("document verification failed for %s", docType))
		}

		check := models.DocumentCheck{
			Type:   docType,
			Status: report.Status,
			Score:  documentScore(report.Status),
			Expiry: report.Expiry,
			Notes:  report.Notes,
		}
		result.Checks = append(result.Checks, check)
		total += check.Score

		switch report.Status {
		case models.PendingDocument:
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s is pending review", docType))
		case models.ExpiredDocument:
			result.Errors = append(result.Errors, fmt.Sprintf("%s is expired", docType))
		case models.InvalidDocument:
			result.Errors = append(result.Errors, fmt.Sprintf("%s is invalid", docType))
		}

		if report.Expiry != nil && (earliestExpiry == nil || report.Expiry.Before(*earliestExpiry)) {
			earliestExpiry = report.Expiry
		}
	}

	result.OverallScore = total / float64(len(RequiredDocuments))
	result.Passed = len(result.Errors) == 0
	result.RecheckDue = now.Add(defaultRecheckInterval)
	if earliestExpiry != nil && earliestExpiry.Before(result.RecheckDue) {
		result.RecheckDue = earliestExpiry.UTC()
	}

	if err := s.Repo.SavePreCheck(ctx, result); err != nil {
		return nil, err
	}
	return &result, nil
}

// documentScore переводит статус документа в балл.
func documentScore(status models.DocumentStatus) float64 {
	switch status {
	case models.ValidDocument:
		return 100
	case models.PendingDocument:
		return 50
	default:
		return 0
	}
}
