package services

import (
	"context"
	"net/http"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"
)

type AwardService struct {
	Tenders   repository.TenderRepository
	PreChecks *PreCheckService
}

// NewAwardService создает новый экземпляр AwardService.
func NewAwardService(tenders repository.TenderRepository, prechecks *PreCheckService) *AwardService {
	return &AwardService{Tenders: tenders, PreChecks: prechecks}
}

// Award финализирует выбор победителя тендера.
// Проваленная комплаенс-проверка блокирует награждение, если не запрошен override
// с причиной; использование override всегда оставляет аудиторский след.
// Из конкурирующих вызовов по одному тендеру завершается успехом ровно один.
func (s *AwardService) Award(ctx context.Context, tenderID string, req models.AwardRequest) (*models.Award, error) {
	if req.VendorID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "vendorId is required")
	}
	if req.Override && req.OverrideReason == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "override requires a reason")
	}

	tender, err := s.Tenders.GetTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if tender.Status == models.AwardedTender {
		return nil, models.NewErrorResponse(http.StatusConflict, models.ErrAlreadyAwarded, "tender is already awarded")
	}

	precheck, err := s.PreChecks.PreCheck(ctx, req.VendorID, tenderID)
	if err != nil {
		return nil, err
	}
	if !precheck.Passed && !req.Override {
		return nil, models.NewErrorResponse(http.StatusUnprocessableEntity, models.ErrPreCheckFailed,
			"compliance precheck failed, award is blocked").WithDetails(precheck.Errors...)
	}

	award := models.Award{
		TenderID:       tenderID,
		VendorID:       req.VendorID,
		AwardedAt:      time.Now().UTC(),
		PreCheckPassed: precheck.Passed,
		OverrideUsed:   !precheck.Passed && req.Override,
		AwardedBy:      req.AwardedBy,
	}
	if award.OverrideUsed {
		award.OverrideReason = req.OverrideReason
	}

	// Дедлайн перепроверяется внутри условной записи, статус тендера там же под блокировкой.
	if err := s.Tenders.AwardTender(ctx, award, award.AwardedAt); err != nil {
		return nil, err
	}
	return &award, nil
}

// GetAward возвращает награду тендера; аудит override доступен независимо от награждения.
func (s *AwardService) GetAward(ctx context.Context, tenderID string) (*models.Award, error) {
	return s.Tenders.GetAward(ctx, tenderID)
}
