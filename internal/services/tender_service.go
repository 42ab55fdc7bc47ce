package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"
	"github.com/senyabanana/tender-engine/internal/token"

	"github.com/google/uuid"
)

// DefaultWeights - веса критериев по умолчанию, если запрос их не задает.
var DefaultWeights = models.ScoringWeights{Price: 0.5, Time: 0.3, Quality: 0.2}

type TenderService struct {
	Repo  repository.TenderRepository
	Codec token.Codec
}

// NewTenderService создает новый экземпляр TenderService.
func NewTenderService(repo repository.TenderRepository, codec token.Codec) *TenderService {
	return &TenderService{Repo: repo, Codec: codec}
}

// CreateTender создает тендер и выдает приглашения с токенами всем поставщикам.
// Набор приглашений создается целиком или не создается вовсе.
func (s *TenderService) CreateTender(ctx context.Context, req models.TenderRequest) (*models.CreatedTenderResponse, error) {
	now := time.Now().UTC()

	if req.Title == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "title is required")
	}
	if len(req.LineItems) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "at least one line item is required")
	}
	for i, item := range req.LineItems {
		if item.Description == "" || item.Quantity <= 0 {
			return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest,
				fmt.Sprintf("line item %d must have a description and a positive quantity", i))
		}
	}
	if !req.Deadline.After(now) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "deadline must be in the future")
	}
	if len(req.Vendors) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "at least one invited vendor is required")
	}

	weights := DefaultWeights
	if req.Weights != nil {
		weights = *req.Weights
	}
	if !weights.Validate() {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest,
			"scoring weights must be non-negative and sum to 1")
	}

	// Нерешаемая идентичность любого поставщика отклоняет весь набор приглашений.
	var details []string
	seen := make(map[string]bool, len(req.Vendors))
	for i, vendor := range req.Vendors {
		if vendor.ID == "" || vendor.Name == "" || vendor.Contact == "" {
			details = append(details, fmt.Sprintf("vendor %d: id, name and contact are required", i))
			continue
		}
		if seen[vendor.ID] {
			details = append(details, fmt.Sprintf("vendor %d: duplicate vendor id %s", i, vendor.ID))
		}
		seen[vendor.ID] = true
	}
	if len(details) > 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest,
			"unresolvable vendor identities, no invitations were created").WithDetails(details...)
	}

	tender := models.Tender{
		ID:        uuid.New().String(),
		Title:     req.Title,
		LineItems: req.LineItems,
		Deadline:  req.Deadline.UTC(),
		Status:    models.OpenTender,
		Weights:   weights,
		CreatedAt: now,
		CreatedBy: req.CreatedBy,
	}

	invitations := make([]models.Invitation, 0, len(req.Vendors))
	access := make([]models.VendorAccess, 0, len(req.Vendors))
	for _, vendor := range req.Vendors {
		accessToken, err := s.Codec.Issue(tender.ID, vendor, now, tender.Deadline)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, models.ErrInternal, "failed to issue access token")
		}
		invitations = append(invitations, models.Invitation{
			TenderID:      tender.ID,
			VendorID:      vendor.ID,
			VendorName:    vendor.Name,
			VendorContact: vendor.Contact,
			Token:         accessToken,
			IssuedAt:      now,
			ExpiresAt:     tender.Deadline,
			Status:        models.Invited,
		})
		access = append(access, models.VendorAccess{
			VendorID:    vendor.ID,
			VendorName:  vendor.Name,
			Contact:     vendor.Contact,
			AccessToken: accessToken,
			ExpiresAt:   tender.Deadline,
		})
	}

	if err := s.Repo.CreateTenderWithInvitations(ctx, tender, invitations); err != nil {
		return nil, err
	}

	return &models.CreatedTenderResponse{
		TenderID:    tender.ID,
		Status:      tender.Status,
		Invitations: access,
	}, nil
}

// GetTenderStatus возвращает статус тендера с учетом дедлайна.
func (s *TenderService) GetTenderStatus(ctx context.Context, tenderID string) (models.TenderStatus, error) {
	tender, err := s.Repo.GetTender(ctx, tenderID)
	if err != nil {
		return "", err
	}
	return tender.EffectiveStatus(time.Now().UTC()), nil
}

// CancelTender отменяет открытый тендер. Награжденный тендер отменить нельзя.
func (s *TenderService) CancelTender(ctx context.Context, tenderID string) error {
	if _, err := s.Repo.GetTender(ctx, tenderID); err != nil {
		return err
	}
	return s.Repo.UpdateTenderStatus(ctx, tenderID, models.OpenTender, models.CancelledTender)
}
