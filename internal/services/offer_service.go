package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"
	"github.com/senyabanana/tender-engine/internal/token"

	"github.com/google/uuid"
)

type OfferService struct {
	Tenders repository.TenderRepository
	Offers  repository.OfferRepository
	Codec   token.Codec
}

// NewOfferService создает новый экземпляр OfferService.
func NewOfferService(tenders repository.TenderRepository, offers repository.OfferRepository, codec token.Codec) *OfferService {
	return &OfferService{Tenders: tenders, Offers: offers, Codec: codec}
}

// SubmitOffer принимает предложение поставщика по токену доступа.
// Дедлайн перепроверяется в момент выполнения, а не по кэшированному статусу.
func (s *OfferService) SubmitOffer(ctx context.Context, req models.OfferRequest) (*models.SubmittedOfferResponse, error) {
	now := time.Now().UTC()

	claims, err := s.Codec.Verify(req.Token, now)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, models.NewErrorResponse(http.StatusUnauthorized, models.ErrTokenExpired, "access token is expired")
		}
		return nil, models.NewErrorResponse(http.StatusUnauthorized, models.ErrInvalidToken, "access token is invalid")
	}

	tender, err := s.Tenders.GetTender(ctx, claims.TenderID)
	if err != nil {
		return nil, err
	}
	if !tender.IsOpen(now) {
		return nil, models.NewErrorResponse(http.StatusConflict, models.ErrTenderClosed, "tender is not open for submissions")
	}

	invitation, err := s.Tenders.GetInvitation(ctx, claims.TenderID, claims.VendorID)
	if err != nil {
		return nil, err
	}
	if invitation.Status == models.Responded {
		return nil, models.NewErrorResponse(http.StatusConflict, models.ErrDuplicateSubmission, "offer already submitted for this tender")
	}

	if details := validateOfferPayload(req); len(details) > 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrInvalidOffer, "offer payload is invalid").
			WithDetails(details...)
	}

	offer := models.Offer{
		ID:           uuid.New().String(),
		TenderID:     claims.TenderID,
		VendorID:     claims.VendorID,
		Lines:        req.Lines,
		QualityScore: req.QualityScore,
		Notes:        req.Notes,
		SubmittedAt:  now,
		Status:       models.SubmittedOffer,
	}
	for _, line := range req.Lines {
		offer.TotalPrice += line.Price
		offer.TotalDays += line.DeliveryDays
	}

	if err := s.Offers.InsertOffer(ctx, offer, now); err != nil {
		return nil, err
	}

	return &models.SubmittedOfferResponse{
		OfferID:     offer.ID,
		Status:      offer.Status,
		SubmittedAt: offer.SubmittedAt,
	}, nil
}

// validateOfferPayload возвращает пополевые нарушения в теле предложения.
func validateOfferPayload(req models.OfferRequest) []string {
	var details []string
	if len(req.Lines) == 0 {
		details = append(details, "offerLines: at least one line is required")
	}
	for i, line := range req.Lines {
		if line.Price < 0 {
			details = append(details, fmt.Sprintf("offerLines[%d].price: must be non-negative", i))
		}
		if line.DeliveryDays < 0 {
			details = append(details, fmt.Sprintf("offerLines[%d].deliveryDays: must be non-negative", i))
		}
	}
	if req.QualityScore < 0 || req.QualityScore > 10 {
		details = append(details, "qualityScore: must be within [0, 10]")
	}
	return details
}
