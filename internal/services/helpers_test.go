package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"
	"github.com/senyabanana/tender-engine/internal/services"

	"github.com/stretchr/testify/require"
)

// newOpenTender собирает открытый тендер с одной позицией.
func newOpenTender(id string, deadline time.Time, weights models.ScoringWeights) models.Tender {
	return models.Tender{
		ID:    id,
		Title: "Office renovation",
		LineItems: []models.LineItem{
			{Description: "Flooring", Quantity: 120, Unit: "m2"},
		},
		Deadline:  deadline,
		Status:    models.OpenTender,
		Weights:   weights,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
}

// seedTender кладет тендер и приглашения напрямую в хранилище.
func seedTender(t *testing.T, store *repository.MemoryStore, tender models.Tender, vendorIDs ...string) {
	t.Helper()
	invitations := make([]models.Invitation, 0, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		invitations = append(invitations, models.Invitation{
			TenderID:      tender.ID,
			VendorID:      vendorID,
			VendorName:    "Vendor " + vendorID,
			VendorContact: vendorID + "@vendors.example",
			IssuedAt:      tender.CreatedAt,
			ExpiresAt:     tender.Deadline,
			Status:        models.Invited,
		})
	}
	require.NoError(t, store.CreateTenderWithInvitations(context.Background(), tender, invitations))
}

// seedOffer кладет предложение напрямую в хранилище.
func seedOffer(t *testing.T, store *repository.MemoryStore, tenderID, vendorID string, price, days, quality float64, submittedAt time.Time) models.Offer {
	t.Helper()
	offer := models.Offer{
		ID:           tenderID + "-" + vendorID,
		TenderID:     tenderID,
		VendorID:     vendorID,
		Lines:        []models.OfferLine{{Price: price, DeliveryDays: days}},
		TotalPrice:   price,
		TotalDays:    days,
		QualityScore: quality,
		SubmittedAt:  submittedAt,
		Status:       models.SubmittedOffer,
	}
	require.NoError(t, store.InsertOffer(context.Background(), offer, submittedAt))
	return offer
}

// fakeVerifier - подменный коллаборатор проверки документов.
// Статусы задаются по типу документа, по умолчанию документ действителен.
type fakeVerifier struct {
	statuses map[string]models.DocumentStatus
	expiries map[string]time.Time
}

func (f *fakeVerifier) Verify(_ context.Context, _, documentType string) (*services.VerificationReport, error) {
	status := models.ValidDocument
	if f.statuses != nil {
		if s, ok := f.statuses[documentType]; ok {
			status = s
		}
	}
	report := &services.VerificationReport{Status: status}
	if f.expiries != nil {
		if exp, ok := f.expiries[documentType]; ok {
			e := exp
			report.Expiry = &e
		}
	}
	return report, nil
}
