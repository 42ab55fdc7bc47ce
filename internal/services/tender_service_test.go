package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"
	"github.com/senyabanana/tender-engine/internal/services"
	"github.com/senyabanana/tender-engine/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTenderRequest(deadline time.Time) models.TenderRequest {
	return models.TenderRequest{
		Title: "Office renovation",
		LineItems: []models.LineItem{
			{Description: "Flooring", Quantity: 120, Unit: "m2"},
			{Description: "Painting", Quantity: 300, Unit: "m2"},
		},
		Deadline: deadline,
		Vendors: []models.VendorIdentity{
			{ID: "v1", Name: "Alpha Build", Contact: "alpha@vendors.example"},
			{ID: "v2", Name: "Beta Construct", Contact: "beta@vendors.example"},
		},
		CreatedBy: "buyer-1",
	}
}

func TestCreateTender_IssuesVerifiableInvitations(t *testing.T) {
	store := repository.NewMemoryStore()
	codec := token.NewHMACCodec("tender-secret")
	svc := services.NewTenderService(store, codec)
	deadline := time.Now().UTC().Add(72 * time.Hour)

	resp, err := svc.CreateTender(context.Background(), validTenderRequest(deadline))
	require.NoError(t, err)
	require.NotEmpty(t, resp.TenderID)
	assert.Equal(t, models.OpenTender, resp.Status)
	require.Len(t, resp.Invitations, 2)

	// Каждый выданный токен расшифровывается и привязан к своему поставщику.
	for _, access := range resp.Invitations {
		claims, err := codec.Verify(access.AccessToken, time.Now().UTC())
		require.NoError(t, err)
		assert.Equal(t, resp.TenderID, claims.TenderID)
		assert.Equal(t, access.VendorID, claims.VendorID)
		assert.Equal(t, access.VendorName, claims.VendorName)

		invitation, err := store.GetInvitation(context.Background(), resp.TenderID, access.VendorID)
		require.NoError(t, err)
		assert.Equal(t, models.Invited, invitation.Status)
		assert.True(t, invitation.ExpiresAt.Equal(deadline))
	}

	tender, err := store.GetTender(context.Background(), resp.TenderID)
	require.NoError(t, err)
	assert.Equal(t, services.DefaultWeights, tender.Weights)
	assert.Len(t, tender.LineItems, 2)
}

func TestCreateTender_WeightsMustSumToOne(t *testing.T) {
	svc := services.NewTenderService(repository.NewMemoryStore(), token.NewHMACCodec("tender-secret"))
	req := validTenderRequest(time.Now().UTC().Add(time.Hour))
	req.Weights = &models.ScoringWeights{Price: 0.5, Time: 0.3, Quality: 0.3}

	_, err := svc.CreateTender(context.Background(), req)
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrBadRequest, errResp.Kind)
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)
}

func TestCreateTender_RejectsPastDeadline(t *testing.T) {
	svc := services.NewTenderService(repository.NewMemoryStore(), token.NewHMACCodec("tender-secret"))
	req := validTenderRequest(time.Now().UTC().Add(-time.Minute))

	_, err := svc.CreateTender(context.Background(), req)
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrBadRequest, errResp.Kind)
}

func TestCreateTender_VendorBatchIsAllOrNothing(t *testing.T) {
	svc := services.NewTenderService(repository.NewMemoryStore(), token.NewHMACCodec("tender-secret"))
	req := validTenderRequest(time.Now().UTC().Add(time.Hour))
	req.Vendors = []models.VendorIdentity{
		{ID: "v1", Name: "Alpha Build", Contact: "alpha@vendors.example"},
		{ID: "v2", Name: "Beta Construct"}, // нет контакта
		{ID: "v1", Name: "Alpha Again", Contact: "again@vendors.example"},
	}

	resp, err := svc.CreateTender(context.Background(), req)
	require.Nil(t, resp)
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrBadRequest, errResp.Kind)
	assert.Len(t, errResp.Details, 2)
}

func TestCancelTender(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := services.NewTenderService(store, token.NewHMACCodec("tender-secret"))
	deadline := time.Now().UTC().Add(24 * time.Hour)
	seedTender(t, store, newOpenTender("t1", deadline, services.DefaultWeights), "v1")

	require.NoError(t, svc.CancelTender(context.Background(), "t1"))

	status, err := svc.GetTenderStatus(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.CancelledTender, status)

	// Повторная отмена невозможна: тендер уже не открыт.
	err = svc.CancelTender(context.Background(), "t1")
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrTenderClosed, errResp.Kind)
}

func TestCancelTender_AwardedCannotBeCancelled(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := services.NewTenderService(store, token.NewHMACCodec("tender-secret"))
	tender := newOpenTender("t1", time.Now().UTC().Add(24*time.Hour), services.DefaultWeights)
	tender.Status = models.AwardedTender
	seedTender(t, store, tender, "v1")

	err := svc.CancelTender(context.Background(), "t1")
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrTenderClosed, errResp.Kind)
}

func TestGetTenderStatus_ExpiredIsDerivedFromDeadline(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := services.NewTenderService(store, token.NewHMACCodec("tender-secret"))
	seedTender(t, store, newOpenTender("t1", time.Now().UTC().Add(-time.Hour), services.DefaultWeights), "v1")

	status, err := svc.GetTenderStatus(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.ExpiredTender, status)

	// В хранилище статус остается открытым: истечение не материализуется.
	tender, err := store.GetTender(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.OpenTender, tender.Status)
}

func TestGetTenderStatus_NotFound(t *testing.T) {
	svc := services.NewTenderService(repository.NewMemoryStore(), token.NewHMACCodec("tender-secret"))

	_, err := svc.GetTenderStatus(context.Background(), "missing")
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrNotFound, errResp.Kind)
}
