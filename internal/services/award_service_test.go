package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"
	"github.com/senyabanana/tender-engine/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAwardFixture(t *testing.T, verifier services.DocumentVerifier) (*repository.MemoryStore, *services.AwardService) {
	t.Helper()
	store := repository.NewMemoryStore()
	prechecks := services.NewPreCheckService(verifier, store)
	return store, services.NewAwardService(store, prechecks)
}

func TestAward_Success(t *testing.T) {
	store, svc := newAwardFixture(t, &fakeVerifier{})
	deadline := time.Now().UTC().Add(24 * time.Hour)
	seedTender(t, store, newOpenTender("t1", deadline, services.DefaultWeights), "v1")
	seedOffer(t, store, "t1", "v1", 50000, 10, 8, time.Now().UTC())

	award, err := svc.Award(context.Background(), "t1", models.AwardRequest{VendorID: "v1", AwardedBy: "buyer-1"})
	require.NoError(t, err)
	assert.True(t, award.PreCheckPassed)
	assert.False(t, award.OverrideUsed)

	tender, err := store.GetTender(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.AwardedTender, tender.Status)

	offer, err := store.GetOffer(context.Background(), "t1", "v1")
	require.NoError(t, err)
	assert.Equal(t, models.AwardedOffer, offer.Status)
}

func TestAward_SingleWinnerUnderConcurrency(t *testing.T) {
	store, svc := newAwardFixture(t, &fakeVerifier{})
	deadline := time.Now().UTC().Add(24 * time.Hour)
	seedTender(t, store, newOpenTender("t1", deadline, services.DefaultWeights), "v1", "v2")
	seedOffer(t, store, "t1", "v1", 50000, 10, 8, time.Now().UTC())
	seedOffer(t, store, "t1", "v2", 48000, 12, 7, time.Now().UTC())

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vendorID := "v1"
			if i%2 == 1 {
				vendorID = "v2"
			}
			_, errs[i] = svc.Award(context.Background(), "t1", models.AwardRequest{VendorID: vendorID, AwardedBy: "buyer-1"})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var errResp *models.ErrorResponse
		require.ErrorAs(t, err, &errResp)
		assert.Equal(t, models.ErrAlreadyAwarded, errResp.Kind)
	}
	assert.Equal(t, 1, succeeded)

	// Награда одна и согласована со статусом тендера.
	award, err := store.GetAward(context.Background(), "t1")
	require.NoError(t, err)
	tender, err := store.GetTender(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.AwardedTender, tender.Status)
	assert.NotEmpty(t, award.VendorID)
}

func TestAward_PreCheckFailedThenOverride(t *testing.T) {
	verifier := &fakeVerifier{statuses: map[string]models.DocumentStatus{
		"insurance_certificate": models.ExpiredDocument,
	}}
	store, svc := newAwardFixture(t, verifier)
	deadline := time.Now().UTC().Add(24 * time.Hour)
	seedTender(t, store, newOpenTender("t1", deadline, services.DefaultWeights), "v1")
	seedOffer(t, store, "t1", "v1", 50000, 10, 8, time.Now().UTC())

	_, err := svc.Award(context.Background(), "t1", models.AwardRequest{VendorID: "v1", AwardedBy: "buyer-1"})
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrPreCheckFailed, errResp.Kind)
	assert.NotEmpty(t, errResp.Details)

	award, err := svc.Award(context.Background(), "t1", models.AwardRequest{
		VendorID:       "v1",
		Override:       true,
		OverrideReason: "manual exception",
		AwardedBy:      "buyer-1",
	})
	require.NoError(t, err)
	assert.False(t, award.PreCheckPassed)
	assert.True(t, award.OverrideUsed)
	assert.Equal(t, "manual exception", award.OverrideReason)

	// След override доступен независимо, через запрос награды.
	stored, err := svc.GetAward(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, stored.OverrideUsed)
	assert.NotEmpty(t, stored.OverrideReason)
}

func TestAward_OverrideRequiresReason(t *testing.T) {
	store, svc := newAwardFixture(t, &fakeVerifier{})
	deadline := time.Now().UTC().Add(24 * time.Hour)
	seedTender(t, store, newOpenTender("t1", deadline, services.DefaultWeights), "v1")

	_, err := svc.Award(context.Background(), "t1", models.AwardRequest{VendorID: "v1", Override: true})
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrBadRequest, errResp.Kind)
}

func TestAward_OverrideFlagNotRecordedWhenPassed(t *testing.T) {
	store, svc := newAwardFixture(t, &fakeVerifier{})
	deadline := time.Now().UTC().Add(24 * time.Hour)
	seedTender(t, store, newOpenTender("t1", deadline, services.DefaultWeights), "v1")

	award, err := svc.Award(context.Background(), "t1", models.AwardRequest{
		VendorID:       "v1",
		Override:       true,
		OverrideReason: "just in case",
	})
	require.NoError(t, err)
	assert.True(t, award.PreCheckPassed)
	assert.False(t, award.OverrideUsed)
	assert.Empty(t, award.OverrideReason)
}

func TestAward_PastDeadline(t *testing.T) {
	store, svc := newAwardFixture(t, &fakeVerifier{})
	seedTender(t, store, newOpenTender("t1", time.Now().UTC().Add(-time.Hour), services.DefaultWeights), "v1")

	_, err := svc.Award(context.Background(), "t1", models.AwardRequest{VendorID: "v1"})
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, models.ErrTenderClosed, errResp.Kind)
}
