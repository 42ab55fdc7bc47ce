package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"
	"github.com/senyabanana/tender-engine/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreCheck_AllValid(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := services.NewPreCheckService(&fakeVerifier{}, store)

	result, err := svc.PreCheck(context.Background(), "v1", "t1")
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.InDelta(t, 100.0, result.OverallScore, 1e-9)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Checks, len(services.RequiredDocuments))
}

func TestPreCheck_PendingLowersScoreButPasses(t *testing.T) {
	verifier := &fakeVerifier{statuses: map[string]models.DocumentStatus{
		"tax_clearance": models.PendingDocument,
	}}
	store := repository.NewMemoryStore()
	svc := services.NewPreCheckService(verifier, store)

	result, err := svc.PreCheck(context.Background(), "v1", "t1")
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.InDelta(t, (100.0+50.0+100.0)/3.0, result.OverallScore, 1e-9)
	assert.Len(t, result.Warnings, 1)
	assert.Empty(t, result.Errors)
}

func TestPreCheck_ExpiredFails(t *testing.T) {
	verifier := &fakeVerifier{statuses: map[string]models.DocumentStatus{
		"insurance_certificate": models.ExpiredDocument,
	}}
	store := repository.NewMemoryStore()
	svc := services.NewPreCheckService(verifier, store)

	result, err := svc.PreCheck(context.Background(), "v1", "t1")
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.InDelta(t, 200.0/3.0, result.OverallScore, 1e-9)
	assert.Len(t, result.Errors, 1)
}

func TestPreCheck_RecheckDueFollowsEarliestExpiry(t *testing.T) {
	soon := time.Now().UTC().Add(48 * time.Hour)
	verifier := &fakeVerifier{expiries: map[string]time.Time{
		"business_license": soon,
		"tax_clearance":    soon.Add(72 * time.Hour),
	}}
	store := repository.NewMemoryStore()
	svc := services.NewPreCheckService(verifier, store)

	result, err := svc.PreCheck(context.Background(), "v1", "t1")
	require.NoError(t, err)
	assert.True(t, result.RecheckDue.Equal(soon))
}

func TestPreCheck_ResultsAreAppendedNotMutated(t *testing.T) {
	store := repository.NewMemoryStore()
	deadline := time.Now().UTC().Add(24 * time.Hour)
	seedTender(t, store, newOpenTender("t1", deadline, services.DefaultWeights), "v1")
	svc := services.NewPreCheckService(&fakeVerifier{}, store)

	first, err := svc.PreCheck(context.Background(), "v1", "t1")
	require.NoError(t, err)
	second, err := svc.PreCheck(context.Background(), "v1", "t1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err := store.GetLatestPreCheck(context.Background(), "t1", "v1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestListDueRechecks_OnlyOpenTendersAndDueResults(t *testing.T) {
	store := repository.NewMemoryStore()
	now := time.Now().UTC()
	seedTender(t, store, newOpenTender("t1", now.Add(24*time.Hour), services.DefaultWeights), "v1")
	seedTender(t, store, newOpenTender("t2", now.Add(-time.Hour), services.DefaultWeights), "v2")

	due := models.PreCheckResult{
		ID: "p1", TenderID: "t1", VendorID: "v1",
		CheckedAt: now.Add(-72 * time.Hour), RecheckDue: now.Add(-time.Hour),
	}
	fresh := models.PreCheckResult{
		ID: "p2", TenderID: "t1", VendorID: "v1",
		CheckedAt: now.Add(-time.Hour), RecheckDue: now.Add(time.Hour),
	}
	expiredTender := models.PreCheckResult{
		ID: "p3", TenderID: "t2", VendorID: "v2",
		CheckedAt: now.Add(-72 * time.Hour), RecheckDue: now.Add(-time.Hour),
	}
	require.NoError(t, store.SavePreCheck(context.Background(), due))
	require.NoError(t, store.SavePreCheck(context.Background(), fresh))
	require.NoError(t, store.SavePreCheck(context.Background(), expiredTender))

	// Свежайшая проверка пары (t1, v1) еще не просрочена, тендер t2 уже истек.
	results, err := store.ListDueRechecks(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, results)

	// После наступления срока повторной проверки пара (t1, v1) попадает в выборку.
	results, err = store.ListDueRechecks(context.Background(), now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].ID)
}
