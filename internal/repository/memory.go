package repository

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
)

// MemoryStore - потокобезопасное хранилище в памяти, реализующее все репозитории движка.
// Используется как подменяемая зависимость в тестах; условная запись повторяет
// дисциплину постгрес-реализаций (ровно один победитель при конкурентных дублях и наградах).
type MemoryStore struct {
	mu          sync.Mutex
	tenders     map[string]models.Tender
	invitations map[string]map[string]models.Invitation
	offers      map[string]map[string]models.Offer
	awards      map[string]models.Award
	comparisons map[string][]models.ComparisonResult
	prechecks   map[string][]models.PreCheckResult
}

// NewMemoryStore создает новый экземпляр MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenders:     make(map[string]models.Tender),
		invitations: make(map[string]map[string]models.Invitation),
		offers:      make(map[string]map[string]models.Offer),
		awards:      make(map[string]models.Award),
		comparisons: make(map[string][]models.ComparisonResult),
		prechecks:   make(map[string][]models.PreCheckResult),
	}
}

// CreateTenderWithInvitations атомарно создает тендер и весь набор приглашений.
func (s *MemoryStore) CreateTenderWithInvitations(_ context.Context, tender models.Tender, invitations []models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenders[tender.ID]; exists {
		return models.NewErrorResponse(http.StatusConflict, models.ErrBadRequest, "tender already exists")
	}
	s.tenders[tender.ID] = tender
	byVendor := make(map[string]models.Invitation, len(invitations))
	for _, inv := range invitations {
		byVendor[inv.VendorID] = inv
	}
	s.invitations[tender.ID] = byVendor
	return nil
}

// GetTender возвращает тендер по идентификатору.
func (s *MemoryStore) GetTender(_ context.Context, tenderID string) (*models.Tender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tender, ok := s.tenders[tenderID]
	if !ok {
		return nil, models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender not found")
	}
	return &tender, nil
}

// UpdateTenderStatus меняет статус тендера при совпадении текущего статуса с ожидаемым.
func (s *MemoryStore) UpdateTenderStatus(_ context.Context, tenderID string, from, to models.TenderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tender, ok := s.tenders[tenderID]
	if !ok {
		return models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender not found")
	}
	if tender.Status != from {
		return models.NewErrorResponse(http.StatusConflict, models.ErrTenderClosed, "tender is not in expected status")
	}
	tender.Status = to
	s.tenders[tenderID] = tender
	return nil
}

// GetInvitation возвращает приглашение по паре (тендер, поставщик).
func (s *MemoryStore) GetInvitation(_ context.Context, tenderID, vendorID string) (*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[tenderID][vendorID]
	if !ok {
		return nil, models.NewErrorResponse(http.StatusForbidden, models.ErrNotInvited, "vendor is not invited to this tender")
	}
	return &inv, nil
}

// GetInvitations возвращает все приглашения тендера.
func (s *MemoryStore) GetInvitations(_ context.Context, tenderID string) ([]models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var invitations []models.Invitation
	for _, inv := range s.invitations[tenderID] {
		invitations = append(invitations, inv)
	}
	sort.Slice(invitations, func(i, j int) bool { return invitations[i].VendorID < invitations[j].VendorID })
	return invitations, nil
}

// AwardTender фиксирует награду; из конкурирующих вызовов выигрывает ровно один.
func (s *MemoryStore) AwardTender(_ context.Context, award models.Award, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tender, ok := s.tenders[award.TenderID]
	if !ok {
		return models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender not found")
	}
	if tender.Status == models.AwardedTender {
		return models.NewErrorResponse(http.StatusConflict, models.ErrAlreadyAwarded, "tender is already awarded")
	}
	if tender.Status != models.OpenTender || now.After(tender.Deadline) {
		return models.NewErrorResponse(http.StatusConflict, models.ErrTenderClosed, "tender is not open for award")
	}

	s.awards[award.TenderID] = award
	tender.Status = models.AwardedTender
	s.tenders[award.TenderID] = tender

	if offer, ok := s.offers[award.TenderID][award.VendorID]; ok {
		offer.Status = models.AwardedOffer
		s.offers[award.TenderID][award.VendorID] = offer
	}
	return nil
}

// GetAward возвращает награду тендера, если она есть.
func (s *MemoryStore) GetAward(_ context.Context, tenderID string) (*models.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	award, ok := s.awards[tenderID]
	if !ok {
		return nil, models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender has no award")
	}
	return &award, nil
}

// InsertOffer записывает предложение; дубль по паре (тендер, поставщик) отклоняется.
func (s *MemoryStore) InsertOffer(_ context.Context, offer models.Offer, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tender, ok := s.tenders[offer.TenderID]
	if !ok {
		return models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender not found")
	}
	if tender.Status != models.OpenTender || now.After(tender.Deadline) {
		return models.NewErrorResponse(http.StatusConflict, models.ErrTenderClosed, "tender is not open for submissions")
	}
	if _, exists := s.offers[offer.TenderID][offer.VendorID]; exists {
		return models.NewErrorResponse(http.StatusConflict, models.ErrDuplicateSubmission, "offer already submitted for this tender")
	}

	if s.offers[offer.TenderID] == nil {
		s.offers[offer.TenderID] = make(map[string]models.Offer)
	}
	s.offers[offer.TenderID][offer.VendorID] = offer

	if inv, ok := s.invitations[offer.TenderID][offer.VendorID]; ok {
		inv.Status = models.Responded
		s.invitations[offer.TenderID][offer.VendorID] = inv
	}
	return nil
}

// GetOffer возвращает предложение по паре (тендер, поставщик).
func (s *MemoryStore) GetOffer(_ context.Context, tenderID, vendorID string) (*models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.offers[tenderID][vendorID]
	if !ok {
		return nil, models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "offer not found")
	}
	return &offer, nil
}

// GetOffers возвращает все предложения тендера в порядке подачи.
func (s *MemoryStore) GetOffers(_ context.Context, tenderID string) ([]models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var offers []models.Offer
	for _, offer := range s.offers[tenderID] {
		offers = append(offers, offer)
	}
	sort.Slice(offers, func(i, j int) bool {
		if !offers[i].SubmittedAt.Equal(offers[j].SubmittedAt) {
			return offers[i].SubmittedAt.Before(offers[j].SubmittedAt)
		}
		return offers[i].ID < offers[j].ID
	})
	return offers, nil
}

// UpdateOfferScoring перезаписывает результат сравнения на предложении.
func (s *MemoryStore) UpdateOfferScoring(_ context.Context, offerID string, scoring models.OfferScoring) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tenderID, byVendor := range s.offers {
		for vendorID, offer := range byVendor {
			if offer.ID == offerID {
				sc := scoring
				offer.Scoring = &sc
				s.offers[tenderID][vendorID] = offer
				return nil
			}
		}
	}
	return models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "offer not found")
}

// SaveComparison сохраняет снимок прогона сравнения.
func (s *MemoryStore) SaveComparison(_ context.Context, result models.ComparisonResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comparisons[result.TenderID] = append(s.comparisons[result.TenderID], result)
	return nil
}

// GetComparisons возвращает снимки сравнений тендера, новые первыми.
func (s *MemoryStore) GetComparisons(_ context.Context, tenderID string) ([]models.ComparisonResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.ComparisonResult, len(s.comparisons[tenderID]))
	copy(results, s.comparisons[tenderID])
	sort.Slice(results, func(i, j int) bool { return results[i].GeneratedAt.After(results[j].GeneratedAt) })
	return results, nil
}

// SavePreCheck сохраняет результат комплаенс-проверки.
func (s *MemoryStore) SavePreCheck(_ context.Context, result models.PreCheckResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := result.TenderID + "/" + result.VendorID
	s.prechecks[key] = append(s.prechecks[key], result)
	return nil
}

// GetLatestPreCheck возвращает самый свежий результат проверки по паре (тендер, поставщик).
func (s *MemoryStore) GetLatestPreCheck(_ context.Context, tenderID, vendorID string) (*models.PreCheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checks := s.prechecks[tenderID+"/"+vendorID]
	if len(checks) == 0 {
		return nil, models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "no precheck found")
	}
	latest := checks[0]
	for _, check := range checks[1:] {
		if check.CheckedAt.After(latest.CheckedAt) {
			latest = check
		}
	}
	return &latest, nil
}

// ListDueRechecks возвращает последние проверки открытых тендеров с истекшим сроком повторной проверки.
func (s *MemoryStore) ListDueRechecks(_ context.Context, now time.Time) ([]models.PreCheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []models.PreCheckResult
	for _, checks := range s.prechecks {
		if len(checks) == 0 {
			continue
		}
		latest := checks[0]
		for _, check := range checks[1:] {
			if check.CheckedAt.After(latest.CheckedAt) {
				latest = check
			}
		}
		tender, ok := s.tenders[latest.TenderID]
		if !ok || tender.Status != models.OpenTender || now.After(tender.Deadline) {
			continue
		}
		if latest.RecheckDue.After(now) {
			continue
		}
		due = append(due, latest)
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].TenderID != due[j].TenderID {
			return due[i].TenderID < due[j].TenderID
		}
		return due[i].VendorID < due[j].VendorID
	})
	return due, nil
}
