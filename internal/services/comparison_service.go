package services

import (
	"context"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/repository"

	"github.com/google/uuid"
)

// PriceOutlierThreshold - порог отклонения цены от среднего, нормированного размахом.
const PriceOutlierThreshold = 0.5

type ComparisonService struct {
	Tenders repository.TenderRepository
	Offers  repository.OfferRepository
}

// NewComparisonService создает новый экземпляр ComparisonService.
func NewComparisonService(tenders repository.TenderRepository, offers repository.OfferRepository) *ComparisonService {
	return &ComparisonService{Tenders: tenders, Offers: offers}
}

// Compare выполняет детерминированный прогон сравнения всех предложений тендера.
// Чистая функция от текущего набора предложений и весов: одинаковые входы дают
// побитово одинаковое ранжирование. Каждый прогон порождает новый снимок, а
// скоринг на предложениях перезаписывается результатом последнего прогона.
func (s *ComparisonService) Compare(ctx context.Context, tenderID string, weights *models.ScoringWeights) (*models.ComparisonResult, error) {
	tender, err := s.Tenders.GetTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	used := tender.Weights
	if weights != nil {
		used = *weights
	}
	if !used.Validate() {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest,
			"scoring weights must be non-negative and sum to 1")
	}

	offers, err := s.Offers.GetOffers(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, models.NewErrorResponse(http.StatusUnprocessableEntity, models.ErrNoOffers, "tender has no offers to compare")
	}

	priceStats := dimensionStats(offers, func(o models.Offer) float64 { return o.TotalPrice })
	timeStats := dimensionStats(offers, func(o models.Offer) float64 { return o.TotalDays })
	qualityStats := dimensionStats(offers, func(o models.Offer) float64 { return o.QualityScore })

	ranked := make([]models.RankedOffer, 0, len(offers))
	for _, offer := range offers {
		priceScore := goodness(offer.TotalPrice, priceStats.Min, priceStats.Max, true)
		timeScore := goodness(offer.TotalDays, timeStats.Min, timeStats.Max, true)
		qualityScore := goodness(offer.QualityScore, qualityStats.Min, qualityStats.Max, false)

		ranked = append(ranked, models.RankedOffer{
			OfferID:      offer.ID,
			VendorID:     offer.VendorID,
			TotalPrice:   offer.TotalPrice,
			TotalDays:    offer.TotalDays,
			Quality:      offer.QualityScore,
			PriceScore:   priceScore,
			TimeScore:    timeScore,
			QualityScore: qualityScore,
			TotalScore:   priceScore*used.Price + timeScore*used.Time + qualityScore*used.Quality,
			Outlier:      isPriceOutlier(offer.TotalPrice, priceStats),
			SubmittedAt:  offer.SubmittedAt,
		})
	}

	// Ранжирование по убыванию итогового балла; равные баллы разрешает более ранняя подача.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		if !ranked[i].SubmittedAt.Equal(ranked[j].SubmittedAt) {
			return ranked[i].SubmittedAt.Before(ranked[j].SubmittedAt)
		}
		return ranked[i].OfferID < ranked[j].OfferID
	})

	medianRank := (len(ranked) + 1) / 2
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Tier = recommendationTier(ranked[i].Rank, medianRank)
	}

	result := models.ComparisonResult{
		ID:          uuid.New().String(),
		TenderID:    tenderID,
		GeneratedAt: time.Now().UTC(),
		Weights:     used,
		Ranked:      ranked,
		PriceStats:  priceStats,
		TimeStats:   timeStats,
		QualityStat: qualityStats,
	}

	if err := s.Offers.SaveComparison(ctx, result); err != nil {
		return nil, err
	}
	for _, ro := range ranked {
		scoring := models.OfferScoring{
			PriceScore:   ro.PriceScore,
			TimeScore:    ro.TimeScore,
			QualityScore: ro.QualityScore,
			TotalScore:   ro.TotalScore,
			Rank:         ro.Rank,
			Outlier:      ro.Outlier,
			Tier:         string(ro.Tier),
			ComparedAt:   result.GeneratedAt,
		}
		if err := s.Offers.UpdateOfferScoring(ctx, ro.OfferID, scoring); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// GetComparisons возвращает сохраненные снимки сравнений тендера для аудита.
func (s *ComparisonService) GetComparisons(ctx context.Context, tenderID string) ([]models.ComparisonResult, error) {
	if _, err := s.Tenders.GetTender(ctx, tenderID); err != nil {
		return nil, err
	}
	return s.Offers.GetComparisons(ctx, tenderID)
}

// goodness нормирует значение измерения к баллу 0-100.
// При нулевом размахе измерение не различает предложения и всем дает 100.
func goodness(value, min, max float64, lowerBetter bool) float64 {
	if max == min {
		return 100
	}
	if lowerBetter {
		return 100 * (1 - (value-min)/(max-min))
	}
	return 100 * (value - min) / (max - min)
}

// isPriceOutlier отмечает предложение, чья цена отклоняется от среднего больше порога.
func isPriceOutlier(price float64, stats models.DimensionStats) bool {
	if stats.Max == stats.Min {
		return false
	}
	return math.Abs(price-stats.Mean)/(stats.Max-stats.Min) > PriceOutlierThreshold
}

// recommendationTier выводит рекомендацию исключительно из ранга.
func recommendationTier(rank, medianRank int) models.RecommendationTier {
	switch {
	case rank == 1:
		return models.StrongTier
	case rank == 2:
		return models.GoodTier
	case rank <= medianRank:
		return models.AcceptableTier
	default:
		return models.WeakTier
	}
}

// dimensionStats считает среднее, минимум и максимум измерения по всем предложениям.
func dimensionStats(offers []models.Offer, dim func(models.Offer) float64) models.DimensionStats {
	stats := models.DimensionStats{Min: dim(offers[0]), Max: dim(offers[0])}
	var sum float64
	for _, offer := range offers {
		v := dim(offer)
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Mean = sum / float64(len(offers))
	return stats
}
