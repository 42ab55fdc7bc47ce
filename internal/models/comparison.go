package models

import "time"

type RecommendationTier string // Рекомендация по рангу предложения

const (
	StrongTier     RecommendationTier = "strong"     // Первое место
	GoodTier       RecommendationTier = "good"       // Второе место
	AcceptableTier RecommendationTier = "acceptable" // Места до медианы включительно
	WeakTier       RecommendationTier = "weak"       // Остальные места
)

// RankedOffer - одно предложение в ранжированном списке сравнения.
type RankedOffer struct {
	OfferID      string             `json:"offerId"`
	VendorID     string             `json:"vendorId"`
	TotalPrice   float64            `json:"totalPrice"`
	TotalDays    float64            `json:"totalDays"`
	Quality      float64            `json:"quality"`
	PriceScore   float64            `json:"priceScore"`
	TimeScore    float64            `json:"timeScore"`
	QualityScore float64            `json:"qualityScore"`
	TotalScore   float64            `json:"totalScore"`
	Rank         int                `json:"rank"`
	Outlier      bool               `json:"outlier"`
	Tier         RecommendationTier `json:"tier"`
	SubmittedAt  time.Time          `json:"submittedAt"`
}

// DimensionStats - агрегаты по одному измерению среди всех предложений.
type DimensionStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ComparisonResult - неизменяемый снимок одного прогона сравнения.
// Каждый прогон порождает новый снимок, прежние сохраняются для аудита.
type ComparisonResult struct {
	ID          string         `json:"id"`
	TenderID    string         `json:"tenderId"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Weights     ScoringWeights `json:"weights"`
	Ranked      []RankedOffer  `json:"ranked"`
	PriceStats  DimensionStats `json:"priceStats"`
	TimeStats   DimensionStats `json:"timeStats"`
	QualityStat DimensionStats `json:"qualityStats"`
}
