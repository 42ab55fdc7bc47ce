package models

import "time"

type OfferStatus string // Статус предложения

const (
	SubmittedOffer OfferStatus = "Submitted" // Предложение подано
	AwardedOffer   OfferStatus = "Awarded"   // Предложение выиграло тендер
)

// OfferLine - позиция предложения: цена и срок поставки по одной позиции тендера.
type OfferLine struct {
	Price        float64 `json:"price"`
	DeliveryDays float64 `json:"deliveryDays"`
}

// OfferScoring - результат последнего прогона сравнения по предложению.
// Перезаписывается целиком при каждом прогоне.
type OfferScoring struct {
	PriceScore   float64   `json:"priceScore"`
	TimeScore    float64   `json:"timeScore"`
	QualityScore float64   `json:"qualityScore"`
	TotalScore   float64   `json:"totalScore"`
	Rank         int       `json:"rank"`
	Outlier      bool      `json:"outlier"`
	Tier         string    `json:"tier"`
	ComparedAt   time.Time `json:"comparedAt"`
}

// Offer представляет предложение поставщика. Единственное на пару (тендер, поставщик).
type Offer struct {
	ID           string        `json:"id"`
	TenderID     string        `json:"tenderId"`
	VendorID     string        `json:"vendorId"`
	Lines        []OfferLine   `json:"lines"`
	TotalPrice   float64       `json:"totalPrice"`
	TotalDays    float64       `json:"totalDays"`
	QualityScore float64       `json:"qualityScore"`
	Notes        string        `json:"notes"`
	SubmittedAt  time.Time     `json:"submittedAt"`
	Status       OfferStatus   `json:"status"`
	Scoring      *OfferScoring `json:"scoring,omitempty"`
}

// OfferRequest представляет структуру запроса для подачи предложения.
type OfferRequest struct {
	Token        string      `json:"token"`
	Lines        []OfferLine `json:"offerLines"`
	QualityScore float64     `json:"qualityScore"`
	Notes        string      `json:"notes"`
}

// SubmittedOfferResponse представляет ответ на подачу предложения.
type SubmittedOfferResponse struct {
	OfferID     string      `json:"offerId"`
	Status      OfferStatus `json:"status"`
	SubmittedAt time.Time   `json:"submittedAt"`
}
