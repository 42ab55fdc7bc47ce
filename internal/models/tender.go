package models

import (
	"math"
	"time"
)

type TenderStatus string // Статус тендера

const (
	DraftTender     TenderStatus = "Draft"     // Тендер создан, приглашения еще не выданы
	OpenTender      TenderStatus = "Open"      // Тендер открыт для подачи предложений
	AwardedTender   TenderStatus = "Awarded"   // По тендеру выбран победитель
	CancelledTender TenderStatus = "Cancelled" // Тендер отменен
	ExpiredTender   TenderStatus = "Expired"   // Вычисляемый статус: дедлайн прошел без награждения
)

// WeightEpsilon - допустимая погрешность суммы весов.
const WeightEpsilon = 1e-6

// ScoringWeights - веса критериев сравнения предложений.
type ScoringWeights struct {
	Price   float64 `json:"price"`
	Time    float64 `json:"time"`
	Quality float64 `json:"quality"`
}

// Validate проверяет, что веса неотрицательны и в сумме дают единицу.
func (w ScoringWeights) Validate() bool {
	if w.Price < 0 || w.Time < 0 || w.Quality < 0 {
		return false
	}
	return math.Abs(w.Price+w.Time+w.Quality-1) <= WeightEpsilon
}

// LineItem представляет позицию тендера. Неизменяема после создания тендера.
type LineItem struct {
	Description   string   `json:"description"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	Specification string   `json:"specification"`
	Capabilities  []string `json:"capabilities"`
}

// Tender представляет модель тендера.
type Tender struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	LineItems []LineItem     `json:"lineItems"`
	Deadline  time.Time      `json:"deadline"`
	Status    TenderStatus   `json:"status"`
	Weights   ScoringWeights `json:"scoringWeights"`
	CreatedAt time.Time      `json:"createdAt"`
	CreatedBy string         `json:"createdBy"`
}

// EffectiveStatus возвращает статус с учетом дедлайна; истечение не хранится в базе, а вычисляется.
func (t *Tender) EffectiveStatus(now time.Time) TenderStatus {
	if t.Status == OpenTender && now.After(t.Deadline) {
		return ExpiredTender
	}
	return t.Status
}

// IsOpen проверяет, принимает ли тендер предложения в данный момент.
func (t *Tender) IsOpen(now time.Time) bool {
	return t.Status == OpenTender && !now.After(t.Deadline)
}

// VendorIdentity - идентичность приглашаемого поставщика.
type VendorIdentity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// TenderRequest представляет структуру запроса для создания тендера.
type TenderRequest struct {
	Title     string           `json:"title"`
	LineItems []LineItem       `json:"lineItems"`
	Deadline  time.Time        `json:"deadline"`
	Vendors   []VendorIdentity `json:"invitedVendors"`
	Weights   *ScoringWeights  `json:"scoringWeights,omitempty"`
	CreatedBy string           `json:"createdBy"`
}

// VendorAccess - адресованный поставщику дескриптор доступа, передается внешней доставке уведомлений.
type VendorAccess struct {
	VendorID    string    `json:"vendorId"`
	VendorName  string    `json:"vendorName"`
	Contact     string    `json:"contact"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// CreatedTenderResponse представляет ответ на создание тендера.
type CreatedTenderResponse struct {
	TenderID    string         `json:"tenderId"`
	Status      TenderStatus   `json:"status"`
	Invitations []VendorAccess `json:"invitations"`
}
