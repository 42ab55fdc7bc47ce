package models

import "time"

type DocumentStatus string // Статус документа поставщика

const (
	ValidDocument   DocumentStatus = "valid"   // Документ действителен
	PendingDocument DocumentStatus = "pending" // Документ на рассмотрении
	ExpiredDocument DocumentStatus = "expired" // Срок действия документа истек
	InvalidDocument DocumentStatus = "invalid" // Документ недействителен
)

// DocumentCheck - результат проверки одного документа.
type DocumentCheck struct {
	Type   string         `json:"type"`
	Status DocumentStatus `json:"status"`
	Score  float64        `json:"score"`
	Expiry *time.Time     `json:"expiry,omitempty"`
	Notes  string         `json:"notes,omitempty"`
}

// PreCheckResult - результат комплаенс-проверки поставщика по тендеру.
// Создается заново при каждом вызове и не изменяется.
type PreCheckResult struct {
	ID           string          `json:"id"`
	VendorID     string          `json:"vendorId"`
	TenderID     string          `json:"tenderId"`
	Checks       []DocumentCheck `json:"checks"`
	OverallScore float64         `json:"overallScore"`
	Passed       bool            `json:"passed"`
	Warnings     []string        `json:"warnings,omitempty"`
	Errors       []string        `json:"errors,omitempty"`
	CheckedAt    time.Time       `json:"checkedAt"`
	RecheckDue   time.Time       `json:"recheckDue"`
}
