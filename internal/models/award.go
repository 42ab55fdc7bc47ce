package models

import "time"

// Award - терминальный факт выбора победителя тендера. Не более одного на тендер.
type Award struct {
	TenderID       string    `json:"tenderId"`
	VendorID       string    `json:"awardedTo"`
	AwardedAt      time.Time `json:"awardedAt"`
	PreCheckPassed bool      `json:"preCheckPassed"`
	OverrideUsed   bool      `json:"overrideUsed"`
	OverrideReason string    `json:"overrideReason,omitempty"`
	AwardedBy      string    `json:"awardedBy"`
}

// AwardRequest представляет структуру запроса на награждение.
type AwardRequest struct {
	VendorID       string `json:"vendorId"`
	Override       bool   `json:"override"`
	OverrideReason string `json:"overrideReason,omitempty"`
	AwardedBy      string `json:"awardedBy"`
}
