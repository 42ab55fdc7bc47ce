package models

import "time"

type InvitationStatus string // Статус приглашения

const (
	Invited   InvitationStatus = "Invited"   // Приглашение выдано
	Responded InvitationStatus = "Responded" // Поставщик подал предложение
)

// Invitation связывает одного поставщика с одним тендером и несет его токен доступа.
type Invitation struct {
	TenderID      string           `json:"tenderId"`
	VendorID      string           `json:"vendorId"`
	VendorName    string           `json:"vendorName"`
	VendorContact string           `json:"vendorContact"`
	Token         string           `json:"-"`
	IssuedAt      time.Time        `json:"issuedAt"`
	ExpiresAt     time.Time        `json:"expiresAt"`
	Status        InvitationStatus `json:"status"`
}
