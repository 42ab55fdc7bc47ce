package token

import (
	"errors"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Типизированные ошибки проверки токена.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrSignatureInvalid = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
)

// Claims - подписанные утверждения токена доступа поставщика.
type Claims struct {
	jwt.RegisteredClaims
	TenderID      string `json:"tender_id"`
	VendorID      string `json:"vendor_id"`
	VendorName    string `json:"vendor_name"`
	VendorContact string `json:"vendor_contact"`
}

// Codec - интерфейс выдачи и проверки токенов доступа.
// Алгоритм подписи и ключевой материал скрыты за интерфейсом.
type Codec interface {
	Issue(tenderID string, vendor models.VendorIdentity, issuedAt, expiresAt time.Time) (string, error)
	Verify(tokenString string, now time.Time) (*Claims, error)
}

// HMACCodec - реализация Codec на симметричной подписи HS256.
// Не имеет состояния: два кодека с одинаковым секретом взаимозаменяемы.
type HMACCodec struct {
	secret []byte
}

// NewHMACCodec создает новый экземпляр HMACCodec.
func NewHMACCodec(secret string) *HMACCodec {
	return &HMACCodec{secret: []byte(secret)}
}

// Issue выдает подписанный токен, привязанный ровно к одной паре (тендер, поставщик).
func (c *HMACCodec) Issue(tenderID string, vendor models.VendorIdentity, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   vendor.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt.UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt.UTC()),
		},
		TenderID:      tenderID,
		VendorID:      vendor.ID,
		VendorName:    vendor.Name,
		VendorContact: vendor.Contact,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify проверяет подпись и срок действия токена и возвращает его утверждения.
// Подпись и срок всегда проверяются вместе, токен никогда не декодируется без проверки.
func (c *HMACCodec) Verify(tokenString string, now time.Time) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if claims.TenderID == "" || claims.VendorID == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}
