package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/services"
)

const (
	verifyPath         = "/v1/verify"
	defaultHTTPTimeout = 15 * time.Second
)

// Client - HTTP-клиент внешнего сервиса проверки документов.
type Client struct {
	baseURL string
	http    *http.Client
}

// verifyResponse - тело ответа сервиса проверки.
type verifyResponse struct {
	Status string     `json:"status"`
	Score  float64    `json:"score"`
	Expiry *time.Time `json:"expiry,omitempty"`
	Notes  string     `json:"notes,omitempty"`
}

// NewClient создает новый экземпляр Client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Verify запрашивает у коллаборатора статус одного документа поставщика.
func (c *Client) Verify(ctx context.Context, vendorID, documentType string) (*services.VerificationReport, error) {
	endpoint := fmt.Sprintf("%s%s?vendor_id=%s&document_type=%s",
		c.baseURL, verifyPath, url.QueryEscape(vendorID), url.QueryEscape(documentType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verification request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verification service returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode verification response: %w", err)
	}

	return &services.VerificationReport{
		Status: models.DocumentStatus(body.Status),
		Expiry: body.Expiry,
		Notes:  body.Notes,
	}, nil
}
