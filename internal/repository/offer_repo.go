package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OfferRepository - интерфейс для работы с предложениями и снимками сравнений.
type OfferRepository interface {
	InsertOffer(ctx context.Context, offer models.Offer, now time.Time) error
	GetOffer(ctx context.Context, tenderID, vendorID string) (*models.Offer, error)
	GetOffers(ctx context.Context, tenderID string) ([]models.Offer, error)
	UpdateOfferScoring(ctx context.Context, offerID string, scoring models.OfferScoring) error
	SaveComparison(ctx context.Context, result models.ComparisonResult) error
	GetComparisons(ctx context.Context, tenderID string) ([]models.ComparisonResult, error)
}

// PostgresOfferRepository - реализация OfferRepository для базы данных.
type PostgresOfferRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresOfferRepository создает новый экземпляр PostgresOfferRepository.
func NewPostgresOfferRepository(db *pgxpool.Pool) *PostgresOfferRepository {
	return &PostgresOfferRepository{DB: db}
}

// InsertOffer записывает предложение и помечает приглашение отвеченным.
// Уникальность пары (тендер, поставщик) обеспечивает условная вставка: проигравший
// конкурентный дубль получает DuplicateSubmission, а не молчаливую перезапись.
func (r *PostgresOfferRepository) InsertOffer(ctx context.Context, offer models.Offer, now time.Time) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var status models.TenderStatus
	var deadline time.Time
	err = tx.QueryRow(ctx, `SELECT status, deadline FROM tender WHERE id = $1`, offer.TenderID).
		Scan(&status, &deadline)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender not found")
	}
	if err != nil {
		return err
	}
	if status != models.OpenTender || now.After(deadline) {
		return models.NewErrorResponse(http.StatusConflict, models.ErrTenderClosed, "tender is not open for submissions")
	}

	lines, err := marshalJSON(offer.Lines)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO offer (id, tender_id, vendor_id, lines, total_price, total_days, quality_score, notes, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tender_id, vendor_id) DO NOTHING`,
		offer.ID,
		offer.TenderID,
		offer.VendorID,
		lines,
		offer.TotalPrice,
		offer.TotalDays,
		offer.QualityScore,
		offer.Notes,
		offer.SubmittedAt,
		offer.Status)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewErrorResponse(http.StatusConflict, models.ErrDuplicateSubmission, "offer already submitted for this tender")
	}

	_, err = tx.Exec(ctx, `UPDATE invitation SET status = $1 WHERE tender_id = $2 AND vendor_id = $3`,
		models.Responded, offer.TenderID, offer.VendorID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetOffer возвращает предложение по паре (тендер, поставщик).
func (r *PostgresOfferRepository) GetOffer(ctx context.Context, tenderID, vendorID string) (*models.Offer, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, tender_id, vendor_id, lines, total_price, total_days, quality_score, notes, submitted_at, status, scoring
		FROM offer WHERE tender_id = $1 AND vendor_id = $2`, tenderID, vendorID)
	offer, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "offer not found")
	}
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// GetOffers возвращает все предложения тендера в порядке подачи.
func (r *PostgresOfferRepository) GetOffers(ctx context.Context, tenderID string) ([]models.Offer, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, tender_id, vendor_id, lines, total_price, total_days, quality_score, notes, submitted_at, status, scoring
		FROM offer WHERE tender_id = $1 ORDER BY submitted_at, id`, tenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	return offers, nil
}

// UpdateOfferScoring перезаписывает результат сравнения на предложении.
func (r *PostgresOfferRepository) UpdateOfferScoring(ctx context.Context, offerID string, scoring models.OfferScoring) error {
	data, err := marshalJSON(scoring)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `UPDATE offer SET scoring = $1 WHERE id = $2`, data, offerID)
	return err
}

// SaveComparison сохраняет неизменяемый снимок прогона сравнения.
func (r *PostgresOfferRepository) SaveComparison(ctx context.Context, result models.ComparisonResult) error {
	data, err := marshalJSON(result)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO comparison (id, tender_id, generated_at, snapshot)
		VALUES ($1, $2, $3, $4)`,
		result.ID,
		result.TenderID,
		result.GeneratedAt,
		data)
	if err != nil {
		return fmt.Errorf("failed to insert comparison: %w", err)
	}
	return nil
}

// GetComparisons возвращает снимки сравнений тендера, новые первыми.
func (r *PostgresOfferRepository) GetComparisons(ctx context.Context, tenderID string) ([]models.ComparisonResult, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT snapshot FROM comparison WHERE tender_id = $1 ORDER BY generated_at DESC`, tenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.ComparisonResult
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var result models.ComparisonResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comparison: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}

// scanOffer читает строку предложения вместе с JSONB-полями.
func scanOffer(row pgx.Row) (*models.Offer, error) {
	var offer models.Offer
	var lines []byte
	var scoring []byte
	err := row.Scan(
		&offer.ID,
		&offer.TenderID,
		&offer.VendorID,
		&lines,
		&offer.TotalPrice,
		&offer.TotalDays,
		&offer.QualityScore,
		&offer.Notes,
		&offer.SubmittedAt,
		&offer.Status,
		&scoring,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &offer.Lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offer lines: %w", err)
	}
	if scoring != nil {
		offer.Scoring = &models.OfferScoring{}
		if err := json.Unmarshal(scoring, offer.Scoring); err != nil {
			return nil, fmt.Errorf("failed to unmarshal offer scoring: %w", err)
		}
	}
	return &offer, nil
}
