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

// PreCheckRepository - интерфейс для хранения результатов комплаенс-проверок.
type PreCheckRepository interface {
	SavePreCheck(ctx context.Context, result models.PreCheckResult) error
	GetLatestPreCheck(ctx context.Context, tenderID, vendorID string) (*models.PreCheckResult, error)
	ListDueRechecks(ctx context.Context, now time.Time) ([]models.PreCheckResult, error)
}

// PostgresPreCheckRepository - реализация PreCheckRepository для базы данных.
type PostgresPreCheckRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPreCheckRepository создает новый экземпляр PostgresPreCheckRepository.
func NewPostgresPreCheckRepository(db *pgxpool.Pool) *PostgresPreCheckRepository {
	return &PostgresPreCheckRepository{DB: db}
}

// SavePreCheck сохраняет результат проверки. Результаты не изменяются, каждый вызов добавляет новый.
func (r *PostgresPreCheckRepository) SavePreCheck(ctx context.Context, result models.PreCheckResult) error {
	data, err := marshalJSON(result)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO precheck (id, tender_id, vendor_id, passed, checked_at, recheck_due, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.ID,
		result.TenderID,
		result.VendorID,
		result.Passed,
		result.CheckedAt,
		result.RecheckDue,
		data)
	if err != nil {
		return fmt.Errorf("failed to insert precheck: %w", err)
	}
	return nil
}

// GetLatestPreCheck возвращает самый свежий результат проверки по паре (тендер, поставщик).
func (r *PostgresPreCheckRepository) GetLatestPreCheck(ctx context.Context, tenderID, vendorID string) (*models.PreCheckResult, error) {
	var data []byte
	err := r.DB.QueryRow(ctx, `
		SELECT snapshot FROM precheck
		WHERE tender_id = $1 AND vendor_id = $2
		ORDER BY checked_at DESC LIMIT 1`, tenderID, vendorID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "no precheck found")
	}
	if err != nil {
		return nil, err
	}

	var result models.PreCheckResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal precheck: %w", err)
	}
	return &result, nil
}

// ListDueRechecks возвращает последние проверки открытых тендеров, чей срок повторной проверки прошел.
func (r *PostgresPreCheckRepository) ListDueRechecks(ctx context.Context, now time.Time) ([]models.PreCheckResult, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.snapshot
		FROM (
			SELECT DISTINCT ON (tender_id, vendor_id) tender_id, recheck_due, snapshot
			FROM precheck
			ORDER BY tender_id, vendor_id, checked_at DESC
		) p
		JOIN tender t ON t.id = p.tender_id
		WHERE t.status = $1 AND t.deadline >= $2 AND p.recheck_due <= $2`, models.OpenTender, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.PreCheckResult
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var result models.PreCheckResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal precheck: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}
