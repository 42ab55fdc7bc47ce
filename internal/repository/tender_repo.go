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
	"github.com/lib/pq"
)

// TenderRepository - интерфейс для работы с тендерами, приглашениями и наградами.
type TenderRepository interface {
	CreateTenderWithInvitations(ctx context.Context, tender models.Tender, invitations []models.Invitation) error
	GetTender(ctx context.Context, tenderID string) (*models.Tender, error)
	UpdateTenderStatus(ctx context.Context, tenderID string, from, to models.TenderStatus) error
	GetInvitation(ctx context.Context, tenderID, vendorID string) (*models.Invitation, error)
	GetInvitations(ctx context.Context, tenderID string) ([]models.Invitation, error)
	AwardTender(ctx context.Context, award models.Award, now time.Time) error
	GetAward(ctx context.Context, tenderID string) (*models.Award, error)
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresTenderRepository создает новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db}
}

// CreateTenderWithInvitations атомарно создает тендер, его позиции и весь набор приглашений.
// Либо создается все, либо ничего: тендер не может существовать с частичным набором приглашений.
func (r *PostgresTenderRepository) CreateTenderWithInvitations(ctx context.Context, tender models.Tender, invitations []models.Invitation) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tender (id, title, deadline, status, weight_price, weight_time, weight_quality, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tender.ID,
		tender.Title,
		tender.Deadline,
		tender.Status,
		tender.Weights.Price,
		tender.Weights.Time,
		tender.Weights.Quality,
		tender.CreatedAt,
		tender.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert tender: %w", err)
	}

	for i, item := range tender.LineItems {
		_, err = tx.Exec(ctx, `
			INSERT INTO tender_line_item (tender_id, position, description, quantity, unit, specification, capabilities)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			tender.ID,
			i,
			item.Description,
			item.Quantity,
			item.Unit,
			item.Specification,
			pq.Array(item.Capabilities))
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}

	for _, inv := range invitations {
		_, err = tx.Exec(ctx, `
			INSERT INTO invitation (tender_id, vendor_id, vendor_name, vendor_contact, token, issued_at, expires_at, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			inv.TenderID,
			inv.VendorID,
			inv.VendorName,
			inv.VendorContact,
			inv.Token,
			inv.IssuedAt,
			inv.ExpiresAt,
			inv.Status)
		if err != nil {
			return fmt.Errorf("failed to insert invitation: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetTender возвращает тендер вместе с его позициями.
func (r *PostgresTenderRepository) GetTender(ctx context.Context, tenderID string) (*models.Tender, error) {
	var tender models.Tender
	query := `SELECT id, title, deadline, status, weight_price, weight_time, weight_quality, created_at, created_by
	          FROM tender WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, tenderID).Scan(
		&tender.ID,
		&tender.Title,
		&tender.Deadline,
		&tender.Status,
		&tender.Weights.Price,
		&tender.Weights.Time,
		&tender.Weights.Quality,
		&tender.CreatedAt,
		&tender.CreatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT description, quantity, unit, specification, capabilities
		FROM tender_line_item WHERE tender_id = $1 ORDER BY position`, tenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(
			&item.Description,
			&item.Quantity,
			&item.Unit,
			&item.Specification,
			&item.Capabilities); err != nil {
			return nil, err
		}
		tender.LineItems = append(tender.LineItems, item)
	}
	return &tender, nil
}

// UpdateTenderStatus меняет статус тендера при условии, что текущий статус совпадает с ожидаемым.
func (r *PostgresTenderRepository) UpdateTenderStatus(ctx context.Context, tenderID string, from, to models.TenderStatus) error {
	tag, err := r.DB.Exec(ctx, `UPDATE tender SET status = $1 WHERE id = $2 AND status = $3`, to, tenderID, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewErrorResponse(http.StatusConflict, models.ErrTenderClosed,
			fmt.Sprintf("tender is not in %s status", from))
	}
	return nil
}

// GetInvitation возвращает приглашение по паре (тендер, поставщик).
func (r *PostgresTenderRepository) GetInvitation(ctx context.Context, tenderID, vendorID string) (*models.Invitation, error) {
	var inv models.Invitation
	query := `SELECT tender_id, vendor_id, vendor_name, vendor_contact, token, issued_at, expires_at, status
	          FROM invitation WHERE tender_id = $1 AND vendor_id = $2`
	err := r.DB.QueryRow(ctx, query, tenderID, vendorID).Scan(
		&inv.TenderID,
		&inv.VendorID,
		&inv.VendorName,
		&inv.VendorContact,
		&inv.Token,
		&inv.IssuedAt,
		&inv.ExpiresAt,
		&inv.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(http.StatusForbidden, models.ErrNotInvited, "vendor is not invited to this tender")
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvitations возвращает все приглашения тендера.
func (r *PostgresTenderRepository) GetInvitations(ctx context.Context, tenderID string) ([]models.Invitation, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT tender_id, vendor_id, vendor_name, vendor_contact, token, issued_at, expires_at, status
		FROM invitation WHERE tender_id = $1 ORDER BY vendor_id`, tenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(
			&inv.TenderID,
			&inv.VendorID,
			&inv.VendorName,
			&inv.VendorContact,
			&inv.Token,
			&inv.IssuedAt,
			&inv.ExpiresAt,
			&inv.Status); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, nil
}

// AwardTender атомарно фиксирует награду и переводит тендер в статус Awarded.
// Строка тендера блокируется на время транзакции: из конкурирующих вызовов выигрывает ровно один.
func (r *PostgresTenderRepository) AwardTender(ctx context.Context, award models.Award, now time.Time) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var status models.TenderStatus
	var deadline time.Time
	err = tx.QueryRow(ctx, `SELECT status, deadline FROM tender WHERE id = $1 FOR UPDATE`, award.TenderID).
		Scan(&status, &deadline)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender not found")
	}
	if err != nil {
		return err
	}

	if status == models.AwardedTender {
		return models.NewErrorResponse(http.StatusConflict, models.ErrAlreadyAwarded, "tender is already awarded")
	}
	if status != models.OpenTender || now.After(deadline) {
		return models.NewErrorResponse(http.StatusConflict, models.ErrTenderClosed, "tender is not open for award")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO award (tender_id, vendor_id, awarded_at, precheck_passed, override_used, override_reason, awarded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		award.TenderID,
		award.VendorID,
		award.AwardedAt,
		award.PreCheckPassed,
		award.OverrideUsed,
		award.OverrideReason,
		award.AwardedBy)
	if err != nil {
		return fmt.Errorf("failed to insert award: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE tender SET status = $1 WHERE id = $2`, models.AwardedTender, award.TenderID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE offer SET status = $1 WHERE tender_id = $2 AND vendor_id = $3`,
		models.AwardedOffer, award.TenderID, award.VendorID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetAward возвращает награду тендера, если она есть.
func (r *PostgresTenderRepository) GetAward(ctx context.Context, tenderID string) (*models.Award, error) {
	var award models.Award
	query := `SELECT tender_id, vendor_id, awarded_at, precheck_passed, override_used, override_reason, awarded_by
	          FROM award WHERE tender_id = $1`
	err := r.DB.QueryRow(ctx, query, tenderID).Scan(
		&award.TenderID,
		&award.VendorID,
		&award.AwardedAt,
		&award.PreCheckPassed,
		&award.OverrideUsed,
		&award.OverrideReason,
		&award.AwardedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(http.StatusNotFound, models.ErrNotFound, "tender has no award")
	}
	if err != nil {
		return nil, err
	}
	return &award, nil
}

// marshalJSON сериализует значение для записи в JSONB-колонку.
func marshalJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json: %w", err)
	}
	return data, nil
}
