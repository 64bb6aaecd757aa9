package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/reda57493110/pixelpad-backend/internal/payment/domain"
)

func (r *Repository) CreateSession(ctx context.Context, session *domain.PaymentSession) error {
	metadataJSON, err := json.Marshal(session.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal session metadata: %w", err)
	}

	query := `INSERT INTO payment_sessions
	          (session_id, user_id, email, amount, currency, payment_method,
	           customer_name, customer_phone, city, address, metadata, order_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		session.SessionID,
		session.UserID,
		session.Email,
		session.Amount,
		session.Currency,
		session.PaymentMethod,
		session.CustomerName,
		session.CustomerPhone,
		session.City,
		session.Address,
		metadataJSON,
		nullable(session.OrderID),
		session.Status)

	if insertErr != nil {
		return fmt.Errorf("insert payment session: %w", insertErr)
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (*domain.PaymentSession, error) {
	query := `SELECT session_id, user_id, email, amount, currency, payment_method,
	                 customer_name, customer_phone, city, address, metadata, order_id, status, created_at, updated_at
	          FROM payment_sessions WHERE session_id = $1`

	return r.scanSession(r.db.QueryRowContext(ctx, query, sessionID))
}

// UpdateSession applies a partial update. Metadata keys from the patch are
// merged into the stored metadata, not replaced.
func (r *Repository) UpdateSession(ctx context.Context, sessionID string, patch domain.SessionPatch) error {
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if patch.Status != nil {
		session.Status = *patch.Status
	}
	if patch.OrderID != nil {
		session.OrderID = *patch.OrderID
	}
	if len(patch.Metadata) > 0 {
		if session.Metadata == nil {
			session.Metadata = make(map[string]any, len(patch.Metadata))
		}
		for k, v := range patch.Metadata {
			session.Metadata[k] = v
		}
	}

	metadataJSON, err := json.Marshal(session.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal session metadata: %w", err)
	}

	query := `UPDATE payment_sessions
	          SET status = $2, order_id = $3, metadata = $4, updated_at = NOW()
	          WHERE session_id = $1`

	result, updateErr := r.db.ExecContext(ctx, query,
		sessionID, session.Status, nullable(session.OrderID), metadataJSON)
	if updateErr != nil {
		return fmt.Errorf("update payment session: %w", updateErr)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListStalePending returns sessions still pending past olderThan with no
// linked order. These are crashed submissions the sweep resolves.
func (r *Repository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*domain.PaymentSession, error) {
	query := `SELECT session_id, user_id, email, amount, currency, payment_method,
	                 customer_name, customer_phone, city, address, metadata, order_id, status, created_at, updated_at
	          FROM payment_sessions
	          WHERE status = 'pending' AND order_id IS NULL AND created_at < $1
	          ORDER BY created_at LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale pending sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.PaymentSession
	for rows.Next() {
		session, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanSession(row rowScanner) (*domain.PaymentSession, error) {
	var session domain.PaymentSession
	var metadataJSON []byte
	var orderID sql.NullString

	err := row.Scan(
		&session.SessionID,
		&session.UserID,
		&session.Email,
		&session.Amount,
		&session.Currency,
		&session.PaymentMethod,
		&session.CustomerName,
		&session.CustomerPhone,
		&session.City,
		&session.Address,
		&metadataJSON,
		&orderID,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment session: %w", err)
	}

	if orderID.Valid {
		session.OrderID = orderID.String
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &session.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal session metadata: %w", err)
		}
	}
	return &session, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
