package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/reda57493110/pixelpad-backend/internal/orders/domain"
)

// CreateOrder persists the order and an order_created outbox row in one
// transaction, so a created order always gets published eventually.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders
	          (id, order_date, items, total, status, customer_name, customer_phone,
	           city, address, email, identity_key, payment_session_id, payment_method, payment_status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		order.Date,
		itemsJSON,
		order.Total,
		order.Status,
		order.CustomerName,
		order.CustomerPhone,
		order.City,
		order.Address,
		order.Email,
		order.IdentityKey,
		order.PaymentSessionID,
		order.PaymentMethod,
		order.PaymentStatus)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	payload, err := json.Marshal(map[string]any{
		"order_id":       order.ID,
		"identity_key":   order.IdentityKey,
		"items":          order.Items,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
		"created_at":     order.Date,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	outboxQuery := `INSERT INTO orders_outbox (event_id, event_type, aggregate_id, payload)
	                VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, outboxQuery, uuid.New().String(), "order_created", order.ID, payload); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	return tx.Commit()
}

func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT id, order_date, items, total, status, customer_name, customer_phone,
	                 city, address, email, identity_key, payment_session_id, payment_method, payment_status
	          FROM orders WHERE id = $1`

	return r.scanOrder(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) ListOrdersByIdentity(ctx context.Context, identityKey string) ([]*domain.Order, error) {
	query := `SELECT id, order_date, items, total, status, customer_name, customer_phone,
	                 city, address, email, identity_key, payment_session_id, payment_method, payment_status
	          FROM orders WHERE identity_key = $1 ORDER BY order_date DESC`

	rows, err := r.db.QueryContext(ctx, query, identityKey)
	if err != nil {
		return nil, fmt.Errorf("query orders by identity: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, event_id, event_type, aggregate_id, payload, created_at
	          FROM orders_outbox WHERE processed_at IS NULL ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(&event.ID, &event.EventID, &event.EventType,
			&event.AggregateID, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}

func (r *Repository) MarkEventAsProcessed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE orders_outbox SET processed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte

	err := row.Scan(
		&order.ID,
		&order.Date,
		&itemsJSON,
		&order.Total,
		&order.Status,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.City,
		&order.Address,
		&order.Email,
		&order.IdentityKey,
		&order.PaymentSessionID,
		&order.PaymentMethod,
		&order.PaymentStatus,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}
