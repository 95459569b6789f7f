// Package repository persists visitor analytics events in Postgres.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prombaza_backend/internal/analytics/domain"
	"prombaza_backend/platform/apperr"
)

// Store is the persistence contract the analytics service depends on.
type Store interface {
	Create(ctx context.Context, params CreateParams) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
}

// CreateParams carries the fields set on insert.
type CreateParams struct {
	EventType string
	Data      map[string]interface{}
	UserAgent string
	IP        string
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const eventColumns = `id, event_type, data, COALESCE(user_agent, ''), COALESCE(ip, ''), created_at`

func (r *Repository) Create(ctx context.Context, params CreateParams) (domain.Event, error) {
	const op = "analytics.repository.Create"

	var data []byte
	if len(params.Data) > 0 {
		payload, err := json.Marshal(params.Data)
		if err != nil {
			return domain.Event{}, apperr.Internal(op, fmt.Errorf("marshal event data: %w", err))
		}
		data = payload
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO analytics_events (event_type, data, user_agent, ip)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		RETURNING `+eventColumns,
		params.EventType, data, params.UserAgent, params.IP,
	)

	event, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, apperr.Internal(op, err)
	}
	return event, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Event, error) {
	const op = "analytics.repository.List"

	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM analytics_events
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, apperr.Internal(op, err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(op, rows.Err())
	}

	return events, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		event domain.Event
		data  []byte
	)
	err := row.Scan(&event.ID, &event.EventType, &data, &event.UserAgent, &event.IP, &event.CreatedAt)
	if err != nil {
		return domain.Event{}, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &event.Data); err != nil {
			return domain.Event{}, fmt.Errorf("unmarshal event data: %w", err)
		}
	}
	return event, nil
}
