// Package repository persists leads in Postgres.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prombaza_backend/internal/leads/domain"
	"prombaza_backend/platform/apperr"
)

// Store is the persistence contract the leads service depends on.
type Store interface {
	Create(ctx context.Context, params CreateParams) (domain.Lead, error)
	List(ctx context.Context) ([]domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (domain.Lead, error)
	UpdateScore(ctx context.Context, id uuid.UUID, score int, priority domain.Priority) error
}

// CreateParams carries the fields set on insert. Everything else defaults
// in the database.
type CreateParams struct {
	Name        string
	Phone       string
	Email       string
	Type        string
	Message     string
	QuizAnswers domain.QuizAnswers
}

// UpdateParams is a partial update: nil fields are left untouched.
type UpdateParams struct {
	Name         *string
	Phone        *string
	Email        *string
	Message      *string
	Status       *domain.Status
	LastActivity *time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const leadColumns = `id, name, phone, COALESCE(email, ''), type, COALESCE(message, ''), quiz_answers, score, priority, status, last_activity, created_at`

func (r *Repository) Create(ctx context.Context, params CreateParams) (domain.Lead, error) {
	const op = "leads.repository.Create"

	answers, err := marshalAnswers(params.QuizAnswers)
	if err != nil {
		return domain.Lead{}, apperr.Internal(op, err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, phone, email, type, message, quiz_answers)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6)
		RETURNING `+leadColumns,
		params.Name, params.Phone, params.Email, params.Type, params.Message, answers,
	)

	lead, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, apperr.Internal(op, err)
	}
	return lead, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Lead, error) {
	const op = "leads.repository.List"

	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, apperr.Internal(op, err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(op, rows.Err())
	}

	return leads, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	const op = "leads.repository.GetByID"

	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1
	`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, apperr.NotFound(op, "lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Internal(op, err)
	}
	return lead, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (domain.Lead, error) {
	const op = "leads.repository.Update"

	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			email = COALESCE(NULLIF($4, ''), email),
			message = COALESCE(NULLIF($5, ''), message),
			status = COALESCE($6, status),
			last_activity = COALESCE($7, last_activity)
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.Name, params.Phone, params.Email, params.Message, params.Status, params.LastActivity,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, apperr.NotFound(op, "lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Internal(op, err)
	}
	return lead, nil
}

// UpdateScore writes back a recomputed score and priority without touching
// any operator-managed column.
func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, score int, priority domain.Priority) error {
	const op = "leads.repository.UpdateScore"

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET score = $2, priority = $3 WHERE id = $1
	`, id, score, priority)
	if err != nil {
		return apperr.Internal(op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(op, "lead not found")
	}
	return nil
}

func marshalAnswers(answers domain.QuizAnswers) ([]byte, error) {
	if len(answers) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz answers: %w", err)
	}
	return payload, nil
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead    domain.Lead
		answers []byte
	)
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.Type, &lead.Message,
		&answers, &lead.Score, &lead.Priority, &lead.Status, &lead.LastActivity, &lead.CreatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &lead.QuizAnswers); err != nil {
			return domain.Lead{}, fmt.Errorf("unmarshal quiz answers: %w", err)
		}
	}
	return lead, nil
}
