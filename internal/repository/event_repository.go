package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/vote-service/internal/domain"
)

// EventRepository encapsulates event persistence. Reads return rows of any status;
// callers apply the soft-delete filter.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
}

// ListFilter pages through non-deleted catalog rows.
type ListFilter struct {
	ParentID *string
	Limit    int
	Offset   int
}

func (f ListFilter) bounds() (int, int) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `
        id, name, description, start_datetime, end_datetime, country, region, province, district,
        is_public, require_authentication, allow_multiple_votes, status, created_by, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO vt_events (name, description, start_datetime, end_datetime, country, region, province, district,
            is_public, require_authentication, allow_multiple_votes, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.Name,
		event.Description,
		event.StartsAt,
		event.EndsAt,
		event.Country,
		event.Region,
		event.Province,
		event.District,
		event.IsPublic,
		event.RequireAuthentication,
		event.AllowMultipleVotes,
		event.Status,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE vt_events SET name=$1, description=$2, start_datetime=$3, end_datetime=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		event.Name,
		event.Description,
		event.StartsAt,
		event.EndsAt,
		event.ID,
	)
	if err != nil {
		return asNotFound(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE vt_events SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return asNotFound(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT` + eventColumns + ` FROM vt_events WHERE id=$1`
	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, asNotFound(err)
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	limit, offset := filter.bounds()
	query := fmt.Sprintf(`SELECT`+eventColumns+`
        FROM vt_events WHERE status <> 'deleted'
        ORDER BY start_datetime DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var event domain.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartsAt,
		&event.EndsAt,
		&event.Country,
		&event.Region,
		&event.Province,
		&event.District,
		&event.IsPublic,
		&event.RequireAuthentication,
		&event.AllowMultipleVotes,
		&event.Status,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	return event, err
}
