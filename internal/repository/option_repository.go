package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/vote-service/internal/domain"
)

// OptionRepository encapsulates option persistence. List hides options whose
// section or event is deleted.
type OptionRepository interface {
	Create(ctx context.Context, option *domain.Option) error
	Update(ctx context.Context, option *domain.Option) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	GetByID(ctx context.Context, id string) (*domain.Option, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Option, error)
}

type optionRepository struct {
	pool *pgxpool.Pool
}

// NewOptionRepository instantiates repository.
func NewOptionRepository(pool *pgxpool.Pool) OptionRepository {
	return &optionRepository{pool: pool}
}

func (r *optionRepository) Create(ctx context.Context, option *domain.Option) error {
	const query = `
        INSERT INTO vt_options (section_id, label, description, image_url, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		option.SectionID,
		option.Label,
		option.Description,
		option.ImageURL,
		option.Status,
		option.CreatedBy,
	).Scan(&option.ID, &option.CreatedAt, &option.UpdatedAt)
}

func (r *optionRepository) Update(ctx context.Context, option *domain.Option) error {
	const query = `
        UPDATE vt_options SET label=$1, description=$2, image_url=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		option.Label,
		option.Description,
		option.ImageURL,
		option.ID,
	)
	if err != nil {
		return asNotFound(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *optionRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE vt_options SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return asNotFound(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *optionRepository) GetByID(ctx context.Context, id string) (*domain.Option, error) {
	const query = `
        SELECT id, section_id, label, description, image_url, status, created_by, created_at, updated_at
        FROM vt_options WHERE id=$1`
	option, err := scanOption(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, asNotFound(err)
	}
	return &option, nil
}

func (r *optionRepository) List(ctx context.Context, filter ListFilter) ([]domain.Option, error) {
	query := `
        SELECT o.id, o.section_id, o.label, o.description, o.image_url, o.status, o.created_by, o.created_at, o.updated_at
        FROM vt_options o
        JOIN vt_sections s ON s.id = o.section_id
        JOIN vt_events e ON e.id = s.event_id
        WHERE o.status <> 'deleted' AND s.status <> 'deleted' AND e.status <> 'deleted'`
	args := []any{}
	if filter.ParentID != nil {
		args = append(args, *filter.ParentID)
		query += fmt.Sprintf(" AND o.section_id=$%d", len(args))
	}
	limit, offset := filter.bounds()
	query += fmt.Sprintf(" ORDER BY o.created_at LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Option
	for rows.Next() {
		option, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, option)
	}
	return result, rows.Err()
}

func scanOption(row pgx.Row) (domain.Option, error) {
	var option domain.Option
	err := row.Scan(
		&option.ID,
		&option.SectionID,
		&option.Label,
		&option.Description,
		&option.ImageURL,
		&option.Status,
		&option.CreatedBy,
		&option.CreatedAt,
		&option.UpdatedAt,
	)
	return option, err
}
