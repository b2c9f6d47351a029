package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/vote-service/internal/domain"
)

// SectionRepository encapsulates section persistence. GetByID returns rows of
// any status; List skips deleted sections and sections of deleted events.
type SectionRepository interface {
	Create(ctx context.Context, section *domain.Section) error
	Update(ctx context.Context, section *domain.Section) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	GetByID(ctx context.Context, id string) (*domain.Section, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Section, error)
}

type sectionRepository struct {
	pool *pgxpool.Pool
}

// NewSectionRepository instantiates repository.
func NewSectionRepository(pool *pgxpool.Pool) SectionRepository {
	return &sectionRepository{pool: pool}
}

func (r *sectionRepository) Create(ctx context.Context, section *domain.Section) error {
	const query = `
        INSERT INTO vt_sections (event_id, name, description, status, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		section.EventID,
		section.Name,
		section.Description,
		section.Status,
		section.CreatedBy,
	).Scan(&section.ID, &section.CreatedAt, &section.UpdatedAt)
}

func (r *sectionRepository) Update(ctx context.Context, section *domain.Section) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE vt_sections SET name=$1, description=$2, updated_at=NOW() WHERE id=$3`,
		section.Name,
		section.Description,
		section.ID,
	)
	if err != nil {
		return asNotFound(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sectionRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE vt_sections SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return asNotFound(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sectionRepository) GetByID(ctx context.Context, id string) (*domain.Section, error) {
	const query = `
        SELECT id, event_id, name, description, status, created_by, created_at, updated_at
        FROM vt_sections WHERE id=$1`
	section, err := scanSection(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, asNotFound(err)
	}
	return &section, nil
}

func (r *sectionRepository) List(ctx context.Context, filter ListFilter) ([]domain.Section, error) {
	query := `
        SELECT s.id, s.event_id, s.name, s.description, s.status, s.created_by, s.created_at, s.updated_at
        FROM vt_sections s
        JOIN vt_events e ON e.id = s.event_id
        WHERE s.status <> 'deleted' AND e.status <> 'deleted'`
	args := []any{}
	if filter.ParentID != nil {
		args = append(args, *filter.ParentID)
		query += fmt.Sprintf(" AND s.event_id=$%d", len(args))
	}
	limit, offset := filter.bounds()
	query += fmt.Sprintf(" ORDER BY s.created_at LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Section
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, section)
	}
	return result, rows.Err()
}

func scanSection(row pgx.Row) (domain.Section, error) {
	var section domain.Section
	err := row.Scan(
		&section.ID,
		&section.EventID,
		&section.Name,
		&section.Description,
		&section.Status,
		&section.CreatedBy,
		&section.CreatedAt,
		&section.UpdatedAt,
	)
	return section, err
}
