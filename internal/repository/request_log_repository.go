package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/vote-service/internal/domain"
)

// RequestLogRepository stores throttle window entries in Postgres.
type RequestLogRepository struct {
	pool *pgxpool.Pool
}

// NewRequestLogRepository instantiates repository.
func NewRequestLogRepository(pool *pgxpool.Pool) *RequestLogRepository {
	return &RequestLogRepository{pool: pool}
}

// Count returns entries matching key with timestamps in [from, to].
// The subject filter applies only when key carries one.
func (r *RequestLogRepository) Count(ctx context.Context, key domain.ThrottleKey, from, to time.Time) (int, error) {
	query := `
        SELECT COUNT(*) FROM vt_request_logs
        WHERE ip=$1 AND route=$2 AND timestamp >= $3 AND timestamp <= $4`
	args := []any{key.Address, key.Route, from, to}
	if key.SubjectID != "" {
		query += ` AND user_id=$5`
		args = append(args, key.SubjectID)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Record appends an entry for key at the given instant.
func (r *RequestLogRepository) Record(ctx context.Context, key domain.ThrottleKey, at time.Time) error {
	const query = `INSERT INTO vt_request_logs (ip, route, user_id, timestamp) VALUES ($1, $2, $3, $4)`

	var userID *string
	if key.SubjectID != "" {
		userID = &key.SubjectID
	}
	_, err := r.pool.Exec(ctx, query, key.Address, key.Route, userID, at)
	return err
}
