package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/vote-service/internal/domain"
)

// VoteRepository persists immutable votes.
type VoteRepository interface {
	// Create inserts the vote or returns domain.ErrDuplicateVote when the subject
	// already voted in the section, whichever path detects it.
	Create(ctx context.Context, vote *domain.Vote) error
	HasVoted(ctx context.Context, userID, sectionID string) (bool, error)
}

type voteRepository struct {
	pool *pgxpool.Pool
}

// NewVoteRepository instantiates repository.
func NewVoteRepository(pool *pgxpool.Pool) VoteRepository {
	return &voteRepository{pool: pool}
}

const voteExistsQuery = `SELECT EXISTS(SELECT 1 FROM vt_votes WHERE user_id=$1 AND section_id=$2)`

func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	const insert = `
        INSERT INTO vt_votes (user_id, option_id, section_id, cast_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, voteExistsQuery, vote.UserID, vote.SectionID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateVote
		}

		// A concurrent caster may commit between the check and the insert;
		// the unique constraint rejects the loser.
		err := tx.QueryRow(ctx, insert,
			vote.UserID,
			vote.OptionID,
			vote.SectionID,
			vote.CastAt,
		).Scan(&vote.ID)
		if isConstraintViolation(err, VoteUniqueConstraint) {
			return domain.ErrDuplicateVote
		}
		return err
	})
}

func (r *voteRepository) HasVoted(ctx context.Context, userID, sectionID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, voteExistsQuery, userID, sectionID).Scan(&exists)
	return exists, err
}
