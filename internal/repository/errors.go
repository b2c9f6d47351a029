package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode           = "23505"
	invalidTextRepresentationCode = "22P02"

	// VoteUniqueConstraint guards the one-vote-per-subject-per-section invariant.
	VoteUniqueConstraint = "unique_vote_per_user_per_section"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isConstraintViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == constraint
}

// asNotFound reports malformed identifiers as missing rows; no UUID column can match them.
func asNotFound(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentationCode {
		return pgx.ErrNoRows
	}
	return err
}
