package http

import (
	"errors"

	"github.com/spec-kit/vote-service/internal/domain"
	apperrors "github.com/spec-kit/vote-service/pkg/util"
)

// Credential failures share one body so callers cannot tell which check failed.
const credentialMessage = "invalid or missing credentials"

var (
	errUnauthorized = apperrors.NewUnauthorized(credentialMessage)
	errForbidden    = apperrors.NewForbidden("access denied")
)

// translateError maps domain sentinels to transport errors. The original
// error is kept as the cause for logging.
func translateError(err error) *apperrors.DomainError {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrFingerprintMismatch),
		errors.Is(err, domain.ErrInvalidAPIKey):
		return errUnauthorized.Wrap(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("Invalid credentials").Wrap(err)

	case errors.Is(err, domain.ErrSubjectNotFound),
		errors.Is(err, domain.ErrSubjectInactive),
		errors.Is(err, domain.ErrRoleNotPermitted):
		return errForbidden.Wrap(err)
	case errors.Is(err, domain.ErrVotingClosed):
		return apperrors.NewForbidden("voting is closed for this event").Wrap(err)

	case errors.Is(err, domain.ErrEventNotFound):
		return apperrors.NewNotFound("event", nil).Wrap(err)
	case errors.Is(err, domain.ErrSectionNotFound):
		return apperrors.NewNotFound("section", nil).Wrap(err)
	case errors.Is(err, domain.ErrOptionNotFound):
		return apperrors.NewNotFound("option", nil).Wrap(err)
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NewNotFound("user", nil).Wrap(err)

	case errors.Is(err, domain.ErrDuplicateVote):
		return apperrors.NewConflict("vote already cast for this section", nil).Wrap(err)
	case errors.Is(err, domain.ErrEmailTaken):
		return apperrors.NewConflict("email already registered", nil).Wrap(err)

	case errors.Is(err, domain.ErrRateLimited):
		return apperrors.NewTooManyRequests("too many requests").Wrap(err)

	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrRoleNotFound):
		return apperrors.NewValidationError(err.Error(), nil).Wrap(err)
	}
	return apperrors.ToDomainError(err)
}
