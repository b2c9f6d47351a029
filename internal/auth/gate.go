package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/repository"
)

// Request is the value threaded through a gate pipeline. Gates never mutate it;
// each returns an augmented copy.
type Request struct {
	APIKey        string
	Authorization string
	Fingerprint   string
	ClientAddr    string
	Route         string

	Claims  *Claims
	Subject *domain.User
}

// SubjectID returns the verified subject id, or "" before the session gate ran.
func (r Request) SubjectID() string {
	if r.Claims == nil {
		return ""
	}
	return r.Claims.UserID
}

// Gate is a single pass/reject step.
type Gate interface {
	Check(ctx context.Context, req Request) (Request, error)
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context, req Request) (Request, error)

// Check calls f.
func (f GateFunc) Check(ctx context.Context, req Request) (Request, error) {
	return f(ctx, req)
}

// Pipeline runs gates in order and stops at the first rejection.
type Pipeline struct {
	gates []Gate
}

// NewPipeline composes gates in the given order.
func NewPipeline(gates ...Gate) Pipeline {
	return Pipeline{gates: append([]Gate(nil), gates...)}
}

// Then returns a new pipeline with gates appended.
func (p Pipeline) Then(gates ...Gate) Pipeline {
	combined := make([]Gate, 0, len(p.gates)+len(gates))
	combined = append(combined, p.gates...)
	combined = append(combined, gates...)
	return Pipeline{gates: combined}
}

// Len reports the number of gates.
func (p Pipeline) Len() int {
	return len(p.gates)
}

// Run threads req through every gate.
func (p Pipeline) Run(ctx context.Context, req Request) (Request, error) {
	for _, gate := range p.gates {
		next, err := gate.Check(ctx, req)
		if err != nil {
			return req, err
		}
		req = next
	}
	return req, nil
}

// APIKeyGate rejects requests whose x-api-key does not match expected.
func APIKeyGate(expected string) Gate {
	return GateFunc(func(_ context.Context, req Request) (Request, error) {
		if req.APIKey == "" || subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(expected)) != 1 {
			return req, domain.ErrInvalidAPIKey
		}
		return req, nil
	})
}

// SessionGate verifies the bearer token against the request fingerprint.
func SessionGate(tokens *TokenManager) Gate {
	return GateFunc(func(_ context.Context, req Request) (Request, error) {
		parts := strings.SplitN(req.Authorization, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return req, domain.ErrMissingCredential
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]), req.Fingerprint)
		if err != nil {
			return req, err
		}
		req.Claims = claims
		return req, nil
	})
}

// AccountGate re-reads the subject's live status; the token is not trusted for it.
func AccountGate(users repository.UserRepository) Gate {
	return GateFunc(func(ctx context.Context, req Request) (Request, error) {
		if req.Claims == nil {
			return req, domain.ErrMissingCredential
		}
		user, err := users.GetByID(ctx, req.Claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return req, domain.ErrSubjectNotFound
			}
			return req, err
		}
		if !user.IsActive() {
			return req, domain.ErrSubjectInactive
		}
		req.Subject = user
		return req, nil
	})
}

// RoleGate admits only the listed roles, judged by the role claim in the token.
func RoleGate(allowed ...domain.RoleName) Gate {
	allowedSet := make(map[domain.RoleName]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return GateFunc(func(_ context.Context, req Request) (Request, error) {
		if req.Claims == nil {
			return req, domain.ErrMissingCredential
		}
		if _, exists := allowedSet[req.Claims.Role]; !exists {
			return req, &domain.RoleNotPermittedError{Role: req.Claims.Role}
		}
		return req, nil
	})
}
