package http

import (
	"github.com/spec-kit/vote-service/internal/auth"
	"github.com/spec-kit/vote-service/internal/config"
	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/repository"
	"github.com/spec-kit/vote-service/internal/throttle"
)

// Gates builds the per-route gate pipelines.
type Gates struct {
	keys      config.APIKeys
	tokens    *auth.TokenManager
	users     repository.UserRepository
	throttler *throttle.Throttler
	rules     config.ThrottleConfig
}

// GateDependencies bundles what the pipelines check against.
type GateDependencies struct {
	Keys      config.APIKeys
	Tokens    *auth.TokenManager
	Users     repository.UserRepository
	Throttler *throttle.Throttler
	Rules     config.ThrottleConfig
}

// NewGates constructs the pipeline factory.
func NewGates(deps GateDependencies) *Gates {
	return &Gates{
		keys:      deps.Keys,
		tokens:    deps.Tokens,
		users:     deps.Users,
		throttler: deps.Throttler,
		rules:     deps.Rules,
	}
}

// Key checks only the named API key.
func (g *Gates) Key(name string) auth.Pipeline {
	expected, _ := g.keys.Lookup(name)
	return auth.NewPipeline(auth.APIKeyGate(expected))
}

// Authenticated checks the named API key, the session and the live account,
// then admits only the listed roles.
func (g *Gates) Authenticated(keyName string, roles ...domain.RoleName) auth.Pipeline {
	return g.Key(keyName).Then(
		auth.SessionGate(g.tokens),
		auth.AccountGate(g.users),
		auth.RoleGate(roles...),
	)
}

// Admin is the pipeline guarding administrative routes.
func (g *Gates) Admin() auth.Pipeline {
	return g.Authenticated(config.AdminAPIKey, domain.RoleAdmin)
}

// Login guards credential exchange; it runs before any session exists.
func (g *Gates) Login() auth.Pipeline {
	return g.Key(config.AuthAPIKey).Then(g.throttler.Gate(ruleFrom(g.rules.Login)))
}

// Register guards subject creation.
func (g *Gates) Register() auth.Pipeline {
	return g.Authenticated(config.AuthAPIKey, domain.RoleAdmin).Then(g.throttler.Gate(ruleFrom(g.rules.Default)))
}

// CastVote guards ballot submission. Throttling runs last so it keys on the
// verified subject.
func (g *Gates) CastVote() auth.Pipeline {
	return g.Voter().Then(g.throttler.Gate(ruleFrom(g.rules.Votes)))
}

// Voter admits active voters.
func (g *Gates) Voter() auth.Pipeline {
	return g.Authenticated(config.VotesAPIKey, domain.RoleVoter)
}

func ruleFrom(r config.RateRule) throttle.Rule {
	return throttle.Rule{Limit: r.Limit, Window: r.Window()}
}
