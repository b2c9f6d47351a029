package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/vote-service/internal/auth"
	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/events"
	"github.com/spec-kit/vote-service/internal/observability"
	"github.com/spec-kit/vote-service/internal/repository/memory"
)

var epoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handler(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	ctx      context.Context
	clock    *testClock
	store    *memory.Store
	tokens   *auth.TokenManager
	metrics  *observability.Metrics
	recorded *recordedEvents

	auth    *AuthService
	votes   *VoteService
	catalog *CatalogService

	event   *domain.Event
	section *domain.Section
	option  *domain.Option
	voter   *domain.User
}

// newFixture seeds roles, one voter and an event open on [epoch, epoch+1h]
// with one section and one option. The clock starts at epoch+10s.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := &testClock{now: epoch.Add(10 * time.Second)}
	store := memory.NewStore()
	metrics := observability.NewMetrics()

	tokens, err := auth.NewTokenManager("service-test-key", auth.DefaultTokenTTL, auth.WithClock(clock.Now))
	require.NoError(t, err)

	recorded := &recordedEvents{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{events.EventVoteCast, events.EventUserRegistered, events.EventUserStatusChanged} {
		dispatcher.Subscribe(et, recorded.handler)
	}

	f := &fixture{
		ctx:      ctx,
		clock:    clock,
		store:    store,
		tokens:   tokens,
		metrics:  metrics,
		recorded: recorded,
		auth: NewAuthService(AuthDependencies{
			UserRepo:   store.Users(),
			RoleRepo:   store.Roles(),
			Tokens:     tokens,
			Hasher:     auth.NewPasswordHasher(bcrypt.MinCost),
			Dispatcher: dispatcher,
			Clock:      clock.Now,
		}),
		votes: NewVoteService(VoteDependencies{
			EventRepo:   store.Events(),
			SectionRepo: store.Sections(),
			OptionRepo:  store.Options(),
			VoteRepo:    store.Votes(),
			Dispatcher:  dispatcher,
			Metrics:     metrics,
			Clock:       clock.Now,
		}),
		catalog: NewCatalogService(CatalogDependencies{
			EventRepo:   store.Events(),
			SectionRepo: store.Sections(),
			OptionRepo:  store.Options(),
		}),
	}

	_, err = f.auth.SeedRoles(ctx)
	require.NoError(t, err)

	f.voter, err = f.auth.Register(ctx, Principal{}, RegisterInput{
		Email:    "voter@example.com",
		Password: "secret-pass",
		RoleName: domain.RoleVoter,
	})
	require.NoError(t, err)

	f.event, err = f.catalog.CreateEvent(ctx, Principal{}, EventInput{
		Name:     "General election",
		StartsAt: epoch,
		EndsAt:   epoch.Add(time.Hour),
	})
	require.NoError(t, err)
	f.section, err = f.catalog.CreateSection(ctx, Principal{}, SectionInput{EventID: f.event.ID, Name: "Presidency"})
	require.NoError(t, err)
	f.option, err = f.catalog.CreateOption(ctx, Principal{}, OptionInput{SectionID: f.section.ID, Label: "Candidate A"})
	require.NoError(t, err)
	return f
}

func (f *fixture) castInput() CastVoteInput {
	return CastVoteInput{EventID: f.event.ID, SectionID: f.section.ID, OptionID: f.option.ID}
}
