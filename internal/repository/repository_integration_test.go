//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/persistence"
	"github.com/spec-kit/vote-service/internal/repository"
)

func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("votes"),
		tcpostgres.WithUsername("votes"),
		tcpostgres.WithPassword("votes"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zaptest.NewLogger(t)))
	return pool
}

type ballot struct {
	user    *domain.User
	section *domain.Section
	option  *domain.Option
}

func seedBallot(t *testing.T, pool *pgxpool.Pool) ballot {
	t.Helper()
	ctx := context.Background()

	role := &domain.Role{Name: domain.RoleVoter}
	require.NoError(t, repository.NewRoleRepository(pool).Create(ctx, role))
	user := &domain.User{
		Email: "voter@example.com", PasswordHash: "x", RoleID: role.ID,
		Status: domain.StatusActive, Country: "Peru",
	}
	require.NoError(t, repository.NewUserRepository(pool).Create(ctx, user))

	start := time.Now().UTC().Truncate(time.Second)
	event := &domain.Event{
		Name: "General election", StartsAt: start, EndsAt: start.Add(time.Hour),
		Country: "Peru", IsPublic: true, RequireAuthentication: true, Status: domain.StatusActive,
	}
	require.NoError(t, repository.NewEventRepository(pool).Create(ctx, event))
	section := &domain.Section{EventID: event.ID, Name: "Presidency", Status: domain.StatusActive}
	require.NoError(t, repository.NewSectionRepository(pool).Create(ctx, section))
	option := &domain.Option{SectionID: section.ID, Label: "Candidate A", Status: domain.StatusActive}
	require.NoError(t, repository.NewOptionRepository(pool).Create(ctx, option))

	return ballot{user: user, section: section, option: option}
}

func TestVoteRepository_ConcurrentDuplicates(t *testing.T) {
	pool := newPool(t)
	b := seedBallot(t, pool)
	votes := repository.NewVoteRepository(pool)

	const attempts = 16
	var accepted, duplicates atomic.Int32
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			err := votes.Create(context.Background(), &domain.Vote{
				UserID: b.user.ID, SectionID: b.section.ID, OptionID: b.option.ID, CastAt: time.Now().UTC(),
			})
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, domain.ErrDuplicateVote):
				duplicates.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(attempts-1), duplicates.Load())

	var rows int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM vt_votes WHERE user_id=$1 AND section_id=$2`, b.user.ID, b.section.ID).Scan(&rows))
	assert.Equal(t, 1, rows)

	voted, err := votes.HasVoted(context.Background(), b.user.ID, b.section.ID)
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestLookupsTreatMalformedIDsAsMissing(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()

	_, err := repository.NewEventRepository(pool).GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = repository.NewUserRepository(pool).GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestRequestLogRepository_Window(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	logs := repository.NewRequestLogRepository(pool)

	now := time.Now().UTC().Truncate(time.Millisecond)
	anonymous := domain.ThrottleKey{Address: "10.0.0.1", Route: "/auth/login"}
	subject := domain.ThrottleKey{Address: "10.0.0.1", Route: "/votes", SubjectID: "u-1"}

	require.NoError(t, logs.Record(ctx, anonymous, now.Add(-2*time.Minute)))
	require.NoError(t, logs.Record(ctx, anonymous, now.Add(-30*time.Second)))
	require.NoError(t, logs.Record(ctx, anonymous, now))
	require.NoError(t, logs.Record(ctx, subject, now))

	count, err := logs.Count(ctx, anonymous, now.Add(-time.Minute), now)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = logs.Count(ctx, subject, now.Add(-time.Minute), now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	other := subject
	other.SubjectID = "u-2"
	count, err = logs.Count(ctx, other, now.Add(-time.Minute), now)
	require.NoError(t, err)
	assert.Zero(t, count)
}
