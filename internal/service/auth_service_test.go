package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/events"
)

const browser = "Mozilla/5.0 (Macintosh)"

func TestLogin(t *testing.T) {
	f := newFixture(t)

	user, session, err := f.auth.Login(f.ctx, "  Voter@Example.com ", "secret-pass", browser)
	require.NoError(t, err)
	assert.Equal(t, f.voter.ID, user.ID)
	assert.Equal(t, domain.RoleVoter, session.Role)
	assert.Equal(t, f.clock.Now().Add(f.auth.TokenTTL()), session.ExpiresAt)

	claims, err := f.tokens.Verify(session.Token, browser)
	require.NoError(t, err)
	assert.Equal(t, f.voter.ID, claims.UserID)

	_, err = f.tokens.Verify(session.Token, "curl/8.5.0")
	require.ErrorIs(t, err, domain.ErrFingerprintMismatch)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.auth.Login(f.ctx, "voter@example.com", "wrong", browser)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = f.auth.Login(f.ctx, "nobody@example.com", "secret-pass", browser)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	admin := Principal{UserID: "admin-1", Role: domain.RoleAdmin}

	_, err := f.auth.Register(f.ctx, admin, RegisterInput{Email: "VOTER@example.com", Password: "x", RoleName: domain.RoleVoter})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.auth.Register(f.ctx, admin, RegisterInput{Email: "new@example.com", Password: "x", RoleID: "missing"})
	require.ErrorIs(t, err, domain.ErrRoleNotFound)

	_, err = f.auth.Register(f.ctx, admin, RegisterInput{Email: "new@example.com", Password: "x"})
	require.ErrorIs(t, err, domain.ErrRoleNotFound)

	moderator, err := f.store.Roles().GetByName(f.ctx, domain.RoleModerator)
	require.NoError(t, err)
	user, err := f.auth.Register(f.ctx, admin, RegisterInput{Email: "mod@example.com", Password: "pw", RoleID: moderator.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, user.Role)
	assert.Equal(t, domain.StatusActive, user.Status)
	assert.Equal(t, "Peru", user.Country)
	assert.NotEqual(t, "pw", user.PasswordHash)

	registered := f.recorded.ofType(events.EventUserRegistered)
	require.NotEmpty(t, registered)
	last := registered[len(registered)-1]
	assert.Equal(t, user.ID, last.ResourceID)
	require.NotNil(t, last.Actor.UserID)
	assert.Equal(t, "admin-1", *last.Actor.UserID)
}

func TestSeedRolesIsIdempotent(t *testing.T) {
	f := newFixture(t)

	created, err := f.auth.SeedRoles(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, created)

	for _, name := range domain.DefaultRoles {
		_, err := f.store.Roles().GetByName(f.ctx, name)
		require.NoError(t, err, name)
	}
}

func TestSeedUsers(t *testing.T) {
	f := newFixture(t)

	created, err := f.auth.SeedUsers(f.ctx, Principal{})
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@votario.com", "mod@votario.com", "voter@votario.com"}, created)

	created, err = f.auth.SeedUsers(f.ctx, Principal{})
	require.NoError(t, err)
	assert.Empty(t, created)

	admin, err := f.store.Users().GetByEmail(f.ctx, "admin@votario.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)

	created, err := f.auth.EnsureAdmin(f.ctx, "root@example.com", "bootstrap")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.auth.EnsureAdmin(f.ctx, "root@example.com", "bootstrap")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUpdateUserStatus(t *testing.T) {
	f := newFixture(t)
	admin := Principal{UserID: "admin-1", Role: domain.RoleAdmin}

	_, err := f.auth.UpdateUserStatus(f.ctx, admin, f.voter.ID, domain.Status("banned"))
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.auth.UpdateUserStatus(f.ctx, admin, "missing", domain.StatusInactive)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	user, err := f.auth.UpdateUserStatus(f.ctx, admin, f.voter.ID, domain.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, user.Status)

	stored, err := f.store.Users().GetByID(f.ctx, f.voter.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive())

	changed := f.recorded.ofType(events.EventUserStatusChanged)
	require.Len(t, changed, 1)
	payload, ok := changed[0].Payload.(events.UserStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusActive, payload.OldStatus)
	assert.Equal(t, domain.StatusInactive, payload.NewStatus)
}
