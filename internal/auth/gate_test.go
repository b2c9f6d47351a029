package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/repository/memory"
)

type gateFixture struct {
	clock  *testClock
	tokens *TokenManager
	store  *memory.Store
	voter  *domain.User
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	ctx := context.Background()
	clock := &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore()

	role := &domain.Role{Name: domain.RoleVoter}
	require.NoError(t, store.Roles().Create(ctx, role))
	voter := &domain.User{Email: "voter@example.com", RoleID: role.ID, Status: domain.StatusActive}
	require.NoError(t, store.Users().Create(ctx, voter))

	return &gateFixture{clock: clock, tokens: newTestTokens(t, clock), store: store, voter: voter}
}

func (f *gateFixture) bearer(t *testing.T, userID string, role domain.RoleName) string {
	t.Helper()
	session, err := f.tokens.Issue(userID, role, testFingerprint)
	require.NoError(t, err)
	return "Bearer " + session.Token
}

func (f *gateFixture) chain(roles ...domain.RoleName) Pipeline {
	return NewPipeline(
		APIKeyGate("votes-key"),
		SessionGate(f.tokens),
		AccountGate(f.store.Users()),
		RoleGate(roles...),
	)
}

func TestPipeline_Passes(t *testing.T) {
	f := newGateFixture(t)
	req := Request{
		APIKey:        "votes-key",
		Authorization: f.bearer(t, f.voter.ID, domain.RoleVoter),
		Fingerprint:   testFingerprint,
	}

	out, err := f.chain(domain.RoleVoter).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, f.voter.ID, out.SubjectID())
	require.NotNil(t, out.Subject)
	assert.Equal(t, f.voter.Email, out.Subject.Email)

	assert.Nil(t, req.Claims, "input request must not be mutated")
	assert.Empty(t, req.SubjectID())
}

func TestPipeline_Rejections(t *testing.T) {
	f := newGateFixture(t)
	valid := f.bearer(t, f.voter.ID, domain.RoleVoter)

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"missing api key", Request{Authorization: valid, Fingerprint: testFingerprint}, domain.ErrInvalidAPIKey},
		{"wrong api key", Request{APIKey: "admin-key", Authorization: valid, Fingerprint: testFingerprint}, domain.ErrInvalidAPIKey},
		{"missing bearer", Request{APIKey: "votes-key", Fingerprint: testFingerprint}, domain.ErrMissingCredential},
		{"basic scheme", Request{APIKey: "votes-key", Authorization: "Basic abc", Fingerprint: testFingerprint}, domain.ErrMissingCredential},
		{"empty bearer", Request{APIKey: "votes-key", Authorization: "Bearer ", Fingerprint: testFingerprint}, domain.ErrMissingCredential},
		{"garbage token", Request{APIKey: "votes-key", Authorization: "Bearer abc.def.ghi", Fingerprint: testFingerprint}, domain.ErrInvalidToken},
		{"other client", Request{APIKey: "votes-key", Authorization: valid, Fingerprint: "curl/8.5.0"}, domain.ErrFingerprintMismatch},
		{"unknown subject", Request{APIKey: "votes-key", Authorization: f.bearer(t, "ghost", domain.RoleVoter), Fingerprint: testFingerprint}, domain.ErrSubjectNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.chain(domain.RoleVoter).Run(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPipeline_InactiveSubject(t *testing.T) {
	f := newGateFixture(t)
	require.NoError(t, f.store.Users().UpdateStatus(context.Background(), f.voter.ID, domain.StatusInactive))

	req := Request{APIKey: "votes-key", Authorization: f.bearer(t, f.voter.ID, domain.RoleVoter), Fingerprint: testFingerprint}
	_, err := f.chain(domain.RoleVoter).Run(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrSubjectInactive)
}

func TestPipeline_RoleFromTokenNotStorage(t *testing.T) {
	f := newGateFixture(t)

	// Stored role is voter; the claim says admin and is what the role gate judges.
	req := Request{APIKey: "votes-key", Authorization: f.bearer(t, f.voter.ID, domain.RoleAdmin), Fingerprint: testFingerprint}
	_, err := f.chain(domain.RoleVoter).Run(context.Background(), req)

	var rejected *domain.RoleNotPermittedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, domain.RoleAdmin, rejected.Role)
	assert.ErrorIs(t, err, domain.ErrRoleNotPermitted)
}

func TestPipeline_StopsAtFirstRejection(t *testing.T) {
	calls := 0
	counter := GateFunc(func(_ context.Context, req Request) (Request, error) {
		calls++
		return req, nil
	})
	reject := GateFunc(func(_ context.Context, req Request) (Request, error) {
		return req, errors.New("nope")
	})

	p := NewPipeline(counter, reject).Then(counter)
	assert.Equal(t, 3, p.Len())

	_, err := p.Run(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPipeline_ThenDoesNotAlias(t *testing.T) {
	base := NewPipeline(APIKeyGate("a"))
	first := base.Then(RoleGate(domain.RoleAdmin))
	second := base.Then(RoleGate(domain.RoleVoter))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, first.Len())
	assert.Equal(t, 2, second.Len())
}

func TestGatesRequireClaims(t *testing.T) {
	f := newGateFixture(t)

	_, err := AccountGate(f.store.Users()).Check(context.Background(), Request{})
	require.ErrorIs(t, err, domain.ErrMissingCredential)

	_, err = RoleGate(domain.RoleAdmin).Check(context.Background(), Request{})
	require.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestPipelineHandler(t *testing.T) {
	f := newGateFixture(t)

	app := fiber.New()
	app.Get("/echo", f.chain(domain.RoleVoter).Handler(), func(c *fiber.Ctx) error {
		req, ok := RequestFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(req.SubjectID() + "|" + req.Route + "|" + FingerprintFromContext(c))
	})

	httpReq := httptest.NewRequest(http.MethodGet, "/echo", nil)
	httpReq.Header.Set("x-api-key", "votes-key")
	httpReq.Header.Set("Authorization", f.bearer(t, f.voter.ID, domain.RoleVoter))
	httpReq.Header.Set("User-Agent", testFingerprint)

	resp, err := app.Test(httpReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, f.voter.ID+"|/echo|"+testFingerprint, string(body))
}

func TestNewRequest_DefaultsFingerprint(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(NewRequest(c).Fingerprint)
	})

	httpReq := httptest.NewRequest(http.MethodGet, "/", nil)
	// An empty value suppresses net/http's default user agent.
	httpReq.Header.Set("User-Agent", "")
	resp, err := app.Test(httpReq)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, unknownFingerprint, string(body))
}
