package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/vote-service/internal/auth"
	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/events"
	"github.com/spec-kit/vote-service/internal/repository"
)

const defaultCountry = "Peru"

// AuthService coordinates login, registration, seeding and subject status.
type AuthService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	tokens *auth.TokenManager
	hasher auth.PasswordHasher
	logger *zap.Logger
	events publisher
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	RoleRepo   repository.RoleRepository
	Tokens     *auth.TokenManager
	Hasher     auth.PasswordHasher
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// RegisterInput describes a new subject. Exactly one of RoleID or RoleName
// identifies the role; RoleID wins when both are set.
type RegisterInput struct {
	Email     string
	Password  string
	RoleID    string
	RoleName  domain.RoleName
	FirstName *string
	LastName  *string
	Country   string
	Region    *string
	Province  *string
	District  *string
}

type sampleUser struct {
	email    string
	password string
	role     domain.RoleName
}

var sampleUsers = []sampleUser{
	{email: "admin@votario.com", password: "admin123", role: domain.RoleAdmin},
	{email: "mod@votario.com", password: "mod123", role: domain.RoleModerator},
	{email: "voter@votario.com", password: "voter123", role: domain.RoleVoter},
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := loggerOrNop(deps.Logger)
	return &AuthService{
		users:  deps.UserRepo,
		roles:  deps.RoleRepo,
		tokens: deps.Tokens,
		hasher: deps.Hasher,
		logger: logger,
		events: publisher{dispatcher: deps.Dispatcher, logger: logger, now: clockOrNow(deps.Clock)},
	}
}

// Login checks credentials and issues a session bound to fingerprint.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password, fingerprint string) (*domain.User, *domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, nil, err
	}

	session, err := s.tokens.Issue(user.ID, user.Role, fingerprint)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("session issued", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, session, nil
}

// Register creates an active subject.
func (s *AuthService) Register(ctx context.Context, actor Principal, input RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	role, err := s.resolveRole(ctx, input.RoleID, input.RoleName)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = defaultCountry
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		Role:         role.Name,
		Status:       domain.StatusActive,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Country:      country,
		Region:       input.Region,
		Province:     input.Province,
		District:     input.District,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:       events.EventUserRegistered,
		ResourceID: user.ID,
		Actor:      actor.actor(),
		Payload:    events.UserRegisteredPayload{Email: user.Email, Role: role.Name},
	})
	return user, nil
}

// SeedRoles creates any missing default role and returns the names created.
func (s *AuthService) SeedRoles(ctx context.Context) ([]domain.RoleName, error) {
	var created []domain.RoleName
	for _, name := range domain.DefaultRoles {
		_, err := s.roles.GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return created, err
		}
		if err := s.roles.Create(ctx, &domain.Role{Name: name}); err != nil {
			return created, err
		}
		created = append(created, name)
	}
	if len(created) > 0 {
		s.logger.Info("roles seeded", zap.Int("count", len(created)))
	}
	return created, nil
}

// SeedUsers creates the sample subjects that do not exist yet and returns
// their emails. Roles must be seeded first.
func (s *AuthService) SeedUsers(ctx context.Context, actor Principal) ([]string, error) {
	var created []string
	for _, sample := range sampleUsers {
		_, err := s.Register(ctx, actor, RegisterInput{
			Email:    sample.email,
			Password: sample.password,
			RoleName: sample.role,
		})
		switch {
		case err == nil:
			created = append(created, sample.email)
		case errors.Is(err, domain.ErrEmailTaken):
		default:
			return created, err
		}
	}
	return created, nil
}

// EnsureAdmin creates an administrator with the given credentials unless the
// email is already registered. It reports whether a subject was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.Register(ctx, Principal{}, RegisterInput{Email: email, Password: password, RoleName: domain.RoleAdmin})
	if errors.Is(err, domain.ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.Info("bootstrap administrator created", zap.String("email", normalizeEmail(email)))
	return true, nil
}

// UpdateUserStatus changes a subject's status. The change takes effect on the
// subject's next request because the account gate re-reads it.
func (s *AuthService) UpdateUserStatus(ctx context.Context, actor Principal, userID string, status domain.Status) (*domain.User, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	previous := user.Status
	if err := s.users.UpdateStatus(ctx, user.ID, status); err != nil {
		return nil, err
	}
	user.Status = status

	s.events.publish(ctx, events.Event{
		Type:       events.EventUserStatusChanged,
		ResourceID: user.ID,
		Actor:      actor.actor(),
		Payload:    events.UserStatusChangedPayload{OldStatus: previous, NewStatus: status},
	})
	return user, nil
}

// TokenTTL exposes the session lifetime for login responses.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) resolveRole(ctx context.Context, id string, name domain.RoleName) (*domain.Role, error) {
	var (
		role *domain.Role
		err  error
	)
	switch {
	case id != "":
		role, err = s.roles.GetByID(ctx, id)
	case name != "":
		role, err = s.roles.GetByName(ctx, name)
	default:
		return nil, domain.ErrRoleNotFound
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRoleNotFound
	}
	return role, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
