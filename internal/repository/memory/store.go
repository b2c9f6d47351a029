// Package memory provides mutex-guarded in-memory repositories mirroring the
// Postgres implementations, including the vote uniqueness constraint.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/repository"
)

type voteKey struct {
	userID    string
	sectionID string
}

// Store holds every entity the service persists.
type Store struct {
	mu sync.RWMutex

	roles    map[string]domain.Role
	users    map[string]domain.User
	events   map[string]domain.Event
	sections map[string]domain.Section
	options  map[string]domain.Option
	votes    map[voteKey]domain.Vote

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		roles:    make(map[string]domain.Role),
		users:    make(map[string]domain.User),
		events:   make(map[string]domain.Event),
		sections: make(map[string]domain.Section),
		options:  make(map[string]domain.Option),
		votes:    make(map[voteKey]domain.Vote),
		now:      time.Now,
	}
}

// Users returns the store as a UserRepository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Roles returns the store as a RoleRepository.
func (s *Store) Roles() repository.RoleRepository { return roleRepo{s} }

// Events returns the store as an EventRepository.
func (s *Store) Events() repository.EventRepository { return eventRepo{s} }

// Sections returns the store as a SectionRepository.
func (s *Store) Sections() repository.SectionRepository { return sectionRepo{s} }

// Options returns the store as an OptionRepository.
func (s *Store) Options() repository.OptionRepository { return optionRepo{s} }

// Votes returns the store as a VoteRepository.
func (s *Store) Votes() repository.VoteRepository { return voteRepo{s} }

// VoteCount returns the number of committed votes for a section.
func (s *Store) VoteCount(sectionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for key := range s.votes {
		if key.sectionID == sectionID {
			count++
		}
	}
	return count
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	role, ok := r.s.roles[user.RoleID]
	if !ok {
		return domain.ErrRoleNotFound
	}
	user.ID = uuid.NewString()
	user.Role = role.Name
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Status = status
	user.UpdatedAt = r.s.now()
	r.s.users[id] = user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type roleRepo struct{ s *Store }

func (r roleRepo) Create(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role.ID = uuid.NewString()
	role.CreatedAt = r.s.now()
	r.s.roles[role.ID] = *role
	return nil
}

func (r roleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}

func (r roleRepo) GetByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.roles {
		if role.Name == name {
			return &role, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event.ID = uuid.NewString()
	event.CreatedAt = r.s.now()
	event.UpdatedAt = event.CreatedAt
	r.s.events[event.ID] = *event
	return nil
}

func (r eventRepo) Update(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.events[event.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name = event.Name
	existing.Description = event.Description
	existing.StartsAt = event.StartsAt
	existing.EndsAt = event.EndsAt
	existing.UpdatedAt = r.s.now()
	r.s.events[event.ID] = existing
	return nil
}

func (r eventRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event, ok := r.s.events[id]
	if !ok {
		return pgx.ErrNoRows
	}
	event.Status = status
	event.UpdatedAt = r.s.now()
	r.s.events[id] = event
	return nil
}

func (r eventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	event, ok := r.s.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &event, nil
}

func (r eventRepo) List(_ context.Context, filter repository.ListFilter) ([]domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Event
	for _, event := range r.s.events {
		if event.Status != domain.StatusDeleted {
			result = append(result, event)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartsAt.After(result[j].StartsAt) })
	return page(result, filter), nil
}

type sectionRepo struct{ s *Store }

func (r sectionRepo) Create(_ context.Context, section *domain.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	section.ID = uuid.NewString()
	section.CreatedAt = r.s.now()
	section.UpdatedAt = section.CreatedAt
	r.s.sections[section.ID] = *section
	return nil
}

func (r sectionRepo) Update(_ context.Context, section *domain.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.sections[section.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name = section.Name
	existing.Description = section.Description
	existing.UpdatedAt = r.s.now()
	r.s.sections[section.ID] = existing
	return nil
}

func (r sectionRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	section, ok := r.s.sections[id]
	if !ok {
		return pgx.ErrNoRows
	}
	section.Status = status
	section.UpdatedAt = r.s.now()
	r.s.sections[id] = section
	return nil
}

func (r sectionRepo) GetByID(_ context.Context, id string) (*domain.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	section, ok := r.s.sections[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &section, nil
}

func (r sectionRepo) List(_ context.Context, filter repository.ListFilter) ([]domain.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Section
	for _, section := range r.s.sections {
		if !r.s.sectionVisible(section) {
			continue
		}
		if filter.ParentID != nil && section.EventID != *filter.ParentID {
			continue
		}
		result = append(result, section)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return page(result, filter), nil
}

type optionRepo struct{ s *Store }

func (r optionRepo) Create(_ context.Context, option *domain.Option) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	option.ID = uuid.NewString()
	option.CreatedAt = r.s.now()
	option.UpdatedAt = option.CreatedAt
	r.s.options[option.ID] = *option
	return nil
}

func (r optionRepo) Update(_ context.Context, option *domain.Option) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.options[option.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Label = option.Label
	existing.Description = option.Description
	existing.ImageURL = option.ImageURL
	existing.UpdatedAt = r.s.now()
	r.s.options[option.ID] = existing
	return nil
}

func (r optionRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	option, ok := r.s.options[id]
	if !ok {
		return pgx.ErrNoRows
	}
	option.Status = status
	option.UpdatedAt = r.s.now()
	r.s.options[id] = option
	return nil
}

func (r optionRepo) GetByID(_ context.Context, id string) (*domain.Option, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	option, ok := r.s.options[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &option, nil
}

func (r optionRepo) List(_ context.Context, filter repository.ListFilter) ([]domain.Option, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Option
	for _, option := range r.s.options {
		if option.Status == domain.StatusDeleted {
			continue
		}
		if section, ok := r.s.sections[option.SectionID]; !ok || !r.s.sectionVisible(section) {
			continue
		}
		if filter.ParentID != nil && option.SectionID != *filter.ParentID {
			continue
		}
		result = append(result, option)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return page(result, filter), nil
}

// sectionVisible reports whether a section and its event are both live, the
// same join the Postgres listings apply. Callers hold s.mu.
func (s *Store) sectionVisible(section domain.Section) bool {
	if section.Status == domain.StatusDeleted {
		return false
	}
	event, ok := s.events[section.EventID]
	return ok && event.Status != domain.StatusDeleted
}

type voteRepo struct{ s *Store }

// Create checks and inserts under one lock, standing in for the unique constraint.
func (r voteRepo) Create(ctx context.Context, vote *domain.Vote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := voteKey{userID: vote.UserID, sectionID: vote.SectionID}
	if _, exists := r.s.votes[key]; exists {
		return domain.ErrDuplicateVote
	}
	vote.ID = uuid.NewString()
	r.s.votes[key] = *vote
	return nil
}

func (r voteRepo) HasVoted(_ context.Context, userID, sectionID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, exists := r.s.votes[voteKey{userID: userID, sectionID: sectionID}]
	return exists, nil
}

func page[T any](items []T, filter repository.ListFilter) []T {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
