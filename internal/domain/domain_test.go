package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventIsOpenAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	event := &Event{StartsAt: start, EndsAt: start.Add(time.Hour)}

	assert.False(t, event.IsOpenAt(start.Add(-time.Second)))
	assert.True(t, event.IsOpenAt(start))
	assert.True(t, event.IsOpenAt(start.Add(30*time.Minute)))
	assert.True(t, event.IsOpenAt(start.Add(time.Hour)))
	assert.False(t, event.IsOpenAt(start.Add(time.Hour+time.Nanosecond)))
}

func TestRoleNotPermittedError(t *testing.T) {
	var err error = &RoleNotPermittedError{Role: RoleVoter}

	assert.True(t, errors.Is(err, ErrRoleNotPermitted))
	assert.False(t, errors.Is(err, ErrSubjectInactive))
	assert.Contains(t, err.Error(), "voter")

	var rejected *RoleNotPermittedError
	assert.True(t, errors.As(err, &rejected))
	assert.Equal(t, RoleVoter, rejected.Role)
}

func TestThrottleKeyString(t *testing.T) {
	assert.Equal(t, "throttle:10.0.0.1:/auth/login", ThrottleKey{Address: "10.0.0.1", Route: "/auth/login"}.String())
	assert.Equal(t, "throttle:10.0.0.1:/votes:u-1", ThrottleKey{Address: "10.0.0.1", Route: "/votes", SubjectID: "u-1"}.String())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDeleted.Valid())
	assert.False(t, Status("archived").Valid())
}

func TestUserIsActive(t *testing.T) {
	assert.True(t, (&User{Status: StatusActive}).IsActive())
	assert.False(t, (&User{Status: StatusInactive}).IsActive())
	var nilUser *User
	assert.False(t, nilUser.IsActive())
}
