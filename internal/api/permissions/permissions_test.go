package permissions

import (
	"testing"

	"reviewhub/internal/api/models"

	"github.com/stretchr/testify/assert"
)

func user(id, role string) *models.User {
	return &models.User{ID: id, Role: role}
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, IsAdmin(nil))
	assert.False(t, IsAdmin(user("u1", models.RoleUser)))
	assert.False(t, IsAdmin(user("u1", models.RoleModerator)))
	assert.True(t, IsAdmin(user("u1", models.RoleAdmin)))

	// superuser flag implies admin regardless of role
	super := user("u2", models.RoleUser)
	super.IsSuperuser = true
	assert.True(t, IsAdmin(super))
}

func TestIsModerator(t *testing.T) {
	assert.False(t, IsModerator(nil))
	assert.False(t, IsModerator(user("u1", models.RoleUser)))
	assert.False(t, IsModerator(user("u1", models.RoleAdmin)))
	assert.True(t, IsModerator(user("u1", models.RoleModerator)))
}

func TestIsAdminOrReadOnly(t *testing.T) {
	tests := []struct {
		name  string
		actor *models.User
		safe  bool
		want  bool
	}{
		{"anonymous read", nil, true, true},
		{"anonymous write", nil, false, false},
		{"user write", user("u1", models.RoleUser), false, false},
		{"moderator write", user("u1", models.RoleModerator), false, false},
		{"admin write", user("u1", models.RoleAdmin), false, true},
		{"admin read", user("u1", models.RoleAdmin), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAdminOrReadOnly(tt.actor, tt.safe))
		})
	}
}

func TestIsAuthorOrReadOnly(t *testing.T) {
	assert.True(t, IsAuthorOrReadOnly(nil, true))
	assert.False(t, IsAuthorOrReadOnly(nil, false))
	assert.True(t, IsAuthorOrReadOnly(user("u1", models.RoleUser), false))
}

func TestCanModify(t *testing.T) {
	tests := []struct {
		name     string
		actor    *models.User
		authorID string
		want     bool
	}{
		{"anonymous", nil, "u1", false},
		{"author", user("u1", models.RoleUser), "u1", true},
		{"other user", user("u2", models.RoleUser), "u1", false},
		{"moderator", user("u2", models.RoleModerator), "u1", true},
		{"admin", user("u2", models.RoleAdmin), "u1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.actor, tt.authorID))
		})
	}
}
