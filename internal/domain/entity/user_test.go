package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_ViewOmitsPasswordHash(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	user := &User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		Username:     "ada",
		PasswordHash: "$2a$10$secret",
		Color:        "#ff0000",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	body, err := json.Marshal(user.View())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	assert.ElementsMatch(t,
		[]string{"username", "email", "createdAt", "updatedAt", "roles", "imageUrl", "color", "_id"},
		keys(got),
	)
	assert.Equal(t, user.ID.String(), got["_id"])
	assert.Equal(t, []any{}, got["roles"])
	assert.NotContains(t, string(body), user.PasswordHash)
}

func TestRoles(t *testing.T) {
	roles := RolesFromStrings([]string{"admin", "", "moderator"})

	assert.Equal(t, Roles{"admin", "moderator"}, roles)
	assert.True(t, roles.Contains("admin"))
	assert.False(t, roles.Contains("owner"))
	assert.Equal(t, []string{"admin", "moderator"}, roles.ToStrings())
	assert.Equal(t, []string{}, Roles(nil).ToStrings())
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
