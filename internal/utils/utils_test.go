package utils

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := SetUserContext(context.Background(), 42, "a@b.com", RoleAdmin)

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "a@b.com", GetUserEmailFromContext(ctx))
	assert.Equal(t, RoleAdmin, GetUserRoleFromContext(ctx))
	assert.True(t, IsAdmin(ctx))

	_, ok = GetUserIDFromContext(context.Background())
	assert.False(t, ok)
	assert.False(t, IsAdmin(context.Background()))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "wireless-headphones", Slugify("Wireless Headphones"))
	assert.Equal(t, "home-kitchen", Slugify("Home & Kitchen"))
	assert.Equal(t, "abc-123", Slugify("  abc --- 123!  "))
}

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{13,}-[0-9A-Z]{9}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, pattern, n)
		seen[n] = true
	}
	// collisions across 50 draws would mean the suffix is broken
	assert.Len(t, seen, 50)
}
