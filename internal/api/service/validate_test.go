package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		ok       bool
	}{
		{"simple", "alice", true},
		{"full charset", "a.b@c+d-e_1", true},
		{"empty", "", false},
		{"space", "a b", false},
		{"slash", "a/b", false},
		{"unicode", "алиса", false},
		{"reserved me", "me", false},
		{"reserved me uppercase", "ME", false},
		{"reserved me mixed", "Me", false},
		{"me as substring is fine", "megan", true},
		{"too long", strings.Repeat("a", 151), false},
		{"max length", strings.Repeat("a", 150), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUsername(tt.username)
			if tt.ok {
				assert.Nil(t, errs)
			} else {
				require.NotNil(t, errs)
				assert.Contains(t, errs, "username")
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.Nil(t, ValidateEmail("user@example.com"))

	errs := ValidateEmail("not-an-email")
	require.NotNil(t, errs)
	assert.Contains(t, errs, "email")

	long := strings.Repeat("a", 250) + "@x.io"
	errs = ValidateEmail(long)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "email")
}

func TestValidateScoreBounds(t *testing.T) {
	assert.Nil(t, ValidateScore(1))
	assert.Nil(t, ValidateScore(10))

	errs := ValidateScore(0)
	require.NotNil(t, errs)
	// the message names the violated bound
	assert.Contains(t, errs["score"][0], "at least 1")

	errs = ValidateScore(11)
	require.NotNil(t, errs)
	assert.Contains(t, errs["score"][0], "at most 10")
}

func TestValidateYear(t *testing.T) {
	current := time.Now().Year()

	assert.Nil(t, ValidateYear(current))
	assert.Nil(t, ValidateYear(1925))

	errs := ValidateYear(current + 1)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "year")
}

func TestFieldErrorsMessage(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("score", "must be at least 1")
	errs.Add("year", "must not be after the current year (2026)")

	msg := errs.Error()
	assert.Contains(t, msg, "score: must be at least 1")
	assert.Contains(t, msg, "year:")
	// deterministic field order
	assert.Equal(t, "score: must be at least 1, year: must not be after the current year (2026)", msg)
}
