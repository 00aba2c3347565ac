package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bazar/internal/models"
)

func TestValidatePhoneNumber(t *testing.T) {
	// Valid: exactly 9 digits
	assert.NoError(t, models.ValidatePhoneNumber("123456789"))
	assert.NoError(t, models.ValidatePhoneNumber("000000000"))

	// Wrong length fails with the length error, even when the content
	// is otherwise digits
	for _, value := range []string{"", "12345678", "1234567890", "12a"} {
		err := models.ValidatePhoneNumber(value)
		assert.ErrorIs(t, err, models.ErrPhoneLength, "value %q", value)
	}

	// Length 9 with a non-digit fails with the character error; the
	// length check runs first so this only fires for 9-char inputs
	for _, value := range []string{"12345678a", "a23456789", "1234 6789", "12345678-", "1234567.9"} {
		err := models.ValidatePhoneNumber(value)
		assert.ErrorIs(t, err, models.ErrPhoneDigits, "value %q", value)
	}
}

func TestParseProvince(t *testing.T) {
	for _, p := range models.Provinces {
		parsed, ok := models.ParseProvince(string(p))
		assert.True(t, ok)
		assert.Equal(t, p, parsed)
	}
	assert.Len(t, models.Provinces, 13)

	for _, value := range []string{"", "Mazowieckie", "lublin", "LUBLIN", "Lublin "} {
		_, ok := models.ParseProvince(value)
		assert.False(t, ok, "value %q", value)
	}
}

func TestProductOwnedBy(t *testing.T) {
	product := models.Product{ID: 1, AuthorID: 42}

	assert.True(t, product.OwnedBy(42))
	assert.False(t, product.OwnedBy(1))
	assert.False(t, product.OwnedBy(0))
}
