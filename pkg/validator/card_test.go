package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNumber(t *testing.T) {
	v := NewCardValidator()

	t.Run("Valid Visa", func(t *testing.T) {
		number, err := v.ValidateNumber("4242424242424242")
		require.NoError(t, err)
		assert.Equal(t, "4242424242424242", number)
	})

	t.Run("Separators Stripped", func(t *testing.T) {
		number, err := v.ValidateNumber("4242-4242-4242-4242")
		require.NoError(t, err)
		assert.Equal(t, "4242424242424242", number)

		number, err = v.ValidateNumber("4111 1111 1111 1111")
		require.NoError(t, err)
		assert.Equal(t, "4111111111111111", number)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := v.ValidateNumber("")
		assert.ErrorIs(t, err, ErrEmptyCardNumber)
	})

	t.Run("Non Digits", func(t *testing.T) {
		_, err := v.ValidateNumber("4242abcd42424242")
		assert.ErrorIs(t, err, ErrInvalidCardFormat)
	})

	t.Run("Too Short", func(t *testing.T) {
		_, err := v.ValidateNumber("42424242")
		assert.ErrorIs(t, err, ErrInvalidCardLength)
	})

	t.Run("Bad Checksum", func(t *testing.T) {
		_, err := v.ValidateNumber("4242424242424241")
		assert.ErrorIs(t, err, ErrInvalidCardChecksum)
	})
}

func TestValidateExpiry(t *testing.T) {
	v := NewCardValidator()
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Future Month", func(t *testing.T) {
		assert.NoError(t, v.ValidateExpiry(12, 2026, now))
	})

	t.Run("Current Month Still Valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateExpiry(8, 2026, now))
	})

	t.Run("Past Month", func(t *testing.T) {
		assert.ErrorIs(t, v.ValidateExpiry(7, 2026, now), ErrCardExpired)
	})

	t.Run("Out Of Range", func(t *testing.T) {
		assert.ErrorIs(t, v.ValidateExpiry(13, 2026, now), ErrInvalidExpiry)
		assert.ErrorIs(t, v.ValidateExpiry(0, 2026, now), ErrInvalidExpiry)
		assert.ErrorIs(t, v.ValidateExpiry(6, 26, now), ErrInvalidExpiry)
	})
}

func TestValidateCVV(t *testing.T) {
	v := NewCardValidator()

	assert.NoError(t, v.ValidateCVV("123"))
	assert.NoError(t, v.ValidateCVV("1234"))
	assert.ErrorIs(t, v.ValidateCVV("12"), ErrInvalidCVV)
	assert.ErrorIs(t, v.ValidateCVV("12345"), ErrInvalidCVV)
	assert.ErrorIs(t, v.ValidateCVV("12a"), ErrInvalidCVV)
}

func TestMask(t *testing.T) {
	v := NewCardValidator()

	assert.Equal(t, "************4242", v.Mask("4242424242424242"))
	assert.Equal(t, "************1111", v.Mask("4111-1111-1111-1111"))
}

func TestIsValid(t *testing.T) {
	v := NewCardValidator()

	assert.True(t, v.IsValid("4242424242424242"))
	assert.False(t, v.IsValid("4242424242424241"))
}
