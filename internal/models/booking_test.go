package models

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestReservationInputValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		in := ReservationInput{Date: strPtr("2026-09-15"), TimeSlot: strPtr("14:30")}

		res, err := in.Validate()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), res.Date)
		assert.Equal(t, "14:30:00", res.TimeSlot)
		assert.Equal(t, BookingStatusPending, res.Status)
	})

	t.Run("Explicit Status Preserved", func(t *testing.T) {
		in := ReservationInput{
			Date:     strPtr("2026-09-15"),
			TimeSlot: strPtr("14:30:00"),
			Status:   strPtr("whatever-the-client-sent"),
		}

		res, err := in.Validate()
		require.NoError(t, err)
		assert.Equal(t, "whatever-the-client-sent", res.Status)
	})

	t.Run("Missing Date", func(t *testing.T) {
		in := ReservationInput{TimeSlot: strPtr("14:30")}

		_, err := in.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "date and time_slot")
	})

	t.Run("Missing TimeSlot", func(t *testing.T) {
		in := ReservationInput{Date: strPtr("2026-09-15")}

		_, err := in.Validate()
		assert.Error(t, err)
	})

	t.Run("Malformed Date", func(t *testing.T) {
		in := ReservationInput{Date: strPtr("tomorrow"), TimeSlot: strPtr("14:30")}

		_, err := in.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid reservation date")
	})

	t.Run("Malformed TimeSlot", func(t *testing.T) {
		in := ReservationInput{Date: strPtr("2026-09-15"), TimeSlot: strPtr("late afternoon")}

		_, err := in.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid reservation time_slot")
	})
}

func TestValidateReservationInputs(t *testing.T) {
	t.Run("All Valid", func(t *testing.T) {
		inputs := []ReservationInput{
			{Date: strPtr("2026-09-15"), TimeSlot: strPtr("10:00")},
			{Date: strPtr("2026-09-16"), TimeSlot: strPtr("11:00:00")},
		}

		reservations, err := ValidateReservationInputs(inputs)
		require.NoError(t, err)
		assert.Len(t, reservations, 2)
	})

	t.Run("One Bad Entry Rejects All", func(t *testing.T) {
		inputs := []ReservationInput{
			{Date: strPtr("2026-09-15"), TimeSlot: strPtr("10:00")},
			{Date: strPtr("2026-09-16")},
		}

		reservations, err := ValidateReservationInputs(inputs)
		assert.Error(t, err)
		assert.Nil(t, reservations)
	})

	t.Run("Empty Input", func(t *testing.T) {
		reservations, err := ValidateReservationInputs(nil)
		require.NoError(t, err)
		assert.Empty(t, reservations)
	})
}

func TestParseDate(t *testing.T) {
	t.Run("Calendar Date", func(t *testing.T) {
		d, err := ParseDate("2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("Timestamp Truncated To Date", func(t *testing.T) {
		d, err := ParseDate("2026-03-01T18:45:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseDate("01/03/2026")
		assert.Error(t, err)
	})
}

func TestParseTimeSlot(t *testing.T) {
	slot, err := ParseTimeSlot("09:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05:00", slot)

	slot, err = ParseTimeSlot("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59:59", slot)

	_, err = ParseTimeSlot("9am")
	assert.Error(t, err)
}

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t,
		time.Date(2026, 5, 20, 16, 30, 0, 0, time.UTC),
		CombineDateTime(date, "16:30:00"))

	// Malformed times resolve to midnight
	assert.Equal(t,
		time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		CombineDateTime(date, "not a time"))
}

func TestNewConfirmationCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewConfirmationCode()
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 90, "codes should be effectively unique")
}

func TestReservationMarshalJSON(t *testing.T) {
	res := Reservation{
		ID:        7,
		BookingID: 3,
		Date:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:  "14:30:00",
		Status:    "pending",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "2026-09-15", out["date"])
	assert.Equal(t, "14:30:00", out["time_slot"])
	assert.Equal(t, "2026-08-01T12:00:00Z", out["created_at"])
}
