package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus values are free-form strings; only the creation default is
// guaranteed. Clients may set any status via update, no transitions are
// validated.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Booking represents a user's reservation intent against one experience
// (bookings table). A booking owns its reservations; deleting the booking
// deletes all of them.
type Booking struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	ExperienceID     int64     `json:"experience_id" db:"experience_id"`
	BundleID         *int64    `json:"bundle_id" db:"bundle_id"`
	NumberOfGuests   int       `json:"number_of_guests" db:"number_of_guests"`
	ConfirmationCode string    `json:"confirmation_code" db:"confirmation_code"`
	Status           string    `json:"status" db:"status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	// Populated by queries, not a column
	Reservations []Reservation `json:"reservations" db:"-"`
}

// Reservation is a single date+time occurrence belonging to a booking
// (reservations table). It has no lifecycle outside its booking.
type Reservation struct {
	ID        int64     `json:"id" db:"id"`
	BookingID int64     `json:"booking_id" db:"booking_id"`
	Date      time.Time `json:"-" db:"date"`
	TimeSlot  string    `json:"time_slot" db:"time_slot"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// MarshalJSON serializes date as an ISO calendar date and created_at as
// RFC 3339; time_slot is already stored normalized as HH:MM:SS.
func (r Reservation) MarshalJSON() ([]byte, error) {
	type alias Reservation
	return json.Marshal(struct {
		alias
		Date      string `json:"date"`
		CreatedAt string `json:"created_at"`
	}{
		alias:     alias(r),
		Date:      r.Date.Format(dateLayout),
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ReservationInput is a client-supplied reservation entry. Pointer fields
// distinguish a missing key from an empty value.
type ReservationInput struct {
	Date     *string `json:"date"`
	TimeSlot *string `json:"time_slot"`
	Status   *string `json:"status"`
}

// Validate checks that both date and time_slot are present and parseable.
// It returns the materialized reservation (without ids) on success.
func (in ReservationInput) Validate() (Reservation, error) {
	if in.Date == nil || in.TimeSlot == nil {
		return Reservation{}, errors.New("reservation requires date and time_slot")
	}

	date, err := ParseDate(*in.Date)
	if err != nil {
		return Reservation{}, fmt.Errorf("invalid reservation date %q", *in.Date)
	}

	slot, err := ParseTimeSlot(*in.TimeSlot)
	if err != nil {
		return Reservation{}, fmt.Errorf("invalid reservation time_slot %q", *in.TimeSlot)
	}

	status := BookingStatusPending
	if in.Status != nil && *in.Status != "" {
		status = *in.Status
	}

	return Reservation{Date: date, TimeSlot: slot, Status: status}, nil
}

// ValidateReservationInputs validates every entry before any of them is
// persisted, so a bad entry can never be partially written.
func ValidateReservationInputs(inputs []ReservationInput) ([]Reservation, error) {
	reservations := make([]Reservation, 0, len(inputs))
	for _, in := range inputs {
		res, err := in.Validate()
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}

// ParseDate parses an ISO-8601 calendar date. A full timestamp is accepted
// and truncated to its date component.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range []string{dateLayout, "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", value)
}

// ParseTimeSlot parses an ISO-8601 time of day and normalizes it to HH:MM:SS.
func ParseTimeSlot(value string) (string, error) {
	for _, layout := range []string{timeLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(timeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time of day: %q", value)
}

// CombineDateTime builds the UTC instant for a calendar date and an
// HH:MM:SS time of day. Malformed times resolve to midnight.
func CombineDateTime(date time.Time, timeOfDay string) time.Time {
	t, err := time.Parse(timeLayout, timeOfDay)
	if err != nil {
		if t, err = time.Parse("15:04", timeOfDay); err != nil {
			t = time.Time{}
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// NewConfirmationCode generates a short shareable booking code: the first
// eight characters of a UUID, uppercased. Collisions are accepted as
// negligible, there is no uniqueness retry.
func NewConfirmationCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// CreateBookingRequest is the request body for POST /bookings
type CreateBookingRequest struct {
	ExperienceID   *int64             `json:"experience_id"`
	NumberOfGuests *int               `json:"number_of_guests"`
	BundleID       *int64             `json:"bundle_id"`
	Reservations   []ReservationInput `json:"reservations"`
}

// UpdateBookingRequest is the request body for PUT /bookings/:id. A nil
// Reservations means the key was absent and the existing set is untouched;
// a present key always replaces the whole set.
type UpdateBookingRequest struct {
	NumberOfGuests *int                `json:"number_of_guests"`
	Reservations   *[]ReservationInput `json:"reservations"`
}

// BookingListResponse buckets a user's bookings by whether any reservation
// has not yet ended.
type BookingListResponse struct {
	PastBookings    []Booking `json:"past_bookings"`
	CurrentBookings []Booking `json:"current_bookings"`
}
