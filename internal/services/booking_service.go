package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roamly/experiences-backend/internal/database"
	"github.com/roamly/experiences-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingService implements booking and reservation operations on top of
// the repositories. All ownership checks happen here so handlers only map
// errors to status codes.
type BookingService struct {
	bookings    *database.BookingRepository
	experiences *database.ExperienceRepository
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(bookings *database.BookingRepository, experiences *database.ExperienceRepository, logger *logrus.Logger) *BookingService {
	return &BookingService{
		bookings:    bookings,
		experiences: experiences,
		logger:      logger,
	}
}

// ListForUser returns the user's bookings split into past and current. A
// booking is current when at least one of its reservations ends at or
// after now; a booking with no reservations is past.
func (s *BookingService) ListForUser(userID int64) (*models.BookingListResponse, error) {
	bookings, err := s.bookings.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	experienceIDs := make([]int64, 0, len(bookings))
	seen := map[int64]bool{}
	for _, b := range bookings {
		if !seen[b.ExperienceID] {
			seen[b.ExperienceID] = true
			experienceIDs = append(experienceIDs, b.ExperienceID)
		}
	}

	endTimes, err := s.experiences.ScheduleEndTimes(experienceIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &models.BookingListResponse{
		PastBookings:    []models.Booking{},
		CurrentBookings: []models.Booking{},
	}

	for _, b := range bookings {
		if s.isCurrent(b, endTimes[b.ExperienceID], now) {
			resp.CurrentBookings = append(resp.CurrentBookings, b)
		} else {
			resp.PastBookings = append(resp.PastBookings, b)
		}
	}
	return resp, nil
}

// isCurrent reports whether any reservation of the booking has not yet
// ended. The reservation end is the schedule's end_time on the reserved
// date; without a schedule the time_slot itself is used.
func (s *BookingService) isCurrent(b models.Booking, endTime string, now time.Time) bool {
	for _, r := range b.Reservations {
		slot := r.TimeSlot
		if endTime != "" {
			slot = endTime
		}
		if !models.CombineDateTime(r.Date, slot).Before(now) {
			return true
		}
	}
	return false
}

// Get returns a booking with its reservations. Missing bookings map to
// ErrNotFound before any ownership check; bookings of another user map to
// ErrForbidden.
func (s *BookingService) Get(userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrForbidden
	}
	return booking, nil
}

// Create validates the request, materializes its reservations and writes
// everything in one transaction. Nothing is persisted when any reservation
// is invalid.
func (s *BookingService) Create(userID int64, req models.CreateBookingRequest) (*models.Booking, error) {
	if req.ExperienceID == nil || req.NumberOfGuests == nil {
		return nil, NewValidationError("experience_id and number_of_guests are required")
	}
	if *req.NumberOfGuests <= 0 {
		return nil, NewValidationError("number_of_guests must be positive")
	}

	exists, err := s.experiences.Exists(*req.ExperienceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	reservations, err := models.ValidateReservationInputs(req.Reservations)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	booking := &models.Booking{
		UserID:           userID,
		ExperienceID:     *req.ExperienceID,
		BundleID:         req.BundleID,
		NumberOfGuests:   *req.NumberOfGuests,
		ConfirmationCode: models.NewConfirmationCode(),
		Status:           models.BookingStatusPending,
	}

	if err := s.bookings.Create(booking, reservations); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"user_id":           userID,
		"confirmation_code": booking.ConfirmationCode,
	}).Info("booking created")

	return booking, nil
}

// Update applies a partial update. number_of_guests changes in place; a
// reservations key, when present, replaces the full reservation set. Both
// changes commit together or not at all.
func (s *BookingService) Update(userID, bookingID int64, req models.UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.Get(userID, bookingID)
	if err != nil {
		return nil, err
	}

	if req.NumberOfGuests != nil {
		if *req.NumberOfGuests <= 0 {
			return nil, NewValidationError("number_of_guests must be positive")
		}
		booking.NumberOfGuests = *req.NumberOfGuests
	}

	var reservations []models.Reservation
	replace := req.Reservations != nil
	if replace {
		reservations, err = models.ValidateReservationInputs(*req.Reservations)
		if err != nil {
			return nil, NewValidationError(err.Error())
		}
	}

	if err := s.bookings.Update(booking, reservations, replace); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	return s.Get(userID, bookingID)
}

// Delete removes a booking and all of its reservations
func (s *BookingService) Delete(userID, bookingID int64) error {
	if _, err := s.Get(userID, bookingID); err != nil {
		return err
	}
	if err := s.bookings.Delete(bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("booking deleted")
	return nil
}

// ManageReservations appends to or replaces the reservation set of a
// booking and returns the newly created reservations. All inputs are
// validated before any write; the write itself is one transaction.
func (s *BookingService) ManageReservations(userID, bookingID int64, inputs []models.ReservationInput, replace bool) ([]models.Reservation, error) {
	if _, err := s.Get(userID, bookingID); err != nil {
		return nil, err
	}

	reservations, err := models.ValidateReservationInputs(inputs)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	var created []models.Reservation
	if replace {
		created, err = s.bookings.ReplaceReservations(bookingID, reservations)
	} else {
		created, err = s.bookings.AppendReservations(bookingID, reservations)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save reservations: %w", err)
	}
	return created, nil
}

// DeleteReservations removes the reservations whose ids are listed and
// belong to the booking, returning how many were deleted. Ids of other
// bookings are ignored.
func (s *BookingService) DeleteReservations(userID, bookingID int64, ids []int64) (int64, error) {
	if _, err := s.Get(userID, bookingID); err != nil {
		return 0, err
	}
	return s.bookings.DeleteReservationsByIDs(bookingID, ids)
}
