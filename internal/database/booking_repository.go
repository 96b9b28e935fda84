package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/roamly/experiences-backend/internal/models"
)

// BookingRepository handles booking and reservation database operations.
// Reservations are owned by their booking: every multi-row write runs in one
// transaction and rolls back as a unit.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, experience_id, bundle_id, number_of_guests, confirmation_code, status, created_at`

const reservationColumns = `id, booking_id, date, time_slot, status, created_at`

// GetByID retrieves a booking with its reservations. Returns sql.ErrNoRows
// when the booking does not exist.
func (r *BookingRepository) GetByID(id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	if err := r.db.Get(booking, query, id); err != nil {
		return nil, err
	}

	reservations, err := r.GetReservations(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations for booking %d: %w", id, err)
	}
	booking.Reservations = reservations

	return booking, nil
}

// GetReservations retrieves all reservations owned by a booking in insert
// order
func (r *BookingRepository) GetReservations(bookingID int64) ([]models.Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE booking_id = $1 ORDER BY id`, reservationColumns)

	reservations := []models.Reservation{}
	if err := r.db.Select(&reservations, query, bookingID); err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListByUser retrieves all bookings owned by a user, each with its
// reservations, in creation order
func (r *BookingRepository) ListByUser(userID int64) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE user_id = $1 ORDER BY id`, bookingColumns)

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]int64, len(bookings))
	index := make(map[int64]int, len(bookings))
	for i := range bookings {
		ids[i] = bookings[i].ID
		index[bookings[i].ID] = i
		bookings[i].Reservations = []models.Reservation{}
	}

	resQuery := fmt.Sprintf(`SELECT %s FROM reservations WHERE booking_id = ANY($1) ORDER BY booking_id, id`, reservationColumns)

	reservations := []models.Reservation{}
	if err := r.db.Select(&reservations, resQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	for _, res := range reservations {
		i := index[res.BookingID]
		bookings[i].Reservations = append(bookings[i].Reservations, res)
	}

	return bookings, nil
}

// Create inserts a booking together with its initial reservations as one
// atomic unit. A failed reservation insert rolls back the booking row too.
func (r *BookingRepository) Create(booking *models.Booking, reservations []models.Reservation) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bookings (user_id, experience_id, bundle_id, number_of_guests, confirmation_code, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = tx.QueryRowx(query,
		booking.UserID, booking.ExperienceID, booking.BundleID,
		booking.NumberOfGuests, booking.ConfirmationCode, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	created, err := insertReservations(tx, booking.ID, reservations)
	if err != nil {
		return err
	}
	booking.Reservations = created

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update writes the booking's guest count and, when replace is set, swaps
// the entire reservation set for the given one, all in one transaction.
func (r *BookingRepository) Update(booking *models.Booking, reservations []models.Reservation, replace bool) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE bookings SET number_of_guests = $1 WHERE id = $2`,
		booking.NumberOfGuests, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if replace {
		if _, err := tx.Exec(`DELETE FROM reservations WHERE booking_id = $1`, booking.ID); err != nil {
			return fmt.Errorf("failed to clear reservations: %w", err)
		}

		created, err := insertReservations(tx, booking.ID, reservations)
		if err != nil {
			return err
		}
		booking.Reservations = created
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a booking and all reservations it owns. The reservation
// delete is issued explicitly in the same transaction as the booking row.
func (r *BookingRepository) Delete(bookingID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reservations WHERE booking_id = $1`, bookingID); err != nil {
		return fmt.Errorf("failed to delete reservations: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM bookings WHERE id = $1`, bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	return tx.Commit()
}

// ReplaceReservations deletes every reservation owned by the booking and
// inserts the given set, all-or-nothing
func (r *BookingRepository) ReplaceReservations(bookingID int64, reservations []models.Reservation) ([]models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reservations WHERE booking_id = $1`, bookingID); err != nil {
		return nil, fmt.Errorf("failed to clear reservations: %w", err)
	}

	created, err := insertReservations(tx, bookingID, reservations)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// AppendReservations inserts reservations without touching existing ones.
// Returns only the newly created rows.
func (r *BookingRepository) AppendReservations(bookingID int64, reservations []models.Reservation) ([]models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created, err := insertReservations(tx, bookingID, reservations)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// DeleteReservationsByIDs deletes the reservations whose ids are in ids AND
// belong to the booking. Ids from other bookings are ignored, not errors.
// Returns the number of rows actually deleted.
func (r *BookingRepository) DeleteReservationsByIDs(bookingID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.Exec(
		`DELETE FROM reservations WHERE booking_id = $1 AND id = ANY($2)`,
		bookingID, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reservations: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted reservations: %w", err)
	}
	return deleted, nil
}

// insertReservations inserts each reservation within the caller's
// transaction and returns the created rows
func insertReservations(tx *sqlx.Tx, bookingID int64, reservations []models.Reservation) ([]models.Reservation, error) {
	created := make([]models.Reservation, 0, len(reservations))

	query := `
		INSERT INTO reservations (booking_id, date, time_slot, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	for _, res := range reservations {
		res.BookingID = bookingID
		err := tx.QueryRowx(query,
			res.BookingID, res.Date, res.TimeSlot, res.Status,
		).Scan(&res.ID, &res.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create reservation for %s: %w", res.Date.Format("2006-01-02"), err)
		}
		created = append(created, res)
	}

	return created, nil
}
