package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roamly/experiences-backend/internal/models"
)

// UserRepository handles user persistence
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone_number, is_admin, last_login, created_at`

// Create inserts a new user and fills in its id and created_at
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone_number, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowx(query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.PhoneNumber, user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email. Returns sql.ErrNoRows when no user
// has that email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	if err := r.db.Get(user, query, email); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	if err := r.db.Get(user, query, id); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(id int64, at time.Time) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
