package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/roamly/experiences-backend/internal/models"
)

// ReviewRepository handles review persistence
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, user_id, experience_id, rating, comment, created_at`

// GetByID retrieves a review. Returns sql.ErrNoRows when it does not exist.
func (r *ReviewRepository) GetByID(id int64) (*models.Review, error) {
	review := &models.Review{}
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)

	if err := r.db.Get(review, query, id); err != nil {
		return nil, err
	}
	return review, nil
}

// List retrieves all reviews
func (r *ReviewRepository) List() ([]models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews ORDER BY id`, reviewColumns)

	reviews := []models.Review{}
	if err := r.db.Select(&reviews, query); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListByExperience retrieves all reviews of an experience, newest first
func (r *ReviewRepository) ListByExperience(experienceID int64) ([]models.Review, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM reviews WHERE experience_id = $1 ORDER BY created_at DESC, id DESC`,
		reviewColumns)

	reviews := []models.Review{}
	if err := r.db.Select(&reviews, query, experienceID); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Create inserts a review and fills in its id and created_at
func (r *ReviewRepository) Create(review *models.Review) error {
	query := `
		INSERT INTO reviews (user_id, experience_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowx(query,
		review.UserID, review.ExperienceID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update applies a partial update and returns the stored row
func (r *ReviewRepository) Update(id int64, req models.UpdateReviewRequest) (*models.Review, error) {
	query := fmt.Sprintf(`
		UPDATE reviews
		SET rating = COALESCE($1, rating),
		    comment = COALESCE($2, comment)
		WHERE id = $3
		RETURNING %s`, reviewColumns)

	review := &models.Review{}
	if err := r.db.Get(review, query, req.Rating, req.Comment, id); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
