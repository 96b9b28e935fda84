package services

import (
	"database/sql"
	"fmt"

	"github.com/roamly/experiences-backend/internal/database"
	"github.com/roamly/experiences-backend/internal/models"
)

// ReviewService implements review reads and owner-gated writes
type ReviewService struct {
	reviews     *database.ReviewRepository
	experiences *database.ExperienceRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews *database.ReviewRepository, experiences *database.ExperienceRepository) *ReviewService {
	return &ReviewService{reviews: reviews, experiences: experiences}
}

// List returns all reviews. When viewerID is non-zero each review is
// flagged with whether the viewer wrote it.
func (s *ReviewService) List(viewerID int64) ([]models.Review, error) {
	reviews, err := s.reviews.List()
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].IsOwner = viewerID != 0 && reviews[i].UserID == viewerID
	}
	return reviews, nil
}

// Get returns one review, flagged with whether the viewer wrote it
func (s *ReviewService) Get(reviewID, viewerID int64) (*models.Review, error) {
	review, err := s.reviews.GetByID(reviewID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	review.IsOwner = viewerID != 0 && review.UserID == viewerID
	return review, nil
}

// ListForExperience returns the reviews of an experience. When viewerID is
// non-zero each review is flagged with whether the viewer wrote it.
func (s *ReviewService) ListForExperience(experienceID, viewerID int64) ([]models.Review, error) {
	exists, err := s.experiences.Exists(experienceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	reviews, err := s.reviews.ListByExperience(experienceID)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].IsOwner = viewerID != 0 && reviews[i].UserID == viewerID
	}
	return reviews, nil
}

// Create validates and stores a review
func (s *ReviewService) Create(userID int64, req models.CreateReviewRequest) (*models.Review, error) {
	if req.ExperienceID == nil || req.Rating == nil || req.Comment == nil {
		return nil, NewValidationError("comment, rating and experience_id are required")
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return nil, NewValidationError("rating must be between 1 and 5")
	}

	exists, err := s.experiences.Exists(*req.ExperienceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	review := &models.Review{
		UserID:       userID,
		ExperienceID: *req.ExperienceID,
		Rating:       *req.Rating,
		Comment:      req.Comment,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.IsOwner = true
	return review, nil
}

// Update applies a partial update to the caller's own review
func (s *ReviewService) Update(userID, reviewID int64, req models.UpdateReviewRequest) (*models.Review, error) {
	if err := s.requireOwned(userID, reviewID); err != nil {
		return nil, err
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, NewValidationError("rating must be between 1 and 5")
	}

	review, err := s.reviews.Update(reviewID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	review.IsOwner = true
	return review, nil
}

// Delete removes the caller's own review
func (s *ReviewService) Delete(userID, reviewID int64) error {
	if err := s.requireOwned(userID, reviewID); err != nil {
		return err
	}
	return s.reviews.Delete(reviewID)
}

func (s *ReviewService) requireOwned(userID, reviewID int64) error {
	review, err := s.reviews.GetByID(reviewID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrForbidden
	}
	return nil
}
