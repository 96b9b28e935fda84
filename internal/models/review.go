package models

import "time"

// Review is a user's rating of an experience (reviews table)
type Review struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	ExperienceID int64     `json:"experience_id" db:"experience_id"`
	Rating       int       `json:"rating" db:"rating"`
	Comment      *string   `json:"comment" db:"comment"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// True when the requesting user wrote this review; anonymous readers
	// always see false
	IsOwner bool `json:"is_owner" db:"-"`
}

// CreateReviewRequest is the request body for POST /reviews
type CreateReviewRequest struct {
	Comment      *string `json:"comment"`
	Rating       *int    `json:"rating"`
	ExperienceID *int64  `json:"experience_id"`
}

// UpdateReviewRequest is the request body for PUT /reviews/:id
type UpdateReviewRequest struct {
	Comment *string `json:"comment"`
	Rating  *int    `json:"rating"`
}
