package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/roamly/experiences-backend/internal/database"
	"github.com/roamly/experiences-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewService(t *testing.T) (*ReviewService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewReviewService(
		database.NewReviewRepository(sqlxDB),
		database.NewExperienceRepository(sqlxDB),
	), mock
}

var reviewRows = []string{"id", "user_id", "experience_id", "rating", "comment", "created_at"}

func TestListForExperienceFlagsOwnership(t *testing.T) {
	t.Run("Viewer Owns One Review", func(t *testing.T) {
		svc, mock := newReviewService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT id FROM experiences WHERE id =`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE experience_id =`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(reviewRows).
				AddRow(1, 1, 9, 5, "Amazing", now).
				AddRow(2, 2, 9, 3, "Fine", now))

		reviews, err := svc.ListForExperience(9, 1)
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.True(t, reviews[0].IsOwner)
		assert.False(t, reviews[1].IsOwner)
	})

	t.Run("Anonymous Viewer Owns Nothing", func(t *testing.T) {
		svc, mock := newReviewService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT id FROM experiences WHERE id =`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE experience_id =`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(reviewRows).
				AddRow(1, 1, 9, 5, "Amazing", now))

		reviews, err := svc.ListForExperience(9, 0)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.False(t, reviews[0].IsOwner)
	})

	t.Run("Missing Experience Is Not Found", func(t *testing.T) {
		svc, mock := newReviewService(t)

		mock.ExpectQuery(`SELECT id FROM experiences WHERE id =`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := svc.ListForExperience(99, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReviewCreateValidation(t *testing.T) {
	rating := 6
	experienceID := int64(9)
	comment := "Great time"

	t.Run("Rating Out Of Range", func(t *testing.T) {
		svc, _ := newReviewService(t)

		_, err := svc.Create(1, models.CreateReviewRequest{
			ExperienceID: &experienceID,
			Rating:       &rating,
			Comment:      &comment,
		})

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Message, "between 1 and 5")
	})

	t.Run("Missing Comment", func(t *testing.T) {
		svc, _ := newReviewService(t)

		good := 4
		_, err := svc.Create(1, models.CreateReviewRequest{
			ExperienceID: &experienceID,
			Rating:       &good,
		})

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Message, "comment, rating and experience_id")
	})
}

func TestReviewWriteOwnership(t *testing.T) {
	t.Run("Missing Review Is Not Found Before Forbidden", func(t *testing.T) {
		svc, mock := newReviewService(t)

		mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE id =`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		err := svc.Delete(1, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Foreign Review Is Forbidden", func(t *testing.T) {
		svc, mock := newReviewService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE id =`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(reviewRows).
				AddRow(4, 2, 9, 5, "Amazing", now))

		err := svc.Delete(1, 4)
		assert.ErrorIs(t, err, ErrForbidden)

		// The delete itself never ran
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
