package handlers

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/roamly/experiences-backend/internal/database"
	"github.com/roamly/experiences-backend/internal/middleware"
	"github.com/roamly/experiences-backend/internal/services"
	"github.com/roamly/experiences-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userRows = []string{
	"id", "email", "password_hash", "first_name", "last_name",
	"phone_number", "is_admin", "last_login", "created_at",
}

func newAuthRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *jwt.Service) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	logger := testLogger()
	jwtService := jwt.NewService(testSecret, time.Hour)

	svc := services.NewAuthService(database.NewUserRepository(sqlxDB), jwtService, bcrypt.MinCost, logger)
	handler := NewAuthHandler(svc, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/register", handler.Register)
		api.POST("/login", handler.Login)
		api.GET("/profile", middleware.AuthMiddleware(jwtService, logger), handler.Profile)
	}
	return router, mock, jwtService
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Invalid Body", func(t *testing.T) {
		router, _, _ := newAuthRouter(t)
		w := doRequest(router, http.MethodPost, "/api/register", "", `{"email": 42}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		router, _, _ := newAuthRouter(t)
		w := doRequest(router, http.MethodPost, "/api/register", "",
			`{"email": "jamie@example.com", "password": "secret123"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "first_name and last_name")
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		router, mock, _ := newAuthRouter(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email =`).
			WithArgs("jamie@example.com").
			WillReturnRows(sqlmock.NewRows(userRows).
				AddRow(1, "jamie@example.com", "hash", "Jamie", "Rivera", "+15551234567", false, nil, now))

		w := doRequest(router, http.MethodPost, "/api/register", "",
			`{"email": "Jamie@Example.com", "password": "secret123", "first_name": "Jamie", "last_name": "Rivera", "phone_number": "+15551234567"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email already registered")
	})

	t.Run("Success", func(t *testing.T) {
		router, mock, _ := newAuthRouter(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email =`).
			WithArgs("jamie@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

		w := doRequest(router, http.MethodPost, "/api/register", "",
			`{"email": "jamie@example.com", "password": "secret123", "first_name": "Jamie", "last_name": "Rivera", "phone_number": "+15551234567"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"token"`)
		assert.Contains(t, w.Body.String(), `"name":"Jamie Rivera"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("Unknown Email", func(t *testing.T) {
		router, mock, _ := newAuthRouter(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email =`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		w := doRequest(router, http.MethodPost, "/api/login", "",
			`{"email": "nobody@example.com", "password": "secret123"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
	})

	t.Run("Wrong Password", func(t *testing.T) {
		router, mock, _ := newAuthRouter(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email =`).
			WithArgs("jamie@example.com").
			WillReturnRows(sqlmock.NewRows(userRows).
				AddRow(1, "jamie@example.com", string(hash), "Jamie", "Rivera", "+15551234567", false, nil, now))

		w := doRequest(router, http.MethodPost, "/api/login", "",
			`{"email": "jamie@example.com", "password": "wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		router, mock, _ := newAuthRouter(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email =`).
			WithArgs("jamie@example.com").
			WillReturnRows(sqlmock.NewRows(userRows).
				AddRow(1, "jamie@example.com", string(hash), "Jamie", "Rivera", "+15551234567", false, nil, now))
		mock.ExpectExec(`UPDATE users SET last_login =`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := doRequest(router, http.MethodPost, "/api/login", "",
			`{"email": "jamie@example.com", "password": "secret123"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileHandler(t *testing.T) {
	t.Run("No Token", func(t *testing.T) {
		router, _, _ := newAuthRouter(t)
		w := doRequest(router, http.MethodGet, "/api/profile", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		router, mock, jwtService := newAuthRouter(t)
		now := time.Now()

		token, err := jwtService.GenerateToken(1, "jamie@example.com", "Jamie Rivera", false)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id =`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(userRows).
				AddRow(1, "jamie@example.com", "hash", "Jamie", "Rivera", "+15551234567", false, nil, now))

		w := doRequest(router, http.MethodGet, "/api/profile", token, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"jamie@example.com"`)
		assert.NotContains(t, w.Body.String(), "hash")
	})
}
