package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roamly/experiences-backend/internal/database"
	"github.com/roamly/experiences-backend/internal/models"
	"github.com/roamly/experiences-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService implements registration, login and profile lookup
type AuthService struct {
	users      *database.UserRepository
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users *database.UserRepository, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user account and returns a session token
func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, NewValidationError("email and password are required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, NewValidationError("first_name and last_name are required")
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, NewValidationError("phone_number is required")
	}

	_, err := s.users.GetByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("user registered")

	return s.issueToken(user)
}

// Login verifies credentials and returns a session token
func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(email)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(user.ID, time.Now().UTC()); err != nil {
		// Login still succeeds; the timestamp is advisory
		s.logger.WithError(err).Warn("failed to record last login")
	}

	return s.issueToken(user)
}

// Profile returns the account of the given user
func (s *AuthService) Profile(userID int64) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.FullName(), user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.AuthResponse{
		Token: token,
		User: models.AuthUser{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.FullName(),
		},
	}, nil
}
