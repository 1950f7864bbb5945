package services

import (
	"context"
	"fmt"
	"log"

	"event-portal/internal/apperrors"
	"event-portal/internal/auth"
	"event-portal/internal/models"
	"event-portal/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")

// AuthService handles authentication business logic
type AuthService struct {
	repo *repository.Repository
}

// NewAuthService creates a new AuthService
func NewAuthService(repo *repository.Repository) *AuthService {
	return &AuthService{repo: repo}
}

// HashPassword bcrypt-hashes a plaintext password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return "", nil, errBadCredentials
		}
		return "", nil, fmt.Errorf("database error: %w", err)
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, errBadCredentials
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}

	log.Printf("User logged in: %s (ID: %d, role %s)", user.Email, user.ID, user.Role)
	return token, user, nil
}

// GetUser returns the user behind a token
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureSuperAdmin creates the bootstrap super admin if the address is not yet registered
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, name, email, password string) error {
	email = NormalizeEmail(email)
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          models.RoleSuperAdmin,
		PaymentStatus: models.PaymentStatusCompleted,
	}
	if err := s.repo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	log.Printf("Super admin %s created (ID: %d)", email, admin.ID)
	return nil
}
