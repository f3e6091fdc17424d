package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shopTrace/domain"
	"shopTrace/pkg/logger"
	"shopTrace/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.AdminUser, error)
	Create(ctx context.Context, admin *domain.AdminUser) error
}

type authService struct {
	adminRepo AdminRepository
}

func NewAuthService(adminRepo AdminRepository) *authService {
	return &authService{
		adminRepo: adminRepo,
	}
}

// Login verifies admin credentials and returns a signed JWT.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	if email == "" || password == "" {
		return "", errors.New("email and password are required")
	}

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("admin lookup failed", err)
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	token, err := utils.GenerateJWT(strconv.FormatUint(admin.ID, 10), admin.Role, tokenTTL)
	if err != nil {
		logger.Error("failed to issue token", err)
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("admin logged in", "admin_id", admin.ID)

	return token, nil
}

// CreateAdmin registers a new admin account with a bcrypt-hashed password.
func (s *authService) CreateAdmin(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if email == "" {
		return nil, errors.New("email is required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	if _, err := s.adminRepo.FindByEmail(ctx, email); err == nil {
		logger.Error("email already exists")
		return nil, errors.New("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.AdminUser{
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		logger.Error("failed to create admin user", err)
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return admin, nil
}
