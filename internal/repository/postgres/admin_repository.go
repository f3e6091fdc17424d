package postgres

import (
	"context"
	"errors"
	"fmt"

	"shopTrace/domain"

	"gorm.io/gorm"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{
		DB: db,
	}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdminUser{}, fmt.Errorf("context error: %w", err)
	}

	var admin domain.AdminUser
	err := r.DB.WithContext(ctx).First(&admin, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AdminUser{}, errors.New("admin not found")
		}
		return domain.AdminUser{}, fmt.Errorf("failed to find admin: %w", err)
	}

	return admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}
