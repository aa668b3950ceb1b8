// internal/repository/token_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_vocab_porter/internal/model"

	"gorm.io/gorm"
)

type TokenRepository interface {
	CreateVerificationToken(ctx context.Context, tx *gorm.DB, token *model.UserVerificationToken) error
	FindVerificationToken(ctx context.Context, db *gorm.DB, token string) (*model.UserVerificationToken, error)
	DeleteVerificationToken(ctx context.Context, tx *gorm.DB, token string) error
}

type gormTokenRepository struct{}

func NewGormTokenRepository() TokenRepository {
	return &gormTokenRepository{}
}

func (r *gormTokenRepository) CreateVerificationToken(ctx context.Context, tx *gorm.DB, token *model.UserVerificationToken) error {
	result := tx.WithContext(ctx).Create(token)
	if result.Error != nil {
		return fmt.Errorf("gormTokenRepository.CreateVerificationToken: %w", result.Error)
	}
	return nil
}

func (r *gormTokenRepository) FindVerificationToken(ctx context.Context, db *gorm.DB, token string) (*model.UserVerificationToken, error) {
	var t model.UserVerificationToken
	result := db.WithContext(ctx).Where("token = ?", token).First(&t)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormTokenRepository.FindVerificationToken: %w", result.Error)
	}
	return &t, nil
}

func (r *gormTokenRepository) DeleteVerificationToken(ctx context.Context, tx *gorm.DB, token string) error {
	result := tx.WithContext(ctx).Where("token = ?", token).Delete(&model.UserVerificationToken{})
	if result.Error != nil {
		return fmt.Errorf("gormTokenRepository.DeleteVerificationToken: %w", result.Error)
	}
	return nil
}
