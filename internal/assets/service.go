package assets

import (
	"context"
	"errors"
	"strings"

	"lendstock-backend/internal/models"
	"lendstock-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

var (
	ErrAssetNotFound    = errors.New("Asset not found")
	ErrCategoryRequired = errors.New("Category is required")
)

// Service holds the DB for catalog operations. Asset.status is never written
// here; only the lending service mutates it.
type Service struct {
	DB *gorm.DB
}

// Register creates a new asset with a generated code and AVAILABLE status.
// Code generation and the insert share one transaction so two concurrent
// registrations in a category read a consistent latest code.
func (s *Service) Register(ctx context.Context, category, description string) (*models.Asset, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrCategoryRequired
	}

	var created *models.Asset
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := nextCode(tx, category)
		if err != nil {
			return err
		}
		a := &models.Asset{
			Name:        code,
			Category:    category,
			Description: description,
			Status:      models.AssetAvailable,
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns an asset or ErrAssetNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	var a models.Asset
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns assets newest first, optionally filtered by category and
// status, with the total count for pagination metadata.
func (s *Service) List(ctx context.Context, category, status string, p pagination.Params) ([]models.Asset, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Asset{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var as []models.Asset
	if err := q.Order("created_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&as).Error; err != nil {
		return nil, 0, err
	}
	return as, total, nil
}

// Categories returns the distinct registered categories, ascending.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	err := s.DB.WithContext(ctx).Model(&models.Asset{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &cats).Error
	return cats, err
}
