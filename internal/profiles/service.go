package profiles

import (
	"context"
	"errors"
	"strings"

	"lendstock-backend/internal/constants"
	"lendstock-backend/internal/models"
	"lendstock-backend/internal/profiles/policies"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("Profile not found")

// Service holds the DB for profile operations.
type Service struct {
	DB *gorm.DB
}

// Create persists the application profile mirroring an identity account.
// The id must be the account id so callers resolve either way.
func (s *Service) Create(ctx context.Context, id, name, email, role string) (*models.Profile, error) {
	p := &models.Profile{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(strings.ToLower(email)),
		Role:  role,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID returns a profile or ErrProfileNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all profiles, newest first.
func (s *Service) List(ctx context.Context) ([]models.Profile, error) {
	var ps []models.Profile
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&ps).Error
	return ps, err
}

// CountAdmins returns the number of profiles holding the ADMIN role.
func (s *Service) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Profile{}).Where("role = ?", constants.Admin).Count(&n).Error
	return n, err
}

// UpdateRole changes the target profile's role after the governance policy
// passes. Only the role column is written; there are no cascading effects.
func (s *Service) UpdateRole(ctx context.Context, actorID, targetID, newRole string) (*models.Profile, error) {
	if err := policies.ValidateRoleChange(s.DB.WithContext(ctx), policies.RoleChangeParams{
		ActorID:  actorID,
		TargetID: targetID,
		NewRole:  newRole,
	}); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", targetID).
		Update("role", newRole).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, targetID)
}

// EnsureBootstrapAdmin promotes the profile with the given email to ADMIN when
// no admin exists yet. Safe to call on every startup.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	n, err := s.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var p models.Profile
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("email", email).Msg("bootstrap admin email has no profile yet; sign up first")
			return nil
		}
		return err
	}
	if err := s.DB.WithContext(ctx).Model(&p).Update("role", constants.Admin).Error; err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("promoted bootstrap admin")
	return nil
}
