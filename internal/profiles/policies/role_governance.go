package policies

import (
	"errors"

	"lendstock-backend/internal/constants"
	"lendstock-backend/internal/models"

	"gorm.io/gorm"
)

// RoleChangeParams describes an attempted role mutation.
type RoleChangeParams struct {
	ActorID  string
	TargetID string
	NewRole  string
}

// ValidateRoleChange enforces role governance before any role write. The actor
// is re-resolved from the database rather than trusted from the session:
//   - actor must exist and hold ADMIN
//   - the new role must be a known role
//   - an admin may not demote themself
//   - the target must exist
//   - the last remaining admin may not be demoted to USER
//
// Returns nil on success or one of the sentinel errors.
func ValidateRoleChange(db *gorm.DB, params RoleChangeParams) error {
	var actor models.Profile
	if err := db.Where("id = ?", params.ActorID).First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAuthenticated
		}
		return err
	}
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	if !constants.ValidRole(params.NewRole) {
		return ErrInvalidRole
	}
	if params.ActorID == params.TargetID && params.NewRole == constants.User {
		return ErrCannotDemoteSelf
	}

	var target models.Profile
	if err := db.Where("id = ?", params.TargetID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetUserNotFound
		}
		return err
	}

	// Count-based check: has to be a live query, not a schema constraint.
	if target.Role == constants.Admin && params.NewRole == constants.User {
		var admins int64
		if err := db.Model(&models.Profile{}).Where("role = ?", constants.Admin).Count(&admins).Error; err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdminProtection
		}
	}
	return nil
}
