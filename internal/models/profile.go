package models

import (
	"time"

	"lendstock-backend/internal/constants"
)

// Profile is the application-level user record. Its ID is shared with the
// identity account it mirrors; the row is created at sign-up (or by an admin)
// and is never deleted.
type Profile struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"column:role;not null;default:USER" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}

// IsAdmin reports whether the profile holds the ADMIN role.
func (p *Profile) IsAdmin() bool {
	return p.Role == constants.Admin
}
