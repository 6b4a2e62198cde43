package policies

import "errors"

var (
	ErrNotAuthenticated    = errors.New("Please log in")
	ErrAdminRequired       = errors.New("Administrator privileges are required")
	ErrInvalidRole         = errors.New("Role must be USER or ADMIN")
	ErrCannotDemoteSelf    = errors.New("You cannot remove your own administrator role")
	ErrTargetUserNotFound  = errors.New("User not found")
	ErrLastAdminProtection = errors.New("Cannot remove the last administrator")
)
