package constants

// Roles for Profile.role. USER is the default for self-registered accounts.
const (
	User  = "USER"
	Admin = "ADMIN"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	return s == User || s == Admin
}
