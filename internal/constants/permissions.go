package constants

const (
	ViewUsers     = "view_users"
	CreateUser    = "create_user"
	AssignRole    = "assign_role"
	RegisterAsset = "register_asset"
	ViewAllLoans  = "view_all_loans"
	ViewEvents    = "view_events"
)
