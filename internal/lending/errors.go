package lending

import "errors"

// Sentinel errors for the lending workflow. Handlers map them onto the
// standard error envelope; anything else is logged and surfaced as a
// generic failure.
var (
	ErrNotAuthenticated    = errors.New("Please log in")
	ErrAssetNotFound       = errors.New("Asset not found")
	ErrAssetOnLoan         = errors.New("This asset is currently on loan")
	ErrAssetInMaintenance  = errors.New("This asset is under maintenance")
	ErrAlreadyBorrowed     = errors.New("You have already borrowed this asset")
	ErrTransactionNotFound = errors.New("Loan record not found")
	ErrNotOnLoan           = errors.New("This record is not currently on loan")
	ErrNotOwner            = errors.New("Cannot return another user's loan")
)
