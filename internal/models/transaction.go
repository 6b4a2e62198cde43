package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction statuses. A transaction is "open" while ON_LOAN; at most one open
// transaction may exist per asset.
const (
	LoanOnLoan   = "ON_LOAN"
	LoanReturned = "RETURNED"
)

// Transaction records one borrow-through-return cycle for an asset.
type Transaction struct {
	ID            string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        string     `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	AssetID       string     `gorm:"column:asset_id;type:uuid;not null;index" json:"assetId"`
	RequestDate   time.Time  `gorm:"column:request_date;not null" json:"requestDate"`
	LoanStartDate time.Time  `gorm:"column:loan_start_date;not null" json:"loanStartDate"`
	ReturnDate    *time.Time `gorm:"column:return_date" json:"returnDate,omitempty"`
	Status        string     `gorm:"column:status;not null;index" json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	User  *Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Asset *Asset   `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
