// Package lending is the ledger mediating every borrow and return. It is the
// only writer of Asset.status and Transaction.status, and it always writes
// them together inside one database transaction.
package lending

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lendstock-backend/internal/models"
	"lendstock-backend/internal/pkg/pagination"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Borrow lends assetID to callerID. Preconditions are evaluated inside the
// same database transaction as the writes, so a concurrent read never sees the
// ledger and the asset disagree. The guarded status update is what makes two
// simultaneous borrows of one asset mutually exclusive: only one UPDATE can
// move the row off AVAILABLE.
func (s *Service) Borrow(ctx context.Context, callerID, assetID string) (*models.Transaction, error) {
	var created *models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var caller models.Profile
		if err := tx.Where("id = ?", callerID).First(&caller).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAuthenticated
			}
			return err
		}

		var asset models.Asset
		if err := tx.Where("id = ?", assetID).First(&asset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return err
		}
		switch asset.Status {
		case models.AssetAvailable:
		case models.AssetOnLoan:
			return ErrAssetOnLoan
		default:
			return ErrAssetInMaintenance
		}

		var open int64
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND asset_id = ? AND status = ?", callerID, assetID, models.LoanOnLoan).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrAlreadyBorrowed
		}

		// Claim the asset. RowsAffected 0 means a concurrent borrow won the race.
		res := tx.Model(&models.Asset{}).
			Where("id = ? AND status = ?", assetID, models.AssetAvailable).
			Update("status", models.AssetOnLoan)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAssetOnLoan
		}

		now := time.Now().UTC()
		t := &models.Transaction{
			UserID:        callerID,
			AssetID:       assetID,
			RequestDate:   now,
			LoanStartDate: now,
			Status:        models.LoanOnLoan,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if err := appendEvent(tx, models.EventBorrowed, t, callerID, map[string]interface{}{
			"asset_id":   assetID,
			"asset_name": asset.Name,
		}); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Return closes transactionID for callerID and releases the asset. Same
// atomicity rule as Borrow: the ledger flip and the asset flip either both
// happen or neither does.
func (s *Service) Return(ctx context.Context, callerID, transactionID string) (*models.Transaction, error) {
	var updated *models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var caller models.Profile
		if err := tx.Where("id = ?", callerID).First(&caller).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAuthenticated
			}
			return err
		}

		var t models.Transaction
		if err := tx.Where("id = ?", transactionID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if t.Status != models.LoanOnLoan {
			return ErrNotOnLoan
		}
		if t.UserID != callerID {
			return ErrNotOwner
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, models.LoanOnLoan).
			Updates(map[string]interface{}{
				"status":      models.LoanReturned,
				"return_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotOnLoan
		}

		if err := tx.Model(&models.Asset{}).
			Where("id = ?", t.AssetID).
			Update("status", models.AssetAvailable).Error; err != nil {
			return err
		}

		t.Status = models.LoanReturned
		t.ReturnDate = &now
		if err := appendEvent(tx, models.EventReturned, &t, callerID, map[string]interface{}{
			"asset_id": t.AssetID,
		}); err != nil {
			return err
		}
		updated = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListByUser returns a user's transactions, newest first, with asset preloaded.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var ts []models.Transaction
	err := s.DB.WithContext(ctx).
		Preload("Asset").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ts).Error
	return ts, err
}

// ListAll returns every transaction, optionally filtered by status, with the
// total count for pagination metadata.
func (s *Service) ListAll(ctx context.Context, status string, p pagination.Params) ([]models.Transaction, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Transaction{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ts []models.Transaction
	if err := q.Preload("Asset").Preload("User").
		Order("created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&ts).Error; err != nil {
		return nil, 0, err
	}
	return ts, total, nil
}

// ListEvents returns the lending audit trail, oldest first.
func (s *Service) ListEvents(ctx context.Context) ([]models.LendingEvent, error) {
	var events []models.LendingEvent
	err := s.DB.WithContext(ctx).Order("created_at ASC, id ASC").Find(&events).Error
	return events, err
}

func appendEvent(tx *gorm.DB, eventType string, t *models.Transaction, actorID string, data map[string]interface{}) error {
	b, _ := json.Marshal(data)
	return tx.Create(&models.LendingEvent{
		TransactionID: t.ID,
		EventType:     eventType,
		ActorID:       actorID,
		EventData:     datatypes.JSON(b),
	}).Error
}
