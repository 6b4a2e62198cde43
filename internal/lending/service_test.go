package lending

import (
	"context"
	"testing"

	"lendstock-backend/internal/constants"
	"lendstock-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLendingDB(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.Asset{}, &models.Transaction{}, &models.LendingEvent{},
	))
	return &Service{DB: db}
}

func createUser(t *testing.T, db *gorm.DB) *models.Profile {
	p := &models.Profile{
		ID:    uuid.NewString(),
		Name:  "Borrower",
		Email: uuid.NewString() + "@example.com",
		Role:  constants.User,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createAsset(t *testing.T, db *gorm.DB, status string) *models.Asset {
	a := &models.Asset{
		Name:     "PC-001",
		Category: "PC",
		Status:   status,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&n).Error)
	return n
}

func assetStatus(t *testing.T, db *gorm.DB, id string) string {
	var a models.Asset
	require.NoError(t, db.Where("id = ?", id).First(&a).Error)
	return a.Status
}

func TestBorrow_Success(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	u := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetAvailable)

	tr, err := svc.Borrow(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanOnLoan, tr.Status)
	assert.Equal(t, u.ID, tr.UserID)
	assert.Equal(t, a.ID, tr.AssetID)
	assert.Equal(t, tr.RequestDate, tr.LoanStartDate)
	assert.Nil(t, tr.ReturnDate)
	assert.Equal(t, models.AssetOnLoan, assetStatus(t, svc.DB, a.ID))
	assert.Equal(t, int64(1), countTransactions(t, svc.DB))
}

func TestBorrow_UnknownCaller(t *testing.T) {
	svc := setupLendingDB(t)
	a := createAsset(t, svc.DB, models.AssetAvailable)

	_, err := svc.Borrow(context.Background(), uuid.NewString(), a.ID)
	require.Error(t, err)
	assert.Equal(t, ErrNotAuthenticated, err)
	assert.Equal(t, int64(0), countTransactions(t, svc.DB))
	assert.Equal(t, models.AssetAvailable, assetStatus(t, svc.DB, a.ID))
}

func TestBorrow_UnknownAsset(t *testing.T) {
	svc := setupLendingDB(t)
	u := createUser(t, svc.DB)

	_, err := svc.Borrow(context.Background(), u.ID, uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, ErrAssetNotFound, err)
	assert.Equal(t, int64(0), countTransactions(t, svc.DB))
}

func TestBorrow_AssetOnLoan(t *testing.T) {
	svc := setupLendingDB(t)
	u := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetOnLoan)

	_, err := svc.Borrow(context.Background(), u.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, ErrAssetOnLoan, err)
	assert.Equal(t, int64(0), countTransactions(t, svc.DB))
	assert.Equal(t, models.AssetOnLoan, assetStatus(t, svc.DB, a.ID))
}

func TestBorrow_AssetInMaintenance(t *testing.T) {
	svc := setupLendingDB(t)
	u := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetMaintenance)

	_, err := svc.Borrow(context.Background(), u.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, ErrAssetInMaintenance, err)
	assert.Equal(t, int64(0), countTransactions(t, svc.DB))
	assert.Equal(t, models.AssetMaintenance, assetStatus(t, svc.DB, a.ID))
}

// At most one open transaction per asset: the second borrow of the same asset
// fails and leaves exactly one ON_LOAN row.
func TestBorrow_NoDoubleBorrow(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	u1 := createUser(t, svc.DB)
	u2 := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetAvailable)

	_, err := svc.Borrow(ctx, u1.ID, a.ID)
	require.NoError(t, err)

	_, err = svc.Borrow(ctx, u2.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, ErrAssetOnLoan, err)

	var open int64
	require.NoError(t, svc.DB.Model(&models.Transaction{}).
		Where("asset_id = ? AND status = ?", a.ID, models.LoanOnLoan).
		Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func TestReturn_Success(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	u := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetAvailable)

	tr, err := svc.Borrow(ctx, u.ID, a.ID)
	require.NoError(t, err)

	returned, err := svc.Return(ctx, u.ID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, models.AssetAvailable, assetStatus(t, svc.DB, a.ID))
}

// Borrow followed by Return restores the asset's original status (round-trip law).
func TestBorrowReturn_RoundTrip(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	u := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetAvailable)
	before := assetStatus(t, svc.DB, a.ID)

	tr, err := svc.Borrow(ctx, u.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, u.ID, tr.ID)
	require.NoError(t, err)

	assert.Equal(t, before, assetStatus(t, svc.DB, a.ID))
}

func TestReturn_UnknownTransaction(t *testing.T) {
	svc := setupLendingDB(t)
	u := createUser(t, svc.DB)

	_, err := svc.Return(context.Background(), u.ID, uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, ErrTransactionNotFound, err)
}

func TestReturn_ForeignLoanForbidden(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	owner := createUser(t, svc.DB)
	other := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetAvailable)

	tr, err := svc.Borrow(ctx, owner.ID, a.ID)
	require.NoError(t, err)

	_, err = svc.Return(ctx, other.ID, tr.ID)
	require.Error(t, err)
	assert.Equal(t, ErrNotOwner, err)

	// Nothing mutated
	assert.Equal(t, models.AssetOnLoan, assetStatus(t, svc.DB, a.ID))
	var fresh models.Transaction
	require.NoError(t, svc.DB.Where("id = ?", tr.ID).First(&fresh).Error)
	assert.Equal(t, models.LoanOnLoan, fresh.Status)
	assert.Nil(t, fresh.ReturnDate)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	u := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetAvailable)

	tr, err := svc.Borrow(ctx, u.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, u.ID, tr.ID)
	require.NoError(t, err)

	_, err = svc.Return(ctx, u.ID, tr.ID)
	require.Error(t, err)
	assert.Equal(t, ErrNotOnLoan, err)
	assert.Equal(t, models.AssetAvailable, assetStatus(t, svc.DB, a.ID))
}

// Full lifecycle: borrow, borrow again (conflict), return, return again.
func TestLendingLifecycle(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	u1 := createUser(t, svc.DB)
	a1 := createAsset(t, svc.DB, models.AssetAvailable)

	t1, err := svc.Borrow(ctx, u1.ID, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanOnLoan, t1.Status)
	assert.Equal(t, models.AssetOnLoan, assetStatus(t, svc.DB, a1.ID))

	_, err = svc.Borrow(ctx, u1.ID, a1.ID)
	require.Error(t, err)
	assert.Equal(t, ErrAssetOnLoan, err)

	returned, err := svc.Return(ctx, u1.ID, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanReturned, returned.Status)
	assert.Equal(t, models.AssetAvailable, assetStatus(t, svc.DB, a1.ID))

	_, err = svc.Return(ctx, u1.ID, t1.ID)
	require.Error(t, err)
	assert.Equal(t, ErrNotOnLoan, err)
}

func TestLendingEvents_WrittenWithLedger(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	u := createUser(t, svc.DB)
	a := createAsset(t, svc.DB, models.AssetAvailable)

	tr, err := svc.Borrow(ctx, u.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, u.ID, tr.ID)
	require.NoError(t, err)

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventBorrowed, events[0].EventType)
	assert.Equal(t, models.EventReturned, events[1].EventType)
	assert.Equal(t, tr.ID, events[0].TransactionID)
	assert.Equal(t, u.ID, events[0].ActorID)
}

func TestListByUser(t *testing.T) {
	svc := setupLendingDB(t)
	ctx := context.Background()
	u1 := createUser(t, svc.DB)
	u2 := createUser(t, svc.DB)
	a1 := createAsset(t, svc.DB, models.AssetAvailable)
	a2 := createAsset(t, svc.DB, models.AssetAvailable)

	_, err := svc.Borrow(ctx, u1.ID, a1.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, u2.ID, a2.ID)
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a1.ID, mine[0].AssetID)
	require.NotNil(t, mine[0].Asset)
	assert.Equal(t, a1.Name, mine[0].Asset.Name)
}
