package identity

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupIdentityDB(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Account{}))
	return &Service{DB: db}
}

func TestSignUp_CreatesAccount(t *testing.T) {
	svc := setupIdentityDB(t)
	a, err := svc.SignUp(context.Background(), "Alice@Example.com", "Pass1!word")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "alice@example.com", a.Email)
	assert.NotEqual(t, "Pass1!word", a.PasswordHash)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc := setupIdentityDB(t)
	_, err := svc.SignUp(context.Background(), "alice@example.com", "Pass1!word")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "ALICE@example.com", "Other1!pw")
	require.Error(t, err)
	assert.Equal(t, ErrEmailRegistered, err)
}

func TestSignIn_RoundTrip(t *testing.T) {
	svc := setupIdentityDB(t)
	created, err := svc.SignUp(context.Background(), "alice@example.com", "Pass1!word")
	require.NoError(t, err)

	a, err := svc.SignIn(context.Background(), "alice@example.com", "Pass1!word")
	require.NoError(t, err)
	assert.Equal(t, created.ID, a.ID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc := setupIdentityDB(t)
	_, err := svc.SignUp(context.Background(), "alice@example.com", "Pass1!word")
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), "alice@example.com", "wrong1!pw")
	require.Error(t, err)
	assert.Equal(t, ErrIncorrectPassword, err)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	svc := setupIdentityDB(t)
	_, err := svc.SignIn(context.Background(), "nobody@example.com", "Pass1!word")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidEmail, err)
}

func TestResolve(t *testing.T) {
	svc := setupIdentityDB(t)
	created, err := svc.SignUp(context.Background(), "alice@example.com", "Pass1!word")
	require.NoError(t, err)

	a, err := svc.Resolve(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, a.Email)

	_, err = svc.Resolve(context.Background(), "0b8f8a4e-0000-0000-0000-000000000000")
	assert.Equal(t, ErrAccountNotFound, err)
}
