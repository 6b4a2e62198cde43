// Package identity is the sign-up/sign-in boundary. The rest of the
// application treats it as an external provider: it hands out opaque
// account identities (id + email) and nothing else.
package identity

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

// Provider is the narrow surface consumed by auth handlers and services.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*Account, error)
	Resolve(ctx context.Context, id string) (*Account, error)
}

// Service implements Provider against the relational store.
type Service struct {
	DB *gorm.DB
}

// SignUp registers a new account with a unique email.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Account, error) {
	if email == "" || password == "" {
		return nil, ErrEmailPasswordRequired
	}
	email = strings.TrimSpace(strings.ToLower(email))

	var existing Account
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	a := &Account{Email: email, PasswordHash: string(hash)}
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// SignIn finds the account by email and verifies the password.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Account, error) {
	if email == "" || password == "" {
		return nil, ErrEmailPasswordRequired
	}
	email = strings.TrimSpace(strings.ToLower(email))

	var a Account
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &a, nil
}

// Resolve returns the account for an opaque caller id, or ErrAccountNotFound.
func (s *Service) Resolve(ctx context.Context, id string) (*Account, error) {
	var a Account
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}
