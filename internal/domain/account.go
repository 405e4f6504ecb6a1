// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountInactive indicates that the account has been deactivated.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrAlreadyInactive indicates a deactivation of an already inactive account.
	ErrAlreadyInactive = errors.New("account is already inactive")
	// ErrEmailAlreadyExists indicates that an account with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials indicates a failed login for the given email and password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidAccountData indicates registration input that failed validation.
	ErrInvalidAccountData = errors.New("invalid account data")
)

// Account holds the holder identity and the current balance.
type Account struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	Balance        string    `json:"balance"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
}

// AccountSummary is Account data excluding credential material.
type AccountSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
