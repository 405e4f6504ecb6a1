package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates a zero, negative or unparsable amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountExceedsLimit indicates an amount above the transfer ceiling.
	ErrAmountExceedsLimit = errors.New("amount exceeds transfer limit")
	// ErrInsufficientFunds indicates that the source balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDestinationNotFound indicates that no active account matches the destination email.
	ErrDestinationNotFound = errors.New("destination account not found")
	// ErrSelfTransferForbidden indicates a transfer whose destination is its own source.
	ErrSelfTransferForbidden = errors.New("cannot transfer to own account")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrWriteConflict indicates that the store aborted an atomic unit after
	// detecting a collision with a concurrent one. Retryable.
	ErrWriteConflict = errors.New("write conflict")
	// ErrContention indicates that an atomic unit kept aborting on write conflicts.
	ErrContention = errors.New("too much contention, try again")
)

// DepositDescription is recorded on every deposit transaction.
const DepositDescription = "Deposit"

// Transaction is one immutable value movement between two accounts.
// A deposit is a transaction from an account to itself.
type Transaction struct {
	ID            int64     `json:"id"`
	FromAccountID int64     `json:"from_account_id"`
	ToAccountID   int64     `json:"to_account_id"`
	Amount        string    `json:"amount"` // must be positive
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateTransferParams is the input data for the transfer atomic unit.
type CreateTransferParams struct {
	FromAccountID int64  `json:"from_account_id"`
	ToAccountID   int64  `json:"to_account_id"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
}

// TransferTxResult is the result of the transfer atomic unit.
type TransferTxResult struct {
	Transaction Transaction `json:"transaction"`
	FromAccount Account     `json:"from_account"`
	ToAccount   Account     `json:"to_account"`
}

// Direction tells whether a statement line moved value out of or into the account.
type Direction string

// Statement line directions.
const (
	DirectionSent     Direction = "Sent"
	DirectionReceived Direction = "Received"
)

// StatementLine is one row of an account statement, newest first.
type StatementLine struct {
	TransactionID int64     `json:"transaction_id"`
	Direction     Direction `json:"direction"`
	Counterparty  string    `json:"counterparty"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}
