// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/pkg/dbpkg"
	"github.com/pvbarbosa/banco/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (name, email, hashed_password, balance)
VALUES
    ($1, $2, $3, 0)
RETURNING id, name, email, hashed_password, balance, is_active, created_at
`

// Create creates the account with a zero balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Name, arg.Email, arg.HashedPassword)

	var a domain.Account

	err := scanAccount(row, &a)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "accounts_email_key" {
				return a, domain.ErrEmailAlreadyExists
			}
		}

		return a, errorspkg.Storage(err)
	}

	return a, nil
}

const getQuery = `
SELECT
	id, name, email, hashed_password, balance, is_active, created_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id regardless of its active flag.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	return r.get(ctx, getQuery, id)
}

const getForUpdateQuery = getQuery + `
FOR UPDATE
`

// GetForUpdate returns the account with the given id and locks its row.
// Must only be called inside a transaction.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

func (r *RepoPGS) get(ctx context.Context, query string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, id)

	var a domain.Account

	err := scanAccount(row, &a)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		if isWriteConflict(err) {
			return a, domain.ErrWriteConflict
		}

		return a, errorspkg.Storage(err)
	}

	return a, nil
}

const findByEmailQuery = `
SELECT
	id, name, email, hashed_password, balance, is_active, created_at
FROM accounts
WHERE email = $1
`

// FindByEmail returns the account with the given email, exact match.
func (r *RepoPGS) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, findByEmailQuery, email)

	var a domain.Account

	err := scanAccount(row, &a)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.Storage(err)
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING id, name, email, hashed_password, balance, is_active, created_at
`

// AddBalance applies balance += amount and returns the changed account.
// The amount may be negative. Must only be called inside a transaction that
// already holds the row lock; the non-negativity check belongs to the caller,
// the accounts_balance_check constraint is defense in depth only.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	var a domain.Account

	err := scanAccount(row, &a)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientFunds
			}
		}

		if isWriteConflict(err) {
			return a, domain.ErrWriteConflict
		}

		return a, errorspkg.Storage(err)
	}

	return a, nil
}

const deactivateQuery = `
UPDATE accounts
SET is_active = false
WHERE id = $1
`

// Deactivate clears the account's active flag. Idempotent.
func (r *RepoPGS) Deactivate(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deactivateQuery, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.Storage(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.Storage(err)
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// isWriteConflict reports whether err is a serialization failure or deadlock,
// both of which abort the surrounding atomic unit and are safe to retry.
func isWriteConflict(err error) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}

	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner, a *domain.Account) error {
	return row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.HashedPassword,
		&a.Balance,
		&a.IsActive,
		&a.CreatedAt,
	)
}
