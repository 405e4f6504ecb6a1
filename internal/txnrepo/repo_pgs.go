// Package txnrepo manages repository layer of the transaction log.
//
// The log is append only: rows are written exactly once inside the atomic
// unit that moves the value they document and are never updated or deleted.
package txnrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/pkg/dbpkg"
	"github.com/pvbarbosa/banco/pkg/errorspkg"
)

// RepoPGS facilitates transaction log repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction log RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    transactions (from_account_id, to_account_id, amount, description)
VALUES
    ($1, $2, $3, $4)
RETURNING id, from_account_id, to_account_id, amount, description, created_at
`

// Create appends one transaction and returns it. Must only be called inside
// the same transaction as the balance adjustments it documents.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransferParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.FromAccountID,
		arg.ToAccountID,
		arg.Amount,
		arg.Description,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.FromAccountID,
		&t.ToAccountID,
		&t.Amount,
		&t.Description,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_from_account_id_fkey", "transactions_to_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_amount_check":
				return t, domain.ErrInvalidAmount
			}

			if pqErr.Code == "40001" || pqErr.Code == "40P01" {
				return t, domain.ErrWriteConflict
			}
		}

		return t, errorspkg.Storage(err)
	}

	return t, nil
}

const getQuery = `
SELECT
	id, from_account_id, to_account_id, amount, description, created_at
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.FromAccountID,
		&t.ToAccountID,
		&t.Amount,
		&t.Description,
		&t.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.Storage(err)
	}

	return t, nil
}

const listForAccountQuery = `
SELECT
	id, from_account_id, to_account_id, amount, description, created_at
FROM transactions
WHERE
    from_account_id = $1 OR to_account_id = $1
ORDER BY id DESC
LIMIT $2
`

// ListForAccount returns the account's transactions, newest first.
func (r *RepoPGS) ListForAccount(ctx context.Context, accountID int64, limit int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listForAccountQuery, accountID, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.FromAccountID,
			&t.ToAccountID,
			&t.Amount,
			&t.Description,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.Storage(err)
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}

	return items, nil
}

// Counterparty names are read regardless of the active flag: statements are
// immutable audit records, so a deactivated peer still renders by name.
const listStatementQuery = `
SELECT
	t.id,
	CASE WHEN t.from_account_id = $1 AND t.to_account_id <> $1
		THEN 'Sent' ELSE 'Received'
	END AS direction,
	CASE WHEN t.from_account_id = $1 AND t.to_account_id <> $1
		THEN dst.name ELSE src.name
	END AS counterparty,
	t.amount,
	t.description,
	t.created_at
FROM transactions t
JOIN accounts src ON src.id = t.from_account_id
JOIN accounts dst ON dst.id = t.to_account_id
WHERE
    t.from_account_id = $1 OR t.to_account_id = $1
ORDER BY t.id DESC
LIMIT $2
`

// ListStatement returns the account's statement lines, newest first.
func (r *RepoPGS) ListStatement(ctx context.Context, accountID int64, limit int32) ([]domain.StatementLine, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listStatementQuery, accountID, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}
	defer rows.Close()

	items := []domain.StatementLine{}

	for rows.Next() {
		var line domain.StatementLine
		if err := rows.Scan(
			&line.TransactionID,
			&line.Direction,
			&line.Counterparty,
			&line.Amount,
			&line.Description,
			&line.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.Storage(err)
		}

		items = append(items, line)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}

	return items, nil
}
