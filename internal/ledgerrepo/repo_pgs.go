// Package ledgerrepo executes ledger mutations as atomic units.
//
// Every mutating operation of the ledger runs here inside one database
// transaction: the balance adjustments and the transaction log append commit
// or roll back together. Row locks are taken in ascending account id order so
// concurrent transfers over the same pair cannot deadlock, and every
// precondition is re-checked against the locked rows, which closes the race
// between a caller's validation read and the commit.
package ledgerrepo

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pvbarbosa/banco/internal/accountrepo"
	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/internal/txnrepo"
	"github.com/pvbarbosa/banco/pkg/errorspkg"
)

// RepoPGS facilitates the ledger's transactional repository logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns ledger RepoPGS holding a connection to start transactions.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{conn: conn}
}

// DepositTx credits the account and appends the matching log row atomically.
func (r *RepoPGS) DepositTx(ctx context.Context, accountID int64, amount string) (domain.Account, domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var (
		account domain.Account
		txn     domain.Transaction
	)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return account, txn, errorspkg.Storage(err)
	}
	defer rollback(ctx, tx)

	accounts := accountrepo.NewRepoPGS(tx)
	txns := txnrepo.NewRepoPGS(tx)

	account, err = accounts.GetForUpdate(ctx, accountID)
	if err != nil {
		return account, txn, err
	}

	if !account.IsActive {
		return account, txn, domain.ErrAccountInactive
	}

	account, err = accounts.AddBalance(ctx, amount, accountID)
	if err != nil {
		return account, txn, err
	}

	txn, err = txns.Create(ctx, domain.CreateTransferParams{
		FromAccountID: accountID,
		ToAccountID:   accountID,
		Amount:        amount,
		Description:   domain.DepositDescription,
	})
	if err != nil {
		return account, txn, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return account, txn, errorspkg.Storage(err)
	}

	return account, txn, nil
}

// TransferTx debits the source, credits the destination and appends the
// matching log row atomically.
func (r *RepoPGS) TransferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.Storage(err)
	}
	defer rollback(ctx, tx)

	accounts := accountrepo.NewRepoPGS(tx)
	txns := txnrepo.NewRepoPGS(tx)

	fromAccount, toAccount, err := lockPair(ctx, accounts, arg.FromAccountID, arg.ToAccountID)
	if err != nil {
		return result, err
	}

	if !fromAccount.IsActive {
		return result, domain.ErrAccountInactive
	}

	if !toAccount.IsActive {
		return result, domain.ErrDestinationNotFound
	}

	fromBalance, err := decimal.NewFromString(fromAccount.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.Storage(err)
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.Storage(err)
	}

	if fromBalance.LessThan(amount) {
		return result, domain.ErrInsufficientFunds
	}

	result.FromAccount, err = accounts.AddBalance(ctx, "-"+arg.Amount, arg.FromAccountID)
	if err != nil {
		return result, err
	}

	result.ToAccount, err = accounts.AddBalance(ctx, arg.Amount, arg.ToAccountID)
	if err != nil {
		return result, err
	}

	result.Transaction, err = txns.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.Storage(err)
	}

	return result, nil
}

// DeactivateTx atomically checks the active flag and clears it.
func (r *RepoPGS) DeactivateTx(ctx context.Context, accountID int64) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.Storage(err)
	}
	defer rollback(ctx, tx)

	accounts := accountrepo.NewRepoPGS(tx)

	account, err := accounts.GetForUpdate(ctx, accountID)
	if err != nil {
		return err
	}

	if !account.IsActive {
		return domain.ErrAlreadyInactive
	}

	if err := accounts.Deactivate(ctx, accountID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.Storage(err)
	}

	return nil
}

// lockPair locks both account rows in ascending id order to avoid deadlocks
// between concurrent transfers sharing a pair.
func lockPair(ctx context.Context, accounts *accountrepo.RepoPGS, fromID, toID int64) (domain.Account, domain.Account, error) {
	var fromAccount, toAccount domain.Account

	firstID, secondID := fromID, toID
	if toID < fromID {
		firstID, secondID = toID, fromID
	}

	first, err := accounts.GetForUpdate(ctx, firstID)
	if err != nil {
		return fromAccount, toAccount, lockErr(err, firstID, fromID)
	}

	second, err := accounts.GetForUpdate(ctx, secondID)
	if err != nil {
		return fromAccount, toAccount, lockErr(err, secondID, fromID)
	}

	if firstID == fromID {
		return first, second, nil
	}

	return second, first, nil
}

// lockErr keeps missing destinations distinguishable from missing sources.
func lockErr(err error, lockedID, fromID int64) error {
	if err == domain.ErrAccountNotFound && lockedID != fromID {
		return domain.ErrDestinationNotFound
	}

	return err
}

func rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		zerolog.Ctx(ctx).Error().Err(err).Send()
	}
}
