// Package ledgerservice manages business logic layer of the ledger.
//
// It is the only component allowed to mutate balances or append to the
// transaction log, and it does so exclusively through the atomic units of the
// transactional repo, so value is conserved even under partial failure.
package ledgerservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/pkg/errorspkg"
	"github.com/pvbarbosa/banco/pkg/moneypkg"
)

// maxTxAttempts bounds how often an aborted transfer unit is retried before
// the engine gives up with ErrContention.
const maxTxAttempts = 3

// defaultStatementLimit is used when the caller does not cap the statement.
const defaultStatementLimit = 10

// AccountRepo provides the account reads needed for precondition checks.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type AccountRepo interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
}

// LogRepo provides the transaction log reads.
type LogRepo interface {
	ListStatement(ctx context.Context, accountID int64, limit int32) ([]domain.StatementLine, error)
}

// TxRepo provides the atomic units behind every ledger mutation.
type TxRepo interface {
	DepositTx(ctx context.Context, accountID int64, amount string) (domain.Account, domain.Transaction, error)
	TransferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
	DeactivateTx(ctx context.Context, accountID int64) error
}

// Service is the ledger engine.
type Service struct {
	accounts    AccountRepo
	log         LogRepo
	tx          TxRepo
	maxTransfer decimal.Decimal
}

// New returns the ledger engine with the given transfer ceiling.
func New(ar AccountRepo, lr LogRepo, tr TxRepo, maxTransfer string) (*Service, error) {
	ceiling, err := moneypkg.Parse(maxTransfer)
	if err != nil {
		return nil, err
	}

	return &Service{
		accounts:    ar,
		log:         lr,
		tx:          tr,
		maxTransfer: ceiling,
	}, nil
}

// Deposit credits the active account and returns its new balance together
// with the recorded transaction.
func (s *Service) Deposit(ctx context.Context, accountID int64, amount string) (string, domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := moneypkg.Parse(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return "", domain.Transaction{}, domain.ErrInvalidAmount
	}

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return "", domain.Transaction{}, err
	}

	if !account.IsActive {
		return "", domain.Transaction{}, domain.ErrAccountInactive
	}

	account, txn, err := s.tx.DepositTx(ctx, accountID, moneypkg.Format(amountDecimal))
	if err != nil {
		return "", domain.Transaction{}, err
	}

	return account.Balance, txn, nil
}

// Transfer moves amount from the source account to the account registered
// under destEmail and returns the transfer result with both new balances.
//
// Preconditions are checked in a fixed order and the first failure wins;
// validation never leaves partial state behind. The atomic unit re-checks
// everything under row locks, so a racing transfer cannot drive the source
// balance negative; units aborted on write conflicts are retried up to
// maxTxAttempts before ErrContention surfaces.
func (s *Service) Transfer(ctx context.Context, fromAccountID int64, destEmail, amount, description string) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	amountDecimal, err := moneypkg.Parse(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return result, domain.ErrInvalidAmount
	}

	if amountDecimal.GreaterThan(s.maxTransfer) {
		return result, domain.ErrAmountExceedsLimit
	}

	fromAccount, err := s.accounts.Get(ctx, fromAccountID)
	if err != nil {
		return result, err
	}

	if !fromAccount.IsActive {
		return result, domain.ErrAccountInactive
	}

	fromBalance, err := decimal.NewFromString(fromAccount.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	if fromBalance.LessThan(amountDecimal) {
		return result, domain.ErrInsufficientFunds
	}

	toAccount, err := s.accounts.FindByEmail(ctx, destEmail)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return result, domain.ErrDestinationNotFound
		}

		return result, err
	}

	if !toAccount.IsActive {
		return result, domain.ErrDestinationNotFound
	}

	if toAccount.ID == fromAccountID {
		return result, domain.ErrSelfTransferForbidden
	}

	arg := domain.CreateTransferParams{
		FromAccountID: fromAccountID,
		ToAccountID:   toAccount.ID,
		Amount:        moneypkg.Format(amountDecimal),
		Description:   description,
	}

	for attempt := 1; ; attempt++ {
		result, err = s.tx.TransferTx(ctx, arg)
		if err != domain.ErrWriteConflict {
			return result, err
		}

		if attempt == maxTxAttempts {
			l.Warn().Int("attempts", attempt).Msg("transfer aborted on write conflicts")
			return domain.TransferTxResult{}, domain.ErrContention
		}

		l.Info().Int("attempt", attempt).Msg("transfer write conflict, retrying")
	}
}

// Deactivate closes the account permanently. Its transactions stay queryable.
func (s *Service) Deactivate(ctx context.Context, accountID int64) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}

	if !account.IsActive {
		return domain.ErrAlreadyInactive
	}

	return s.tx.DeactivateTx(ctx, accountID)
}

// Balance returns the authoritative balance of the account.
func (s *Service) Balance(ctx context.Context, accountID int64) (string, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return "", err
	}

	return account.Balance, nil
}

// Statement returns up to limit of the account's newest transactions as
// statement lines. A non-positive limit falls back to the default.
func (s *Service) Statement(ctx context.Context, accountID int64, limit int32) ([]domain.StatementLine, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultStatementLimit
	}

	return s.log.ListStatement(ctx, accountID, limit)
}
