// Package sessionservice manages the session context of one authenticated login.
//
// A session caches the account snapshot the boundary renders between calls.
// The cache is advanced only after the ledger confirms a commit; on any
// failure it is left untouched and the next Balance call refreshes it. The
// authoritative state always lives in the store.
package sessionservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pvbarbosa/banco/internal/domain"
)

// Engine provides the ledger operations a session delegates to.
//
//go:generate mockgen -source service.go -destination service_mock.go -package sessionservice
type Engine interface {
	Deposit(ctx context.Context, accountID int64, amount string) (string, domain.Transaction, error)
	Transfer(ctx context.Context, fromAccountID int64, destEmail, amount, description string) (domain.TransferTxResult, error)
	Deactivate(ctx context.Context, accountID int64) error
	Balance(ctx context.Context, accountID int64) (string, error)
	Statement(ctx context.Context, accountID int64, limit int32) ([]domain.StatementLine, error)
}

// Service facilitates session context logic.
type Service struct {
	engine         Engine
	statementLimit int32
}

// New returns session service struct delegating to the given ledger engine.
func New(engine Engine, statementLimit int32) *Service {
	return &Service{
		engine:         engine,
		statementLimit: statementLimit,
	}
}

// Open starts a session for the authenticated account.
func (s *Service) Open(account domain.Account) *domain.Session {
	return &domain.Session{
		ID:        uuid.New(),
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Balance:   account.Balance,
		CreatedAt: time.Now(),
	}
}

// Close invalidates the session. Any further call through it fails with
// ErrSessionClosed.
func (s *Service) Close(sess *domain.Session) {
	*sess = domain.Session{}
}

// WithSession returns ctx whose logger is tagged with the session id.
func WithSession(ctx context.Context, sess *domain.Session) context.Context {
	l := zerolog.Ctx(ctx).With().Str("session_id", sess.ID.String()).Logger()
	return l.WithContext(ctx)
}

// Deposit credits the session's account and advances the cached balance.
func (s *Service) Deposit(ctx context.Context, sess *domain.Session, amount string) (string, error) {
	if err := open(sess); err != nil {
		return "", err
	}

	balance, _, err := s.engine.Deposit(ctx, sess.AccountID, amount)
	if err != nil {
		return "", err
	}

	sess.Balance = balance

	return balance, nil
}

// Transfer moves value to the account registered under destEmail and
// advances the cached balance. Returns the new source balance.
func (s *Service) Transfer(ctx context.Context, sess *domain.Session, destEmail, amount, description string) (string, error) {
	if err := open(sess); err != nil {
		return "", err
	}

	result, err := s.engine.Transfer(ctx, sess.AccountID, destEmail, amount, description)
	if err != nil {
		return "", err
	}

	sess.Balance = result.FromAccount.Balance

	return sess.Balance, nil
}

// Balance returns the authoritative balance and refreshes the cache.
func (s *Service) Balance(ctx context.Context, sess *domain.Session) (string, error) {
	if err := open(sess); err != nil {
		return "", err
	}

	balance, err := s.engine.Balance(ctx, sess.AccountID)
	if err != nil {
		return "", err
	}

	sess.Balance = balance

	return balance, nil
}

// Statement returns the account's newest statement lines.
func (s *Service) Statement(ctx context.Context, sess *domain.Session, limit int32) ([]domain.StatementLine, error) {
	if err := open(sess); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.statementLimit
	}

	return s.engine.Statement(ctx, sess.AccountID, limit)
}

// DeactivateAccount permanently closes the session's account. The caller
// must confirm by echoing the account email; on success the session is
// invalidated.
func (s *Service) DeactivateAccount(ctx context.Context, sess *domain.Session, confirmation string) error {
	if err := open(sess); err != nil {
		return err
	}

	if confirmation != sess.Email {
		return domain.ErrConfirmationMismatch
	}

	if err := s.engine.Deactivate(ctx, sess.AccountID); err != nil {
		return err
	}

	s.Close(sess)

	return nil
}

func open(sess *domain.Session) error {
	if sess == nil || sess.AccountID == 0 {
		return domain.ErrSessionClosed
	}

	return nil
}
