// Package accountservice manages business logic layer of account registration and login.
package accountservice

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/pkg/errorspkg"
	"github.com/pvbarbosa/banco/pkg/passpkg"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
}

// RegisterInput is the untrusted registration input.
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Service facilitates account service layer logic.
type Service struct {
	repo     Repo
	validate *validator.Validate
}

// New returns account service struct to manage registration and login.
func New(ar Repo) *Service {
	return &Service{
		repo:     ar,
		validate: validator.New(),
	}
}

// NewAccountSummary returns account data with credential material removed.
func NewAccountSummary(a domain.Account) domain.AccountSummary {
	return domain.AccountSummary{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
	}
}

// Register creates an account with a zero balance and returns its summary.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.AccountSummary, error) {
	l := zerolog.Ctx(ctx)

	var result domain.AccountSummary

	if err := s.validate.Struct(input); err != nil {
		l.Info().Err(err).Send()
		return result, domain.ErrInvalidAccountData
	}

	hashedPassword, err := passpkg.Hash(input.Password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateAccountParams{
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: hashedPassword,
	}

	account, err := s.repo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	return NewAccountSummary(account), nil
}

// Authenticate verifies the credentials and returns the matching account.
//
// A missing email and a wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return domain.Account{}, domain.ErrInvalidCredentials
		}

		return domain.Account{}, err
	}

	if !account.IsActive {
		return domain.Account{}, domain.ErrAccountInactive
	}

	if err := passpkg.Check(password, account.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return domain.Account{}, domain.ErrInvalidCredentials
	}

	return account, nil
}
