package cli

import (
	"errors"

	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/pkg/errorspkg"
)

// Message renders an error kind as a one-line user message.
func Message(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Error: the amount must be greater than zero."
	case errors.Is(err, domain.ErrAmountExceedsLimit):
		return "Error: the amount exceeds the transfer limit."
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Error: insufficient funds."
	case errors.Is(err, domain.ErrDestinationNotFound):
		return "Error: the destination account does not exist."
	case errors.Is(err, domain.ErrSelfTransferForbidden):
		return "Error: you cannot transfer to your own account."
	case errors.Is(err, domain.ErrAccountInactive):
		return "Error: this account is inactive."
	case errors.Is(err, domain.ErrAlreadyInactive):
		return "Error: this account is already inactive."
	case errors.Is(err, domain.ErrAccountNotFound):
		return "Error: account not found."
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return "Error: this email is already registered."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Error: invalid email or password."
	case errors.Is(err, domain.ErrInvalidAccountData):
		return "Error: name, a valid email and a password of at least 6 characters are required."
	case errors.Is(err, domain.ErrConfirmationMismatch):
		return "Error: confirmation does not match your email."
	case errors.Is(err, domain.ErrContention):
		return "Error: the ledger is busy, please try again."
	case errors.Is(err, domain.ErrSessionClosed):
		return "Error: your session has ended, please log in again."
	case errors.Is(err, errorspkg.ErrStorageUnavailable):
		return "Error: the bank is temporarily unavailable, please try again later."
	default:
		return "Error: something went wrong, please try again later."
	}
}
