// Package cli implements the interactive menu boundary.
//
// It owns input parsing and message rendering only; every ledger rule lives
// behind the session and account services, so a failed command prints one
// line and leaves the session untouched.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pvbarbosa/banco/internal/accountservice"
	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/internal/sessionservice"
)

// CLI drives the interactive menu loop.
type CLI struct {
	accounts *accountservice.Service
	sessions *sessionservice.Service
	in       *bufio.Scanner
	out      io.Writer
}

// New returns a CLI reading commands from in and printing to out.
func New(accounts *accountservice.Service, sessions *sessionservice.Service, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		accounts: accounts,
		sessions: sessions,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run executes the menu loop until the user quits or input ends.
func (c *CLI) Run(ctx context.Context) error {
	for {
		c.printf("\n1. Register\n2. Login\n3. Quit\n")

		choice, ok := c.prompt("Choose an option: ")
		if !ok {
			return c.in.Err()
		}

		switch choice {
		case "1":
			c.register(ctx)
		case "2":
			c.login(ctx)
		case "3":
			return nil
		default:
			c.printf("Invalid option.\n")
		}
	}
}

func (c *CLI) register(ctx context.Context) {
	name, ok := c.prompt("Name: ")
	if !ok {
		return
	}

	email, ok := c.prompt("Email: ")
	if !ok {
		return
	}

	password, ok := c.prompt("Password: ")
	if !ok {
		return
	}

	input := accountservice.RegisterInput{Name: name, Email: email, Password: password}

	if _, err := c.accounts.Register(ctx, input); err != nil {
		c.printf("%s\n", Message(err))
		return
	}

	c.printf("Account registered successfully.\n")
}

func (c *CLI) login(ctx context.Context) {
	email, ok := c.prompt("Email: ")
	if !ok {
		return
	}

	password, ok := c.prompt("Password: ")
	if !ok {
		return
	}

	account, err := c.accounts.Authenticate(ctx, email, password)
	if err != nil {
		c.printf("%s\n", Message(err))
		return
	}

	sess := c.sessions.Open(account)
	ctx = sessionservice.WithSession(ctx, sess)

	zerolog.Ctx(ctx).Info().Int64("account_id", sess.AccountID).Msg("session opened")

	c.printf("Welcome, %s! Your balance is: $%s\n", sess.Name, sess.Balance)
	c.sessionLoop(ctx, sess)
}

func (c *CLI) sessionLoop(ctx context.Context, sess *domain.Session) {
	for {
		c.printf("\n1. Transfer\n2. Deposit\n3. Balance\n4. Statement\n5. Deactivate account\n6. Logout\n")

		choice, ok := c.prompt("Choose an option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			c.transfer(ctx, sess)
		case "2":
			c.deposit(ctx, sess)
		case "3":
			c.balance(ctx, sess)
		case "4":
			c.statement(ctx, sess)
		case "5":
			if c.deactivate(ctx, sess) {
				return
			}
		case "6":
			c.sessions.Close(sess)
			return
		default:
			c.printf("Invalid option.\n")
		}
	}
}

func (c *CLI) transfer(ctx context.Context, sess *domain.Session) {
	email, ok := c.prompt("Destination email: ")
	if !ok {
		return
	}

	amount, ok := c.prompt("Amount: ")
	if !ok {
		return
	}

	description, ok := c.prompt("Description (optional): ")
	if !ok {
		return
	}

	balance, err := c.sessions.Transfer(ctx, sess, email, amount, description)
	if err != nil {
		c.printf("%s\n", Message(err))
		return
	}

	c.printf("Transfer completed. Your balance is: $%s\n", balance)
}

func (c *CLI) deposit(ctx context.Context, sess *domain.Session) {
	amount, ok := c.prompt("Amount to deposit: ")
	if !ok {
		return
	}

	balance, err := c.sessions.Deposit(ctx, sess, amount)
	if err != nil {
		c.printf("%s\n", Message(err))
		return
	}

	c.printf("Deposit completed. Your balance is: $%s\n", balance)
}

func (c *CLI) balance(ctx context.Context, sess *domain.Session) {
	balance, err := c.sessions.Balance(ctx, sess)
	if err != nil {
		c.printf("%s\n", Message(err))
		return
	}

	c.printf("Your current balance is: $%s\n", balance)
}

func (c *CLI) statement(ctx context.Context, sess *domain.Session) {
	lines, err := c.sessions.Statement(ctx, sess, 0)
	if err != nil {
		c.printf("%s\n", Message(err))
		return
	}

	if len(lines) == 0 {
		c.printf("No transactions found.\n")
		return
	}

	c.printf("\nStatement:\n")

	for _, line := range lines {
		c.printf("%s\n", FormatStatementLine(line))
	}
}

// deactivate reports whether the session ended.
func (c *CLI) deactivate(ctx context.Context, sess *domain.Session) bool {
	c.printf("Deactivation is permanent. Type your email to confirm.\n")

	confirmation, ok := c.prompt("Confirm: ")
	if !ok {
		return false
	}

	if err := c.sessions.DeactivateAccount(ctx, sess, confirmation); err != nil {
		c.printf("%s\n", Message(err))
		return false
	}

	c.printf("Your account has been deactivated.\n")

	return true
}

func (c *CLI) prompt(label string) (string, bool) {
	c.printf("%s", label)

	if !c.in.Scan() {
		return "", false
	}

	return strings.TrimSpace(c.in.Text()), true
}

func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// FormatStatementLine renders one statement row.
func FormatStatementLine(line domain.StatementLine) string {
	return fmt.Sprintf("%s  %-8s  %-20s  $%s  %s",
		line.CreatedAt.Format("2006-01-02 15:04"),
		line.Direction,
		line.Counterparty,
		line.Amount,
		line.Description,
	)
}
