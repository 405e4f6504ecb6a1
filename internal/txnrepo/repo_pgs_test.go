package txnrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pvbarbosa/banco/internal/accountrepo"
	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/pkg/configpkg"
	"github.com/pvbarbosa/banco/pkg/passpkg"
	"github.com/pvbarbosa/banco/pkg/randompkg"

	_ "github.com/lib/pq"
)

var (
	testRepo        *RepoPGS
	testAccountRepo *accountrepo.RepoPGS
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testDB, err := sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db:", err)
	}

	testRepo = NewRepoPGS(testDB)
	testAccountRepo = accountrepo.NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func createRandomAccount(t *testing.T) domain.Account {
	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	require.NoError(t, err)

	account, err := testAccountRepo.Create(context.Background(), domain.CreateAccountParams{
		Name:           randompkg.Name(),
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, account)

	return account
}

func createRandomTransaction(t *testing.T, from, to domain.Account, amount string) domain.Transaction {
	txn, err := testRepo.Create(context.Background(), domain.CreateTransferParams{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        amount,
		Description:   randompkg.String(12),
	})
	require.NoError(t, err)
	require.NotEmpty(t, txn)

	require.Equal(t, from.ID, txn.FromAccountID)
	require.Equal(t, to.ID, txn.ToAccountID)
	require.Equal(t, amount, txn.Amount)
	require.NotZero(t, txn.ID)
	require.NotZero(t, txn.CreatedAt)

	return txn
}

func TestCreate(t *testing.T) {
	from := createRandomAccount(t)
	to := createRandomAccount(t)

	createRandomTransaction(t, from, to, "30.00")
}

func TestCreateConstraintViolations(t *testing.T) {
	account := createRandomAccount(t)

	testCases := []struct {
		name    string
		arg     domain.CreateTransferParams
		wantErr error
	}{
		{
			name: "MissingDestination",
			arg: domain.CreateTransferParams{
				FromAccountID: account.ID,
				ToAccountID:   -1,
				Amount:        "30.00",
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "MissingSource",
			arg: domain.CreateTransferParams{
				FromAccountID: -1,
				ToAccountID:   account.ID,
				Amount:        "30.00",
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "NonPositiveAmount",
			arg: domain.CreateTransferParams{
				FromAccountID: account.ID,
				ToAccountID:   account.ID,
				Amount:        "0.00",
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testRepo.Create(context.Background(), tc.arg)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestGet(t *testing.T) {
	from := createRandomAccount(t)
	to := createRandomAccount(t)

	txn := createRandomTransaction(t, from, to, "30.00")

	got, err := testRepo.Get(context.Background(), txn.ID)
	require.NoError(t, err)
	require.Equal(t, txn, got)

	_, err = testRepo.Get(context.Background(), -1)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestListForAccount(t *testing.T) {
	from := createRandomAccount(t)
	to := createRandomAccount(t)
	other := createRandomAccount(t)

	first := createRandomTransaction(t, from, to, "10.00")
	second := createRandomTransaction(t, to, from, "20.00")
	createRandomTransaction(t, other, to, "99.00")

	items, err := testRepo.ListForAccount(context.Background(), from.ID, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Newest first.
	require.Equal(t, second.ID, items[0].ID)
	require.Equal(t, first.ID, items[1].ID)

	items, err = testRepo.ListForAccount(context.Background(), from.ID, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, second.ID, items[0].ID)
}

func TestListStatement(t *testing.T) {
	from := createRandomAccount(t)
	to := createRandomAccount(t)

	deposit, err := testRepo.Create(context.Background(), domain.CreateTransferParams{
		FromAccountID: from.ID,
		ToAccountID:   from.ID,
		Amount:        "50.00",
		Description:   domain.DepositDescription,
	})
	require.NoError(t, err)

	sent := createRandomTransaction(t, from, to, "30.00")

	lines, err := testRepo.ListStatement(context.Background(), from.ID, 10)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	require.Equal(t, sent.ID, lines[0].TransactionID)
	require.Equal(t, domain.DirectionSent, lines[0].Direction)
	require.Equal(t, to.Name, lines[0].Counterparty)
	require.Equal(t, "30.00", lines[0].Amount)

	require.Equal(t, deposit.ID, lines[1].TransactionID)
	require.Equal(t, domain.DirectionReceived, lines[1].Direction)
	require.Equal(t, from.Name, lines[1].Counterparty)
	require.Equal(t, "50.00", lines[1].Amount)

	// The peer sees the same transfer as received.
	lines, err = testRepo.ListStatement(context.Background(), to.ID, 10)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, domain.DirectionReceived, lines[0].Direction)
	require.Equal(t, from.Name, lines[0].Counterparty)
}

func TestListStatementKeepsDeactivatedCounterparty(t *testing.T) {
	from := createRandomAccount(t)
	to := createRandomAccount(t)

	createRandomTransaction(t, from, to, "30.00")

	require.NoError(t, testAccountRepo.Deactivate(context.Background(), from.ID))

	lines, err := testRepo.ListStatement(context.Background(), to.ID, 10)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, from.Name, lines[0].Counterparty)
}
