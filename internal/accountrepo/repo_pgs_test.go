package accountrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pvbarbosa/banco/internal/domain"
	"github.com/pvbarbosa/banco/pkg/configpkg"
	"github.com/pvbarbosa/banco/pkg/dbpkg"
	"github.com/pvbarbosa/banco/pkg/passpkg"
	"github.com/pvbarbosa/banco/pkg/randompkg"

	_ "github.com/lib/pq"
)

var (
	testRepo   *RepoPGS
	testConfig configpkg.Config
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testConfig = config

	testDB, err := sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db:", err)
	}

	testRepo = NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func createRandomAccount(t *testing.T) domain.Account {
	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	require.NoError(t, err)

	arg := domain.CreateAccountParams{
		Name:           randompkg.Name(),
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
	}

	account, err := testRepo.Create(context.Background(), arg)
	require.NoError(t, err)
	require.NotEmpty(t, account)

	require.Equal(t, arg.Name, account.Name)
	require.Equal(t, arg.Email, account.Email)
	require.Equal(t, arg.HashedPassword, account.HashedPassword)
	require.Equal(t, "0.00", account.Balance)
	require.True(t, account.IsActive)

	require.NotZero(t, account.ID)
	require.NotZero(t, account.CreatedAt)

	return account
}

func TestCreate(t *testing.T) {
	createRandomAccount(t)
}

func TestCreateRollsBackWithTransaction(t *testing.T) {
	tx := dbpkg.SetupTX(t, testConfig.DBDriver, testConfig.DBSource)
	repo := NewRepoPGS(tx)

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	require.NoError(t, err)

	arg := domain.CreateAccountParams{
		Name:           randompkg.Name(),
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
	}

	account, err := repo.Create(context.Background(), arg)
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, account, got)
}

func TestCreateDuplicateEmail(t *testing.T) {
	account := createRandomAccount(t)

	arg := domain.CreateAccountParams{
		Name:           randompkg.Name(),
		Email:          account.Email,
		HashedPassword: account.HashedPassword,
	}

	_, err := testRepo.Create(context.Background(), arg)
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// The first registration stays intact.
	got, err := testRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, account.Name, got.Name)
}

func TestGet(t *testing.T) {
	account := createRandomAccount(t)

	got, err := testRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, account, got)
}

func TestGetNotFound(t *testing.T) {
	_, err := testRepo.Get(context.Background(), -1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestFindByEmail(t *testing.T) {
	account := createRandomAccount(t)

	got, err := testRepo.FindByEmail(context.Background(), account.Email)
	require.NoError(t, err)
	require.Equal(t, account, got)

	_, err = testRepo.FindByEmail(context.Background(), "missing-"+account.Email)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAddBalance(t *testing.T) {
	account := createRandomAccount(t)

	got, err := testRepo.AddBalance(context.Background(), "100.00", account.ID)
	require.NoError(t, err)
	require.Equal(t, "100.00", got.Balance)

	got, err = testRepo.AddBalance(context.Background(), "-40.00", account.ID)
	require.NoError(t, err)
	require.Equal(t, "60.00", got.Balance)
}

func TestAddBalanceBelowZero(t *testing.T) {
	account := createRandomAccount(t)

	_, err := testRepo.AddBalance(context.Background(), "-1.00", account.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	got, err := testRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, "0.00", got.Balance)
}

func TestAddBalanceNotFound(t *testing.T) {
	_, err := testRepo.AddBalance(context.Background(), "100.00", -1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestDeactivate(t *testing.T) {
	account := createRandomAccount(t)

	err := testRepo.Deactivate(context.Background(), account.ID)
	require.NoError(t, err)

	got, err := testRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	// Idempotent.
	err = testRepo.Deactivate(context.Background(), account.ID)
	require.NoError(t, err)
}

func TestDeactivateNotFound(t *testing.T) {
	err := testRepo.Deactivate(context.Background(), -1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
