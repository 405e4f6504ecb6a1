package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/pvbarbosa/banco/internal/accountrepo"
	"github.com/pvbarbosa/banco/internal/accountservice"
	"github.com/pvbarbosa/banco/internal/cli"
	"github.com/pvbarbosa/banco/internal/ledgerrepo"
	"github.com/pvbarbosa/banco/internal/ledgerservice"
	"github.com/pvbarbosa/banco/internal/sessionservice"
	"github.com/pvbarbosa/banco/internal/txnrepo"
	"github.com/pvbarbosa/banco/pkg/configpkg"
	"github.com/pvbarbosa/banco/pkg/dbpkg"
	"github.com/pvbarbosa/banco/pkg/logpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := logpkg.New(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	accountRepo := accountrepo.NewRepoPGS(conn)
	txnRepo := txnrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)

	ledger, err := ledgerservice.New(accountRepo, txnRepo, ledgerRepo, config.MaxTransfer)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create ledger engine")
	}

	accountService := accountservice.New(accountRepo)
	sessionService := sessionservice.New(ledger, config.StatementLimit)

	app := cli.New(accountService, sessionService, os.Stdin, os.Stdout)

	ctx := logger.WithContext(context.Background())

	if err := app.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("input error")
	}
}
