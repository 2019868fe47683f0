package cli

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	kafkaevents "github.com/pcosta/bankledger/internal/adapter/events/kafka"
	"github.com/pcosta/bankledger/internal/adapter/repository/jsonfile"
	"github.com/pcosta/bankledger/internal/adapter/repository/postgres"
	"github.com/pcosta/bankledger/internal/config"
	"github.com/pcosta/bankledger/internal/domain"
	"github.com/pcosta/bankledger/internal/usecase/ledger"
)

var rootCmd = &cobra.Command{
	Use:          "bankledger",
	Short:        "Track named accounts, transfers and transaction history",
	Long:         "bankledger is a small account ledger: it tracks named accounts with exact decimal balances, applies deposits, withdrawals and transfers, and persists everything to a flat file or database.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		menu := NewMenu(svc, store, os.Stdin, os.Stdout)
		return menu.Run(cmd.Context())
	},
}

// Execute runs the command tree. The interactive menu is the default
// command; "balances" and "history" report without entering the menu.
func Execute() {
	rootCmd.AddCommand(balancesCmd, historyCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// setup wires the configured store and optional event publisher, builds the
// ledger and loads any previously saved state into it.
func setup(ctx context.Context) (*ledger.Service, domain.LedgerStore, func(), error) {
	cfg := config.Load()

	var store domain.LedgerStore
	cleanup := func() {}

	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			return nil, nil, nil, err
		}
		pgStore, err := postgres.NewStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		store = pgStore
		cleanup = func() { db.Close() }
	default:
		store = jsonfile.NewStore(cfg.LedgerFile)
	}

	var events domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		pub := kafkaevents.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		events = pub
		closeStore := cleanup
		cleanup = func() {
			if err := pub.Close(); err != nil {
				log.Printf("close event publisher: %v", err)
			}
			closeStore()
		}
	}

	svc := ledger.NewService(events)
	if err := svc.LoadFrom(ctx, store); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return svc, store, cleanup, nil
}
