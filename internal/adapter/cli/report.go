package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcosta/bankledger/internal/domain"
)

// Non-interactive reporting commands over the same store the menu uses.

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Print every account and its balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		accounts := svc.Accounts()
		if len(accounts) == 0 {
			fmt.Println("No clients.")
			return nil
		}
		for _, account := range accounts {
			fmt.Printf("%s: %s\n", account.Name(), account.Balance())
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the full transaction history in append order",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		records := svc.Transactions()
		if len(records) == 0 {
			fmt.Println("No transactions yet.")
			return nil
		}
		for _, rec := range records {
			ts := rec.Timestamp.Format(timestampFormat)
			if rec.Kind == domain.KindTransfer {
				fmt.Printf("[%s] %-8s %10s  %s -> %s\n", ts, rec.Kind, rec.Amount, rec.From, rec.To)
				continue
			}
			fmt.Printf("[%s] %-8s %10s  %s\n", ts, rec.Kind, rec.Amount, rec.From)
		}
		return nil
	},
}
