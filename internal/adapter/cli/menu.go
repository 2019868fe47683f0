package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pcosta/bankledger/internal/domain"
	"github.com/pcosta/bankledger/internal/usecase/ledger"
)

const timestampFormat = "2006-01-02 15:04:05"

// Menu is the interactive session loop. Every ledger error is printed as a
// message and the loop continues; an operation failure never terminates the
// process.
type Menu struct {
	svc   *ledger.Service
	store domain.LedgerStore
	in    *bufio.Reader
	out   io.Writer
}

// NewMenu builds a menu reading choices from in and writing to out.
func NewMenu(svc *ledger.Service, store domain.LedgerStore, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc:   svc,
		store: store,
		in:    bufio.NewReader(in),
		out:   out,
	}
}

// Run drives the session until the user saves and exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, "\n=== Bank menu ===\n"+
			"1. Add client\n"+
			"2. List clients\n"+
			"3. Find client\n"+
			"4. Deposit\n"+
			"5. Withdraw\n"+
			"6. Transfer\n"+
			"7. Transaction history\n"+
			"8. Save and exit\n")

		choice, err := m.prompt("Select an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		done, err := m.dispatch(ctx, choice)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			fmt.Fprintln(m.out, "Error:", err)
			continue
		}
		if done {
			return nil
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice string) (done bool, err error) {
	switch choice {
	case "1":
		name, err := m.prompt("Client name: ")
		if err != nil {
			return false, err
		}
		initial, err := m.prompt("Initial deposit: ")
		if err != nil {
			return false, err
		}
		account, err := m.svc.Open(name, initial)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(m.out, "Account created for %s. Balance: %s\n", account.Name(), account.Balance())

	case "2":
		accounts := m.svc.Accounts()
		if len(accounts) == 0 {
			fmt.Fprintln(m.out, "No clients.")
			return false, nil
		}
		for _, account := range accounts {
			fmt.Fprintf(m.out, "%s: %s\n", account.Name(), account.Balance())
		}

	case "3":
		name, err := m.prompt("Client name to find: ")
		if err != nil {
			return false, err
		}
		account, err := m.svc.GetAccount(name)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(m.out, "Found: %s. Balance: %s\n", account.Name(), account.Balance())

	case "4":
		name, err := m.prompt("Client name: ")
		if err != nil {
			return false, err
		}
		amount, err := m.prompt("Deposit amount: ")
		if err != nil {
			return false, err
		}
		if err := m.svc.Deposit(name, amount); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, "Deposit complete.")

	case "5":
		name, err := m.prompt("Client name: ")
		if err != nil {
			return false, err
		}
		amount, err := m.prompt("Withdrawal amount: ")
		if err != nil {
			return false, err
		}
		if err := m.svc.Withdraw(name, amount); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, "Withdrawal complete.")

	case "6":
		from, err := m.prompt("Sender: ")
		if err != nil {
			return false, err
		}
		to, err := m.prompt("Recipient: ")
		if err != nil {
			return false, err
		}
		amount, err := m.prompt("Transfer amount: ")
		if err != nil {
			return false, err
		}
		if err := m.svc.Transfer(from, to, amount); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, "Transfer complete.")

	case "7":
		m.printHistory()

	case "8":
		if err := m.svc.SaveTo(ctx, m.store); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, "Data saved. Bye.")
		return true, nil

	default:
		fmt.Fprintln(m.out, "Unknown option, try again.")
	}
	return false, nil
}

func (m *Menu) printHistory() {
	records := m.svc.Transactions()
	if len(records) == 0 {
		fmt.Fprintln(m.out, "No transactions yet.")
		return
	}
	for _, rec := range records {
		ts := rec.Timestamp.Format(timestampFormat)
		switch rec.Kind {
		case domain.KindDeposit:
			fmt.Fprintf(m.out, "[%s] %s deposited %s\n", ts, rec.From, rec.Amount)
		case domain.KindWithdraw:
			fmt.Fprintf(m.out, "[%s] %s withdrew %s\n", ts, rec.From, rec.Amount)
		case domain.KindTransfer:
			fmt.Fprintf(m.out, "[%s] %s transferred %s -> %s\n", ts, rec.From, rec.Amount, rec.To)
		default:
			fmt.Fprintf(m.out, "[%s] %s %s (%s -> %s)\n", ts, rec.Kind, rec.Amount, rec.From, rec.To)
		}
	}
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
