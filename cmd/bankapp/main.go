package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mhdfaisal7/account-ledger-system/internal/config"
	"github.com/mhdfaisal7/account-ledger-system/internal/credentials"
	"github.com/mhdfaisal7/account-ledger-system/internal/events/kafka"
	"github.com/mhdfaisal7/account-ledger-system/internal/interfaces"
	"github.com/mhdfaisal7/account-ledger-system/internal/ledger"
	"github.com/mhdfaisal7/account-ledger-system/internal/storage/memory"
	"github.com/mhdfaisal7/account-ledger-system/internal/storage/postgres"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg)
	ctx := context.Background()

	var repo interfaces.AccountRepository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Fatal("opening database")
		}
		defer db.Close()

		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			logger.WithError(err).Fatal("creating accounts table")
		}
		repo = store
		logger.Info("using postgres repository")
	} else {
		repo = memory.NewStore()
		logger.Info("using in-memory repository")
	}

	var pub interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		pub = kp
	}

	svc := ledger.NewService(repo, credentials.NewStore(), pub, logger)

	app := &app{
		svc: svc,
		in:  bufio.NewScanner(os.Stdin),
		ctx: ctx,
	}
	app.loginScreen()
}

// app is the interactive terminal front end. It consumes only the public
// ledger operations and translates typed errors into user messages.
type app struct {
	svc *ledger.Service
	in  *bufio.Scanner
	ctx context.Context
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *app) promptAmount(label string) (decimal.Decimal, bool) {
	raw, ok := a.prompt(label)
	if !ok {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Println("Invalid amount.")
		return decimal.Zero, false
	}
	return amount, true
}

func (a *app) loginScreen() {
	for {
		fmt.Println()
		fmt.Println("=== Bank Application ===")
		fmt.Println("1) Login")
		fmt.Println("2) Create account")
		fmt.Println("3) Quit")

		choice, ok := a.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			a.login()
		case "2":
			a.createAccount()
		case "3", "q":
			return
		}
	}
}

func (a *app) login() {
	username, ok := a.prompt("Username: ")
	if !ok {
		return
	}
	secret, ok := a.prompt("Password: ")
	if !ok {
		return
	}

	handle, err := a.svc.Authenticate(a.ctx, username, secret)
	if err != nil {
		fmt.Println(message(err))
		return
	}
	a.accountScreen(handle)
}

func (a *app) createAccount() {
	username, ok := a.prompt("Username: ")
	if !ok {
		return
	}
	secret, ok := a.prompt("Password: ")
	if !ok {
		return
	}

	if err := a.svc.CreateAccount(a.ctx, username, secret); err != nil {
		fmt.Println(message(err))
		return
	}
	fmt.Println("Account successfully created!")
}

func (a *app) accountScreen(handle *ledger.AccountHandle) {
	for {
		balance, err := a.svc.GetBalance(a.ctx, handle.Username)
		if err != nil {
			fmt.Println(message(err))
			return
		}

		fmt.Println()
		fmt.Printf("Welcome, %s! Balance: %s\n", handle.Username, balance.StringFixed(2))
		fmt.Println("1) Deposit")
		fmt.Println("2) Withdraw")
		fmt.Println("3) Transfer")
		fmt.Println("4) Logout")

		choice, ok := a.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			if amount, ok := a.promptAmount("Amount to deposit: "); ok {
				if newBalance, err := a.svc.Deposit(a.ctx, handle.Username, amount); err != nil {
					fmt.Println(message(err))
				} else {
					fmt.Printf("Deposited %s. New balance: %s\n", amount.StringFixed(2), newBalance.StringFixed(2))
				}
			}
		case "2":
			if amount, ok := a.promptAmount("Amount to withdraw: "); ok {
				if newBalance, err := a.svc.Withdraw(a.ctx, handle.Username, amount); err != nil {
					fmt.Println(message(err))
				} else {
					fmt.Printf("Withdrew %s. New balance: %s\n", amount.StringFixed(2), newBalance.StringFixed(2))
				}
			}
		case "3":
			receiver, ok := a.prompt("Recipient username: ")
			if !ok {
				return
			}
			if amount, ok := a.promptAmount("Amount to transfer: "); ok {
				if newBalance, _, err := a.svc.Transfer(a.ctx, handle.Username, receiver, amount); err != nil {
					fmt.Println(message(err))
				} else {
					fmt.Printf("Transferred %s to %s. New balance: %s\n", amount.StringFixed(2), receiver, newBalance.StringFixed(2))
				}
			}
		case "4":
			return
		}
	}
}

// message maps ledger errors to user-facing text; the core never formats UI
// strings itself.
func message(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ledger.ErrSameAccount):
		// Before ErrInvalidInput: ErrSameAccount wraps it.
		return "Recipient must be a different account."
	case errors.Is(err, ledger.ErrInvalidInput):
		return "Please provide a valid username and password."
	case errors.Is(err, ledger.ErrDuplicateUsername):
		return "That username is already taken."
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "Invalid amount."
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "Insufficient balance."
	case errors.Is(err, ledger.ErrNotFound):
		return "No such account."
	default:
		return "Something went wrong: " + err.Error()
	}
}
