package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"raffledapp/internal/contract"
	"raffledapp/internal/ledger"
	"raffledapp/internal/logger"
	"raffledapp/internal/scheduler"
	"raffledapp/internal/storage"
)

const defaultContractAccount = "raffledapp.node"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, relying on the environment")
		}

		logger.Initialize(logger.Configuration{
			LogFile:   os.Getenv("LOG_FILE"),
			ErrorFile: os.Getenv("ERROR_FILE"),
			Level:     os.Getenv("LOG_LEVEL"),
			Console:   true,
		})

		contractAccount := ledger.AccountID(os.Getenv("CONTRACT_ACCOUNT"))
		if contractAccount == "" {
			contractAccount = defaultContractAccount
		}

		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			dbPath = "persistent.db"
		}

		store := storage.NewSqliteStorage(dbPath)
		host := ledger.NewHost(contractAccount)
		raffleContract := contract.New(store)

		host.SetBlockTime(ledger.Timestamp(time.Now().UnixNano()))

		if err := initializeOnce(store, host, raffleContract); err != nil {
			errCh <- err
			return
		}

		scheduler.NewScheduler(ctx, host, raffleContract, scheduler.BlockInterval).Run()
	}()

	select {
	case err := <-errCh:
		fmt.Printf("stopping due to error: %v\n", err)
		cancel()
	case <-waitForInterrupt():
		fmt.Println("interrupt signal received")
		cancel()
	}
}

// initializeOnce runs the one-time setup operation as the contract account,
// unless an earlier run already did.
func initializeOnce(store storage.Storage, host *ledger.Host, raffleContract *contract.Contract) error {
	initialized, err := store.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}

	return host.Execute(ledger.Call{Caller: host.ContractAccount()}, func(ctx ledger.Context) error {
		return raffleContract.Initialize(ctx)
	})
}

func waitForInterrupt() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}
