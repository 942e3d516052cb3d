// @title           Paylink API
// @version         1.0
// @description     Send SOL as a claimable link and pay registered usernames.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/paylink/burner"
	"github.com/AlexZinkM/paylink/directory"
	_ "github.com/AlexZinkM/paylink/docs"
	"github.com/AlexZinkM/paylink/internal/api"
	"github.com/AlexZinkM/paylink/internal/client"
	"github.com/AlexZinkM/paylink/internal/config"
	"github.com/AlexZinkM/paylink/internal/handler"
	"github.com/AlexZinkM/paylink/internal/logger"
	"github.com/AlexZinkM/paylink/internal/repository/bolt"
	"github.com/AlexZinkM/paylink/internal/repository/postgres"
	"github.com/AlexZinkM/paylink/internal/signer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	cfg := config.Get()
	log := logger.New(cfg.LogLevel)

	if err := config.PromptForPassword(); err != nil {
		log.Fatal("failed to read wallet password", "error", err)
	}

	minAmount, maxAmount, err := cfg.AmountBounds()
	if err != nil {
		log.Fatal("invalid amount bounds", "error", err)
	}

	solanaClient := client.NewSolanaClient(config.GetSolanaRPCURL())
	if floor, err := solanaClient.MinimumBalance(ctx); err != nil {
		log.Warn("could not read rent-exempt minimum", "error", err)
	} else if minAmount < floor {
		log.Warn("MIN_AMOUNT is below the rent-exempt minimum, small links will be rejected by the network",
			"min_amount_lamports", minAmount, "rent_exempt_lamports", floor)
	}

	registry, closer, err := openRegistry(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open username directory", "error", err, "backend", cfg.DirectoryBackend)
	}
	defer closer.Close()

	burners := burner.NewManager(solanaClient, burner.Options{
		FeeLamports:  cfg.FeeLamports,
		DustLamports: cfg.DustLamports,
		MinAmount:    minAmount,
		MaxAmount:    maxAmount,
		Retry:        cfg.RetryPolicy(),
	}, log)
	dir := directory.New(registry, cfg.RetryPolicy(), log)

	funding := &signer.FileSource{
		Path:     config.GetWalletFilePath(),
		Password: config.GetWalletPasswordBytes,
	}
	prices := client.NewCoinGeckoClient(cfg.CoinGeckoURL)
	spend := handler.NewSpendLimiter(cfg.SpendInterval, cfg.SpendBurst)

	router := api.SetupRouter(api.Handlers{
		Links: handler.NewLinkHandler(burners, dir, funding, prices, spend, handler.LinkHandlerConfig{
			LinkBaseURL: cfg.LinkBaseURL,
			Currency:    cfg.PriceCurrency,
		}, log),
		Usernames: handler.NewUsernameHandler(dir, log),
		Wallet: handler.NewWalletHandler(burners, dir, funding, prices, spend, handler.WalletHandlerConfig{
			FilePath: config.GetWalletFilePath(),
			Password: config.GetWalletPasswordBytes,
			Currency: cfg.PriceCurrency,
		}, log),
	}, log)

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server started", "port", config.GetPort(), "rpc", config.GetSolanaRPCURL(), "directory", cfg.DirectoryBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error during server shutdown", "error", err)
	}
	log.Info("shutdown complete")
}

func openRegistry(ctx context.Context, cfg *config.Config) (directory.Registry, io.Closer, error) {
	switch cfg.DirectoryBackend {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewRegistry(db), db, nil
	default:
		reg, err := bolt.Open(cfg.DirectoryBoltPath)
		if err != nil {
			return nil, nil, err
		}
		return reg, reg, nil
	}
}
