package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier-lab/api"
	"courier-lab/channels"
	"courier-lab/domain"
	"courier-lab/internal"
	"courier-lab/intent"
	"courier-lab/observability"
	"courier-lab/repositories"
	"courier-lab/runtime"
	"courier-lab/runtime/workers"
	"courier-lab/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Courier terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// It keeps defers (database cleanup, worker drain) on the happy path so a graceful
// shutdown always releases the badger lock.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		debugPort := 8081
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", debugPort, endpoint))
		database.StartDebugServer(db, debugPort, endpoint, CourierMapper)
	}

	// 3. Repositories & Domain Services
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	conversationRepository := repositories.NewConversationRepository(db, logger)
	contactRepository := repositories.NewContactRepository(db, logger)
	ledgerRepository := repositories.NewLedgerRepository(db, logger)

	scorer, err := intent.NewScorer(intent.DefaultRules())
	if err != nil {
		return exitRuntime, fmt.Errorf("scorer init failed: %w", err)
	}

	adapters := []channels.Adapter{
		channels.NewInboxAdapter(),
		channels.NewGatewayAdapter(config.BridgeURL, config.ChannelTimeout, logger),
		channels.NewEmailAdapter(config.EmailGatewayURL, config.ChannelTimeout, logger),
	}

	stats := observability.NewDeliveryStats(logger)
	dispatcher := runtime.NewDispatcher(logger, config.DispatchBufferSize)

	messenger := services.NewMessengerService(
		logger,
		messageRepository,
		conversationRepository,
		contactRepository,
		ledgerRepository,
		scorer,
		adapters,
		dispatcher,
		stats,
		config.MessageCost,
	)

	// 4. Supervision (bot dispatch + telemetry)
	responder := channels.NewResponderClient(config.ResponderURL, config.BotDispatchTimeout, logger)
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(
		workers.NewBotDispatchWorker(responder, dispatcher.Triggers(), config.BotDispatchTimeout, stats, logger),
		workers.NewTelemetryWorker(logger, config.MetricInterval, stats, dispatcher),
	)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Workers run on their own context, outliving the signal context so
	// the trigger backlog can still drain during shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workersDone := make(chan struct{})
	go func() {
		sup.Run(workerCtx)
		close(workersDone)
	}()

	// 6. HTTP Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	apiServer := api.NewServer(logger, messenger, ledgerRepository, contactRepository, conversationRepository, stats)
	httpServer := &http.Server{
		Addr:    address,
		Handler: apiServer.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final Cleanup (Graceful Shutdown)
	// In-flight requests get ShutdownTimeout to finish. No more sends
	// can happen after that, so the trigger queue is sealed, the
	// dispatch worker drains the backlog, and only once every worker
	// has returned does the deferred badger close run.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	dispatcher.Close()
	stopWorkers()
	<-workersDone
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

// CourierMapper renders message and ledger rows in the badger inspector.
func CourierMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case len(key) > 4 && key[:4] == "msg:":
		var message repositories.DiskMessage
		if err := json.Unmarshal(val, &message); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "MESSAGE"
		row.Detail = fmt.Sprintf("[%s] %s", message.Channel, message.Text)
	case len(key) > 3 && key[:3] == "tx:":
		var tx domain.CreditTransaction
		if err := json.Unmarshal(val, &tx); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "LEDGER"
		row.Detail = fmt.Sprintf("%s %s %+d %s", tx.Kind, tx.Status, tx.Amount, tx.Description)
	}
	return row
}
