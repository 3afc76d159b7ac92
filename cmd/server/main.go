package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/analytics"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/llm"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/notifier"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/report"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/repository"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/search"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/server"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/workflow"
)

func main() {
	configPath := flag.String("config", "configs/config.yml", "path to config file")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if !cfg.Database.Enabled {
		logger.Fatal("The server requires database.enabled=true; use the CLI for database-free runs")
	}

	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repository.MigrateDB(db, logger)

	llmClient, err := llm.NewMultiProviderClient(cfg.LLM.Providers, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LLM providers", zap.Error(err))
	}
	defer llmClient.Close()

	var notify workflow.Notifier
	tg, err := notifier.NewTelegramNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
	} else if tg != nil {
		notify = tg
	}

	invRepo := repository.NewInvestigationRepository(db, logger)
	investigator := workflow.NewInvestigator(
		search.NewSearcher(cfg, logger),
		llmClient,
		analytics.NewEngine(logger),
		report.NewWriter(cfg.Report.OutputDir, logger),
		invRepo,
		notify,
		logger,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.NewServer(db, investigator, logger)
	go func() {
		if err := srv.Run(cfg.Server.Port); err != nil {
			logger.Error("Server failed", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
	logger.Info("Application stopped.")
}
