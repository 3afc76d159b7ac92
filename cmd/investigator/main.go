package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/analytics"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/llm"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/notifier"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/report"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/search"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/workflow"
)

const banner = `
==============================================
  Digital Footprint Investigator
  OSINT aggregation and analytics
==============================================
`

func main() {
	timeline := flag.Bool("timeline", false, "enable timeline correlation analysis")
	network := flag.Bool("network", false, "enable network connection analysis")
	configPath := flag.String("config", "configs/config.yml", "path to config file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: investigator [flags] <target>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	target := flag.Arg(0)

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	fmt.Print(banner)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// CLI flags override the configured defaults when set.
	analysisCfg := *cfg.AdvancedAnalysis
	if *timeline {
		analysisCfg.TimelineCorrelation = true
	}
	if *network {
		analysisCfg.NetworkAnalysis = true
	}

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

	inv := workflow.NewInvestigator(
		search.NewSearcher(cfg, logger),
		llmClient,
		analytics.NewEngine(logger),
		report.NewWriter(cfg.Report.OutputDir, logger),
		nil,
		notify,
		logger,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	outcome, err := inv.Run(ctx, target, analysisCfg)
	if err != nil {
		logger.Fatal("Investigation failed", zap.Error(err))
	}

	fmt.Printf("\nInvestigation complete.\nReport: %s\n", outcome.ReportPath)
}
