// Package workflow runs the investigation pipeline: two parallel collection
// stages, an LLM analysis pass, the optional analytics engine, and the final
// LLM report pass.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/analytics"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/models"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/repository"
)

// SearchClient is the collection layer seen by the pipeline.
type SearchClient interface {
	GoogleSearch(ctx context.Context, target string) string
	SocialSearch(ctx context.Context, target string) string
}

// CompletionClient is the language-model oracle seen by the pipeline.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Notifier receives a message once an investigation finishes. Implementations
// must tolerate being nil-checked by the caller instead of themselves.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// ReportSaver persists the finished markdown report.
type ReportSaver interface {
	Save(target, content string) (string, error)
}

// Investigator wires the pipeline stages together. The repository and
// notifier are optional; the CLI runs without either.
type Investigator struct {
	searcher SearchClient
	llm      CompletionClient
	engine   *analytics.Engine
	writer   ReportSaver
	repo     repository.InvestigationRepository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// Outcome is what one investigation run produced.
type Outcome struct {
	ID         string
	Report     string
	ReportPath string
	Analytics  *analytics.Result
}

func NewInvestigator(searcher SearchClient, llm CompletionClient, engine *analytics.Engine,
	writer ReportSaver, repo repository.InvestigationRepository, notifier Notifier,
	logger *zap.Logger) *Investigator {
	return &Investigator{
		searcher: searcher,
		llm:      llm,
		engine:   engine,
		writer:   writer,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one full investigation. Collection failures degrade to
// warning blobs inside the searcher; only LLM and persistence failures
// surface as errors.
func (inv *Investigator) Run(ctx context.Context, target string, analysisCfg config.AdvancedAnalysisConfig) (*Outcome, error) {
	id := uuid.NewString()
	started := inv.now()

	inv.logger.Info("Starting investigation",
		zap.String("id", id),
		zap.String("target", target),
		zap.Bool("timeline_correlation", analysisCfg.TimelineCorrelation),
		zap.Bool("network_analysis", analysisCfg.NetworkAnalysis))

	if inv.repo != nil {
		record := &models.Investigation{
			ID:                  id,
			Target:              target,
			TimelineCorrelation: analysisCfg.TimelineCorrelation,
			NetworkAnalysis:     analysisCfg.NetworkAnalysis,
			Status:              models.StatusRunning,
			CreatedAt:           started.UTC(),
		}
		if err := inv.repo.Create(record); err != nil {
			return nil, err
		}
	}

	return inv.execute(ctx, id, target, started, analysisCfg)
}

// RunExisting drives an investigation whose record was already created in
// the pending state, as the web API does when it accepts a request.
func (inv *Investigator) RunExisting(ctx context.Context, id, target string, analysisCfg config.AdvancedAnalysisConfig) (*Outcome, error) {
	started := inv.now()

	inv.logger.Info("Starting investigation",
		zap.String("id", id),
		zap.String("target", target))

	if inv.repo != nil {
		if err := inv.repo.UpdateStatus(id, models.StatusRunning); err != nil {
			return nil, err
		}
	}

	return inv.execute(ctx, id, target, started, analysisCfg)
}

func (inv *Investigator) execute(ctx context.Context, id, target string, started time.Time, analysisCfg config.AdvancedAnalysisConfig) (*Outcome, error) {
	outcome, err := inv.run(ctx, id, target, analysisCfg)
	if err != nil {
		inv.logger.Error("Investigation failed", zap.String("id", id), zap.Error(err))
		if inv.repo != nil {
			if dbErr := inv.repo.Fail(id, err.Error()); dbErr != nil {
				inv.logger.Error("Failed to record investigation failure", zap.Error(dbErr))
			}
		}
		return nil, err
	}

	inv.logger.Info("Investigation complete",
		zap.String("id", id),
		zap.Duration("elapsed", inv.now().Sub(started)))

	if inv.notifier != nil {
		msg := fmt.Sprintf("Investigation of %q complete. Report: %s", target, outcome.ReportPath)
		if err := inv.notifier.Notify(ctx, msg); err != nil {
			inv.logger.Warn("Completion notification failed", zap.Error(err))
		}
	}

	return outcome, nil
}

func (inv *Investigator) run(ctx context.Context, id, target string, analysisCfg config.AdvancedAnalysisConfig) (*Outcome, error) {
	// Both collection paths run in parallel, mirroring the fan-out the
	// orchestration graph upstream of the engine performs.
	var googleData, socialData string
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		googleData = inv.searcher.GoogleSearch(ctx, target)
	}()
	go func() {
		defer wg.Done()
		socialData = inv.searcher.SocialSearch(ctx, target)
	}()
	wg.Wait()

	inv.logger.Info("Collection complete",
		zap.Int("google_bytes", len(googleData)),
		zap.Int("social_bytes", len(socialData)))

	analysis, err := inv.llm.Complete(ctx, buildAnalysisPrompt(target, googleData, socialData, inv.now()))
	if err != nil {
		return nil, fmt.Errorf("analysis stage failed: %w", err)
	}

	var analyticsResult *analytics.Result
	var analyticsSummary string
	if analysisCfg.TimelineCorrelation || analysisCfg.NetworkAnalysis {
		analyticsResult = inv.engine.Analyze(
			[]analytics.RawBlob{
				{Source: "google", Text: googleData},
				{Source: "social", Text: socialData},
			},
			analytics.Options{
				TimelineCorrelation: analysisCfg.TimelineCorrelation,
				NetworkAnalysis:     analysisCfg.NetworkAnalysis,
			})
		summaryBytes, err := json.MarshalIndent(analyticsResult, "", "  ")
		if err != nil {
			// Programming error, not data quality: the result types are ours.
			return nil, fmt.Errorf("failed to serialize analytics result: %w", err)
		}
		analyticsSummary = string(summaryBytes)
	}

	reportText, err := inv.llm.Complete(ctx,
		buildReportPrompt(target, googleData, socialData, analysis, analyticsSummary, inv.now()))
	if err != nil {
		return nil, fmt.Errorf("report stage failed: %w", err)
	}

	reportPath := ""
	if inv.writer != nil {
		reportPath, err = inv.writer.Save(target, reportText)
		if err != nil {
			return nil, err
		}
	}

	if inv.repo != nil {
		if err := inv.repo.Complete(id, reportText, analyticsSummary); err != nil {
			return nil, err
		}
	}

	return &Outcome{
		ID:         id,
		Report:     reportText,
		ReportPath: reportPath,
		Analytics:  analyticsResult,
	}, nil
}
