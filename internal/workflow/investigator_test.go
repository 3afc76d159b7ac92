package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/analytics"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/models"
)

type fakeSearcher struct {
	google string
	social string
}

func (f *fakeSearcher) GoogleSearch(ctx context.Context, target string) string { return f.google }
func (f *fakeSearcher) SocialSearch(ctx context.Context, target string) string { return f.social }

type fakeLLM struct {
	prompts   []string
	responses []string
	err       error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	idx := len(f.prompts) - 1
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return "response", nil
}

type fakeRepo struct {
	created   *models.Investigation
	completed bool
	failedMsg string
}

func (f *fakeRepo) Create(inv *models.Investigation) error { f.created = inv; return nil }
func (f *fakeRepo) UpdateStatus(id, status string) error   { return nil }
func (f *fakeRepo) Complete(id, report, analyticsJSON string) error {
	f.completed = true
	return nil
}
func (f *fakeRepo) Fail(id, errorMessage string) error {
	f.failedMsg = errorMessage
	return nil
}
func (f *fakeRepo) GetByID(id string) (*models.Investigation, error) { return nil, nil }
func (f *fakeRepo) List(limit int) ([]models.Investigation, error)  { return nil, nil }

type fakeSaver struct {
	saved string
}

func (f *fakeSaver) Save(target, content string) (string, error) {
	f.saved = content
	return "reports/fake.md", nil
}

type fakeNotifier struct {
	message string
}

func (f *fakeNotifier) Notify(ctx context.Context, message string) error {
	f.message = message
	return nil
}

func newTestInvestigator(searcher SearchClient, llm CompletionClient, repo *fakeRepo,
	saver ReportSaver, notifier Notifier) *Investigator {
	inv := NewInvestigator(searcher, llm, analytics.NewEngine(zap.NewNop()),
		saver, nil, notifier, zap.NewNop())
	if repo != nil {
		inv.repo = repo
	}
	return inv
}

func TestRunProducesReport(t *testing.T) {
	searcher := &fakeSearcher{
		google: "=== GOOGLE SEARCH ===\nnothing remarkable",
		social: "[finding] platform=github timestamp=2024-01-15T10:30:00Z type=profile username=johndoe\n" +
			"[finding] platform=reddit timestamp=2024-01-15T18:00:00Z type=comment username=johndoe\n",
	}
	llm := &fakeLLM{responses: []string{"analysis text", "# Final Report"}}
	repo := &fakeRepo{}
	saver := &fakeSaver{}
	notifier := &fakeNotifier{}

	inv := newTestInvestigator(searcher, llm, repo, saver, notifier)
	outcome, err := inv.Run(context.Background(), "John Doe", config.AdvancedAnalysisConfig{
		TimelineCorrelation: true,
		NetworkAnalysis:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if outcome.Report != "# Final Report" {
		t.Errorf("unexpected report %q", outcome.Report)
	}
	if saver.saved != "# Final Report" {
		t.Errorf("report not saved, got %q", saver.saved)
	}
	if outcome.ReportPath != "reports/fake.md" {
		t.Errorf("unexpected report path %q", outcome.ReportPath)
	}
	if outcome.Analytics == nil || outcome.Analytics.TimelineData == nil || outcome.Analytics.NetworkData == nil {
		t.Fatal("analytics should be populated when both flags are set")
	}
	if outcome.Analytics.TimelineData.TotalTimestampedItems != 2 {
		t.Errorf("expected 2 timestamped items, got %d", outcome.Analytics.TimelineData.TotalTimestampedItems)
	}

	if len(llm.prompts) != 2 {
		t.Fatalf("expected 2 llm calls, got %d", len(llm.prompts))
	}
	if !strings.Contains(llm.prompts[1], "ADVANCED ANALYTICS") {
		t.Error("report prompt should embed the analytics summary")
	}
	if !strings.Contains(llm.prompts[1], "analysis text") {
		t.Error("report prompt should embed the analysis output")
	}

	if repo.created == nil {
		t.Fatal("investigation record not created")
	}
	if repo.created.Status != models.StatusRunning {
		t.Errorf("created record should start running, got %q", repo.created.Status)
	}
	if !repo.completed {
		t.Error("investigation not marked complete")
	}
	if !strings.Contains(notifier.message, "John Doe") {
		t.Errorf("notification should name the target, got %q", notifier.message)
	}
}

func TestRunSkipsAnalyticsWhenDisabled(t *testing.T) {
	llm := &fakeLLM{responses: []string{"analysis", "report"}}
	inv := newTestInvestigator(&fakeSearcher{}, llm, nil, &fakeSaver{}, nil)

	outcome, err := inv.Run(context.Background(), "target", config.AdvancedAnalysisConfig{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.Analytics != nil {
		t.Error("analytics should be nil when both flags are disabled")
	}
	if strings.Contains(llm.prompts[1], "ADVANCED ANALYTICS") {
		t.Error("report prompt must not mention analytics when disabled")
	}
}

func TestRunRecordsFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("provider exhausted")}
	repo := &fakeRepo{}
	inv := newTestInvestigator(&fakeSearcher{}, llm, repo, &fakeSaver{}, nil)

	_, err := inv.Run(context.Background(), "target", config.AdvancedAnalysisConfig{})
	if err == nil {
		t.Fatal("expected error from llm failure")
	}
	if !strings.Contains(repo.failedMsg, "provider exhausted") {
		t.Errorf("failure not recorded, got %q", repo.failedMsg)
	}
}

func TestRunWithoutRepositoryOrNotifier(t *testing.T) {
	inv := newTestInvestigator(&fakeSearcher{}, &fakeLLM{}, nil, &fakeSaver{}, nil)
	if _, err := inv.Run(context.Background(), "target", config.AdvancedAnalysisConfig{}); err != nil {
		t.Fatalf("Run should work without repository and notifier: %v", err)
	}
}
