package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/models"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/workflow"
)

type fakeInvRepo struct {
	mu      sync.Mutex
	records map[string]*models.Investigation
	listErr error
}

func newFakeInvRepo() *fakeInvRepo {
	return &fakeInvRepo{records: map[string]*models.Investigation{}}
}

func (f *fakeInvRepo) Create(inv *models.Investigation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[inv.ID] = inv
	return nil
}

func (f *fakeInvRepo) UpdateStatus(id, status string) error { return nil }
func (f *fakeInvRepo) Complete(id, report, analyticsJSON string) error {
	return nil
}
func (f *fakeInvRepo) Fail(id, errorMessage string) error { return nil }

func (f *fakeInvRepo) GetByID(id string) (*models.Investigation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return inv, nil
}

func (f *fakeInvRepo) List(limit int) ([]models.Investigation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Investigation
	for _, inv := range f.records {
		out = append(out, *inv)
	}
	return out, nil
}

type fakeRunner struct {
	mu      sync.Mutex
	started chan struct{}
	id      string
	target  string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{started: make(chan struct{})}
}

func (f *fakeRunner) RunExisting(ctx context.Context, id, target string, analysisCfg config.AdvancedAnalysisConfig) (*workflow.Outcome, error) {
	f.mu.Lock()
	f.id = id
	f.target = target
	f.mu.Unlock()
	close(f.started)
	return &workflow.Outcome{ID: id}, nil
}

func newInvRouter(repo *fakeInvRepo, runner InvestigationRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewInvestigationHandler(repo, runner, zap.NewNop())
	router.POST("/api/investigations", h.Create)
	router.GET("/api/investigations", h.List)
	router.GET("/api/investigations/:id", h.GetByID)
	return router
}

func TestCreateInvestigation(t *testing.T) {
	repo := newFakeInvRepo()
	runner := newFakeRunner()
	router := newInvRouter(repo, runner)

	w := postJSON(t, router, "/api/investigations",
		gin.H{"target": "John Doe", "timeline_correlation": true})
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	id, _ := resp["id"].(string)
	if id == "" {
		t.Fatal("response missing investigation id")
	}
	if resp["status"] != models.StatusPending {
		t.Errorf("expected pending status, got %v", resp["status"])
	}

	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("background run never started")
	}
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.id != id || runner.target != "John Doe" {
		t.Errorf("runner got id=%q target=%q", runner.id, runner.target)
	}
}

func TestCreateInvestigationMissingTarget(t *testing.T) {
	router := newInvRouter(newFakeInvRepo(), newFakeRunner())

	w := postJSON(t, router, "/api/investigations", gin.H{"timeline_correlation": true})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without target, got %d", w.Code)
	}
}

func TestGetInvestigation(t *testing.T) {
	repo := newFakeInvRepo()
	repo.records["6f1c0e1e-44a5-4f6a-9e34-000000000001"] = &models.Investigation{
		ID:     "6f1c0e1e-44a5-4f6a-9e34-000000000001",
		Target: "John Doe",
		Status: models.StatusCompleted,
	}
	router := newInvRouter(repo, newFakeRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/investigations/6f1c0e1e-44a5-4f6a-9e34-000000000001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var inv models.Investigation
	if err := json.Unmarshal(w.Body.Bytes(), &inv); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if inv.Target != "John Doe" || inv.Status != models.StatusCompleted {
		t.Errorf("unexpected record %+v", inv)
	}
}

func TestGetInvestigationBadID(t *testing.T) {
	router := newInvRouter(newFakeInvRepo(), newFakeRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/investigations/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestListInvestigationsBadLimit(t *testing.T) {
	router := newInvRouter(newFakeInvRepo(), newFakeRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/investigations?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", w.Code)
	}
}
