package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/models"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/repository"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/workflow"
)

// InvestigationRunner drives an accepted investigation to completion.
type InvestigationRunner interface {
	RunExisting(ctx context.Context, id, target string, analysisCfg config.AdvancedAnalysisConfig) (*workflow.Outcome, error)
}

type InvestigationHandler interface {
	Create(c *gin.Context)
	GetByID(c *gin.Context)
	List(c *gin.Context)
}

type investigationHandler struct {
	repo   repository.InvestigationRepository
	runner InvestigationRunner
	logger *zap.Logger
}

func NewInvestigationHandler(repo repository.InvestigationRepository, runner InvestigationRunner, logger *zap.Logger) InvestigationHandler {
	return &investigationHandler{repo: repo, runner: runner, logger: logger}
}

type CreateInvestigationRequest struct {
	Target              string `json:"target" binding:"required"`
	TimelineCorrelation bool   `json:"timeline_correlation"`
	NetworkAnalysis     bool   `json:"network_analysis"`
}

// Create accepts an investigation and runs it in the background. The caller
// polls GetByID for the result.
func (h *investigationHandler) Create(c *gin.Context) {
	var req CreateInvestigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := uuid.NewString()
	record := &models.Investigation{
		ID:                  id,
		Target:              req.Target,
		TimelineCorrelation: req.TimelineCorrelation,
		NetworkAnalysis:     req.NetworkAnalysis,
		Status:              models.StatusPending,
		CreatedAt:           time.Now().UTC(),
	}
	if err := h.repo.Create(record); err != nil {
		h.logger.Error("Failed to create investigation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create investigation"})
		return
	}

	analysisCfg := config.AdvancedAnalysisConfig{
		TimelineCorrelation: req.TimelineCorrelation,
		NetworkAnalysis:     req.NetworkAnalysis,
	}

	// The request context dies with the HTTP response; the run gets its own.
	go func() {
		if _, err := h.runner.RunExisting(context.Background(), id, req.Target, analysisCfg); err != nil {
			h.logger.Error("Background investigation failed",
				zap.String("id", id),
				zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"id":     id,
		"target": req.Target,
		"status": models.StatusPending,
	})
}

func (h *investigationHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid investigation ID"})
		return
	}

	inv, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investigation not found"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *investigationHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	invs, err := h.repo.List(limit)
	if err != nil {
		h.logger.Error("Failed to list investigations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list investigations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"investigations": invs, "count": len(invs)})
}
