package repository

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/models"
)

// InvestigationRepository stores investigation runs and their reports.
type InvestigationRepository interface {
	Create(inv *models.Investigation) error
	UpdateStatus(id, status string) error
	Complete(id, report, analyticsJSON string) error
	Fail(id, errorMessage string) error
	GetByID(id string) (*models.Investigation, error)
	List(limit int) ([]models.Investigation, error)
}

type investigationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewInvestigationRepository(db *sqlx.DB, logger *zap.Logger) InvestigationRepository {
	return &investigationRepository{db: db, logger: logger}
}

func (r *investigationRepository) Create(inv *models.Investigation) error {
	query := `INSERT INTO investigations
		(id, target, timeline_correlation, network_analysis, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(query, inv.ID, inv.Target, inv.TimelineCorrelation,
		inv.NetworkAnalysis, inv.Status, inv.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create investigation", zap.Error(err))
		return fmt.Errorf("failed to create investigation: %w", err)
	}
	return nil
}

func (r *investigationRepository) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE investigations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update investigation status: %w", err)
	}
	return nil
}

func (r *investigationRepository) Complete(id, report, analyticsJSON string) error {
	query := `UPDATE investigations
		SET status = $1, report = $2, analytics_json = $3, completed_at = $4
		WHERE id = $5`
	_, err := r.db.Exec(query, models.StatusCompleted, report, analyticsJSON, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to complete investigation: %w", err)
	}
	return nil
}

func (r *investigationRepository) Fail(id, errorMessage string) error {
	query := `UPDATE investigations
		SET status = $1, error_message = $2, completed_at = $3
		WHERE id = $4`
	_, err := r.db.Exec(query, models.StatusFailed, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark investigation as failed: %w", err)
	}
	return nil
}

func (r *investigationRepository) GetByID(id string) (*models.Investigation, error) {
	var inv models.Investigation
	if err := r.db.Get(&inv, `SELECT * FROM investigations WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get investigation: %w", err)
	}
	return &inv, nil
}

func (r *investigationRepository) List(limit int) ([]models.Investigation, error) {
	if limit <= 0 {
		limit = 50
	}
	var invs []models.Investigation
	err := r.db.Select(&invs,
		`SELECT * FROM investigations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list investigations: %w", err)
	}
	return invs, nil
}
