package models

import "time"

// Investigation statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Investigation is one stored investigation run.
type Investigation struct {
	ID                  string     `db:"id" json:"id"`
	Target              string     `db:"target" json:"target"`
	TimelineCorrelation bool       `db:"timeline_correlation" json:"timeline_correlation"`
	NetworkAnalysis     bool       `db:"network_analysis" json:"network_analysis"`
	Status              string     `db:"status" json:"status"`
	Report              string     `db:"report" json:"report,omitempty"`
	AnalyticsJSON       string     `db:"analytics_json" json:"analytics_json,omitempty"`
	ErrorMessage        string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	CompletedAt         *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
