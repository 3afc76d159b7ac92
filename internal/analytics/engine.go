package analytics

import (
	"sort"

	"go.uber.org/zap"
)

// Options selects which post-collection computations run. The two flags gate
// independent work; enabling one never affects the other's output.
type Options struct {
	TimelineCorrelation bool
	NetworkAnalysis     bool
}

// TimelineData is the timeline half of an analysis result.
type TimelineData struct {
	TotalTimestampedItems     int                `json:"total_timestamped_items"`
	PlatformsWithTimestamps   []string           `json:"platforms_with_timestamps"`
	ActivityClusters          []ActivityCluster  `json:"activity_clusters"`
	CrossPlatformCorrelations []CorrelationScore `json:"cross_platform_correlations"`
}

// NetworkData is the identifier/connectivity half of an analysis result.
type NetworkData struct {
	UniqueIdentifiers   int                 `json:"unique_identifiers"`
	IdentifierList      []string            `json:"identifier_list"`
	PlatformConnections map[string][]string `json:"platform_connections"`
	UsernameConsistency ConsistencyResult   `json:"username_consistency"`
}

// Result carries the optional outputs. A nil field means the corresponding
// analysis was disabled, which is success, not failure.
type Result struct {
	TimelineData *TimelineData `json:"timeline_data,omitempty"`
	NetworkData  *NetworkData  `json:"network_data,omitempty"`
}

// Engine is the analytics orchestrator. It holds no state between calls and
// is safe to share across concurrent investigations; the logger is the only
// collaborator and the computations themselves stay side-effect free.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Analyze runs the enabled engines over the collected blobs. Disabled flags
// short-circuit: no extraction or scoring work happens for them beyond the
// shared identifier pass. Data-quality faults degrade individual records to
// zero contribution and never abort the run.
func (e *Engine) Analyze(blobs []RawBlob, opts Options) *Result {
	result := &Result{}
	if !opts.TimelineCorrelation && !opts.NetworkAnalysis {
		return result
	}

	identifiers, findings := Extract(blobs)

	if opts.TimelineCorrelation {
		e.logger.Info("Analyzing timeline correlations",
			zap.Int("timestamped_findings", len(findings)))
		result.TimelineData = &TimelineData{
			TotalTimestampedItems:     len(findings),
			PlatformsWithTimestamps:   platformSet(findings),
			ActivityClusters:          ClusterByDay(findings),
			CrossPlatformCorrelations: CrossPlatformCorrelations(findings),
		}
	}

	if opts.NetworkAnalysis {
		e.logger.Info("Mapping network connections",
			zap.Int("identifiers", len(identifiers)))
		result.NetworkData = &NetworkData{
			UniqueIdentifiers:   len(identifiers),
			IdentifierList:      identifiers,
			PlatformConnections: PlatformConnections(findings),
			UsernameConsistency: UsernameConsistency(identifiers),
		}
	}

	return result
}

func platformSet(records []FindingRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.Platform] = struct{}{}
	}
	platforms := make([]string, 0, len(seen))
	for p := range seen {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	return platforms
}
