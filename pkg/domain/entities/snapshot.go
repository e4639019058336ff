package entities

import "time"

// Snapshot field names, used to report which parts of a snapshot are degraded.
const (
	SnapshotFieldTotalDeployments  = "totalDeployments"
	SnapshotFieldWindowDeployments = "windowDeployments"
	SnapshotFieldSuccessRate       = "successRate"
	SnapshotFieldFailedDeployments = "failedDeployments"
	SnapshotFieldActiveRuns        = "activeRuns"
	SnapshotFieldLatestDeployment  = "latestDeployment"
	SnapshotFieldTopProjects       = "topProjects"
)

type SnapshotMetrics struct {
	TotalDeployments  int64 `json:"totalDeployments"`
	WindowDeployments int64 `json:"windowDeployments"`
	SuccessRate       int   `json:"successRate"`
	FailedDeployments int64 `json:"failedDeployments"`
}

type OperationsSnapshot struct {
	Window           int                       `json:"window"`
	Since            time.Time                 `json:"since"`
	GeneratedAt      time.Time                 `json:"generatedAt"`
	Metrics          SnapshotMetrics           `json:"metrics"`
	ActiveRuns       []*DeploymentEntity       `json:"activeRuns"`
	LatestDeployment *DeploymentEntity         `json:"latestDeployment"`
	TopProjects      []*ProjectDeploymentCount `json:"topProjects"`
	Degraded         []string                  `json:"degraded,omitempty"`
}

func (s *OperationsSnapshot) IsDegraded(field string) bool {
	for _, degraded := range s.Degraded {
		if degraded == field {
			return true
		}
	}
	return false
}
