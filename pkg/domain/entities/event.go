package entities

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

type DeploymentEventEntity struct {
	ID           uuid.UUID       `json:"id"`
	DeploymentID uuid.UUID       `json:"deploymentId"`
	Sequence     int64           `json:"sequence"`
	Level        EventLevel      `json:"level"`
	Source       string          `json:"source"`
	Message      string          `json:"message"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// SortTimeline orders events by occurredAt, breaking ties by creation sequence.
func SortTimeline(events []*DeploymentEventEntity) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].OccurredAt.Equal(events[j].OccurredAt) {
			return events[i].OccurredAt.Before(events[j].OccurredAt)
		}
		return events[i].Sequence < events[j].Sequence
	})
}
