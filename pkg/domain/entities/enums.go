package entities

import (
	"fmt"
	"strings"
)

type DeploymentStatus string

const (
	DeploymentStatusPending   DeploymentStatus = "PENDING"
	DeploymentStatusRunning   DeploymentStatus = "RUNNING"
	DeploymentStatusSuccess   DeploymentStatus = "SUCCESS"
	DeploymentStatusFailed    DeploymentStatus = "FAILED"
	DeploymentStatusRejected  DeploymentStatus = "REJECTED"
	DeploymentStatusCancelled DeploymentStatus = "CANCELLED"
)

// ActiveDeploymentStatuses are the statuses of a run that has not finished yet.
var ActiveDeploymentStatuses = []DeploymentStatus{
	DeploymentStatusRunning,
	DeploymentStatusPending,
}

var deploymentTransitions = map[DeploymentStatus][]DeploymentStatus{
	DeploymentStatusPending: {
		DeploymentStatusRunning,
		DeploymentStatusRejected,
		DeploymentStatusCancelled,
	},
	DeploymentStatusRunning: {
		DeploymentStatusSuccess,
		DeploymentStatusFailed,
		DeploymentStatusRejected,
		DeploymentStatusCancelled,
	},
}

func ParseDeploymentStatus(value string) (DeploymentStatus, error) {
	status := DeploymentStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown deployment status %q", value)
	}
	return status, nil
}

func (s DeploymentStatus) IsValid() bool {
	switch s {
	case DeploymentStatusPending, DeploymentStatusRunning, DeploymentStatusSuccess,
		DeploymentStatusFailed, DeploymentStatusRejected, DeploymentStatusCancelled:
		return true
	}
	return false
}

func (s DeploymentStatus) IsTerminal() bool {
	switch s {
	case DeploymentStatusSuccess, DeploymentStatusFailed, DeploymentStatusRejected, DeploymentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Terminal statuses have no outgoing transitions.
func (s DeploymentStatus) CanTransitionTo(next DeploymentStatus) bool {
	for _, allowed := range deploymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s DeploymentStatus) String() string {
	return string(s)
}

type EventLevel string

const (
	EventLevelDebug EventLevel = "DEBUG"
	EventLevelInfo  EventLevel = "INFO"
	EventLevelWarn  EventLevel = "WARN"
	EventLevelError EventLevel = "ERROR"
)

func ParseEventLevel(value string) (EventLevel, error) {
	if strings.TrimSpace(value) == "" {
		return EventLevelInfo, nil
	}
	level := EventLevel(strings.ToUpper(strings.TrimSpace(value)))
	if !level.IsValid() {
		return "", fmt.Errorf("unknown event level %q", value)
	}
	return level, nil
}

func (l EventLevel) IsValid() bool {
	switch l {
	case EventLevelDebug, EventLevelInfo, EventLevelWarn, EventLevelError:
		return true
	}
	return false
}
