// Package presenter renders query results into chat replies.
package presenter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
)

const (
	ColorSuccess = 0x2ECC71
	ColorFailure = 0xE74C3C
	ColorRunning = 0x3498DB
	ColorPending = 0xF1C40F
	ColorNeutral = 0x95A5A6

	detailEventsLimit = 5
	unavailable       = "unavailable"
	footerText        = "ChainOps"
)

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Embed struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Color       int        `json:"color,omitempty"`
	Fields      []Field    `json:"fields,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Footer      string     `json:"footer,omitempty"`
}

type Reply struct {
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
	Ephemeral bool    `json:"ephemeral,omitempty"`
}

func Pong() Reply {
	return Reply{
		Content:   "🏗️ ChainOps orchestrator online and awaiting orders.",
		Ephemeral: true,
	}
}

// Snapshot renders the operations overview. Degraded fields are shown as
// unavailable instead of as zero values.
func Snapshot(snapshot *entities.OperationsSnapshot) Reply {
	metric := func(field string, value string) string {
		if snapshot.IsDegraded(field) {
			return unavailable
		}
		return value
	}

	metrics := snapshot.Metrics
	fields := []Field{
		{
			Name:   "Deployments",
			Value:  metric(entities.SnapshotFieldTotalDeployments, fmt.Sprintf("%d all time", metrics.TotalDeployments)),
			Inline: true,
		},
		{
			Name:   fmt.Sprintf("Last %dh", snapshot.Window),
			Value:  metric(entities.SnapshotFieldWindowDeployments, fmt.Sprintf("%d started", metrics.WindowDeployments)),
			Inline: true,
		},
		{
			Name:   "Success rate",
			Value:  metric(entities.SnapshotFieldSuccessRate, successRateText(metrics)),
			Inline: true,
		},
		{
			Name:   "Failed",
			Value:  metric(entities.SnapshotFieldFailedDeployments, fmt.Sprintf("%d", metrics.FailedDeployments)),
			Inline: true,
		},
		{
			Name:  "Active runs",
			Value: metric(entities.SnapshotFieldActiveRuns, activeRunsText(snapshot.ActiveRuns)),
		},
		{
			Name:  "Latest deployment",
			Value: metric(entities.SnapshotFieldLatestDeployment, latestText(snapshot.LatestDeployment)),
		},
		{
			Name:  "Top projects",
			Value: metric(entities.SnapshotFieldTopProjects, topProjectsText(snapshot.TopProjects)),
		},
	}

	color := ColorSuccess
	switch {
	case len(snapshot.Degraded) > 0:
		color = ColorPending
	case metrics.FailedDeployments > 0:
		color = ColorFailure
	}

	generatedAt := snapshot.GeneratedAt
	embed := Embed{
		Title:     "📊 Operations snapshot",
		Color:     color,
		Fields:    fields,
		Timestamp: &generatedAt,
		Footer:    footerText,
	}
	if len(snapshot.Degraded) > 0 {
		embed.Description = "Some figures could not be loaded: " + strings.Join(snapshot.Degraded, ", ")
	}
	return Reply{Embeds: []Embed{embed}}
}

func RecentDeployments(deployments []*entities.DeploymentEntity, projectSlug string) Reply {
	if len(deployments) == 0 {
		if projectSlug != "" {
			return Reply{Content: fmt.Sprintf("No deployments found for project `%s`.", projectSlug)}
		}
		return Reply{Content: "No deployments found."}
	}

	lines := make([]string, 0, len(deployments))
	for _, deployment := range deployments {
		lines = append(lines, deploymentLine(deployment))
	}

	title := "🚀 Recent deployments"
	if projectSlug != "" {
		title = fmt.Sprintf("🚀 Recent deployments for %s", projectSlug)
	}
	return Reply{Embeds: []Embed{{
		Title:       title,
		Description: strings.Join(lines, "\n"),
		Color:       StatusColor(deployments[0].Status),
		Footer:      footerText,
	}}}
}

// DeploymentDetail renders one deployment with the tail of its timeline.
func DeploymentDetail(detail *entities.DeploymentDetail) Reply {
	fields := []Field{
		{Name: "Project", Value: detail.ProjectName, Inline: true},
		{Name: "Pipeline", Value: pipelineName(detail.PipelineName), Inline: true},
		{Name: "Status", Value: statusLabel(detail.Status), Inline: true},
		{Name: "Commit", Value: "`" + shortCommit(detail.CommitHash) + "`", Inline: true},
		{Name: "Initiator", Value: detail.Initiator, Inline: true},
		{Name: "Started", Value: formatTime(detail.StartedAt), Inline: true},
	}
	if detail.CompletedAt != nil {
		fields = append(fields,
			Field{Name: "Completed", Value: formatTime(*detail.CompletedAt), Inline: true},
			Field{Name: "Duration", Value: detail.CompletedAt.Sub(detail.StartedAt).Round(time.Second).String(), Inline: true},
		)
	}

	events := detail.RecentEvents(detailEventsLimit)
	timeline := "No events recorded."
	if len(events) > 0 {
		lines := make([]string, 0, len(events))
		for _, event := range events {
			lines = append(lines, fmt.Sprintf("`%s` **%s** [%s] %s",
				event.OccurredAt.UTC().Format("15:04:05"), event.Level, event.Source, event.Message))
		}
		timeline = strings.Join(lines, "\n")
	}
	fields = append(fields, Field{
		Name:  fmt.Sprintf("Timeline (last %d of %d)", len(events), len(detail.Events)),
		Value: timeline,
	})

	startedAt := detail.StartedAt
	return Reply{Embeds: []Embed{{
		Title:     fmt.Sprintf("%s Deployment %s", StatusEmoji(detail.Status), detail.ID),
		Color:     StatusColor(detail.Status),
		Fields:    fields,
		Timestamp: &startedAt,
		Footer:    footerText,
	}}}
}

func DeploymentNotFound(id string) Reply {
	return Reply{
		Content:   fmt.Sprintf("🔍 No deployment found with id `%s`.", id),
		Ephemeral: true,
	}
}

// Rejection explains why a command's options were refused.
func Rejection(err error) Reply {
	message := "invalid input"
	if err != nil {
		message = err.Error()
	}
	return Reply{
		Content:   "⚠️ " + message,
		Ephemeral: true,
	}
}

func Failure() Reply {
	return Reply{
		Content:   "❌ Something went wrong while processing the command. Please try again.",
		Ephemeral: true,
	}
}

// FromError maps a handler error onto the matching reply.
func FromError(err error, id string) Reply {
	switch {
	case errors.Is(err, entities.ErrDeploymentNotFound):
		return DeploymentNotFound(id)
	case errors.Is(err, entities.ErrInvalidArgument):
		return Rejection(err)
	default:
		return Failure()
	}
}

func StatusColor(status entities.DeploymentStatus) int {
	switch status {
	case entities.DeploymentStatusSuccess:
		return ColorSuccess
	case entities.DeploymentStatusFailed, entities.DeploymentStatusRejected:
		return ColorFailure
	case entities.DeploymentStatusRunning:
		return ColorRunning
	case entities.DeploymentStatusPending:
		return ColorPending
	default:
		return ColorNeutral
	}
}

func StatusEmoji(status entities.DeploymentStatus) string {
	switch status {
	case entities.DeploymentStatusSuccess:
		return "✅"
	case entities.DeploymentStatusFailed:
		return "❌"
	case entities.DeploymentStatusRejected:
		return "⛔"
	case entities.DeploymentStatusCancelled:
		return "🚫"
	case entities.DeploymentStatusRunning:
		return "🔄"
	case entities.DeploymentStatusPending:
		return "⏳"
	default:
		return "❔"
	}
}

func statusLabel(status entities.DeploymentStatus) string {
	return StatusEmoji(status) + " " + string(status)
}

func deploymentLine(deployment *entities.DeploymentEntity) string {
	line := fmt.Sprintf("%s **%s** `%s` by %s, %s",
		StatusEmoji(deployment.Status),
		deployment.ProjectName,
		shortCommit(deployment.CommitHash),
		deployment.Initiator,
		formatTime(deployment.StartedAt))
	if deployment.PipelineName != nil {
		line += " (" + *deployment.PipelineName + ")"
	}
	return line + "\n`" + deployment.ID.String() + "`"
}

func successRateText(metrics entities.SnapshotMetrics) string {
	if metrics.WindowDeployments == 0 {
		return "n/a (no runs)"
	}
	return fmt.Sprintf("%d%%", metrics.SuccessRate)
}

func activeRunsText(runs []*entities.DeploymentEntity) string {
	if len(runs) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(runs))
	for _, run := range runs {
		line := fmt.Sprintf("%s %s `%s` since %s",
			StatusEmoji(run.Status), run.ProjectName, shortCommit(run.CommitHash), formatTime(run.StartedAt))
		if run.PipelineName != nil {
			line += " (" + *run.PipelineName + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func latestText(deployment *entities.DeploymentEntity) string {
	if deployment == nil {
		return "None yet"
	}
	return fmt.Sprintf("%s %s `%s` at %s",
		StatusEmoji(deployment.Status), deployment.ProjectName, shortCommit(deployment.CommitHash), formatTime(deployment.StartedAt))
}

func topProjectsText(projects []*entities.ProjectDeploymentCount) string {
	if len(projects) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(projects))
	for i, project := range projects {
		lines = append(lines, fmt.Sprintf("%d. %s (%d)", i+1, project.Project.Name, project.Deployments))
	}
	return strings.Join(lines, "\n")
}

func pipelineName(name *string) string {
	if name == nil || *name == "" {
		return "n/a"
	}
	return *name
}

func shortCommit(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
