// Package jobs defines the background task types exchanged between the web
// process and the worker.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportGenerated announces a freshly persisted report artifact. The
	// notification dispatcher consumes it; generation never writes
	// notification rows directly.
	TaskReportGenerated = "report:generated"
	// TaskArtifactSweep prunes report partitions past the retention window.
	TaskArtifactSweep = "artifact:sweep"
)

// ReportKind discriminates the two report document types.
type ReportKind string

const (
	ReportKindInspection ReportKind = "pdi"
	ReportKindClaim      ReportKind = "claim"
)

// ReportGeneratedPayload carries everything the notification dispatcher
// needs; the artifact path is the logical (served) path, not a filesystem
// location.
type ReportGeneratedPayload struct {
	Kind         ReportKind `json:"kind"`
	RecordID     int64      `json:"record_id"`
	RecipientID  int64      `json:"recipient_id"`
	Reference    string     `json:"reference"`
	ArtifactPath string     `json:"artifact_path"`
}

// Validate rejects payloads the dispatcher could not act on.
func (p ReportGeneratedPayload) Validate() error {
	if p.Kind != ReportKindInspection && p.Kind != ReportKindClaim {
		return fmt.Errorf("jobs: unknown report kind %q", p.Kind)
	}
	if p.RecordID <= 0 {
		return fmt.Errorf("jobs: record id required")
	}
	if p.RecipientID <= 0 {
		return fmt.Errorf("jobs: recipient id required")
	}
	return nil
}

// NewReportGeneratedTask constructs an Asynq task for the payload.
func NewReportGeneratedTask(payload ReportGeneratedPayload) (*asynq.Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportGenerated, data), nil
}

// ArtifactSweepPayload configures one retention sweep run.
type ArtifactSweepPayload struct {
	RetentionDays int `json:"retention_days"`
}

// Validate rejects sweep payloads that would delete everything.
func (p ArtifactSweepPayload) Validate() error {
	if p.RetentionDays <= 0 {
		return fmt.Errorf("jobs: retention days must be positive")
	}
	return nil
}

// NewArtifactSweepTask constructs the scheduled retention sweep task.
func NewArtifactSweepTask(retentionDays int) (*asynq.Task, error) {
	payload := ArtifactSweepPayload{RetentionDays: retentionDays}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskArtifactSweep, data), nil
}
