package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrityScan re-runs the equilibrium check over a period.
	TaskLedgerIntegrityScan = "ledger:integrity_scan"
)

// LedgerIntegrityScanPayload selects the period preset to scan.
type LedgerIntegrityScanPayload struct {
	Preset string `json:"preset"`
}

// NewLedgerIntegrityScanTask constructs the integrity scan task.
func NewLedgerIntegrityScanTask(preset string) (*asynq.Task, error) {
	data, err := json.Marshal(LedgerIntegrityScanPayload{Preset: preset})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrityScan, data), nil
}
