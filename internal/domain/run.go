package domain

import "time"

// RunTrigger records what initiated a check run.
type RunTrigger string

const (
	TriggerManual    RunTrigger = "manual"
	TriggerScheduled RunTrigger = "scheduled"
	TriggerAPI       RunTrigger = "api"
)

// RunStatus is the terminal state of a check run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// CheckRun is one recorded execution of the compliance check, with summary
// counts over its verdicts. Error is set only for failed runs.
type CheckRun struct {
	ID           string
	Trigger      RunTrigger
	ServiceName  *string
	Status       RunStatus
	Error        *string
	Total        int
	NonCompliant int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// RunFilter holds filter parameters for querying run history.
type RunFilter struct {
	Status  *string
	Trigger *string
	Page    PageRequest
}
