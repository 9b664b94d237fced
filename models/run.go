package models

import "time"

// ScheduleRun is the persisted record of one scheduling run, stored in the
// scheduleruns collection keyed by run id.
type ScheduleRun struct {
	RunID       string           `json:"run_id" bson:"_id"`
	Trigger     string           `json:"trigger" bson:"trigger"` // api, cron or cli
	Schedule    Schedule         `json:"schedule" bson:"schedule"`
	Validation  ValidationResult `json:"validation" bson:"validation"`
	Metrics     Metrics          `json:"metrics" bson:"metrics"`
	Gaps        []GapDescriptor  `json:"gaps" bson:"gaps"`
	Workload    []JudgeWorkload  `json:"workload" bson:"workload"`
	Constraints []string         `json:"constraints" bson:"constraints"`
	CreatedAt   time.Time        `json:"created_at" bson:"createdAt"`
}

// Run triggers
const (
	TriggerAPI  = "api"
	TriggerCron = "cron"
	TriggerCLI  = "cli"
)
