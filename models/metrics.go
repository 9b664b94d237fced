package models

import "time"

// Metrics is the post-hoc quality evaluation of one schedule. Rates are fractions in [0,1].
type Metrics struct {
	TotalCases            int      `json:"total_cases" bson:"totalCases"`
	ScheduledCases        int      `json:"scheduled_cases" bson:"scheduledCases"`
	UnscheduledCases      int      `json:"unscheduled_cases" bson:"unscheduledCases"`
	CoverageRate          float64  `json:"coverage_rate" bson:"coverageRate"`
	JudgeUtilization      float64  `json:"judge_utilization" bson:"judgeUtilization"`
	AvgHearingsPerDay     float64  `json:"avg_hearings_per_day" bson:"avgHearingsPerDay"`
	WorkloadStdDev        float64  `json:"workload_std_dev" bson:"workloadStdDev"`
	PriorityCoverage      float64  `json:"priority_coverage" bson:"priorityCoverage"`
	AvgDaysToFirstHearing float64  `json:"avg_days_to_first_hearing" bson:"avgDaysToFirstHearing"`
	SlotUtilization       float64  `json:"slot_utilization" bson:"slotUtilization"`
	AvgPriorityScheduled  float64  `json:"avg_priority_scheduled" bson:"avgPriorityScheduled"`
	OpenDays              int      `json:"open_days" bson:"openDays"`
	StrategyUsed          Strategy `json:"strategy_used" bson:"strategyUsed"`
	State                 RunState `json:"state" bson:"state"`
	ProvenOptimal         bool     `json:"proven_optimal" bson:"provenOptimal"`
}

// Delta holds signed after-minus-before differences per metric
type Delta struct {
	CoverageRate          float64 `json:"coverage_rate"`
	ScheduledCases        int     `json:"scheduled_cases"`
	UnscheduledCases      int     `json:"unscheduled_cases"`
	JudgeUtilization      float64 `json:"judge_utilization"`
	AvgHearingsPerDay     float64 `json:"avg_hearings_per_day"`
	WorkloadStdDev        float64 `json:"workload_std_dev"`
	PriorityCoverage      float64 `json:"priority_coverage"`
	AvgDaysToFirstHearing float64 `json:"avg_days_to_first_hearing"`
	SlotUtilization       float64 `json:"slot_utilization"`
	AvgPriorityScheduled  float64 `json:"avg_priority_scheduled"`

	// BacklogReductionPct is the relative drop in unscheduled cases, in percent
	BacklogReductionPct float64 `json:"backlog_reduction_pct"`
}

// GapDescriptor flags an under-used (judge, day) combination
type GapDescriptor struct {
	JudgeID     string    `json:"judge_id"`
	Date        time.Time `json:"date"`
	Booked      int       `json:"booked"`
	Capacity    int       `json:"capacity"`
	Utilization float64   `json:"utilization"`
}

// JudgeWorkload summarizes one judge's share of a schedule
type JudgeWorkload struct {
	JudgeID        string  `json:"judge_id"`
	JudgeName      string  `json:"judge_name"`
	TotalHearings  int     `json:"total_hearings"`
	DaysScheduled  int     `json:"days_scheduled"`
	AvgPerDay      float64 `json:"avg_hearings_per_day"`
	AvgPriority    float64 `json:"avg_priority"`
	EstimatedHours float64 `json:"estimated_hours"`
}
