package models

import "time"

// Strategy selects how a schedule is produced
type Strategy string

// Scheduling strategies
const (
	StrategyExact     Strategy = "exact"
	StrategyHeuristic Strategy = "heuristic"
)

// RunState tracks one scheduling run: Initialized -> Solving -> Solved | Fallback | Failed
type RunState string

// Run states
const (
	RunInitialized RunState = "initialized"
	RunSolving     RunState = "solving"
	RunSolved      RunState = "solved"
	RunFallback    RunState = "fallback"
	RunFailed      RunState = "failed"
)

// Window is the contiguous set of candidate dates considered for scheduling
type Window struct {
	Start time.Time `json:"start" bson:"start"`
	Days  int       `json:"days" bson:"days"`
}

// NewWindow builds a window starting at the calendar date of start
func NewWindow(start time.Time, days int) Window {
	return Window{Start: Day(start), Days: days}
}

// Date returns the calendar date at day index k
func (w Window) Date(k int) time.Time {
	return Day(w.Start).AddDate(0, 0, k)
}

// End is the last date in the window
func (w Window) End() time.Time {
	return w.Date(w.Days - 1)
}

// Index returns the day index of date, ok is false when date falls outside the window
func (w Window) Index(date time.Time) (int, bool) {
	k := DaysBetween(w.Start, date)
	return k, k >= 0 && k < w.Days
}

// ScheduleEntry is one scheduled hearing
type ScheduleEntry struct {
	CaseID         string           `json:"case_id" bson:"caseID"`
	CaseType       CaseType         `json:"case_type" bson:"caseType"`
	JudgeID        string           `json:"judge_id" bson:"judgeID"`
	HearingDate    time.Time        `json:"hearing_date" bson:"hearingDate"`
	DayIndex       int              `json:"day_index" bson:"dayIndex"`
	PriorityScore  float64          `json:"priority_score" bson:"priorityScore"` // snapshot at scheduling time
	Category       PriorityCategory `json:"priority_category" bson:"priorityCategory"`
	EstimatedHours float64          `json:"estimated_duration" bson:"estimatedDuration"`

	LastHearingDate string `json:"last_hearing_date,omitempty" bson:"lastHearingDate,omitempty"`
}

// UnscheduledCase records a case that found no feasible slot in the window
type UnscheduledCase struct {
	CaseID        string           `json:"case_id" bson:"caseID"`
	PriorityScore float64          `json:"priority_score" bson:"priorityScore"`
	Category      PriorityCategory `json:"priority_category" bson:"priorityCategory"`
	Reason        string           `json:"reason" bson:"reason"`
}

// Schedule is the output of one scheduler invocation
type Schedule struct {
	RunID             string            `json:"run_id" bson:"_id"`
	Window            Window            `json:"window" bson:"window"`
	StrategyRequested Strategy          `json:"strategy_requested" bson:"strategyRequested"`
	StrategyUsed      Strategy          `json:"strategy_used" bson:"strategyUsed"`
	State             RunState          `json:"state" bson:"state"`
	ProvenOptimal     bool              `json:"proven_optimal" bson:"provenOptimal"`
	FallbackReason    string            `json:"fallback_reason,omitempty" bson:"fallbackReason,omitempty"`
	Objective         int64             `json:"objective" bson:"objective"`
	Entries           []ScheduleEntry   `json:"entries" bson:"entries"`
	Unscheduled       []UnscheduledCase `json:"unscheduled" bson:"unscheduled"`
	GeneratedAt       time.Time         `json:"generated_at" bson:"generatedAt"`
}

// FullyScheduled is true when every input case received a slot
func (s *Schedule) FullyScheduled() bool {
	return len(s.Unscheduled) == 0
}

// UsedFallback is true when the heuristic stood in for a requested exact solve
func (s *Schedule) UsedFallback() bool {
	return s.State == RunFallback
}

// Severity separates constraints that invalidate a schedule from advisory ones
type Severity string

// Severities
const (
	SeverityHard Severity = "hard"
	SeveritySoft Severity = "soft"
)

// Violation is one broken rule found while validating a schedule
type Violation struct {
	Constraint string   `json:"constraint" bson:"constraint"`
	Severity   Severity `json:"severity" bson:"severity"`
	Message    string   `json:"message" bson:"message"`
}

func (v Violation) String() string {
	if v.Severity == SeveritySoft {
		return "[soft] " + v.Message
	}
	return v.Message
}

// ValidationResult aggregates every violation; Valid ignores soft violations
type ValidationResult struct {
	Valid      bool        `json:"valid" bson:"valid"`
	Violations []Violation `json:"violations" bson:"violations"`
}

// Messages flattens the violations into display strings
func (v ValidationResult) Messages() []string {
	out := make([]string, 0, len(v.Violations))
	for _, vi := range v.Violations {
		out = append(out, vi.String())
	}
	return out
}
