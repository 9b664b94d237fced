// Package constraints declares scheduling rules once so that every solving
// strategy and the post-hoc validator share the same source of truth.
package constraints

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/linesmerrill/hearing-scheduler/models"
)

// Kind discriminates the constraint variants
type Kind string

// Constraint kinds
const (
	KindMaxPerDay         Kind = "max_hearings_per_day"
	KindMaxPerJudgePerDay Kind = "max_hearings_per_judge"
	KindPriorityDeadline  Kind = "priority_deadline"
	KindMinimumGap        Kind = "minimum_gap"
	KindWorkingHours      Kind = "working_hours_limit"
	KindSpecialization    Kind = "judge_specialization"
	KindWeekendExclusion  Kind = "no_weekends"
	KindHolidayExclusion  Kind = "holiday_exclusion"
	KindWorkloadBalance   Kind = "balanced_workload"
)

// DefaultJudgeDailyCapacity applies to a judge with no override when the set
// carries no per-judge limit.
const DefaultJudgeDailyCapacity = 15

// Constraint is one rule. Only the parameters of its Kind are meaningful.
type Constraint struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Enabled bool   `json:"enabled"`

	Limit       int               `json:"limit,omitempty"`        // MaxPerDay, MaxPerJudgePerDay
	Threshold   float64           `json:"threshold,omitempty"`    // PriorityDeadline
	Days        int               `json:"days,omitempty"`         // PriorityDeadline, MinimumGap
	CaseType    models.CaseType   `json:"case_type,omitempty"`    // MinimumGap, empty means every type
	MaxHours    float64           `json:"max_hours,omitempty"`    // WorkingHours
	AvgDuration float64           `json:"avg_duration,omitempty"` // WorkingHours
	JudgeID     string            `json:"judge_id,omitempty"`     // Specialization, empty means roster tags
	CaseTypes   []models.CaseType `json:"case_types,omitempty"`   // Specialization for JudgeID
	Dates       []string          `json:"dates,omitempty"`        // HolidayExclusion
	Tolerance   float64           `json:"tolerance,omitempty"`    // WorkloadBalance
}

// MaxPerDay caps hearings per calendar day across all judges
func MaxPerDay(n int) Constraint {
	return Constraint{Kind: KindMaxPerDay, Enabled: true, Limit: n}
}

// MaxPerJudgePerDay caps hearings per judge per day
func MaxPerJudgePerDay(n int) Constraint {
	return Constraint{Kind: KindMaxPerJudgePerDay, Enabled: true, Limit: n}
}

// Deadline requires cases scoring at or above threshold to land no later than
// days after the window start, so day index days itself still qualifies.
func Deadline(threshold float64, days int) Constraint {
	return Constraint{Kind: KindPriorityDeadline, Enabled: true, Threshold: threshold, Days: days}
}

// Gap keeps at least days between a case's previous hearing and the new one.
// An empty case type applies the gap to every case.
func Gap(ct models.CaseType, days int) Constraint {
	return Constraint{Kind: KindMinimumGap, Enabled: true, CaseType: ct, Days: days}
}

// Hours bounds the summed estimated duration per judge per day
func Hours(maxHours, avgDuration float64) Constraint {
	return Constraint{Kind: KindWorkingHours, Enabled: true, MaxHours: maxHours, AvgDuration: avgDuration}
}

// Specialization sends cases only to judges whose specialization tags match
func Specialization() Constraint {
	return Constraint{Kind: KindSpecialization, Enabled: true}
}

// SpecializationFor restricts one judge to the listed case types
func SpecializationFor(judgeID string, types ...models.CaseType) Constraint {
	return Constraint{Kind: KindSpecialization, Enabled: true, JudgeID: judgeID, CaseTypes: types}
}

// NoWeekends excludes Saturdays and Sundays
func NoWeekends() Constraint {
	return Constraint{Kind: KindWeekendExclusion, Enabled: true}
}

// Holidays excludes explicit dates written as 2006-01-02
func Holidays(dates ...string) Constraint {
	return Constraint{Kind: KindHolidayExclusion, Enabled: true, Dates: dates}
}

// Balance is the soft workload-balance target: the coefficient of variation of
// per-judge hearing counts should stay within tolerance.
func Balance(tolerance float64) Constraint {
	return Constraint{Kind: KindWorkloadBalance, Enabled: true, Tolerance: tolerance}
}

// Hard reports whether violating the constraint invalidates a schedule
func (c Constraint) Hard() bool {
	return c.Kind != KindWorkloadBalance
}

// Severity maps Hard onto the violation severity
func (c Constraint) Severity() models.Severity {
	if c.Hard() {
		return models.SeverityHard
	}
	return models.SeveritySoft
}

func (c Constraint) defaultName() string {
	switch c.Kind {
	case KindMinimumGap:
		if c.CaseType != "" {
			return fmt.Sprintf("%s:%s", c.Kind, c.CaseType)
		}
	case KindSpecialization:
		if c.JudgeID != "" {
			return fmt.Sprintf("%s:%s", c.Kind, c.JudgeID)
		}
	}
	return string(c.Kind)
}

// validate fails on contradictory parameters
func (c Constraint) validate() error {
	field := c.defaultName()
	switch c.Kind {
	case KindMaxPerDay, KindMaxPerJudgePerDay:
		if c.Limit < 1 {
			return models.NewConfigurationError(field, "limit must be at least 1, got %d", c.Limit)
		}
	case KindPriorityDeadline:
		if c.Threshold < 0 || c.Threshold > 100 || math.IsNaN(c.Threshold) {
			return models.NewConfigurationError(field, "threshold %v outside [0,100]", c.Threshold)
		}
		if c.Days < 1 {
			return models.NewConfigurationError(field, "days must be at least 1, got %d", c.Days)
		}
	case KindMinimumGap:
		if c.Days < 1 {
			return models.NewConfigurationError(field, "days must be at least 1, got %d", c.Days)
		}
		if c.CaseType != "" {
			if _, ok := models.ParseCaseType(string(c.CaseType)); !ok {
				return models.NewConfigurationError(field, "unknown case type %q", c.CaseType)
			}
		}
	case KindWorkingHours:
		if c.AvgDuration <= 0 || c.MaxHours <= 0 || c.MaxHours > 24 || c.AvgDuration > c.MaxHours {
			return models.NewConfigurationError(field, "need 0 < avg duration (%v) <= max hours (%v) <= 24", c.AvgDuration, c.MaxHours)
		}
	case KindSpecialization:
		if c.JudgeID != "" && len(c.CaseTypes) == 0 {
			return models.NewConfigurationError(field, "judge %s has no case types", c.JudgeID)
		}
		for _, ct := range c.CaseTypes {
			if _, ok := models.ParseCaseType(string(ct)); !ok {
				return models.NewConfigurationError(field, "unknown case type %q", ct)
			}
		}
	case KindWeekendExclusion:
	case KindHolidayExclusion:
		for _, d := range c.Dates {
			if _, ok := models.ParseDate(d); !ok {
				return models.NewConfigurationError(field, "unparseable holiday %q", d)
			}
		}
	case KindWorkloadBalance:
		if c.Tolerance <= 0 || math.IsNaN(c.Tolerance) {
			return models.NewConfigurationError(field, "tolerance must be positive, got %v", c.Tolerance)
		}
	default:
		return models.NewConfigurationError("kind", "unknown constraint kind %q", c.Kind)
	}
	return nil
}

// Description renders the rule for reports
func (c Constraint) Description() string {
	switch c.Kind {
	case KindMaxPerDay:
		return fmt.Sprintf("No more than %d hearings per day", c.Limit)
	case KindMaxPerJudgePerDay:
		return fmt.Sprintf("No judge can handle more than %d hearings per day", c.Limit)
	case KindPriorityDeadline:
		return fmt.Sprintf("Cases with priority >= %.1f must be scheduled within %d days", c.Threshold, c.Days)
	case KindMinimumGap:
		scope := "All"
		if c.CaseType != "" {
			ct := string(c.CaseType)
			scope = strings.ToUpper(ct[:1]) + ct[1:]
		}
		return fmt.Sprintf("%s cases must have at least %d days between hearings", scope, c.Days)
	case KindWorkingHours:
		return fmt.Sprintf("Total hearing time cannot exceed %.1f hours per judge per day (~%d hearings)", c.MaxHours, int(c.MaxHours/c.AvgDuration))
	case KindSpecialization:
		if c.JudgeID == "" {
			return "Specialized judges only hear cases matching their specialization"
		}
		types := make([]string, 0, len(c.CaseTypes))
		for _, ct := range c.CaseTypes {
			types = append(types, string(ct))
		}
		sort.Strings(types)
		return fmt.Sprintf("Judge %s can only handle: %s", c.JudgeID, strings.Join(types, ", "))
	case KindWeekendExclusion:
		return "No hearings scheduled on weekends"
	case KindHolidayExclusion:
		return fmt.Sprintf("Exclude %d holidays from scheduling", len(c.Dates))
	case KindWorkloadBalance:
		return fmt.Sprintf("Judge workload variation should not exceed %.0f%% of the mean (soft)", c.Tolerance*100)
	}
	return string(c.Kind)
}
