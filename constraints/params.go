package constraints

import "github.com/linesmerrill/hearing-scheduler/models"

// DeadlineParams configures the priority deadline
type DeadlineParams struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Days      int     `json:"days" yaml:"days"`
}

// GapParams configures the minimum gap between hearings
type GapParams struct {
	CaseType string `json:"case_type" yaml:"case_type"`
	Days     int    `json:"days" yaml:"days"`
}

// HoursParams configures the working-hours limit
type HoursParams struct {
	MaxHours    float64 `json:"max_hours" yaml:"max_hours"`
	AvgDuration float64 `json:"avg_duration" yaml:"avg_duration"`
}

// SpecializationParams restricts one judge to a list of case types
type SpecializationParams struct {
	JudgeID   string   `json:"judge_id" yaml:"judge_id"`
	CaseTypes []string `json:"case_types" yaml:"case_types"`
}

// Params is the configuration-file form of a constraint set. Zero values leave a
// constraint out.
type Params struct {
	MaxPerDay         int                    `json:"max_per_day" yaml:"max_per_day"`
	MaxPerJudgePerDay int                    `json:"max_per_judge_per_day" yaml:"max_per_judge_per_day"`
	PriorityDeadline  *DeadlineParams        `json:"priority_deadline,omitempty" yaml:"priority_deadline"`
	MinimumGap        *GapParams             `json:"minimum_gap,omitempty" yaml:"minimum_gap"`
	WorkingHours      *HoursParams           `json:"working_hours,omitempty" yaml:"working_hours"`
	Specialization    bool                   `json:"specialization" yaml:"specialization"`
	JudgeTypes        []SpecializationParams `json:"judge_types,omitempty" yaml:"judge_types"`
	NoWeekends        bool                   `json:"no_weekends" yaml:"no_weekends"`
	Holidays          []string               `json:"holidays,omitempty" yaml:"holidays"`
	BalanceTolerance  float64                `json:"balance_tolerance" yaml:"balance_tolerance"`
}

// FromParams builds a Set from configuration. Negative numbers are rejected
// rather than treated as absent.
func FromParams(p Params) (*Set, error) {
	if p.MaxPerDay < 0 {
		return nil, models.NewConfigurationError("max_per_day", "must not be negative, got %d", p.MaxPerDay)
	}
	if p.MaxPerJudgePerDay < 0 {
		return nil, models.NewConfigurationError("max_per_judge_per_day", "must not be negative, got %d", p.MaxPerJudgePerDay)
	}
	if p.BalanceTolerance < 0 {
		return nil, models.NewConfigurationError("balance_tolerance", "must not be negative, got %v", p.BalanceTolerance)
	}

	b := NewBuilder()
	if p.MaxPerDay > 0 {
		b.MaxHearingsPerDay(p.MaxPerDay)
	}
	if p.MaxPerJudgePerDay > 0 {
		b.MaxHearingsPerJudgePerDay(p.MaxPerJudgePerDay)
	}
	if d := p.PriorityDeadline; d != nil {
		b.PriorityDeadline(d.Threshold, d.Days)
	}
	if g := p.MinimumGap; g != nil {
		ct := models.CaseType("")
		if g.CaseType != "" {
			parsed, ok := models.ParseCaseType(g.CaseType)
			if !ok {
				return nil, models.NewConfigurationError("minimum_gap", "unknown case type %q", g.CaseType)
			}
			ct = parsed
		}
		b.MinimumGap(ct, g.Days)
	}
	if h := p.WorkingHours; h != nil {
		b.WorkingHours(h.MaxHours, h.AvgDuration)
	}
	if p.Specialization {
		b.JudgeSpecialization()
	}
	for _, jt := range p.JudgeTypes {
		types := make([]models.CaseType, 0, len(jt.CaseTypes))
		for _, raw := range jt.CaseTypes {
			ct, ok := models.ParseCaseType(raw)
			if !ok {
				return nil, models.NewConfigurationError("judge_types", "judge %s: unknown case type %q", jt.JudgeID, raw)
			}
			types = append(types, ct)
		}
		b.JudgeSpecializationFor(jt.JudgeID, types...)
	}
	if p.NoWeekends {
		b.NoWeekends()
	}
	if len(p.Holidays) > 0 {
		b.Holidays(p.Holidays...)
	}
	if p.BalanceTolerance > 0 {
		b.BalancedWorkload(p.BalanceTolerance)
	}
	return b.Build()
}
