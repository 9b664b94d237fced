package constraints

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/linesmerrill/hearing-scheduler/models"
)

// Names used for violations that do not come from a declared constraint
const (
	structuralRule    = "schedule_structure"
	judgeCapacityRule = "judge_capacity"
)

// Validate checks a finished schedule against every enabled constraint and
// collects all violations. Soft violations are reported but leave Valid true.
func (s *Set) Validate(schedule *models.Schedule, judges []models.JudgeRecord) models.ValidationResult {
	res := models.ValidationResult{Valid: true}
	add := func(rule string, sev models.Severity, format string, args ...interface{}) {
		res.Violations = append(res.Violations, models.Violation{
			Constraint: rule,
			Severity:   sev,
			Message:    fmt.Sprintf(format, args...),
		})
		if sev == models.SeverityHard {
			res.Valid = false
		}
	}

	if schedule == nil {
		return res
	}

	roster := make(map[string]models.JudgeRecord, len(judges))
	for _, j := range judges {
		roster[j.JudgeID] = j
	}

	ledger := NewLedger()
	seen := map[string]bool{}
	for _, e := range schedule.Entries {
		date := e.HearingDate.Format(models.DateLayout)
		j, known := roster[e.JudgeID]
		if !known {
			add(structuralRule, models.SeverityHard, "case %s assigned to unknown judge %s on %s", e.CaseID, e.JudgeID, date)
			j = models.JudgeRecord{JudgeID: e.JudgeID}
		}
		if seen[e.CaseID] {
			add(structuralRule, models.SeverityHard, "case %s scheduled more than once", e.CaseID)
		}
		seen[e.CaseID] = true

		k, inside := schedule.Window.Index(e.HearingDate)
		if !inside {
			add(structuralRule, models.SeverityHard, "case %s on %s falls outside the scheduling window", e.CaseID, date)
		}

		slot := Slot{
			Case: models.PriorityScore{
				CaseID:          e.CaseID,
				CaseType:        e.CaseType,
				Score:           e.PriorityScore,
				Category:        e.Category,
				LastHearingDate: e.LastHearingDate,
			},
			Judge:    j,
			Date:     e.HearingDate,
			DayIndex: k,
			Hours:    e.EstimatedHours,
		}
		for _, c := range s.constraints {
			if !c.Enabled {
				continue
			}
			if known || c.Kind != KindSpecialization {
				if ok, why := s.allows(c, slot, ledger, false); !ok {
					add(c.Name, c.Severity(), "%s", why)
				}
			}
		}
		ledger.Add(slot)
	}

	s.validateCounts(schedule, roster, add)
	s.validateBalance(schedule, judges, add)

	zap.S().Infow("validated schedule",
		"runID", schedule.RunID,
		"entries", len(schedule.Entries),
		"valid", res.Valid,
		"violations", len(res.Violations),
	)
	return res
}

// ValidateSchedule is Validate flattened to a flag and display messages
func (s *Set) ValidateSchedule(schedule *models.Schedule, judges []models.JudgeRecord) (bool, []string) {
	res := s.Validate(schedule, judges)
	return res.Valid, res.Messages()
}

type addFunc func(rule string, sev models.Severity, format string, args ...interface{})

func (s *Set) validateCounts(schedule *models.Schedule, roster map[string]models.JudgeRecord, add addFunc) {
	perDay := map[string]int{}
	perJudgeDay := map[[2]string]int{}
	hours := map[[2]string]float64{}
	for _, e := range schedule.Entries {
		d := e.HearingDate.Format(models.DateLayout)
		k := [2]string{e.JudgeID, d}
		perDay[d]++
		perJudgeDay[k]++
		hours[k] += e.EstimatedHours
	}

	if c, ok := s.Get(KindMaxPerDay); ok {
		limit := s.DayCapacity()
		for _, d := range sortedKeys(perDay) {
			if perDay[d] > limit {
				add(c.Name, models.SeverityHard, "%s: %d hearings exceeds daily limit of %d", d, perDay[d], limit)
			}
		}
	}

	capRule := judgeCapacityRule
	if c, ok := s.Get(KindMaxPerJudgePerDay); ok {
		capRule = c.Name
	}
	hoursRule, hasHours := s.Get(KindWorkingHours)

	keys := make([][2]string, 0, len(perJudgeDay))
	for k := range perJudgeDay {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][1] != keys[b][1] {
			return keys[a][1] < keys[b][1]
		}
		return keys[a][0] < keys[b][0]
	})
	for _, k := range keys {
		j, ok := roster[k[0]]
		if !ok {
			continue
		}
		if capacity := s.EffectiveCapacity(j); perJudgeDay[k] > capacity {
			add(capRule, models.SeverityHard, "judge %s on %s: %d hearings exceeds capacity of %d", k[0], k[1], perJudgeDay[k], capacity)
		}
		if hasHours && hours[k] > hoursRule.MaxHours+hoursEpsilon {
			add(hoursRule.Name, models.SeverityHard, "judge %s on %s: %.2f hours exceeds limit of %.1f", k[0], k[1], hours[k], hoursRule.MaxHours)
		}
	}
}

func (s *Set) validateBalance(schedule *models.Schedule, judges []models.JudgeRecord, add addFunc) {
	c, ok := s.Get(KindWorkloadBalance)
	if !ok || len(judges) < 2 {
		return
	}
	counts := map[string]int{}
	for _, e := range schedule.Entries {
		counts[e.JudgeID]++
	}
	loads := make([]float64, 0, len(judges))
	for _, j := range judges {
		loads = append(loads, float64(counts[j.JudgeID]))
	}
	mean := stat.Mean(loads, nil)
	if mean == 0 {
		return
	}
	if cv := stat.PopStdDev(loads, nil) / mean; cv > c.Tolerance {
		add(c.Name, c.Severity(), "judge workload variation %.0f%% of mean exceeds tolerance of %.0f%%", cv*100, c.Tolerance*100)
	}
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
