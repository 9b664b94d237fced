package constraints

import (
	"fmt"
	"math"
	"time"

	"github.com/linesmerrill/hearing-scheduler/models"
)

const hoursEpsilon = 1e-9

// Set is an ordered, named collection of constraints. It is never mutated after
// construction, so one Set can back any number of scheduling runs.
type Set struct {
	constraints []Constraint
	holidays    map[int64]bool
}

// NewSet validates the constraints and names any that are unnamed
func NewSet(cs ...Constraint) (*Set, error) {
	s := &Set{
		constraints: make([]Constraint, 0, len(cs)),
		holidays:    map[int64]bool{},
	}
	names := map[string]bool{}
	for _, c := range cs {
		if err := c.validate(); err != nil {
			return nil, err
		}
		if c.Name == "" {
			c.Name = c.defaultName()
		}
		if names[c.Name] {
			base := c.Name
			for n := 2; names[c.Name]; n++ {
				c.Name = fmt.Sprintf("%s-%d", base, n)
			}
		}
		names[c.Name] = true
		c.CaseTypes = append([]models.CaseType(nil), c.CaseTypes...)
		c.Dates = append([]string(nil), c.Dates...)
		s.constraints = append(s.constraints, c)
	}
	s.index()
	return s, nil
}

func (s *Set) index() {
	s.holidays = map[int64]bool{}
	for _, c := range s.active(KindHolidayExclusion) {
		for _, d := range c.Dates {
			if t, ok := models.ParseDate(d); ok {
				s.holidays[dayKey(t)] = true
			}
		}
	}
}

// Default is the set used when nothing is configured: 20 hearings a day, 15 per
// judge, no weekends and a 25% balance tolerance.
func Default() *Set {
	s, _ := NewSet(MaxPerDay(20), MaxPerJudgePerDay(15), NoWeekends(), Balance(0.25))
	return s
}

// Constraints returns a copy of every constraint, enabled or not
func (s *Set) Constraints() []Constraint {
	return append([]Constraint(nil), s.constraints...)
}

// Get returns the first enabled constraint of the kind
func (s *Set) Get(kind Kind) (Constraint, bool) {
	for _, c := range s.constraints {
		if c.Enabled && c.Kind == kind {
			return c, true
		}
	}
	return Constraint{}, false
}

func (s *Set) active(kind Kind) []Constraint {
	var out []Constraint
	for _, c := range s.constraints {
		if c.Enabled && c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// WithEnabled returns a copy of the set with the named constraint toggled
func (s *Set) WithEnabled(name string, on bool) (*Set, error) {
	out := &Set{constraints: s.Constraints()}
	found := false
	for i := range out.constraints {
		if out.constraints[i].Name == name {
			out.constraints[i].Enabled = on
			found = true
		}
	}
	if !found {
		return nil, models.NewConfigurationError("constraints", "no constraint named %q", name)
	}
	out.index()
	return out, nil
}

// Describe lists every constraint for reports
func (s *Set) Describe() []string {
	out := make([]string, 0, len(s.constraints))
	for _, c := range s.constraints {
		line := fmt.Sprintf("%s: %s", c.Name, c.Description())
		if !c.Enabled {
			line += " [disabled]"
		}
		out = append(out, line)
	}
	return out
}

// Blocked reports whether no hearing may be held on date, and why
func (s *Set) Blocked(date time.Time) (bool, string) {
	if _, ok := s.Get(KindWeekendExclusion); ok {
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true, fmt.Sprintf("%s is a weekend", date.Format(models.DateLayout))
		}
	}
	if s.holidays[dayKey(date)] {
		return true, fmt.Sprintf("%s is a holiday", date.Format(models.DateLayout))
	}
	return false, ""
}

// DayCapacity is the cross-judge daily limit, 0 when unlimited
func (s *Set) DayCapacity() int {
	limit := 0
	for _, c := range s.active(KindMaxPerDay) {
		if limit == 0 || c.Limit < limit {
			limit = c.Limit
		}
	}
	return limit
}

// EffectiveCapacity is the number of hearings the judge may take on one day
func (s *Set) EffectiveCapacity(j models.JudgeRecord) int {
	capacity := DefaultJudgeDailyCapacity
	if c, ok := s.Get(KindMaxPerJudgePerDay); ok {
		capacity = c.Limit
	}
	if j.MaxDailyCapacity > 0 {
		capacity = j.MaxDailyCapacity
	}
	if day := s.DayCapacity(); day > 0 && day < capacity {
		capacity = day
	}
	if c, ok := s.Get(KindWorkingHours); ok {
		if byHours := int(math.Floor(c.MaxHours/c.AvgDuration + hoursEpsilon)); byHours < capacity {
			capacity = byHours
		}
	}
	return capacity
}

// AverageDuration is the working-hours average when that constraint is active
func (s *Set) AverageDuration() (float64, bool) {
	c, ok := s.Get(KindWorkingHours)
	return c.AvgDuration, ok
}

// Allows reports whether every hard slot predicate accepts the slot given the
// bookings in the ledger. The reason names the first rule that refused it.
func (s *Set) Allows(slot Slot, l *Ledger) (bool, string) {
	if l.Scheduled(slot.Case.CaseID) {
		return false, "case already scheduled"
	}
	if blocked, why := s.Blocked(slot.Date); blocked {
		return false, why
	}
	if n := l.JudgeDayCount(slot.Judge.JudgeID, slot.Date); n >= s.EffectiveCapacity(slot.Judge) {
		return false, fmt.Sprintf("judge %s at capacity on %s", slot.Judge.JudgeID, slot.Date.Format(models.DateLayout))
	}
	for _, c := range s.constraints {
		if !c.Enabled {
			continue
		}
		if ok, why := s.allows(c, slot, l, true); !ok {
			return false, why
		}
	}
	return true, ""
}

// allows evaluates one constraint against a slot. Count-based kinds are skipped
// when counts is false; the validator checks those globally instead.
func (s *Set) allows(c Constraint, slot Slot, l *Ledger, counts bool) (bool, string) {
	date := slot.Date.Format(models.DateLayout)
	switch c.Kind {
	case KindMaxPerDay:
		if counts && l.DayCount(slot.Date) >= c.Limit {
			return false, fmt.Sprintf("daily limit of %d reached on %s", c.Limit, date)
		}
	case KindWorkingHours:
		if counts && l.JudgeDayHours(slot.Judge.JudgeID, slot.Date)+slot.Hours > c.MaxHours+hoursEpsilon {
			return false, fmt.Sprintf("judge %s would exceed %.1f hours on %s", slot.Judge.JudgeID, c.MaxHours, date)
		}
	case KindPriorityDeadline:
		if slot.Case.Score >= c.Threshold && slot.DayIndex > c.Days {
			return false, fmt.Sprintf("case %s (priority %.2f) must be heard within %d days of the window start", slot.Case.CaseID, slot.Case.Score, c.Days)
		}
	case KindMinimumGap:
		if c.CaseType != "" && c.CaseType != slot.Case.CaseType {
			break
		}
		last, ok := models.ParseDate(slot.Case.LastHearingDate)
		if !ok {
			break
		}
		if gap := models.DaysBetween(last, slot.Date); gap < c.Days {
			return false, fmt.Sprintf("case %s last heard %s, needs %d days gap", slot.Case.CaseID, last.Format(models.DateLayout), c.Days)
		}
	case KindSpecialization:
		if c.JudgeID == "" {
			if !slot.Judge.Handles(slot.Case.CaseType) {
				return false, fmt.Sprintf("judge %s does not hear %s cases", slot.Judge.JudgeID, slot.Case.CaseType)
			}
			break
		}
		if c.JudgeID != slot.Judge.JudgeID {
			break
		}
		for _, ct := range c.CaseTypes {
			if ct == slot.Case.CaseType {
				return true, ""
			}
		}
		return false, fmt.Sprintf("judge %s only hears %v", c.JudgeID, c.CaseTypes)
	case KindWeekendExclusion:
		if wd := slot.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false, fmt.Sprintf("%s is a weekend", date)
		}
	case KindHolidayExclusion:
		for _, d := range c.Dates {
			if t, ok := models.ParseDate(d); ok && dayKey(t) == dayKey(slot.Date) {
				return false, fmt.Sprintf("%s is a holiday", date)
			}
		}
	}
	return true, ""
}
