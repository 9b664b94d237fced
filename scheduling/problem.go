package scheduling

import (
	"math"

	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/models"
	"github.com/linesmerrill/hearing-scheduler/priority"
)

// caseDurations is the estimated hearing length in hours per case type
var caseDurations = map[models.CaseType]float64{
	models.CaseTypeCriminal:      0.75,
	models.CaseTypeWrit:          0.5,
	models.CaseTypeAppeal:        0.75,
	models.CaseTypePetition:      0.5,
	models.CaseTypeRevision:      0.5,
	models.CaseTypeCivil:         0.5,
	models.CaseTypeExecution:     0.25,
	models.CaseTypeMiscellaneous: 0.25,
}

const defaultDuration = 0.5

// EstimatedDuration is the expected hearing length for the case type. An active
// working-hours constraint replaces the table with its average duration.
func EstimatedDuration(ct models.CaseType, set *constraints.Set) float64 {
	if set != nil {
		if avg, ok := set.AverageDuration(); ok {
			return avg
		}
	}
	if d, ok := caseDurations[ct]; ok {
		return d
	}
	return defaultDuration
}

// Problem is one validated scheduling instance. Cases are held in priority
// order; judges in roster order.
type Problem struct {
	Cases       []models.PriorityScore
	Judges      []models.JudgeRecord
	Window      models.Window
	Constraints *constraints.Set

	openDays  []int
	durations []float64
}

// NewProblem validates the inputs and prepares the instance
func NewProblem(cases []models.PriorityScore, judges []models.JudgeRecord, window models.Window, set *constraints.Set) (*Problem, error) {
	if len(judges) == 0 {
		return nil, models.NewConfigurationError("judges", "roster is empty")
	}
	ids := make(map[string]bool, len(judges))
	for _, j := range judges {
		if j.JudgeID == "" {
			return nil, models.NewConfigurationError("judges", "judge without an id")
		}
		if ids[j.JudgeID] {
			return nil, models.NewConfigurationError("judges", "duplicate judge id %s", j.JudgeID)
		}
		ids[j.JudgeID] = true
	}
	if window.Days < 1 {
		return nil, models.NewConfigurationError("window", "must span at least one day, got %d", window.Days)
	}
	if set == nil {
		return nil, models.NewConfigurationError("constraints", "constraint set is required")
	}

	sorted := append([]models.PriorityScore(nil), cases...)
	priority.SortByPriority(sorted)

	p := &Problem{
		Cases:       sorted,
		Judges:      append([]models.JudgeRecord(nil), judges...),
		Window:      models.NewWindow(window.Start, window.Days),
		Constraints: set,
		durations:   make([]float64, len(sorted)),
	}
	for k := 0; k < p.Window.Days; k++ {
		if blocked, _ := set.Blocked(p.Window.Date(k)); !blocked {
			p.openDays = append(p.openDays, k)
		}
	}
	for i, c := range sorted {
		p.durations[i] = EstimatedDuration(c.CaseType, set)
	}
	return p, nil
}

// OpenDays lists the day indices not blocked by an exclusion
func (p *Problem) OpenDays() []int {
	return p.openDays
}

// Variables is the size of the boolean assignment model
func (p *Problem) Variables() int {
	return len(p.Cases) * len(p.Judges) * p.Window.Days
}

// Slot builds the candidate for case i, judge j, day k
func (p *Problem) Slot(i, j, k int) constraints.Slot {
	return constraints.Slot{
		Case:     p.Cases[i],
		Judge:    p.Judges[j],
		Date:     p.Window.Date(k),
		DayIndex: k,
		Hours:    p.durations[i],
	}
}

// Weight is the objective weight of case i. Every case is worth at least 1 so
// covering more cases always pays.
func (p *Problem) Weight(i int) int64 {
	return int64(math.Round(100*p.Cases[i].Score)) + 1
}

// Value is the objective contribution of placing case i on day k
func (p *Problem) Value(i, k int) int64 {
	return p.Weight(i) * int64(p.Window.Days-k)
}
