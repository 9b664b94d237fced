// Package metrics evaluates schedule quality after the fact: coverage,
// utilization, fairness, timeliness and the gaps a planner could still fill.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// Evaluator defaults
const (
	DefaultPriorityHorizonDays = 7
	DefaultGapThreshold        = 0.5
)

// Evaluator computes metrics against the constraint set the schedule was built
// with. A nil Constraints treats every day as open and every judge at the
// default capacity.
type Evaluator struct {
	Constraints         *constraints.Set
	PriorityHorizonDays int
	GapThreshold        float64
}

// NewEvaluator returns an evaluator with the default horizon and gap threshold
func NewEvaluator(set *constraints.Set) *Evaluator {
	return &Evaluator{
		Constraints:         set,
		PriorityHorizonDays: DefaultPriorityHorizonDays,
		GapThreshold:        DefaultGapThreshold,
	}
}

func (e *Evaluator) horizon() int {
	if e.PriorityHorizonDays <= 0 {
		return DefaultPriorityHorizonDays
	}
	return e.PriorityHorizonDays
}

func (e *Evaluator) threshold() float64 {
	if e.GapThreshold <= 0 {
		return DefaultGapThreshold
	}
	return e.GapThreshold
}

func (e *Evaluator) capacity(j models.JudgeRecord) int {
	if e.Constraints != nil {
		return e.Constraints.EffectiveCapacity(j)
	}
	if j.MaxDailyCapacity > 0 {
		return j.MaxDailyCapacity
	}
	return constraints.DefaultJudgeDailyCapacity
}

func (e *Evaluator) openDays(w models.Window) []int {
	var out []int
	for k := 0; k < w.Days; k++ {
		if e.Constraints != nil {
			if blocked, _ := e.Constraints.Blocked(w.Date(k)); blocked {
				continue
			}
		}
		out = append(out, k)
	}
	return out
}

// Efficiency computes the metrics of one schedule. cases is the full pending set
// the schedule was built from; when empty the schedule's own entries and
// unscheduled list stand in for it.
func (e *Evaluator) Efficiency(schedule *models.Schedule, cases []models.PriorityScore, judges []models.JudgeRecord, window models.Window) models.Metrics {
	m := models.Metrics{
		StrategyUsed:  schedule.StrategyUsed,
		State:         schedule.State,
		ProvenOptimal: schedule.ProvenOptimal,
	}

	total := distinctCases(cases)
	if total == 0 {
		total = len(schedule.Entries) + len(schedule.Unscheduled)
	}
	m.TotalCases = total
	m.ScheduledCases = len(schedule.Entries)
	m.UnscheduledCases = total - m.ScheduledCases
	if m.UnscheduledCases < 0 {
		m.UnscheduledCases = 0
	}
	m.CoverageRate = ratio(float64(m.ScheduledCases), float64(total))

	open := e.openDays(window)
	m.OpenDays = len(open)

	judgeCapacity := 0
	for _, j := range judges {
		judgeCapacity += e.capacity(j)
	}
	dayCap := 0
	if e.Constraints != nil {
		dayCap = e.Constraints.DayCapacity()
	}
	offered := judgeCapacity
	if dayCap > 0 && dayCap < offered {
		offered = dayCap
	}
	booked := float64(m.ScheduledCases)
	m.JudgeUtilization = ratio(booked, float64(judgeCapacity*len(open)))
	m.SlotUtilization = ratio(booked, float64(offered*len(open)))
	m.AvgHearingsPerDay = round(ratio(booked, float64(len(open))))

	loads := judgeLoads(schedule, judges)
	if len(loads) > 0 {
		m.WorkloadStdDev = round(stat.PopStdDev(loads, nil))
	}

	m.PriorityCoverage = e.priorityCoverage(schedule, cases, window)

	if len(schedule.Entries) > 0 {
		days := make([]float64, 0, len(schedule.Entries))
		scores := make([]float64, 0, len(schedule.Entries))
		for _, en := range schedule.Entries {
			k, _ := window.Index(en.HearingDate)
			days = append(days, float64(k))
			scores = append(scores, en.PriorityScore)
		}
		m.AvgDaysToFirstHearing = round(stat.Mean(days, nil))
		m.AvgPriorityScheduled = round(stat.Mean(scores, nil))
	}
	return m
}

// priorityCoverage is the share of High cases heard within the horizon. With
// no High cases nothing urgent is waiting, so it is 1.
func (e *Evaluator) priorityCoverage(schedule *models.Schedule, cases []models.PriorityScore, window models.Window) float64 {
	high := map[string]bool{}
	for _, c := range cases {
		if c.Category == models.PriorityHigh {
			high[c.CaseID] = true
		}
	}
	if len(cases) == 0 {
		for _, en := range schedule.Entries {
			if en.Category == models.PriorityHigh {
				high[en.CaseID] = true
			}
		}
		for _, u := range schedule.Unscheduled {
			if u.Category == models.PriorityHigh {
				high[u.CaseID] = true
			}
		}
	}
	if len(high) == 0 {
		return 1
	}
	timely := 0
	for _, en := range schedule.Entries {
		k, ok := window.Index(en.HearingDate)
		if high[en.CaseID] && ok && k < e.horizon() {
			timely++
		}
	}
	return ratio(float64(timely), float64(len(high)))
}

// Compare reports after minus before for every metric
func Compare(before, after models.Metrics) models.Delta {
	d := models.Delta{
		CoverageRate:          round(after.CoverageRate - before.CoverageRate),
		ScheduledCases:        after.ScheduledCases - before.ScheduledCases,
		UnscheduledCases:      after.UnscheduledCases - before.UnscheduledCases,
		JudgeUtilization:      round(after.JudgeUtilization - before.JudgeUtilization),
		AvgHearingsPerDay:     round(after.AvgHearingsPerDay - before.AvgHearingsPerDay),
		WorkloadStdDev:        round(after.WorkloadStdDev - before.WorkloadStdDev),
		PriorityCoverage:      round(after.PriorityCoverage - before.PriorityCoverage),
		AvgDaysToFirstHearing: round(after.AvgDaysToFirstHearing - before.AvgDaysToFirstHearing),
		SlotUtilization:       round(after.SlotUtilization - before.SlotUtilization),
		AvgPriorityScheduled:  round(after.AvgPriorityScheduled - before.AvgPriorityScheduled),
	}
	if before.UnscheduledCases > 0 {
		d.BacklogReductionPct = round(100 * float64(before.UnscheduledCases-after.UnscheduledCases) / float64(before.UnscheduledCases))
	}
	return d
}

// IdentifyGaps lists (judge, open day) pairs booked below the gap threshold of
// their capacity, by date then roster order.
func (e *Evaluator) IdentifyGaps(schedule *models.Schedule, window models.Window, judges []models.JudgeRecord) []models.GapDescriptor {
	booked := map[string]int{}
	for _, en := range schedule.Entries {
		booked[en.JudgeID+"|"+en.HearingDate.Format(models.DateLayout)]++
	}

	var gaps []models.GapDescriptor
	for _, k := range e.openDays(window) {
		date := window.Date(k)
		for _, j := range judges {
			capacity := e.capacity(j)
			n := booked[j.JudgeID+"|"+date.Format(models.DateLayout)]
			util := ratio(float64(n), float64(capacity))
			if util < e.threshold() {
				gaps = append(gaps, models.GapDescriptor{
					JudgeID:     j.JudgeID,
					Date:        date,
					Booked:      n,
					Capacity:    capacity,
					Utilization: util,
				})
			}
		}
	}
	return gaps
}

// WorkloadDistribution summarizes each roster judge's share of the schedule
func WorkloadDistribution(schedule *models.Schedule, judges []models.JudgeRecord) []models.JudgeWorkload {
	type acc struct {
		hearings int
		days     map[string]bool
		score    float64
		hours    float64
	}
	byJudge := map[string]*acc{}
	for _, j := range judges {
		byJudge[j.JudgeID] = &acc{days: map[string]bool{}}
	}
	for _, en := range schedule.Entries {
		a, ok := byJudge[en.JudgeID]
		if !ok {
			continue
		}
		a.hearings++
		a.days[en.HearingDate.Format(models.DateLayout)] = true
		a.score += en.PriorityScore
		a.hours += en.EstimatedHours
	}

	out := make([]models.JudgeWorkload, 0, len(judges))
	for _, j := range judges {
		a := byJudge[j.JudgeID]
		out = append(out, models.JudgeWorkload{
			JudgeID:        j.JudgeID,
			JudgeName:      j.JudgeName,
			TotalHearings:  a.hearings,
			DaysScheduled:  len(a.days),
			AvgPerDay:      round(ratio(float64(a.hearings), float64(len(a.days)))),
			AvgPriority:    round(ratio(a.score, float64(a.hearings))),
			EstimatedHours: round(a.hours),
		})
	}
	return out
}

func judgeLoads(schedule *models.Schedule, judges []models.JudgeRecord) []float64 {
	counts := map[string]int{}
	for _, en := range schedule.Entries {
		counts[en.JudgeID]++
	}
	loads := make([]float64, 0, len(judges))
	for _, j := range judges {
		loads = append(loads, float64(counts[j.JudgeID]))
	}
	return loads
}

func distinctCases(cases []models.PriorityScore) int {
	seen := make(map[string]bool, len(cases))
	for _, c := range cases {
		seen[c.CaseID] = true
	}
	return len(seen)
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return round(num / den)
}

func round(v float64) float64 {
	return math.Round(v*10000) / 10000
}
