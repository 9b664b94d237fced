package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// 2026-11-02 is a Monday
var monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

func judges() []models.JudgeRecord {
	return []models.JudgeRecord{{JudgeID: "J1", JudgeName: "Asha"}, {JudgeID: "J2", JudgeName: "Bela"}}
}

func entry(caseID, judgeID string, day int, score float64) models.ScheduleEntry {
	return models.ScheduleEntry{
		CaseID:         caseID,
		JudgeID:        judgeID,
		HearingDate:    monday.AddDate(0, 0, day),
		DayIndex:       day,
		PriorityScore:  score,
		Category:       models.CategoryFor(score),
		EstimatedHours: 0.5,
	}
}

func fixture(t *testing.T) (*Evaluator, *models.Schedule, []models.PriorityScore, models.Window) {
	t.Helper()
	set, err := constraints.NewBuilder().MaxHearingsPerJudgePerDay(2).MaxHearingsPerDay(3).NoWeekends().Build()
	require.NoError(t, err)

	window := models.NewWindow(monday, 7) // five open weekdays
	schedule := &models.Schedule{
		Window:        window,
		StrategyUsed:  models.StrategyExact,
		State:         models.RunSolved,
		ProvenOptimal: true,
		Entries: []models.ScheduleEntry{
			entry("A", "J1", 0, 90),
			entry("B", "J1", 0, 80),
			entry("C", "J2", 0, 60),
			entry("D", "J1", 1, 40),
		},
		Unscheduled: []models.UnscheduledCase{{CaseID: "E", PriorityScore: 75, Category: models.PriorityHigh}},
	}
	cases := []models.PriorityScore{
		{CaseID: "A", Score: 90, Category: models.PriorityHigh},
		{CaseID: "B", Score: 80, Category: models.PriorityHigh},
		{CaseID: "C", Score: 60, Category: models.PriorityMedium},
		{CaseID: "D", Score: 40, Category: models.PriorityLow},
		{CaseID: "E", Score: 75, Category: models.PriorityHigh},
	}
	return NewEvaluator(set), schedule, cases, window
}

func TestEfficiency(t *testing.T) {
	ev, schedule, cases, window := fixture(t)

	m := ev.Efficiency(schedule, cases, judges(), window)

	assert.Equal(t, 5, m.TotalCases)
	assert.Equal(t, 4, m.ScheduledCases)
	assert.Equal(t, 1, m.UnscheduledCases)
	assert.Equal(t, 0.8, m.CoverageRate)
	assert.Equal(t, 5, m.OpenDays)
	// capacity 2 judges x 2 x 5 days = 20
	assert.Equal(t, 0.2, m.JudgeUtilization)
	// offered min(3, 4) x 5 days = 15
	assert.Equal(t, 0.2667, m.SlotUtilization)
	assert.Equal(t, 0.8, m.AvgHearingsPerDay)
	// loads 3 and 1
	assert.Equal(t, 1.0, m.WorkloadStdDev)
	assert.Equal(t, 0.6667, m.PriorityCoverage)
	assert.Equal(t, 0.25, m.AvgDaysToFirstHearing)
	assert.Equal(t, 67.5, m.AvgPriorityScheduled)
	assert.Equal(t, models.StrategyExact, m.StrategyUsed)
	assert.True(t, m.ProvenOptimal)
}

func TestEfficiencyWithoutCaseList(t *testing.T) {
	ev, schedule, _, window := fixture(t)
	m := ev.Efficiency(schedule, nil, judges(), window)
	assert.Equal(t, 5, m.TotalCases)
	assert.Equal(t, 0.6667, m.PriorityCoverage)
}

func TestEfficiencyEmptySchedule(t *testing.T) {
	ev := NewEvaluator(nil)
	m := ev.Efficiency(&models.Schedule{}, nil, nil, models.NewWindow(monday, 0))
	assert.Equal(t, 0, m.TotalCases)
	assert.Equal(t, 0.0, m.CoverageRate)
	assert.Equal(t, 1.0, m.PriorityCoverage)
	assert.Equal(t, 0.0, m.JudgeUtilization)
}

func TestPriorityHorizon(t *testing.T) {
	ev, schedule, cases, window := fixture(t)
	ev.PriorityHorizonDays = 1
	schedule.Entries[1] = entry("B", "J1", 2, 80)
	m := ev.Efficiency(schedule, cases, judges(), window)
	assert.Equal(t, 0.3333, m.PriorityCoverage)
}

func TestCompare(t *testing.T) {
	before := models.Metrics{ScheduledCases: 60, UnscheduledCases: 40, CoverageRate: 0.6, WorkloadStdDev: 3}
	after := models.Metrics{ScheduledCases: 90, UnscheduledCases: 10, CoverageRate: 0.9, WorkloadStdDev: 1.5}

	d := Compare(before, after)
	assert.Equal(t, 30, d.ScheduledCases)
	assert.Equal(t, -30, d.UnscheduledCases)
	assert.Equal(t, 0.3, d.CoverageRate)
	assert.Equal(t, -1.5, d.WorkloadStdDev)
	assert.Equal(t, 75.0, d.BacklogReductionPct)

	assert.Equal(t, 0.0, Compare(models.Metrics{}, after).BacklogReductionPct)
}

func TestIdentifyGaps(t *testing.T) {
	ev, schedule, _, window := fixture(t)

	gaps := ev.IdentifyGaps(schedule, window, judges())

	// 5 open days x 2 judges, J1 full on day 0 and half on day 1, J2 half on day 0
	require.Len(t, gaps, 7)
	assert.Equal(t, "J2", gaps[0].JudgeID)
	assert.Equal(t, monday.AddDate(0, 0, 1), gaps[0].Date)
	assert.Equal(t, 0, gaps[0].Booked)
	assert.Equal(t, 2, gaps[0].Capacity)
	for i := 1; i < len(gaps); i++ {
		assert.False(t, gaps[i].Date.Before(gaps[i-1].Date))
	}
	for _, g := range gaps {
		assert.NotEqual(t, 5, int(g.Date.Sub(monday).Hours()/24), "weekend reported as gap")
	}
}

func TestWorkloadDistribution(t *testing.T) {
	_, schedule, _, _ := fixture(t)
	schedule.Entries = append(schedule.Entries, entry("X", "J9", 0, 10))

	w := WorkloadDistribution(schedule, judges())
	require.Len(t, w, 2)
	assert.Equal(t, models.JudgeWorkload{
		JudgeID: "J1", JudgeName: "Asha", TotalHearings: 3, DaysScheduled: 2,
		AvgPerDay: 1.5, AvgPriority: 70, EstimatedHours: 1.5,
	}, w[0])
	assert.Equal(t, 1, w[1].TotalHearings)
	assert.Equal(t, 60.0, w[1].AvgPriority)
}
