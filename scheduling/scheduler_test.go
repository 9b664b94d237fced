package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// 2026-11-02 is a Monday
var monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

type mockSolver struct {
	mock.Mock
}

func (m *mockSolver) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	ret := m.Called(ctx, p)
	sol, _ := ret.Get(0).(*Solution)
	return sol, ret.Error(1)
}

func newTestScheduler() *Scheduler {
	s := New(2 * time.Second)
	s.Now = func() time.Time { return monday }
	n := 0
	s.NewRunID = func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}
	return s
}

func scored(id string, score float64, ct models.CaseType) models.PriorityScore {
	return models.PriorityScore{CaseID: id, CaseType: ct, Score: score, Category: models.CategoryFor(score)}
}

func mustSet(t *testing.T, b *constraints.Builder) *constraints.Set {
	t.Helper()
	s, err := b.Build()
	require.NoError(t, err)
	return s
}

func backlog(n int) []models.PriorityScore {
	types := []models.CaseType{models.CaseTypeCriminal, models.CaseTypeCivil, models.CaseTypeWrit, models.CaseTypeAppeal}
	out := make([]models.PriorityScore, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, scored(fmt.Sprintf("C-%03d", i), float64((i*37)%100), types[i%len(types)]))
	}
	return out
}

func roster(n int) []models.JudgeRecord {
	out := make([]models.JudgeRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.JudgeRecord{JudgeID: fmt.Sprintf("J%d", i+1), JudgeName: fmt.Sprintf("Judge %d", i+1)})
	}
	return out
}

func TestGenerateScheduleSingleJudgeTwoDays(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().MaxHearingsPerJudgePerDay(2))
	cases := []models.PriorityScore{
		scored("low", 30, models.CaseTypeCivil),
		scored("high", 90, models.CaseTypeCivil),
		scored("mid", 60, models.CaseTypeCivil),
	}
	judges := roster(1)

	for _, strategy := range []models.Strategy{models.StrategyHeuristic, models.StrategyExact} {
		t.Run(string(strategy), func(t *testing.T) {
			schedule, err := newTestScheduler().GenerateSchedule(context.Background(), cases, judges, models.NewWindow(monday, 2), set, strategy)
			require.NoError(t, err)

			require.Len(t, schedule.Entries, 3)
			assert.True(t, schedule.FullyScheduled())
			day := map[string]int{}
			for _, e := range schedule.Entries {
				day[e.CaseID] = e.DayIndex
				assert.Equal(t, "J1", e.JudgeID)
			}
			assert.Equal(t, 0, day["high"])
			assert.Equal(t, 0, day["mid"])
			assert.Equal(t, 1, day["low"])
			assert.Equal(t, models.RunSolved, schedule.State)
			assert.Equal(t, strategy, schedule.StrategyUsed)
		})
	}
}

func TestGenerateScheduleEmptyRosterFails(t *testing.T) {
	schedule, err := newTestScheduler().GenerateSchedule(context.Background(), backlog(3), nil, models.NewWindow(monday, 5), constraints.Default(), models.StrategyHeuristic)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
	require.NotNil(t, schedule)
	assert.Equal(t, models.RunFailed, schedule.State)
	assert.Empty(t, schedule.Entries)
}

func TestGenerateScheduleConfigurationErrors(t *testing.T) {
	dup := []models.JudgeRecord{{JudgeID: "J1"}, {JudgeID: "J1"}}
	cases := map[string]struct {
		judges   []models.JudgeRecord
		window   models.Window
		set      *constraints.Set
		strategy models.Strategy
	}{
		"duplicate judges": {dup, models.NewWindow(monday, 5), constraints.Default(), models.StrategyHeuristic},
		"empty window":     {roster(1), models.NewWindow(monday, 0), constraints.Default(), models.StrategyHeuristic},
		"nil set":          {roster(1), models.NewWindow(monday, 5), nil, models.StrategyExact},
		"unknown strategy": {roster(1), models.NewWindow(monday, 5), constraints.Default(), "random"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			schedule, err := newTestScheduler().GenerateSchedule(context.Background(), backlog(2), c.judges, c.window, c.set, c.strategy)
			assert.True(t, errors.Is(err, models.ErrConfiguration))
			assert.Equal(t, models.RunFailed, schedule.State)
		})
	}
}

func TestGeneratedSchedulesSatisfyHardConstraints(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().
		MaxHearingsPerDay(7).
		MaxHearingsPerJudgePerDay(3).
		NoWeekends().
		Holidays("2026-11-04").
		WorkingHours(2, 0.5))
	judges := roster(3)
	judges[2].MaxDailyCapacity = 1

	for _, strategy := range []models.Strategy{models.StrategyHeuristic, models.StrategyExact} {
		t.Run(string(strategy), func(t *testing.T) {
			schedule, err := newTestScheduler().GenerateSchedule(context.Background(), backlog(60), judges, models.NewWindow(monday, 10), set, strategy)
			require.NoError(t, err)

			res := set.Validate(schedule, judges)
			assert.True(t, res.Valid, "%v", res.Messages())

			seen := map[string]bool{}
			perJudgeDay := map[string]int{}
			for _, e := range schedule.Entries {
				assert.False(t, seen[e.CaseID], "case %s booked twice", e.CaseID)
				seen[e.CaseID] = true
				perJudgeDay[e.JudgeID+e.HearingDate.Format(models.DateLayout)]++
				wd := e.HearingDate.Weekday()
				assert.NotEqual(t, time.Saturday, wd)
				assert.NotEqual(t, time.Sunday, wd)
				assert.NotEqual(t, "2026-11-04", e.HearingDate.Format(models.DateLayout))
			}
			for k, n := range perJudgeDay {
				assert.LessOrEqual(t, n, 3, k)
			}
			assert.Equal(t, 60, len(schedule.Entries)+len(schedule.Unscheduled))
			for _, u := range schedule.Unscheduled {
				assert.NotEmpty(t, u.Reason)
			}
		})
	}
}

func TestGenerateScheduleIsDeterministic(t *testing.T) {
	set := constraints.Default()
	cases := backlog(40)
	reversed := make([]models.PriorityScore, len(cases))
	for i := range cases {
		reversed[len(cases)-1-i] = cases[i]
	}

	first, err := newTestScheduler().GenerateSchedule(context.Background(), cases, roster(2), models.NewWindow(monday, 5), set, models.StrategyHeuristic)
	require.NoError(t, err)
	second, err := newTestScheduler().GenerateSchedule(context.Background(), reversed, roster(2), models.NewWindow(monday, 5), set, models.StrategyHeuristic)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(models.Schedule{}, "RunID", "GeneratedAt")); diff != "" {
		t.Errorf("schedule depends on input order (-first +second):\n%s", diff)
	}
}

func TestCoverageNeverDropsWithLongerWindow(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().MaxHearingsPerJudgePerDay(4).NoWeekends())
	cases := backlog(80)
	prev := -1
	for days := 1; days <= 15; days += 2 {
		schedule, err := newTestScheduler().GenerateSchedule(context.Background(), cases, roster(2), models.NewWindow(monday, days), set, models.StrategyHeuristic)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(schedule.Entries), prev, "window %d days", days)
		prev = len(schedule.Entries)
	}
}

func TestHigherPriorityCasesAreHeardEarlier(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().MaxHearingsPerJudgePerDay(3))
	schedule, err := newTestScheduler().GenerateSchedule(context.Background(), backlog(30), roster(2), models.NewWindow(monday, 10), set, models.StrategyHeuristic)
	require.NoError(t, err)

	var highSum, lowSum, highN, lowN float64
	for _, e := range schedule.Entries {
		if e.PriorityScore >= 50 {
			highSum += float64(e.DayIndex)
			highN++
		} else {
			lowSum += float64(e.DayIndex)
			lowN++
		}
	}
	require.NotZero(t, highN)
	require.NotZero(t, lowN)
	assert.Less(t, highSum/highN, lowSum/lowN)
}

func TestExactBeatsGreedyOnSpecialization(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().MaxHearingsPerJudgePerDay(1).JudgeSpecialization())
	judges := []models.JudgeRecord{
		{JudgeID: "general"},
		{JudgeID: "sessions", Specializations: []string{"criminal"}},
	}
	cases := []models.PriorityScore{
		scored("crim", 90, models.CaseTypeCriminal),
		scored("civ", 80, models.CaseTypeCivil),
	}
	window := models.NewWindow(monday, 1)

	greedy, err := newTestScheduler().GenerateSchedule(context.Background(), cases, judges, window, set, models.StrategyHeuristic)
	require.NoError(t, err)
	assert.Len(t, greedy.Entries, 1)
	require.Len(t, greedy.Unscheduled, 1)
	assert.Equal(t, "civ", greedy.Unscheduled[0].CaseID)
	assert.Contains(t, greedy.Unscheduled[0].Reason, "capacity")

	exact, err := newTestScheduler().GenerateSchedule(context.Background(), cases, judges, window, set, models.StrategyExact)
	require.NoError(t, err)
	assert.Equal(t, models.RunSolved, exact.State)
	assert.Equal(t, models.StrategyExact, exact.StrategyUsed)
	assert.True(t, exact.ProvenOptimal)
	assert.True(t, exact.FullyScheduled())
	assert.Greater(t, exact.Objective, greedy.Objective)

	assigned := map[string]string{}
	for _, e := range exact.Entries {
		assigned[e.CaseID] = e.JudgeID
	}
	assert.Equal(t, "sessions", assigned["crim"])
	assert.Equal(t, "general", assigned["civ"])
}

func TestExactFallsBackWhenTooLarge(t *testing.T) {
	s := newTestScheduler()
	s.Exact = &Exact{MaxVariables: 10}

	schedule, err := s.GenerateSchedule(context.Background(), backlog(10), roster(2), models.NewWindow(monday, 5), constraints.Default(), models.StrategyExact)
	require.NoError(t, err)
	assert.Equal(t, models.RunFallback, schedule.State)
	assert.True(t, schedule.UsedFallback())
	assert.Equal(t, models.StrategyHeuristic, schedule.StrategyUsed)
	assert.Equal(t, models.StrategyExact, schedule.StrategyRequested)
	assert.Contains(t, schedule.FallbackReason, "solver unavailable")
	assert.False(t, schedule.ProvenOptimal)
	assert.NotEmpty(t, schedule.Entries)
}

func TestExactFallsBackOnExpiredDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	schedule, err := newTestScheduler().GenerateSchedule(ctx, backlog(10), roster(2), models.NewWindow(monday, 5), constraints.Default(), models.StrategyExact)
	require.NoError(t, err)
	assert.Equal(t, models.RunFallback, schedule.State)
	assert.Contains(t, schedule.FallbackReason, "timed out")
	assert.Len(t, schedule.Entries, 10)
}

func TestExactFallsBackOnSolverError(t *testing.T) {
	exact := &mockSolver{}
	exact.On("Solve", mock.Anything, mock.AnythingOfType("*scheduling.Problem")).Return(nil, errors.New("boom"))
	s := newTestScheduler()
	s.Exact = exact

	schedule, err := s.GenerateSchedule(context.Background(), backlog(4), roster(1), models.NewWindow(monday, 5), constraints.Default(), models.StrategyExact)
	require.NoError(t, err)
	assert.Equal(t, models.RunFallback, schedule.State)
	assert.Equal(t, "exact solver failed: boom", schedule.FallbackReason)
	exact.AssertExpectations(t)
}

func TestExactTimeoutWithImprovementKeepsExact(t *testing.T) {
	exact := &mockSolver{}
	exact.On("Solve", mock.Anything, mock.Anything).Return(&Solution{
		Assignments: []Assignment{{Case: 0, Judge: 0, Day: 0}},
		Improved:    true,
	}, nil)
	s := newTestScheduler()
	s.Exact = exact

	schedule, err := s.GenerateSchedule(context.Background(), backlog(1), roster(1), models.NewWindow(monday, 5), constraints.Default(), models.StrategyExact)
	require.NoError(t, err)
	assert.Equal(t, models.RunSolved, schedule.State)
	assert.Equal(t, models.StrategyExact, schedule.StrategyUsed)
	assert.False(t, schedule.ProvenOptimal)
	assert.Empty(t, schedule.FallbackReason)
}

func TestExactMatchesHeuristicObjectiveOrBetter(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().MaxHearingsPerJudgePerDay(2).PriorityDeadline(80, 2))
	cases := backlog(12)
	window := models.NewWindow(monday, 4)

	h, err := newTestScheduler().GenerateSchedule(context.Background(), cases, roster(2), window, set, models.StrategyHeuristic)
	require.NoError(t, err)
	e, err := newTestScheduler().GenerateSchedule(context.Background(), cases, roster(2), window, set, models.StrategyExact)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, e.Objective, h.Objective)
	assert.GreaterOrEqual(t, len(e.Entries), len(h.Entries))
	assert.True(t, set.Validate(e, roster(2)).Valid)
}

func TestUnscheduledReasonForBlockedWindow(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	schedule, err := newTestScheduler().GenerateSchedule(context.Background(), backlog(2), roster(1), models.NewWindow(saturday, 2), constraints.Default(), models.StrategyHeuristic)
	require.NoError(t, err)
	assert.Empty(t, schedule.Entries)
	require.Len(t, schedule.Unscheduled, 2)
	assert.Equal(t, "every day in the window is excluded", schedule.Unscheduled[0].Reason)
}

func TestEstimatedDuration(t *testing.T) {
	assert.Equal(t, 0.75, EstimatedDuration(models.CaseTypeCriminal, nil))
	assert.Equal(t, 0.25, EstimatedDuration(models.CaseTypeExecution, constraints.Default()))
	hours := mustSet(t, constraints.NewBuilder().WorkingHours(6, 0.4))
	assert.Equal(t, 0.4, EstimatedDuration(models.CaseTypeCriminal, hours))
}

func TestPriorityDeadlineIncludesLastDay(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().MaxHearingsPerJudgePerDay(1).PriorityDeadline(75, 1))
	cases := []models.PriorityScore{
		scored("a", 90, models.CaseTypeCivil),
		scored("b", 85, models.CaseTypeCivil),
	}

	for _, strategy := range []models.Strategy{models.StrategyHeuristic, models.StrategyExact} {
		t.Run(string(strategy), func(t *testing.T) {
			schedule, err := newTestScheduler().GenerateSchedule(context.Background(), cases, roster(1), models.NewWindow(monday, 3), set, strategy)
			require.NoError(t, err)

			require.True(t, schedule.FullyScheduled(), "%v", schedule.Unscheduled)
			day := map[string]int{}
			for _, e := range schedule.Entries {
				day[e.CaseID] = e.DayIndex
			}
			assert.Equal(t, map[string]int{"a": 0, "b": 1}, day)
			assert.True(t, set.Validate(schedule, roster(1)).Valid)
		})
	}
}

func TestUnscheduledReasonNamesBlockingRule(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().MaxHearingsPerJudgePerDay(1).PriorityDeadline(75, 1))
	cases := []models.PriorityScore{
		scored("a", 90, models.CaseTypeCivil),
		scored("b", 85, models.CaseTypeCivil),
		scored("c", 80, models.CaseTypeCivil),
	}

	schedule, err := newTestScheduler().GenerateSchedule(context.Background(), cases, roster(1), models.NewWindow(monday, 5), set, models.StrategyHeuristic)
	require.NoError(t, err)

	require.Len(t, schedule.Unscheduled, 1)
	assert.Equal(t, "c", schedule.Unscheduled[0].CaseID)
	assert.Equal(t, "no free slot in window: case c (priority 80.00) must be heard within 1 days of the window start", schedule.Unscheduled[0].Reason)
}

func TestUnscheduledReasonForFullCalendar(t *testing.T) {
	set := mustSet(t, constraints.NewBuilder().MaxHearingsPerJudgePerDay(1))
	schedule, err := newTestScheduler().GenerateSchedule(context.Background(), backlog(2), roster(1), models.NewWindow(monday, 1), set, models.StrategyHeuristic)
	require.NoError(t, err)

	require.Len(t, schedule.Unscheduled, 1)
	assert.Equal(t, "no free slot in window: judge J1 at capacity on 2026-11-02", schedule.Unscheduled[0].Reason)
}
