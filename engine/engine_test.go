package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// 2026-11-02 is a Monday
var monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

func settings() config.Engine {
	s := config.DefaultEngine()
	s.WindowDays = 7
	s.Strategy = models.StrategyHeuristic
	s.Constraints = &constraints.Params{MaxPerJudgePerDay: 2, NoWeekends: true}
	return s
}

func newTestEngine(t *testing.T, s config.Engine) *Engine {
	t.Helper()
	e, err := New(s,
		WithClock(func() time.Time { return monday }),
		WithRunIDs(func() string { return "run-1" }),
	)
	require.NoError(t, err)
	return e
}

func pending() []models.CaseRecord {
	return []models.CaseRecord{
		{CaseID: "C1", CaseType: "criminal", FilingDate: "2021-11-02", HearingCount: 15, CourtID: "HC-1", SubjectMatter: "bail application"},
		{CaseID: "C2", CaseType: "civil", FilingDate: "2025-11-02", HearingCount: 2, CourtID: "HC-1"},
		{CaseID: "C3", CaseType: "execution", FilingDate: "2026-10-01", HearingCount: 0, CourtID: "HC-2"},
		{CaseID: "C3", CaseType: "execution", FilingDate: "2026-10-01", HearingCount: 0, CourtID: "HC-2"},
		{CaseID: "C4", CaseType: "", FilingDate: "not a date", HearingCount: 1, CourtID: "HC-2"},
	}
}

func TestRun(t *testing.T) {
	e := newTestEngine(t, settings())
	judges := []models.JudgeRecord{{JudgeID: "J1", JudgeName: "Asha"}}

	res, err := e.Run(context.Background(), pending(), judges, monday)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Summary.Total)
	assert.Equal(t, 1, res.Summary.Duplicates)
	assert.Len(t, res.Scores, 4)
	assert.Equal(t, "C1", res.Scores[0].CaseID)

	assert.Equal(t, "run-1", res.Schedule.RunID)
	assert.Equal(t, models.RunSolved, res.Schedule.State)
	assert.True(t, res.Schedule.FullyScheduled())
	assert.True(t, res.Validation.Valid, res.Validation.Messages())

	// two per day for the only judge
	assert.Equal(t, monday, res.Schedule.Entries[0].HearingDate)
	assert.Equal(t, monday.AddDate(0, 0, 1), res.Schedule.Entries[3].HearingDate)

	assert.Equal(t, 1.0, res.Metrics.CoverageRate)
	assert.Equal(t, 5, res.Metrics.OpenDays)
	require.Len(t, res.Workload, 1)
	assert.Equal(t, 4, res.Workload[0].TotalHearings)
	// days 2..4 are empty
	assert.Len(t, res.Gaps, 3)
}

func TestRunRecord(t *testing.T) {
	e := newTestEngine(t, settings())
	res, err := e.Run(context.Background(), pending(), []models.JudgeRecord{{JudgeID: "J1"}}, monday)
	require.NoError(t, err)

	rec := res.Record(models.TriggerCron, e.Constraints.Describe())
	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, models.TriggerCron, rec.Trigger)
	assert.Equal(t, monday, rec.CreatedAt)
	assert.Len(t, rec.Constraints, 2)
	assert.Equal(t, res.Metrics, rec.Metrics)
}

func TestRunWithoutJudges(t *testing.T) {
	e := newTestEngine(t, settings())

	res, err := e.Run(context.Background(), pending(), nil, monday)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
	require.NotNil(t, res.Schedule)
	assert.Equal(t, models.RunFailed, res.Schedule.State)
	assert.Len(t, res.Scores, 4)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	s := settings()
	s.Weights = map[string]float64{"age": 0.5, "case_type": 0.5}
	_, err := New(s)
	assert.True(t, errors.Is(err, models.ErrConfiguration))

	s = settings()
	s.WindowDays = 0
	_, err = New(s)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestNewAppliesEvaluatorSettings(t *testing.T) {
	s := settings()
	s.PriorityHorizonDays = 3
	s.GapThreshold = 0.25
	e := newTestEngine(t, s)
	assert.Equal(t, 3, e.Evaluator.PriorityHorizonDays)
	assert.Equal(t, 0.25, e.Evaluator.GapThreshold)
	assert.Equal(t, models.NewWindow(monday, 7), e.Window(monday.Add(5*time.Hour)))
}
