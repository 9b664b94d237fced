package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/models"
)

func TestNew(t *testing.T) {
	t.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("DB_NAME", "test")
	t.Setenv("SCHEDULE_CRON", "")
	conf := New()

	assert.NotEmpty(t, conf)
	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, DefaultScheduleCron, conf.ScheduleCron)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "error it borked", body.Response.Message)
	assert.Equal(t, "bad request", body.Response.Error)
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))
	assert.True(t, l.Core().Enabled(2))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(0))
}

const engineYAML = `
weights: {age: 0.30, case_type: 0.25, hearing_count: 0.20, court_workload: 0.15, urgency: 0.10}
urgent_keywords: [bail, minor, undertrial]
constraints:
  max_per_day: 20
  max_per_judge_per_day: 15
  priority_deadline: {threshold: 75, days: 7}
  minimum_gap: {case_type: criminal, days: 7}
  working_hours: {max_hours: 6, avg_duration: 0.5}
  specialization: true
  no_weekends: true
  holidays: [2026-12-25]
  balance_tolerance: 0.25
window_days: 30
strategy: exact
solver_budget: 5s
`

func TestParseEngine(t *testing.T) {
	e, err := ParseEngine([]byte(engineYAML))
	require.NoError(t, err)

	assert.Equal(t, 30, e.WindowDays)
	assert.Equal(t, models.StrategyExact, e.Strategy)
	assert.Equal(t, 5*time.Second, e.SolverBudget)
	assert.Equal(t, 0.5, e.GapThreshold)

	opts, err := e.PriorityOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.Weights)
	assert.Equal(t, 0.30, opts.Weights.Age)
	assert.Equal(t, []string{"bail", "minor", "undertrial"}, opts.Keywords)

	set, err := e.ConstraintSet()
	require.NoError(t, err)
	assert.Len(t, set.Constraints(), 9)
	_, ok := set.Get(constraints.KindWorkingHours)
	assert.True(t, ok)
}

func TestParseEngineRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"weights":   "weights: {age: 0.5, case_type: 0.5}",
		"strategy":  "strategy: random",
		"window":    "window_days: 0",
		"negative":  "constraints: {max_per_day: -1}",
		"threshold": "gap_threshold: 2",
		"yaml":      "window_days: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEngine([]byte(doc))
			assert.True(t, errors.Is(err, models.ErrConfiguration), "got %v", err)
		})
	}
}

func TestLoadEngine(t *testing.T) {
	e, err := LoadEngine("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEngine(), e)

	set, err := e.ConstraintSet()
	require.NoError(t, err)
	assert.Equal(t, 20, set.DayCapacity())

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window_days: 10\nstrategy: heuristic\n"), 0o600))
	e, err = LoadEngine(path)
	require.NoError(t, err)
	assert.Equal(t, 10, e.WindowDays)
	assert.Equal(t, models.StrategyHeuristic, e.Strategy)

	_, err = LoadEngine(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
