package tables

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/hearing-scheduler/models"
	"github.com/linesmerrill/hearing-scheduler/priority"
)

var monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

func TestReadCases(t *testing.T) {
	in := `case_id,case_type,filing_date,hearing_count,court_id,subject_matter
C1,criminal,2021-11-02,15,HC-1,bail application
C2,Civil,02/01/2024,,HC-2,
,writ,2024-01-01,1,HC-1,
C3,writ,2024-01-01,abc,HC-1,"habeas, corpus"
`
	cases, err := ReadCases(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, models.CaseRecord{
		CaseID: "C1", CaseType: "criminal", FilingDate: "2021-11-02",
		HearingCount: 15, CourtID: "HC-1", SubjectMatter: "bail application",
	}, cases[0])
	assert.Equal(t, -1, cases[1].HearingCount)
	assert.Equal(t, "", cases[1].LastHearingDate)
	assert.Equal(t, "habeas, corpus", cases[2].SubjectMatter)
}

func TestReadCasesMissingColumn(t *testing.T) {
	_, err := ReadCases(strings.NewReader("id,case_type\nC1,civil\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = ReadCases(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadJudges(t *testing.T) {
	in := `judge_id,judge_name,specialization,max_daily_capacity
J1,Asha,criminal;writ,10
J2,Bela,,
`
	judges, err := ReadJudges(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, judges, 2)
	assert.Equal(t, []string{"criminal", "writ"}, judges[0].Specializations)
	assert.Equal(t, 10, judges[0].MaxDailyCapacity)
	assert.Nil(t, judges[1].Specializations)
	assert.Equal(t, 0, judges[1].MaxDailyCapacity)

	_, err = ReadJudges(strings.NewReader("judge_id,max_daily_capacity\nJ1,-2\n"))
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestWritePriorities(t *testing.T) {
	var buf bytes.Buffer
	err := WritePriorities(&buf, []models.PriorityScore{
		{CaseID: "C1", CaseType: models.CaseTypeCriminal, CourtID: "HC-1", Score: 78.456, AgeDays: 1826, HearingCount: 15, Category: models.PriorityHigh},
	})
	require.NoError(t, err)
	assert.Equal(t, "case_id,case_type,court_id,priority_score,age_days,hearing_count,priority_category\n"+
		"C1,criminal,HC-1,78.46,1826,15,High\n", buf.String())
}

func TestWriteSchedule(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSchedule(&buf, &models.Schedule{Entries: []models.ScheduleEntry{
		{CaseID: "C1", JudgeID: "J1", HearingDate: monday, PriorityScore: 90, EstimatedHours: 0.75},
	}})
	require.NoError(t, err)
	assert.Equal(t, "hearing_date,case_id,judge_id,priority_score,estimated_duration\n"+
		"2026-11-02,C1,J1,90.00,0.75\n", buf.String())
}

func TestWriteReport(t *testing.T) {
	schedule := &models.Schedule{
		RunID:             "run-1",
		Window:            models.NewWindow(monday, 5),
		StrategyRequested: models.StrategyExact,
		StrategyUsed:      models.StrategyHeuristic,
		State:             models.RunFallback,
		FallbackReason:    "exact solver timed out without improving on the heuristic",
		Unscheduled:       []models.UnscheduledCase{{CaseID: "C9", PriorityScore: 42, Category: models.PriorityLow, Reason: "no capacity left in window"}},
	}
	dist := priority.Distribution{Counts: map[models.PriorityCategory]int{models.PriorityHigh: 1}}
	var buf bytes.Buffer
	err := WriteReport(&buf, Report{
		Schedule:     schedule,
		Metrics:      models.Metrics{TotalCases: 2, ScheduledCases: 1, UnscheduledCases: 1, CoverageRate: 0.5},
		Validation:   &models.ValidationResult{Valid: true},
		Distribution: &dist,
		Constraints:  []string{"No weekends"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "partially scheduled (1 unscheduled, see list)")
	assert.Contains(t, out, "heuristic fallback used")
	assert.Contains(t, out, "| Coverage rate | 50.0% |")
	assert.Contains(t, out, "| C9 | 42.00 | Low | no capacity left in window |")
	assert.Contains(t, out, "2026-11-02 to 2026-11-06")

	buf.Reset()
	schedule.Unscheduled = nil
	schedule.State = models.RunSolved
	require.NoError(t, WriteReport(&buf, Report{Schedule: schedule}))
	assert.Contains(t, buf.String(), "fully scheduled")
	assert.NotContains(t, buf.String(), "heuristic fallback used")

	assert.Error(t, WriteReport(&buf, Report{}))
}
