package tables

import (
	"fmt"
	"io"

	"github.com/linesmerrill/hearing-scheduler/models"
	"github.com/linesmerrill/hearing-scheduler/priority"
)

// Report gathers what the markdown summary prints. Zero-valued optional parts
// are left out.
type Report struct {
	Title        string
	Schedule     *models.Schedule
	Metrics      models.Metrics
	Validation   *models.ValidationResult
	Distribution *priority.Distribution
	Workload     []models.JudgeWorkload
	Gaps         []models.GapDescriptor
	Constraints  []string
}

// Status is the one-line outcome stated at the top of the report
func Status(s *models.Schedule) string {
	if s.FullyScheduled() {
		return "fully scheduled"
	}
	return fmt.Sprintf("partially scheduled (%d unscheduled, see list)", len(s.Unscheduled))
}

// mdWriter keeps the first write error so the report body stays readable
type mdWriter struct {
	w   io.Writer
	err error
}

func (m *mdWriter) printf(format string, args ...interface{}) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// WriteReport renders the markdown summary of a run
func WriteReport(w io.Writer, r Report) error {
	if r.Schedule == nil {
		return fmt.Errorf("report: no schedule")
	}
	md := &mdWriter{w: w}
	s := r.Schedule

	title := r.Title
	if title == "" {
		title = "Hearing Schedule Report"
	}
	md.printf("# %s\n\n", title)
	md.printf("- Run: `%s`\n", s.RunID)
	md.printf("- Window: %s to %s (%d days)\n", s.Window.Start.Format(models.DateLayout), s.Window.End().Format(models.DateLayout), s.Window.Days)
	md.printf("- Strategy: requested %s, used %s (%s)\n", s.StrategyRequested, s.StrategyUsed, s.State)
	if s.ProvenOptimal {
		md.printf("- Proven optimal: yes\n")
	}
	md.printf("- Status: **%s**\n", Status(s))
	if s.UsedFallback() {
		md.printf("- **heuristic fallback used**: %s\n", s.FallbackReason)
	}
	md.printf("\n")

	m := r.Metrics
	md.printf("## Metrics\n\n| Metric | Value |\n|---|---|\n")
	md.printf("| Total cases | %d |\n", m.TotalCases)
	md.printf("| Scheduled | %d |\n", m.ScheduledCases)
	md.printf("| Unscheduled | %d |\n", m.UnscheduledCases)
	md.printf("| Coverage rate | %s |\n", pct(m.CoverageRate))
	md.printf("| Judge utilization | %s |\n", pct(m.JudgeUtilization))
	md.printf("| Slot utilization | %s |\n", pct(m.SlotUtilization))
	md.printf("| Hearings per open day | %.2f |\n", m.AvgHearingsPerDay)
	md.printf("| Workload std-dev | %.2f |\n", m.WorkloadStdDev)
	md.printf("| High priority coverage | %s |\n", pct(m.PriorityCoverage))
	md.printf("| Avg days to first hearing | %.2f |\n", m.AvgDaysToFirstHearing)
	md.printf("| Avg scheduled priority | %.2f |\n\n", m.AvgPriorityScheduled)

	if d := r.Distribution; d != nil {
		md.printf("## Priority distribution\n\n")
		md.printf("- High: %d\n- Medium: %d\n- Low: %d\n", d.Counts[models.PriorityHigh], d.Counts[models.PriorityMedium], d.Counts[models.PriorityLow])
		md.printf("- Mean %.2f, median %.2f, std-dev %.2f\n\n", d.Mean, d.Median, d.StdDev)
	}

	if len(r.Constraints) > 0 {
		md.printf("## Constraints\n\n")
		for _, c := range r.Constraints {
			md.printf("- %s\n", c)
		}
		md.printf("\n")
	}

	if v := r.Validation; v != nil {
		md.printf("## Validation\n\n")
		if v.Valid {
			md.printf("All hard constraints satisfied.\n")
		} else {
			md.printf("Schedule violates hard constraints.\n")
		}
		for _, msg := range v.Messages() {
			md.printf("- %s\n", msg)
		}
		md.printf("\n")
	}

	if len(r.Workload) > 0 {
		md.printf("## Judge workload\n\n| Judge | Hearings | Days | Per day | Avg priority | Hours |\n|---|---|---|---|---|---|\n")
		for _, jw := range r.Workload {
			name := jw.JudgeID
			if jw.JudgeName != "" {
				name = fmt.Sprintf("%s (%s)", jw.JudgeName, jw.JudgeID)
			}
			md.printf("| %s | %d | %d | %.2f | %.2f | %.2f |\n", name, jw.TotalHearings, jw.DaysScheduled, jw.AvgPerDay, jw.AvgPriority, jw.EstimatedHours)
		}
		md.printf("\n")
	}

	if len(r.Gaps) > 0 {
		md.printf("## Under-used slots\n\n")
		for _, g := range r.Gaps {
			md.printf("- %s judge %s: %d of %d booked\n", g.Date.Format(models.DateLayout), g.JudgeID, g.Booked, g.Capacity)
		}
		md.printf("\n")
	}

	if len(s.Unscheduled) > 0 {
		md.printf("## Unscheduled cases\n\n| Case | Priority | Category | Reason |\n|---|---|---|---|\n")
		for _, u := range s.Unscheduled {
			md.printf("| %s | %.2f | %s | %s |\n", u.CaseID, u.PriorityScore, u.Category, u.Reason)
		}
	}
	return md.err
}
