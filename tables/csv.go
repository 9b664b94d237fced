// Package tables reads the upstream case and judge tables and writes the
// prioritized, schedule and report outputs.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/linesmerrill/hearing-scheduler/models"
)

// Column headers of the input and output tables
var (
	CaseColumns       = []string{"case_id", "case_type", "filing_date", "hearing_count", "court_id", "subject_matter", "last_hearing_date"}
	JudgeColumns      = []string{"judge_id", "judge_name", "specialization", "max_daily_capacity"}
	PriorityColumns   = []string{"case_id", "case_type", "court_id", "priority_score", "age_days", "hearing_count", "priority_category"}
	ScheduleColumns   = []string{"hearing_date", "case_id", "judge_id", "priority_score", "estimated_duration"}
	requiredCaseCols  = []string{"case_id"}
	requiredJudgeCols = []string{"judge_id"}
)

// specializationSep separates case types inside the specialization column
const specializationSep = ";"

// ErrMissingColumn is returned when a required header is absent
var ErrMissingColumn = errors.New("missing required column")

type header map[string]int

func readHeader(r *csv.Reader, required []string) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := header{}
	for i, name := range row {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return h, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// ReadCases parses a case table. Rows without a case id are skipped. A blank
// or unparseable hearing count is passed on as -1 so scoring imputes it.
func ReadCases(r io.Reader) ([]models.CaseRecord, error) {
	cr := newReader(r)
	h, err := readHeader(cr, requiredCaseCols)
	if err != nil {
		return nil, err
	}

	var (
		out     []models.CaseRecord
		skipped int
	)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read case row %d: %w", line, err)
		}
		id := h.get(row, "case_id")
		if id == "" {
			skipped++
			continue
		}
		hearings, err := strconv.Atoi(h.get(row, "hearing_count"))
		if err != nil {
			hearings = -1
		}
		out = append(out, models.CaseRecord{
			CaseID:          id,
			CaseType:        h.get(row, "case_type"),
			FilingDate:      h.get(row, "filing_date"),
			HearingCount:    hearings,
			CourtID:         h.get(row, "court_id"),
			SubjectMatter:   h.get(row, "subject_matter"),
			LastHearingDate: h.get(row, "last_hearing_date"),
		})
	}
	if skipped > 0 {
		zap.S().Warnw("skipped case rows without an id", "skipped", skipped)
	}
	return out, nil
}

// ReadJudges parses a judge roster
func ReadJudges(r io.Reader) ([]models.JudgeRecord, error) {
	cr := newReader(r)
	h, err := readHeader(cr, requiredJudgeCols)
	if err != nil {
		return nil, err
	}

	var out []models.JudgeRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read judge row %d: %w", line, err)
		}
		id := h.get(row, "judge_id")
		if id == "" {
			continue
		}
		j := models.JudgeRecord{JudgeID: id, JudgeName: h.get(row, "judge_name")}
		for _, s := range strings.Split(h.get(row, "specialization"), specializationSep) {
			if s = strings.TrimSpace(s); s != "" {
				j.Specializations = append(j.Specializations, s)
			}
		}
		if raw := h.get(row, "max_daily_capacity"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return nil, models.NewConfigurationError("max_daily_capacity", "judge %s: invalid capacity %q", id, raw)
			}
			j.MaxDailyCapacity = n
		}
		out = append(out, j)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WritePriorities writes the prioritized case table in the given order
func WritePriorities(w io.Writer, scores []models.PriorityScore) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PriorityColumns); err != nil {
		return err
	}
	for _, s := range scores {
		row := []string{
			s.CaseID,
			string(s.CaseType),
			s.CourtID,
			formatFloat(s.Score),
			strconv.Itoa(s.AgeDays),
			strconv.Itoa(s.HearingCount),
			string(s.Category),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSchedule writes one row per scheduled hearing in schedule order
func WriteSchedule(w io.Writer, schedule *models.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScheduleColumns); err != nil {
		return err
	}
	for _, e := range schedule.Entries {
		row := []string{
			e.HearingDate.Format(models.DateLayout),
			e.CaseID,
			e.JudgeID,
			formatFloat(e.PriorityScore),
			formatFloat(e.EstimatedHours),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
