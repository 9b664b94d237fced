package models

import (
	"strings"
	"time"
)

// CaseType is the fixed enumeration of case categories
type CaseType string

// Case types in ranking order, most urgent first
const (
	CaseTypeCriminal      CaseType = "criminal"
	CaseTypeWrit          CaseType = "writ"
	CaseTypeAppeal        CaseType = "appeal"
	CaseTypePetition      CaseType = "petition"
	CaseTypeRevision      CaseType = "revision"
	CaseTypeCivil         CaseType = "civil"
	CaseTypeExecution     CaseType = "execution"
	CaseTypeMiscellaneous CaseType = "miscellaneous"
)

// CaseTypes lists every known case type in table order
var CaseTypes = []CaseType{
	CaseTypeCriminal,
	CaseTypeWrit,
	CaseTypeAppeal,
	CaseTypePetition,
	CaseTypeRevision,
	CaseTypeCivil,
	CaseTypeExecution,
	CaseTypeMiscellaneous,
}

// ParseCaseType normalizes free text into a CaseType. ok is false when the text
// does not name a known type.
func ParseCaseType(s string) (CaseType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "misc" {
		return CaseTypeMiscellaneous, true
	}
	for _, ct := range CaseTypes {
		if string(ct) == s {
			return ct, true
		}
	}
	return "", false
}

// DateLayout is the layout used for every calendar date crossing the core boundary
const DateLayout = "2006-01-02"

// upstreamDateLayouts are tried in order when reading upstream dates
var upstreamDateLayouts = []string{
	DateLayout,
	"02-01-2006",
	"02/01/2006",
	time.RFC3339,
}

// ParseDate reads a calendar date in any of the accepted upstream layouts. The
// result is truncated to midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range upstreamDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// Day truncates t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CaseRecord holds one pending case as delivered by the ingestion collaborators
type CaseRecord struct {
	CaseID          string `json:"case_id" bson:"_id" validate:"required"`
	CaseType        string `json:"case_type" bson:"caseType"`
	FilingDate      string `json:"filing_date" bson:"filingDate"` // raw upstream text, parsed when scored
	HearingCount    int    `json:"hearing_count" bson:"hearingCount"`
	CourtID         string `json:"court_id" bson:"courtID"`
	SubjectMatter   string `json:"subject_matter,omitempty" bson:"subjectMatter,omitempty"`
	LastHearingDate string `json:"last_hearing_date,omitempty" bson:"lastHearingDate,omitempty"`
}

// Filed returns the parsed filing date
func (c CaseRecord) Filed() (time.Time, bool) {
	return ParseDate(c.FilingDate)
}

// AgeDays is the number of whole days between filing and now, never negative.
// ok is false when the filing date is missing or unparseable.
func (c CaseRecord) AgeDays(now time.Time) (days int, ok bool) {
	filed, ok := c.Filed()
	if !ok {
		return 0, false
	}
	days = DaysBetween(filed, now)
	if days < 0 {
		days = 0
	}
	return days, true
}

// DaysBetween counts calendar days from a to b, negative when b is earlier
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// JudgeRecord is a scheduling resource
type JudgeRecord struct {
	JudgeID          string   `json:"judge_id" bson:"_id" validate:"required"`
	JudgeName        string   `json:"judge_name" bson:"judgeName"`
	Specializations  []string `json:"specialization,omitempty" bson:"specialization,omitempty"`
	MaxDailyCapacity int      `json:"max_daily_capacity,omitempty" bson:"maxDailyCapacity,omitempty"` // 0 means no override
}

// Handles reports whether the judge takes cases of the given type. A judge with
// no specialization takes everything.
func (j JudgeRecord) Handles(ct CaseType) bool {
	if len(j.Specializations) == 0 {
		return true
	}
	for _, s := range j.Specializations {
		if t, ok := ParseCaseType(s); ok && t == ct {
			return true
		}
	}
	return false
}
