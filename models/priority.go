package models

// PriorityCategory is the Low/Medium/High label derived from a score
type PriorityCategory string

// Priority categories
const (
	PriorityLow    PriorityCategory = "Low"
	PriorityMedium PriorityCategory = "Medium"
	PriorityHigh   PriorityCategory = "High"
)

// Category thresholds. High is strictly above HighThreshold, Medium is the closed
// range [MediumThreshold, HighThreshold].
const (
	HighThreshold   = 70.0
	MediumThreshold = 50.0
)

// CategoryFor maps a score to its category
func CategoryFor(score float64) PriorityCategory {
	switch {
	case score > HighThreshold:
		return PriorityHigh
	case score >= MediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// FactorScores holds the per-factor sub-scores, each normalized to [0,10]
type FactorScores struct {
	Age           float64 `json:"age" bson:"age"`
	CaseType      float64 `json:"case_type" bson:"caseType"`
	HearingCount  float64 `json:"hearing_count" bson:"hearingCount"`
	CourtWorkload float64 `json:"court_workload" bson:"courtWorkload"`
	Urgency       float64 `json:"urgency" bson:"urgency"`
}

// PriorityScore is the derived urgency fact for one case
type PriorityScore struct {
	CaseID       string           `json:"case_id" bson:"caseID"`
	CaseType     CaseType         `json:"case_type" bson:"caseType"`
	CourtID      string           `json:"court_id" bson:"courtID"`
	Score        float64          `json:"priority_score" bson:"priorityScore"`
	Category     PriorityCategory `json:"priority_category" bson:"priorityCategory"`
	AgeDays      int              `json:"age_days" bson:"ageDays"`
	HearingCount int              `json:"hearing_count" bson:"hearingCount"`
	Factors      FactorScores     `json:"factors" bson:"factors"`
	Imputed      []string         `json:"imputed,omitempty" bson:"imputed,omitempty"` // fields replaced by defaults

	// carried through from the case record for the minimum gap rule
	LastHearingDate string `json:"last_hearing_date,omitempty" bson:"lastHearingDate,omitempty"`
}
