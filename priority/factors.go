package priority

import (
	"math"
	"strings"

	"github.com/linesmerrill/hearing-scheduler/models"
)

// Saturation points of the linear sub-scores. Beyond each cap the sub-score is 10.
const (
	AgeCapDays         = 1825 // five years
	HearingCap         = 20
	WorkloadReference  = 500 // pending cases at which the workload sub-score saturates
	NeutralWorkload    = 5.0
	maxSubScore        = 10.0
	urgencyTierOne     = 6.0
	urgencyTierTwo     = 8.0
	urgencyTierMaximum = 10.0
)

// caseTypeScores is the fixed ranking table
var caseTypeScores = map[models.CaseType]float64{
	models.CaseTypeCriminal:      10,
	models.CaseTypeWrit:          9,
	models.CaseTypeAppeal:        7,
	models.CaseTypePetition:      6,
	models.CaseTypeRevision:      6,
	models.CaseTypeCivil:         5,
	models.CaseTypeExecution:     4,
	models.CaseTypeMiscellaneous: 3,
}

// DefaultKeywords are the subject-matter terms that mark a case as urgent
var DefaultKeywords = []string{
	"bail",
	"habeas",
	"minor",
	"undertrial",
	"custody",
	"injunction",
	"interim",
	"urgent",
	"emergency",
	"preventive detention",
	"constitutional",
}

// AgeScore grows linearly with age and saturates at AgeCapDays
func AgeScore(ageDays int) float64 {
	if ageDays <= 0 {
		return 0
	}
	return round2(math.Min(maxSubScore, float64(ageDays)/AgeCapDays*maxSubScore))
}

// CaseTypeScore looks up the ranking table
func CaseTypeScore(ct models.CaseType) float64 {
	if s, ok := caseTypeScores[ct]; ok {
		return s
	}
	return caseTypeScores[models.CaseTypeCivil]
}

// HearingScore grows linearly with the number of hearings held and saturates at HearingCap
func HearingScore(count int) float64 {
	if count <= 0 {
		return 0
	}
	return round2(math.Min(maxSubScore, float64(count)/HearingCap*maxSubScore))
}

// WorkloadScore compares a court's pending caseload to WorkloadReference. A nil
// figure yields the neutral mid score.
func WorkloadScore(pending *int) float64 {
	if pending == nil || *pending < 0 {
		return NeutralWorkload
	}
	return round2(math.Min(maxSubScore, float64(*pending)/WorkloadReference*maxSubScore))
}

// UrgencyScore counts distinct keyword matches in the subject matter:
// none 0, one 6, two 8, three or more 10.
func UrgencyScore(subject string, keywords []string) float64 {
	subject = strings.ToLower(subject)
	if strings.TrimSpace(subject) == "" {
		return 0
	}
	matches := 0
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(subject, k) {
			matches++
		}
	}
	switch {
	case matches == 0:
		return 0
	case matches == 1:
		return urgencyTierOne
	case matches == 2:
		return urgencyTierTwo
	default:
		return urgencyTierMaximum
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
