package priority

import (
	"math"
	"sort"
	"strings"

	"github.com/linesmerrill/hearing-scheduler/models"
)

// Factor keys accepted in weight maps and configuration files
const (
	FactorAge           = "age"
	FactorCaseType      = "case_type"
	FactorHearingCount  = "hearing_count"
	FactorCourtWorkload = "court_workload"
	FactorUrgency       = "urgency"
)

// weightEpsilon is the tolerance on the weight sum
const weightEpsilon = 1e-6

// Weights are the static factor weights of the scoring formula
type Weights struct {
	Age           float64 `json:"age" yaml:"age"`
	CaseType      float64 `json:"case_type" yaml:"case_type"`
	HearingCount  float64 `json:"hearing_count" yaml:"hearing_count"`
	CourtWorkload float64 `json:"court_workload" yaml:"court_workload"`
	Urgency       float64 `json:"urgency" yaml:"urgency"`
}

// DefaultWeights returns the out-of-the-box weighting
func DefaultWeights() Weights {
	return Weights{
		Age:           0.30,
		CaseType:      0.25,
		HearingCount:  0.20,
		CourtWorkload: 0.15,
		Urgency:       0.10,
	}
}

// WeightsFromMap builds Weights from a factor-keyed map. Every factor must be
// present and the map must sum to 1.0.
func WeightsFromMap(m map[string]float64) (Weights, error) {
	var missing, unknown []string
	for _, k := range factorNames {
		if _, ok := m[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range m {
		if !contains(factorNames, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Weights{}, models.NewConfigurationError("weights", "unknown factors %s", strings.Join(unknown, ", "))
	}
	if len(missing) > 0 {
		return Weights{}, models.NewConfigurationError("weights", "missing factors %s", strings.Join(missing, ", "))
	}

	w := Weights{
		Age:           m[FactorAge],
		CaseType:      m[FactorCaseType],
		HearingCount:  m[FactorHearingCount],
		CourtWorkload: m[FactorCourtWorkload],
		Urgency:       m[FactorUrgency],
	}
	return w, w.Validate()
}

// Validate checks that no weight is negative and the weights sum to 1.0
func (w Weights) Validate() error {
	for _, f := range w.byFactor() {
		if f.weight < 0 || math.IsNaN(f.weight) {
			return models.NewConfigurationError("weights", "%s weight %v is negative", f.name, f.weight)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightEpsilon {
		return models.NewConfigurationError("weights", "weights sum to %.6f, want 1.0", sum)
	}
	return nil
}

// Sum adds the five weights
func (w Weights) Sum() float64 {
	return w.Age + w.CaseType + w.HearingCount + w.CourtWorkload + w.Urgency
}

// factorNames is the fixed factor order used for lookups and error reporting
var factorNames = []string{FactorAge, FactorCaseType, FactorHearingCount, FactorCourtWorkload, FactorUrgency}

type factorWeight struct {
	name   string
	weight float64
}

// byFactor lists the weights in factorNames order
func (w Weights) byFactor() []factorWeight {
	return []factorWeight{
		{FactorAge, w.Age},
		{FactorCaseType, w.CaseType},
		{FactorHearingCount, w.HearingCount},
		{FactorCourtWorkload, w.CourtWorkload},
		{FactorUrgency, w.Urgency},
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
