// Package priority turns pending case records into explainable 0-100 urgency
// scores using a fixed weighted sum of five normalized factors.
package priority

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/linesmerrill/hearing-scheduler/models"
)

// Imputed field names reported on scores and in the summary
const (
	ImputedFilingDate   = "filing_date"
	ImputedCaseType     = "case_type"
	ImputedHearingCount = "hearing_count"
)

// Options configures a Prioritizer. Zero values select the defaults.
type Options struct {
	Weights  *Weights
	Keywords []string
	Now      func() time.Time
}

// Prioritizer scores cases. It holds no state between calls.
type Prioritizer struct {
	weights  Weights
	keywords []string
	now      func() time.Time
}

// Summary aggregates data quality over one ScoreAll call
type Summary struct {
	Total          int            `json:"total"`
	Scored         int            `json:"scored"`
	Duplicates     int            `json:"duplicates"`
	Imputed        int            `json:"imputed"`
	ImputedByField map[string]int `json:"imputed_by_field"`
}

// New validates the options and returns a Prioritizer
func New(opts Options) (*Prioritizer, error) {
	w := DefaultWeights()
	if opts.Weights != nil {
		w = *opts.Weights
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Prioritizer{
		weights:  w,
		keywords: append([]string(nil), keywords...),
		now:      now,
	}, nil
}

// Weights returns the weights in use
func (p *Prioritizer) Weights() Weights {
	return p.weights
}

// Score computes the priority of one case. courtWorkload is the pending count of
// the case's court; nil means unknown.
func (p *Prioritizer) Score(c models.CaseRecord, courtWorkload *int) models.PriorityScore {
	var imputed []string

	ageDays, ok := c.AgeDays(p.now())
	if !ok {
		imputed = append(imputed, ImputedFilingDate)
	}

	ct, ok := models.ParseCaseType(c.CaseType)
	if !ok {
		ct = models.CaseTypeCivil
		imputed = append(imputed, ImputedCaseType)
	}

	hearings := c.HearingCount
	if hearings < 0 {
		hearings = 0
		imputed = append(imputed, ImputedHearingCount)
	}

	f := models.FactorScores{
		Age:           AgeScore(ageDays),
		CaseType:      CaseTypeScore(ct),
		HearingCount:  HearingScore(hearings),
		CourtWorkload: WorkloadScore(courtWorkload),
		Urgency:       UrgencyScore(c.SubjectMatter, p.keywords),
	}

	composite := f.Age*p.weights.Age +
		f.CaseType*p.weights.CaseType +
		f.HearingCount*p.weights.HearingCount +
		f.CourtWorkload*p.weights.CourtWorkload +
		f.Urgency*p.weights.Urgency
	score := round2(math.Max(0, math.Min(100, composite*10)))

	return models.PriorityScore{
		CaseID:          c.CaseID,
		CaseType:        ct,
		CourtID:         c.CourtID,
		Score:           score,
		Category:        models.CategoryFor(score),
		AgeDays:         ageDays,
		HearingCount:    hearings,
		Factors:         f,
		Imputed:         imputed,
		LastHearingDate: c.LastHearingDate,
	}
}

// ScoreAll scores the full pending set. Court workload is the number of distinct
// pending cases per court in the input. The result is ordered by score
// descending, then case id ascending, so identical inputs give identical output.
func (p *Prioritizer) ScoreAll(cases []models.CaseRecord) ([]models.PriorityScore, Summary) {
	sum := Summary{Total: len(cases), ImputedByField: map[string]int{}}

	seen := make(map[string]bool, len(cases))
	unique := make([]models.CaseRecord, 0, len(cases))
	for _, c := range cases {
		if seen[c.CaseID] {
			sum.Duplicates++
			continue
		}
		seen[c.CaseID] = true
		unique = append(unique, c)
	}

	workload := map[string]int{}
	for _, c := range unique {
		workload[c.CourtID]++
	}

	scores := make([]models.PriorityScore, 0, len(unique))
	for _, c := range unique {
		pending := workload[c.CourtID]
		s := p.Score(c, &pending)
		if len(s.Imputed) > 0 {
			sum.Imputed++
			for _, f := range s.Imputed {
				sum.ImputedByField[f]++
			}
		}
		scores = append(scores, s)
	}
	SortByPriority(scores)
	sum.Scored = len(scores)

	if sum.Imputed > 0 || sum.Duplicates > 0 {
		zap.S().Warnw("case data quality issues absorbed with defaults",
			"cases", sum.Total,
			"imputed", sum.Imputed,
			"byField", sum.ImputedByField,
			"duplicates", sum.Duplicates,
		)
	}
	zap.S().Infow("scored pending cases", "scored", sum.Scored)

	return scores, sum
}

// SortByPriority orders scores by score descending and case id ascending
func SortByPriority(scores []models.PriorityScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].CaseID < scores[j].CaseID
	})
}

// Distribution summarizes a scored set for reporting
type Distribution struct {
	Counts map[models.PriorityCategory]int `json:"counts"`
	Mean   float64                         `json:"mean"`
	Median float64                         `json:"median"`
	StdDev float64                         `json:"std_dev"`
}

// Distribute computes category counts and score statistics
func Distribute(scores []models.PriorityScore) Distribution {
	d := Distribution{Counts: map[models.PriorityCategory]int{
		models.PriorityHigh:   0,
		models.PriorityMedium: 0,
		models.PriorityLow:    0,
	}}
	if len(scores) == 0 {
		return d
	}

	values := make([]float64, 0, len(scores))
	for _, s := range scores {
		d.Counts[s.Category]++
		values = append(values, s.Score)
	}
	sort.Float64s(values)

	d.Mean = round2(stat.Mean(values, nil))
	d.Median = round2(stat.Quantile(0.5, stat.Empirical, values, nil))
	if len(values) > 1 {
		d.StdDev = round2(stat.StdDev(values, nil))
	}
	return d
}
