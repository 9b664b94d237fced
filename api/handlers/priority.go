package handlers

import (
	"net/http"
	"time"

	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/models"
	"github.com/linesmerrill/hearing-scheduler/priority"
)

// Priority scores pending cases
type Priority struct {
	Settings config.Engine
	Now      func() time.Time
}

type scoreRequest struct {
	Cases          []models.CaseRecord `json:"cases" validate:"required,min=1,dive"`
	Weights        map[string]float64  `json:"weights,omitempty"`
	UrgentKeywords []string            `json:"urgent_keywords,omitempty"`
}

type scoreResponse struct {
	Scores       []models.PriorityScore `json:"scores"`
	Summary      priority.Summary       `json:"summary"`
	Distribution priority.Distribution  `json:"distribution"`
}

// ScoreHandler ranks the posted cases. Weights and keywords in the body
// override the configured ones for this request only.
func (p Priority) ScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decode(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	settings := p.Settings
	if len(req.Weights) > 0 {
		settings.Weights = req.Weights
	}
	if len(req.UrgentKeywords) > 0 {
		settings.UrgentKeywords = req.UrgentKeywords
	}
	opts, err := settings.PriorityOptions()
	if err != nil {
		config.ErrorStatus("invalid priority weights", http.StatusBadRequest, w, err)
		return
	}
	opts.Now = p.Now
	prioritizer, err := priority.New(opts)
	if err != nil {
		config.ErrorStatus("invalid priority weights", http.StatusBadRequest, w, err)
		return
	}

	scores, summary := prioritizer.ScoreAll(req.Cases)
	writeJSON(w, http.StatusOK, scoreResponse{
		Scores:       scores,
		Summary:      summary,
		Distribution: priority.Distribute(scores),
	})
}
