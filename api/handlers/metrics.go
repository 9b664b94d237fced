package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/hearing-scheduler/api"
	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/databases"
	"github.com/linesmerrill/hearing-scheduler/metrics"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// Metrics compares schedule evaluations
type Metrics struct {
	RunDB databases.ScheduleRunDatabase
}

// compareRequest takes either metrics directly or the ids of stored runs
type compareRequest struct {
	Before      *models.Metrics `json:"before,omitempty" validate:"required_without=BeforeRunID"`
	After       *models.Metrics `json:"after,omitempty" validate:"required_without=AfterRunID"`
	BeforeRunID string          `json:"before_run_id,omitempty"`
	AfterRunID  string          `json:"after_run_id,omitempty"`
}

type compareResponse struct {
	Before models.Metrics `json:"before"`
	After  models.Metrics `json:"after"`
	Delta  models.Delta   `json:"delta"`
}

// CompareHandler reports the signed change from the before to the after metrics
func (m Metrics) CompareHandler(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	before, err := m.resolve(ctx, req.Before, req.BeforeRunID)
	if err != nil {
		config.ErrorStatus("failed to get before run", http.StatusNotFound, w, err)
		return
	}
	after, err := m.resolve(ctx, req.After, req.AfterRunID)
	if err != nil {
		config.ErrorStatus("failed to get after run", http.StatusNotFound, w, err)
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{
		Before: before,
		After:  after,
		Delta:  metrics.Compare(before, after),
	})
}

func (m Metrics) resolve(ctx context.Context, given *models.Metrics, runID string) (models.Metrics, error) {
	if given != nil {
		return *given, nil
	}
	if m.RunDB == nil {
		return models.Metrics{}, errors.New("run storage unavailable")
	}
	run, err := m.RunDB.FindOne(ctx, bson.M{"_id": runID})
	if err != nil {
		return models.Metrics{}, err
	}
	return run.Metrics, nil
}
