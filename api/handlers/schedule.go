package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/hearing-scheduler/api"
	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/databases"
	"github.com/linesmerrill/hearing-scheduler/engine"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// defaultRunLimit is how many runs GET /schedules returns without a limit
const defaultRunLimit = 10

// Schedule generates, stores and checks hearing schedules
type Schedule struct {
	Settings config.Engine
	RunDB    databases.ScheduleRunDatabase
	CaseDB   databases.CaseDatabase
	JudgeDB  databases.JudgeDatabase
	Options  []engine.Option
}

type scheduleRequest struct {
	// cases and judges default to the stored backlog and roster when omitted
	Cases       []models.CaseRecord  `json:"cases,omitempty" validate:"omitempty,dive"`
	Judges      []models.JudgeRecord `json:"judges,omitempty" validate:"omitempty,dive"`
	StartDate   string               `json:"start_date,omitempty"`
	WindowDays  int                  `json:"window_days,omitempty" validate:"gte=0,lte=366"`
	Strategy    models.Strategy      `json:"strategy,omitempty" validate:"omitempty,oneof=exact heuristic"`
	Constraints *constraints.Params  `json:"constraints,omitempty"`
}

type validateRequest struct {
	Schedule    models.Schedule      `json:"schedule"`
	Judges      []models.JudgeRecord `json:"judges" validate:"dive"`
	Constraints *constraints.Params  `json:"constraints,omitempty"`
}

// CreateScheduleHandler runs a full scoring and scheduling pass and stores the result
func (s Schedule) CreateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	settings := s.Settings
	if req.WindowDays > 0 {
		settings.WindowDays = req.WindowDays
	}
	if req.Strategy != "" {
		settings.Strategy = req.Strategy
	}
	if req.Constraints != nil {
		settings.Constraints = req.Constraints
	}

	start := time.Now().UTC()
	if req.StartDate != "" {
		d, ok := models.ParseDate(req.StartDate)
		if !ok {
			config.ErrorStatus("invalid start_date", http.StatusBadRequest, w, errors.New("expected YYYY-MM-DD"))
			return
		}
		start = d
	}

	eng, err := engine.New(settings, s.Options...)
	if err != nil {
		config.ErrorStatus("invalid scheduling configuration", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithSolveTimeout(r.Context(), settings.SolverBudget)
	defer cancel()

	cases := req.Cases
	if len(cases) == 0 {
		if cases, err = s.CaseDB.Find(ctx, bson.M{}); err != nil {
			config.ErrorStatus("failed to get pending cases", http.StatusInternalServerError, w, err)
			return
		}
	}
	judges := req.Judges
	if len(judges) == 0 {
		opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
		if judges, err = s.JudgeDB.Find(ctx, bson.M{}, opts); err != nil {
			config.ErrorStatus("failed to get judges", http.StatusInternalServerError, w, err)
			return
		}
	}

	res, err := eng.Run(ctx, cases, judges, start)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrConfiguration) {
			status = http.StatusUnprocessableEntity
		}
		config.ErrorStatus("failed to generate schedule", status, w, err)
		return
	}

	run := res.Record(models.TriggerAPI, eng.Constraints.Describe())
	if _, err := s.RunDB.InsertOne(ctx, run); err != nil {
		config.ErrorStatus("failed to save schedule run", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("schedule run stored", "runID", run.RunID, "requestId", api.RequestID(r.Context()))

	writeJSON(w, http.StatusCreated, run)
}

// ScheduleByIDHandler returns one stored run
func (s Schedule) ScheduleByIDHandler(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["run_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	run, err := s.RunDB.FindOne(ctx, bson.M{"_id": runID})
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("schedule run not found", http.StatusNotFound, w, err)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to get schedule run", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// LatestSchedulesHandler returns the most recent runs, newest first
func (s Schedule) LatestSchedulesHandler(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultRunLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			config.ErrorStatus("invalid limit", http.StatusBadRequest, w, err)
			return
		}
		limit = int64(n)
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	runs, err := s.RunDB.FindLatest(ctx, limit)
	if err != nil {
		config.ErrorStatus("failed to get schedule runs", http.StatusInternalServerError, w, err)
		return
	}
	if len(runs) == 0 {
		runs = []models.ScheduleRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// ValidateScheduleHandler checks a posted schedule against the configured or
// posted constraints and reports every violation.
func (s Schedule) ValidateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decode(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	settings := s.Settings
	if req.Constraints != nil {
		settings.Constraints = req.Constraints
	}
	set, err := settings.ConstraintSet()
	if err != nil {
		config.ErrorStatus("invalid constraints", http.StatusBadRequest, w, err)
		return
	}

	writeJSON(w, http.StatusOK, set.Validate(&req.Schedule, req.Judges))
}
