package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/hearing-scheduler/api"
	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/databases"
)

// RequestTimeout caps every API request. Schedule generation also gets the
// solver budget on top.
const RequestTimeout = 30 * time.Second

var validate = validator.New()

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Engine   config.Engine
	dbHelper databases.DatabaseHelper
	client   databases.ClientHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := api.New()

	p := Priority{Settings: a.Engine}
	s := Schedule{
		Settings: a.Engine,
		RunDB:    databases.NewScheduleRunDatabase(a.dbHelper),
		CaseDB:   databases.NewCaseDatabase(a.dbHelper),
		JudgeDB:  databases.NewJudgeDatabase(a.dbHelper),
	}
	m := Metrics{RunDB: s.RunDB}

	auth := api.Middleware([]byte(a.Config.JWTSecret))
	timeout := api.TimeoutMiddleware(RequestTimeout + a.Engine.SolverBudget)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(timeout, auth)

	apiCreate.Handle("/priorities", http.HandlerFunc(p.ScoreHandler)).Methods("POST")
	apiCreate.Handle("/schedules", http.HandlerFunc(s.CreateScheduleHandler)).Methods("POST")
	apiCreate.Handle("/schedules", http.HandlerFunc(s.LatestSchedulesHandler)).Methods("GET")
	apiCreate.Handle("/schedules/validate", http.HandlerFunc(s.ValidateScheduleHandler)).Methods("POST")
	apiCreate.Handle("/schedules/{run_id}", http.HandlerFunc(s.ScheduleByIDHandler)).Methods("GET")
	apiCreate.Handle("/metrics/compare", http.HandlerFunc(m.CompareHandler)).Methods("POST")

	return r
}

// Initialize is invoked by main to load the engine settings, connect with the
// database and create a router
func (a *App) Initialize() error {
	settings, err := config.LoadEngine(a.Config.ConfigFile)
	if err != nil {
		zap.S().Errorw("failed to load engine config", "file", a.Config.ConfigFile, "error", err)
		return err
	}
	a.Engine = settings

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()
	err = client.Connect(ctx)
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("hearing-scheduler has connected to the database")

	// initialize api router
	a.initializeRoutes()
	return nil
}

// DB exposes the database helper for background jobs started by main
func (a *App) DB() databases.DatabaseHelper {
	return a.dbHelper
}

// Close disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// writeJSON marshals v and writes it with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// decode reads a JSON body into v and runs the struct validation tags
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}
