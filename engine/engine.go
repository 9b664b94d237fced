// Package engine runs the full batch: score the pending cases, schedule them,
// validate the result against the constraints and evaluate it.
package engine

import (
	"context"
	"time"

	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/logging"
	"github.com/linesmerrill/hearing-scheduler/metrics"
	"github.com/linesmerrill/hearing-scheduler/models"
	"github.com/linesmerrill/hearing-scheduler/priority"
	"github.com/linesmerrill/hearing-scheduler/scheduling"
)

// Engine wires the prioritizer, constraint set, scheduler and evaluator built
// from one set of engine settings.
type Engine struct {
	Settings    config.Engine
	Prioritizer *priority.Prioritizer
	Constraints *constraints.Set
	Scheduler   *scheduling.Scheduler
	Evaluator   *metrics.Evaluator
}

// Option adjusts an Engine after construction
type Option func(*Engine) error

// WithClock pins the time used for case ages and run timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		opts, err := e.Settings.PriorityOptions()
		if err != nil {
			return err
		}
		opts.Now = now
		p, err := priority.New(opts)
		if err != nil {
			return err
		}
		e.Prioritizer = p
		e.Scheduler.Now = now
		return nil
	}
}

// WithRunIDs replaces the run id generator
func WithRunIDs(next func() string) Option {
	return func(e *Engine) error {
		e.Scheduler.NewRunID = next
		return nil
	}
}

// New validates the settings and builds an Engine
func New(settings config.Engine, opts ...Option) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	popts, err := settings.PriorityOptions()
	if err != nil {
		return nil, err
	}
	p, err := priority.New(popts)
	if err != nil {
		return nil, err
	}
	set, err := settings.ConstraintSet()
	if err != nil {
		return nil, err
	}

	ev := metrics.NewEvaluator(set)
	if settings.PriorityHorizonDays > 0 {
		ev.PriorityHorizonDays = settings.PriorityHorizonDays
	}
	if settings.GapThreshold > 0 {
		ev.GapThreshold = settings.GapThreshold
	}

	e := &Engine{
		Settings:    settings,
		Prioritizer: p,
		Constraints: set,
		Scheduler:   scheduling.New(settings.SolverBudget),
		Evaluator:   ev,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Result is everything one batch run produces
type Result struct {
	Scores       []models.PriorityScore `json:"scores"`
	Summary      priority.Summary       `json:"summary"`
	Distribution priority.Distribution  `json:"distribution"`
	Schedule     *models.Schedule       `json:"schedule"`
	Validation   models.ValidationResult `json:"validation"`
	Metrics      models.Metrics         `json:"metrics"`
	Gaps         []models.GapDescriptor `json:"gaps"`
	Workload     []models.JudgeWorkload `json:"workload"`
}

// Record converts the result into the persisted run document
func (r *Result) Record(trigger string, constraintSet []string) models.ScheduleRun {
	return models.ScheduleRun{
		RunID:       r.Schedule.RunID,
		Trigger:     trigger,
		Schedule:    *r.Schedule,
		Validation:  r.Validation,
		Metrics:     r.Metrics,
		Gaps:        r.Gaps,
		Workload:    r.Workload,
		Constraints: constraintSet,
		CreatedAt:   r.Schedule.GeneratedAt,
	}
}

// Score ranks the cases without scheduling them
func (e *Engine) Score(cases []models.CaseRecord) ([]models.PriorityScore, priority.Summary) {
	return e.Prioritizer.ScoreAll(cases)
}

// Window returns the scheduling window starting at start with the configured length
func (e *Engine) Window(start time.Time) models.Window {
	return models.NewWindow(start, e.Settings.WindowDays)
}

// Run scores, schedules, validates and evaluates. A configuration problem
// returns the partial result, whose schedule is in state Failed, with the error.
func (e *Engine) Run(ctx context.Context, cases []models.CaseRecord, judges []models.JudgeRecord, start time.Time) (*Result, error) {
	log := logging.For("engine")

	res := &Result{}
	res.Scores, res.Summary = e.Score(cases)
	res.Distribution = priority.Distribute(res.Scores)

	window := e.Window(start)
	schedule, err := e.Scheduler.GenerateSchedule(ctx, res.Scores, judges, window, e.Constraints, e.Settings.Strategy)
	res.Schedule = schedule
	if err != nil {
		return res, err
	}

	res.Validation = e.Constraints.Validate(schedule, judges)
	res.Metrics = e.Evaluator.Efficiency(schedule, res.Scores, judges, window)
	res.Gaps = e.Evaluator.IdentifyGaps(schedule, window, judges)
	res.Workload = metrics.WorkloadDistribution(schedule, judges)

	if !res.Validation.Valid {
		log.Errorw("generated schedule violates hard constraints",
			"runID", schedule.RunID,
			"violations", res.Validation.Messages(),
		)
	}
	log.Infow("batch run complete",
		"runID", schedule.RunID,
		"cases", res.Summary.Total,
		"scheduled", res.Metrics.ScheduledCases,
		"coverage", res.Metrics.CoverageRate,
		"state", schedule.State,
	)
	return res, nil
}
