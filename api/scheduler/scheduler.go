package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/hearing-scheduler/api"
	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/databases"
	"github.com/linesmerrill/hearing-scheduler/engine"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// NightlyJob is the lock name for the nightly schedule generation
const NightlyJob = "nightly_schedule_job"

// lockTTL outlives the solver budget so a slow run keeps its lease
const lockTTL = 15 * time.Minute

// Scheduler runs the periodic schedule generation for the stored backlog
type Scheduler struct {
	cron       *cron.Cron
	CaseDB     databases.CaseDatabase
	JudgeDB    databases.JudgeDatabase
	RunDB      databases.ScheduleRunDatabase
	LockDB     databases.SchedulerLockDatabase
	Settings   config.Engine
	Options    []engine.Option
	instanceID string
	now        func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	caseDB databases.CaseDatabase,
	judgeDB databases.JudgeDatabase,
	runDB databases.ScheduleRunDatabase,
	lockDB databases.SchedulerLockDatabase,
	settings config.Engine,
) *Scheduler {
	// Heroku sets DYNO to "web.1", "web.2", etc.
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		CaseDB:     caseDB,
		JudgeDB:    judgeDB,
		RunDB:      runDB,
		LockDB:     lockDB,
		Settings:   settings,
		instanceID: instanceID,
		now:        time.Now,
	}
}

// Start registers the nightly job on the given cron spec and starts the cron
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunNightly(context.Background()) }); err != nil {
		zap.S().Errorw("failed to register nightly schedule job", "spec", spec, "error", err)
		return err
	}

	s.cron.Start()
	zap.S().Infow("hearing scheduler started", "spec", spec, "instance", s.instanceID)
	return nil
}

// Stop waits for a running job and stops the cron
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("hearing scheduler stopped")
}

// releaseLock uses its own context so a run that used up its deadline still
// hands the lease back.
func (s *Scheduler) releaseLock() {
	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()
	if err := s.LockDB.ReleaseLock(ctx, NightlyJob, s.instanceID); err != nil {
		zap.S().Errorw("failed to release lock for nightly schedule job", "error", err, "instance", s.instanceID)
	}
}

// RunNightly schedules the whole stored backlog starting tomorrow and stores
// the run. Only the instance holding the lease does any work.
func (s *Scheduler) RunNightly(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, lockTTL)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, NightlyJob, s.instanceID, lockTTL)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for nightly schedule job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("nightly schedule job already running on another instance, skipping")
		return
	}
	defer s.releaseLock()

	zap.S().Infow("running nightly schedule job", "instance", s.instanceID)

	cases, err := s.CaseDB.Find(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("failed to find pending cases", "error", err)
		return
	}
	judges, err := s.JudgeDB.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		zap.S().Errorw("failed to find judges", "error", err)
		return
	}

	eng, err := engine.New(s.Settings, s.Options...)
	if err != nil {
		zap.S().Errorw("invalid engine settings for nightly job", "error", err)
		return
	}

	start := models.Day(s.now()).AddDate(0, 0, 1)
	res, err := eng.Run(ctx, cases, judges, start)
	if err != nil {
		zap.S().Errorw("nightly schedule generation failed", "error", err, "cases", len(cases), "judges", len(judges))
		return
	}

	run := res.Record(models.TriggerCron, eng.Constraints.Describe())
	if _, err := s.RunDB.InsertOne(ctx, run); err != nil {
		zap.S().Errorw("failed to save nightly schedule run", "error", err, "runID", run.RunID)
		return
	}

	zap.S().Infow("nightly schedule job complete",
		"runID", run.RunID,
		"scheduled", run.Metrics.ScheduledCases,
		"unscheduled", run.Metrics.UnscheduledCases,
		"strategy", run.Schedule.StrategyUsed,
	)
}
