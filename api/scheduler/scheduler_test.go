package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/databases/mocks"
	"github.com/linesmerrill/hearing-scheduler/engine"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// Sunday 2026-11-01, so the nightly window opens on Monday
var sunday = time.Date(2026, 11, 1, 22, 0, 0, 0, time.UTC)

type fixture struct {
	cases  *mocks.CaseDatabase
	judges *mocks.JudgeDatabase
	runs   *mocks.ScheduleRunDatabase
	locks  *mocks.SchedulerLockDatabase
	s      *Scheduler
}

func newFixture(t *testing.T) fixture {
	t.Setenv("DYNO", "web.1")
	f := fixture{
		cases:  &mocks.CaseDatabase{},
		judges: &mocks.JudgeDatabase{},
		runs:   &mocks.ScheduleRunDatabase{},
		locks:  &mocks.SchedulerLockDatabase{},
	}
	settings := config.DefaultEngine()
	settings.Strategy = models.StrategyHeuristic
	settings.WindowDays = 5
	settings.Constraints = &constraints.Params{MaxPerJudgePerDay: 2, NoWeekends: true}

	f.s = NewScheduler(f.cases, f.judges, f.runs, f.locks, settings)
	f.s.now = func() time.Time { return sunday }
	f.s.Options = []engine.Option{
		engine.WithClock(func() time.Time { return sunday }),
		engine.WithRunIDs(func() string { return "nightly-1" }),
	}
	return f
}

func TestRunNightly(t *testing.T) {
	f := newFixture(t)
	f.locks.On("TryAcquireLock", mock.Anything, NightlyJob, "web.1", lockTTL).Return(true, nil)
	f.locks.On("ReleaseLock", mock.Anything, NightlyJob, "web.1").Return(nil)
	f.cases.On("Find", mock.Anything, bson.M{}).Return([]models.CaseRecord{
		{CaseID: "C1", CaseType: "writ", FilingDate: "2024-01-15", HearingCount: 3, CourtID: "HC-1"},
		{CaseID: "C2", CaseType: "civil", FilingDate: "2025-06-01", HearingCount: 1, CourtID: "HC-1"},
	}, nil)
	f.judges.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.JudgeRecord{{JudgeID: "J1"}}, nil)

	var stored models.ScheduleRun
	f.runs.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.ScheduleRun)
	})

	f.s.RunNightly(context.Background())

	f.runs.AssertExpectations(t)
	f.locks.AssertExpectations(t)
	assert.Equal(t, "nightly-1", stored.RunID)
	assert.Equal(t, models.TriggerCron, stored.Trigger)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), stored.Schedule.Window.Start)
	assert.Equal(t, 2, stored.Metrics.ScheduledCases)
}

func TestRunNightlySkipsWhenLockHeld(t *testing.T) {
	f := newFixture(t)
	f.locks.On("TryAcquireLock", mock.Anything, NightlyJob, "web.1", lockTTL).Return(false, nil)

	f.s.RunNightly(context.Background())

	f.cases.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	f.locks.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunNightlyLockError(t *testing.T) {
	f := newFixture(t)
	f.locks.On("TryAcquireLock", mock.Anything, NightlyJob, "web.1", lockTTL).Return(false, errors.New("mocked-error"))

	f.s.RunNightly(context.Background())

	f.cases.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestRunNightlyDoesNotStoreFailedRun(t *testing.T) {
	f := newFixture(t)
	f.locks.On("TryAcquireLock", mock.Anything, NightlyJob, "web.1", lockTTL).Return(true, nil)
	f.locks.On("ReleaseLock", mock.Anything, NightlyJob, "web.1").Return(nil)
	f.cases.On("Find", mock.Anything, bson.M{}).Return([]models.CaseRecord{{CaseID: "C1", CaseType: "writ"}}, nil)
	f.judges.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(nil, nil)

	f.s.RunNightly(context.Background())

	f.runs.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	f.locks.AssertCalled(t, "ReleaseLock", mock.Anything, NightlyJob, "web.1")
}

func TestStartRejectsBadSpec(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.s.Start("not a cron spec"))

	assert.NoError(t, f.s.Start(config.DefaultScheduleCron))
	f.s.Stop()
}

func TestRunNightlyReleasesLockAfterDeadline(t *testing.T) {
	f := newFixture(t)
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	f.locks.On("TryAcquireLock", mock.Anything, NightlyJob, "web.1", lockTTL).Return(true, nil)
	f.locks.On("ReleaseLock", live, NightlyJob, "web.1").Return(errors.New("mocked-error"))
	f.cases.On("Find", mock.Anything, bson.M{}).Return(nil, context.Canceled)

	f.s.RunNightly(parent)

	f.locks.AssertExpectations(t)
	f.runs.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}
