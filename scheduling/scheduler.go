// Package scheduling assigns scored cases to (judge, day) slots within a window
// using either a greedy heuristic or an exact branch and bound search, and
// falls back to the heuristic when the exact search cannot deliver.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/models"
)

// Scheduler owns the strategy decision and the run state machine
type Scheduler struct {
	Heuristic Solver
	Exact     Solver
	Now       func() time.Time
	NewRunID  func() string
}

// New returns a scheduler whose exact solver runs for at most budget
func New(budget time.Duration) *Scheduler {
	return &Scheduler{
		Heuristic: Heuristic{},
		Exact:     NewExact(budget),
		Now:       time.Now,
		NewRunID:  uuid.NewString,
	}
}

// GenerateSchedule builds a schedule for the cases. A configuration problem
// returns the schedule in state Failed together with a ConfigurationError; every
// other outcome returns a usable schedule and a nil error.
func (s *Scheduler) GenerateSchedule(ctx context.Context, cases []models.PriorityScore, judges []models.JudgeRecord, window models.Window, set *constraints.Set, strategy models.Strategy) (*models.Schedule, error) {
	schedule := &models.Schedule{
		RunID:             s.runID(),
		Window:            window,
		StrategyRequested: strategy,
		State:             models.RunInitialized,
		Entries:           []models.ScheduleEntry{},
		Unscheduled:       []models.UnscheduledCase{},
		GeneratedAt:       s.now().UTC(),
	}

	fail := func(err error) (*models.Schedule, error) {
		schedule.State = models.RunFailed
		zap.S().Errorw("schedule generation failed", "runID", schedule.RunID, "error", err)
		return schedule, err
	}

	if strategy != models.StrategyExact && strategy != models.StrategyHeuristic {
		return fail(models.NewConfigurationError("strategy", "unknown strategy %q", strategy))
	}
	p, err := NewProblem(cases, judges, window, set)
	if err != nil {
		return fail(err)
	}
	schedule.Window = p.Window
	schedule.State = models.RunSolving

	var sol *Solution
	switch strategy {
	case models.StrategyHeuristic:
		if sol, err = s.Heuristic.Solve(ctx, p); err != nil {
			return fail(fmt.Errorf("heuristic solve: %w", err))
		}
		schedule.State = models.RunSolved
		schedule.StrategyUsed = models.StrategyHeuristic

	case models.StrategyExact:
		sol, err = s.Exact.Solve(ctx, p)
		switch {
		case err != nil:
			schedule.FallbackReason = fmt.Sprintf("exact solver failed: %v", err)
			if errors.Is(err, ErrSolverUnavailable) {
				schedule.FallbackReason = err.Error()
			}
		case sol.Optimal:
			schedule.State = models.RunSolved
			schedule.StrategyUsed = models.StrategyExact
			schedule.ProvenOptimal = true
		case sol.Improved:
			schedule.State = models.RunSolved
			schedule.StrategyUsed = models.StrategyExact
		default:
			schedule.FallbackReason = "exact solver timed out without improving on the heuristic"
		}
		if schedule.FallbackReason != "" {
			zap.S().Warnw("falling back to heuristic",
				"runID", schedule.RunID,
				"reason", schedule.FallbackReason,
			)
			if sol, err = s.Heuristic.Solve(ctx, p); err != nil {
				return fail(fmt.Errorf("heuristic solve: %w", err))
			}
			schedule.State = models.RunFallback
			schedule.StrategyUsed = models.StrategyHeuristic
		}
	}

	fill(schedule, p, sol)

	zap.S().Infow("schedule generated",
		"runID", schedule.RunID,
		"requested", schedule.StrategyRequested,
		"used", schedule.StrategyUsed,
		"state", schedule.State,
		"provenOptimal", schedule.ProvenOptimal,
		"scheduled", len(schedule.Entries),
		"unscheduled", len(schedule.Unscheduled),
		"objective", schedule.Objective,
	)
	return schedule, nil
}

func (s *Scheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Scheduler) runID() string {
	if s.NewRunID == nil {
		return uuid.NewString()
	}
	return s.NewRunID()
}

// fill converts a solution into entries ordered by day, judge roster position
// and priority, plus the unscheduled cases with a reason each.
func fill(schedule *models.Schedule, p *Problem, sol *Solution) {
	placed := make([]Assignment, 0, len(sol.Assignments))
	for _, a := range sol.Assignments {
		if a.Judge != Unassigned {
			placed = append(placed, a)
		}
	}
	sort.SliceStable(placed, func(x, y int) bool {
		if placed[x].Day != placed[y].Day {
			return placed[x].Day < placed[y].Day
		}
		if placed[x].Judge != placed[y].Judge {
			return placed[x].Judge < placed[y].Judge
		}
		return placed[x].Case < placed[y].Case
	})

	for _, a := range placed {
		c := p.Cases[a.Case]
		schedule.Entries = append(schedule.Entries, models.ScheduleEntry{
			CaseID:          c.CaseID,
			CaseType:        c.CaseType,
			JudgeID:         p.Judges[a.Judge].JudgeID,
			HearingDate:     p.Window.Date(a.Day),
			DayIndex:        a.Day,
			PriorityScore:   c.Score,
			Category:        c.Category,
			EstimatedHours:  p.durations[a.Case],
			LastHearingDate: c.LastHearingDate,
		})
	}

	ledger := replay(p, sol.Assignments)
	for _, a := range sol.Assignments {
		if a.Judge != Unassigned {
			continue
		}
		c := p.Cases[a.Case]
		schedule.Unscheduled = append(schedule.Unscheduled, models.UnscheduledCase{
			CaseID:        c.CaseID,
			PriorityScore: c.Score,
			Category:      c.Category,
			Reason:        explain(p, a.Case, ledger),
		})
	}
	schedule.Objective = objective(p, sol.Assignments)
}

// explain says why case i holds no slot given the final bookings. When the case
// could have been heard on an empty calendar, the reason is the refusal on the
// last slot tried.
func explain(p *Problem, i int, l *constraints.Ledger) string {
	if len(p.openDays) == 0 {
		return "every day in the window is excluded"
	}
	if l.Scheduled(p.Cases[i].CaseID) {
		return "duplicate case id already scheduled"
	}
	empty := constraints.NewLedger()
	eligible, lastEmpty, lastBooked := false, "", ""
	for _, k := range p.openDays {
		for j := range p.Judges {
			sl := p.Slot(i, j, k)
			ok, why := p.Constraints.Allows(sl, l)
			if ok {
				return "displaced by higher value assignments"
			}
			lastBooked = why
			if ok, why := p.Constraints.Allows(sl, empty); ok {
				eligible = true
			} else {
				lastEmpty = why
			}
		}
	}
	if !eligible {
		return fmt.Sprintf("no eligible slot in window: %s", lastEmpty)
	}
	return fmt.Sprintf("no free slot in window: %s", lastBooked)
}
