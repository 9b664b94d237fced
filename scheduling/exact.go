package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/hearing-scheduler/constraints"
)

// Exact solver defaults
const (
	DefaultBudget       = 10 * time.Second
	DefaultMaxVariables = 250000
	ctxCheckInterval    = 1024
)

// Exact maximizes the sum over placed cases of weight times days remaining in
// the window, by depth-first branch and bound seeded with the greedy solution.
// It stops at the context deadline or after Budget, whichever comes first,
// keeping the best solution found.
type Exact struct {
	Budget       time.Duration
	MaxVariables int
}

// NewExact returns an exact solver with the default limits and the given budget
func NewExact(budget time.Duration) *Exact {
	return &Exact{Budget: budget, MaxVariables: DefaultMaxVariables}
}

// Solve runs the search. The solution is Optimal only when the search space was
// exhausted.
func (e *Exact) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	limit := e.MaxVariables
	if limit <= 0 {
		limit = DefaultMaxVariables
	}
	if v := p.Variables(); v > limit {
		return nil, fmt.Errorf("%w: %d assignment variables exceeds limit of %d", ErrSolverUnavailable, v, limit)
	}

	budget := e.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	seed := greedy(p, constraints.NewLedger())
	s := &search{
		p:       p,
		ctx:     ctx,
		ledger:  constraints.NewLedger(),
		choice:  emptyAssignments(len(p.Cases)),
		best:    append([]Assignment(nil), seed...),
		bestObj: objective(p, seed),
		bound:   suffixBounds(p),
		keys:    judgeKeys(p),
		caps:    make([]int, len(p.Judges)),
		dayCap:  p.Constraints.DayCapacity(),
	}
	for j, judge := range p.Judges {
		s.caps[j] = p.Constraints.EffectiveCapacity(judge)
	}
	seedObj := s.bestObj

	if ctx.Err() != nil {
		s.stopped = true
	} else {
		s.dfs(0, 0)
	}

	zap.S().Debugw("exact search finished",
		"cases", len(p.Cases),
		"nodes", s.nodes,
		"objective", s.bestObj,
		"seedObjective", seedObj,
		"stopped", s.stopped,
	)
	return &Solution{
		Assignments: s.best,
		Objective:   s.bestObj,
		Optimal:     !s.stopped,
		Improved:    s.bestObj > seedObj,
		Nodes:       s.nodes,
	}, nil
}

type search struct {
	p       *Problem
	ctx     context.Context
	ledger  *constraints.Ledger
	choice  []Assignment
	best    []Assignment
	bestObj int64
	bound   []int64
	keys    []string
	caps    []int
	dayCap  int
	nodes   int64
	stopped bool
}

func (s *search) dfs(i int, obj int64) {
	if s.stopped {
		return
	}
	s.nodes++
	if s.nodes%ctxCheckInterval == 0 && s.ctx.Err() != nil {
		s.stopped = true
		return
	}
	if i == len(s.p.Cases) {
		if obj > s.bestObj {
			s.bestObj = obj
			copy(s.best, s.choice)
		}
		return
	}
	if obj+s.bound[i] <= s.bestObj || obj+s.capacityBound(i) <= s.bestObj {
		return
	}

	for _, k := range s.p.openDays {
		gain := s.p.Value(i, k)
		// days are ascending so gain only shrinks from here
		if obj+gain+s.bound[i+1] <= s.bestObj {
			break
		}
		tried := map[string]bool{}
		for j := range s.p.Judges {
			sl := s.p.Slot(i, j, k)
			state := s.stateKey(j, sl)
			if tried[state] {
				continue
			}
			if ok, _ := s.p.Constraints.Allows(sl, s.ledger); !ok {
				continue
			}
			tried[state] = true
			s.ledger.Add(sl)
			s.choice[i] = Assignment{Case: i, Judge: j, Day: k}
			s.dfs(i+1, obj+gain)
			s.ledger.Remove(sl)
			s.choice[i] = Assignment{Case: i, Judge: Unassigned, Day: Unassigned}
			if s.stopped {
				return
			}
		}
	}
	s.dfs(i+1, obj)
}

// stateKey identifies interchangeable judges: two judges with the same
// attributes and no bookings yet lead to equivalent subtrees.
func (s *search) stateKey(j int, sl constraints.Slot) string {
	if s.ledger.JudgeTotal(sl.Judge.JudgeID) == 0 {
		return s.keys[j]
	}
	return "booked:" + sl.Judge.JudgeID
}

// judgeKeys groups judges whose scheduling behavior is identical. Judges named
// by a constraint keep their own id.
func judgeKeys(p *Problem) []string {
	named := map[string]bool{}
	for _, c := range p.Constraints.Constraints() {
		if c.Enabled && c.JudgeID != "" {
			named[c.JudgeID] = true
		}
	}
	keys := make([]string, len(p.Judges))
	for j, judge := range p.Judges {
		if named[judge.JudgeID] {
			keys[j] = "id:" + judge.JudgeID
			continue
		}
		keys[j] = fmt.Sprintf("cap:%d|spec:%s", p.Constraints.EffectiveCapacity(judge),
			strings.ToLower(strings.Join(judge.Specializations, ",")))
	}
	return keys
}

// capacityBound is an upper bound on the value cases i.. can still add: the
// remaining slots filled earliest day first in priority order, ignoring every
// per-case rule. Weights never increase along the case order so this pairing
// is the best possible.
func (s *search) capacityBound(i int) int64 {
	var total int64
	n := len(s.p.Cases)
	for _, k := range s.p.openDays {
		if i >= n {
			break
		}
		date := s.p.Window.Date(k)
		free := 0
		for j, judge := range s.p.Judges {
			if left := s.caps[j] - s.ledger.JudgeDayCount(judge.JudgeID, date); left > 0 {
				free += left
			}
		}
		if s.dayCap > 0 {
			if left := s.dayCap - s.ledger.DayCount(date); left < free {
				free = left
			}
		}
		for ; free > 0 && i < n; free-- {
			total += s.p.Value(i, k)
			i++
		}
	}
	return total
}

// suffixBounds[i] is an upper bound on the value cases i.. can still add: each
// case on its earliest individually feasible day, ignoring capacity.
func suffixBounds(p *Problem) []int64 {
	n := len(p.Cases)
	bound := make([]int64, n+1)
	empty := constraints.NewLedger()
	for i := n - 1; i >= 0; i-- {
		bound[i] = bound[i+1]
	earliest:
		for _, k := range p.openDays {
			for j := range p.Judges {
				if ok, _ := p.Constraints.Allows(p.Slot(i, j, k), empty); ok {
					bound[i] += p.Value(i, k)
					break earliest
				}
			}
		}
	}
	return bound
}
