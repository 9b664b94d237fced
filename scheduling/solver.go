package scheduling

import (
	"context"
	"errors"

	"github.com/linesmerrill/hearing-scheduler/constraints"
)

// ErrSolverUnavailable is returned by a solver that cannot take on the problem
var ErrSolverUnavailable = errors.New("solver unavailable")

// Unassigned marks a case left out of a solution
const Unassigned = -1

// Assignment places case Case with judge Judge on day Day. Judge is Unassigned
// when the case found no slot.
type Assignment struct {
	Case  int
	Judge int
	Day   int
}

// Solution is a solver's answer for one Problem. Assignments has one element
// per case, in problem order.
type Solution struct {
	Assignments []Assignment
	Objective   int64
	Optimal     bool
	Improved    bool
	Nodes       int64
}

// Solver produces a solution for a problem
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

func emptyAssignments(n int) []Assignment {
	out := make([]Assignment, n)
	for i := range out {
		out[i] = Assignment{Case: i, Judge: Unassigned, Day: Unassigned}
	}
	return out
}

// objective sums the value of every placed case
func objective(p *Problem, as []Assignment) int64 {
	var total int64
	for _, a := range as {
		if a.Judge != Unassigned {
			total += p.Value(a.Case, a.Day)
		}
	}
	return total
}

// replay books every placed case into a fresh ledger
func replay(p *Problem, as []Assignment) *constraints.Ledger {
	l := constraints.NewLedger()
	for _, a := range as {
		if a.Judge != Unassigned {
			l.Add(p.Slot(a.Case, a.Judge, a.Day))
		}
	}
	return l
}
