package scheduling

import (
	"context"

	"github.com/linesmerrill/hearing-scheduler/constraints"
)

// Heuristic is the greedy strategy: in priority order, each case takes the
// earliest day and first judge in roster order that every hard rule accepts.
type Heuristic struct{}

// Solve never fails and never exceeds a hard constraint
func (Heuristic) Solve(_ context.Context, p *Problem) (*Solution, error) {
	as := greedy(p, constraints.NewLedger())
	return &Solution{Assignments: as, Objective: objective(p, as)}, nil
}

func greedy(p *Problem, l *constraints.Ledger) []Assignment {
	as := emptyAssignments(len(p.Cases))
	for i := range p.Cases {
	days:
		for _, k := range p.openDays {
			for j := range p.Judges {
				s := p.Slot(i, j, k)
				if ok, _ := p.Constraints.Allows(s, l); ok {
					l.Add(s)
					as[i] = Assignment{Case: i, Judge: j, Day: k}
					break days
				}
			}
		}
	}
	return as
}
