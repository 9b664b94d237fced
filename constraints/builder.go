package constraints

import "github.com/linesmerrill/hearing-scheduler/models"

// Builder assembles a Set fluently. The first invalid constraint sticks and is
// returned by Build.
type Builder struct {
	constraints []Constraint
	err         error
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends any constraint
func (b *Builder) Add(c Constraint) *Builder {
	if b.err != nil {
		return b
	}
	if err := c.validate(); err != nil {
		b.err = err
		return b
	}
	b.constraints = append(b.constraints, c)
	return b
}

func (b *Builder) MaxHearingsPerDay(n int) *Builder {
	return b.Add(MaxPerDay(n))
}

func (b *Builder) MaxHearingsPerJudgePerDay(n int) *Builder {
	return b.Add(MaxPerJudgePerDay(n))
}

func (b *Builder) PriorityDeadline(threshold float64, days int) *Builder {
	return b.Add(Deadline(threshold, days))
}

func (b *Builder) MinimumGap(ct models.CaseType, days int) *Builder {
	return b.Add(Gap(ct, days))
}

func (b *Builder) WorkingHours(maxHours, avgDuration float64) *Builder {
	return b.Add(Hours(maxHours, avgDuration))
}

func (b *Builder) JudgeSpecialization() *Builder {
	return b.Add(Specialization())
}

func (b *Builder) JudgeSpecializationFor(judgeID string, types ...models.CaseType) *Builder {
	return b.Add(SpecializationFor(judgeID, types...))
}

func (b *Builder) NoWeekends() *Builder {
	return b.Add(NoWeekends())
}

func (b *Builder) Holidays(dates ...string) *Builder {
	return b.Add(Holidays(dates...))
}

func (b *Builder) BalancedWorkload(tolerance float64) *Builder {
	return b.Add(Balance(tolerance))
}

// Build returns the set or the first configuration error
func (b *Builder) Build() (*Set, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewSet(b.constraints...)
}
