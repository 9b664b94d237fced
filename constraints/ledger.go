package constraints

import (
	"time"

	"github.com/linesmerrill/hearing-scheduler/models"
)

// Slot is one candidate (case, judge, date) assignment
type Slot struct {
	Case     models.PriorityScore
	Judge    models.JudgeRecord
	Date     time.Time
	DayIndex int
	Hours    float64
}

type judgeDay struct {
	judgeID string
	day     int64
}

// Ledger tracks the partial schedule a strategy has built so far so slot
// predicates can be answered in constant time.
type Ledger struct {
	perDay      map[int64]int
	perJudgeDay map[judgeDay]int
	hours       map[judgeDay]float64
	perJudge    map[string]int
	cases       map[string]bool
}

// NewLedger returns an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		perDay:      map[int64]int{},
		perJudgeDay: map[judgeDay]int{},
		hours:       map[judgeDay]float64{},
		perJudge:    map[string]int{},
		cases:       map[string]bool{},
	}
}

func dayKey(t time.Time) int64 {
	return models.Day(t).Unix() / 86400
}

// Add books the slot
func (l *Ledger) Add(s Slot) {
	k := judgeDay{s.Judge.JudgeID, dayKey(s.Date)}
	l.perDay[k.day]++
	l.perJudgeDay[k]++
	l.hours[k] += s.Hours
	l.perJudge[s.Judge.JudgeID]++
	l.cases[s.Case.CaseID] = true
}

// Remove undoes a previous Add of the same slot
func (l *Ledger) Remove(s Slot) {
	k := judgeDay{s.Judge.JudgeID, dayKey(s.Date)}
	l.perDay[k.day]--
	l.perJudgeDay[k]--
	l.hours[k] -= s.Hours
	l.perJudge[s.Judge.JudgeID]--
	delete(l.cases, s.Case.CaseID)
}

// DayCount is the number of hearings booked on date across all judges
func (l *Ledger) DayCount(date time.Time) int {
	return l.perDay[dayKey(date)]
}

// JudgeDayCount is the number of hearings booked for the judge on date
func (l *Ledger) JudgeDayCount(judgeID string, date time.Time) int {
	return l.perJudgeDay[judgeDay{judgeID, dayKey(date)}]
}

// JudgeDayHours is the summed estimated duration booked for the judge on date
func (l *Ledger) JudgeDayHours(judgeID string, date time.Time) float64 {
	return l.hours[judgeDay{judgeID, dayKey(date)}]
}

// JudgeTotal is the number of hearings booked for the judge over the window
func (l *Ledger) JudgeTotal(judgeID string) int {
	return l.perJudge[judgeID]
}

// Scheduled reports whether the case already holds a slot
func (l *Ledger) Scheduled(caseID string) bool {
	return l.cases[caseID]
}

// Len is the number of booked hearings
func (l *Ledger) Len() int {
	return len(l.cases)
}
