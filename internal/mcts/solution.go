package mcts

import "fmt"

// Value is the two-tier objective of spec §4.F/§4.H: a hard-violation
// count (the primary key) and a soft-penalty total (the secondary
// key, consulted only to break ties on Hard).
//
// A Value with Hard == 0 is feasible; otherwise it stands in for
// spec §4.H's distinguished Infeasible(d) kind with d == Hard, which
// by construction always compares worse than any feasible value. Open
// Question (a) of spec.md §9 is resolved by also comparing Soft among
// two infeasible values with equal Hard, which refines but never
// contradicts "compares to other Infeasible by d": Hard is still the
// sole deciding factor whenever it differs.
type Value struct {
	Hard int
	Soft int
}

func (v Value) String() string {
	if v.Hard == 0 {
		return fmt.Sprintf("feasible(soft=%d)", v.Soft)
	}
	return fmt.Sprintf("infeasible(hard=%d,soft=%d)", v.Hard, v.Soft)
}

// Feasible reports whether v has zero hard violations.
func (v Value) Feasible() bool {
	return v.Hard == 0
}

// Less implements the lexicographic (Hard, Soft) order: feasible
// values sort before infeasible ones, and within a stratum smaller is
// better.
func (v Value) Less(o Value) bool {
	if v.Hard != o.Hard {
		return v.Hard < o.Hard
	}
	return v.Soft < o.Soft
}

// Solution pairs a Value with the booking data that produced it.
type Solution struct {
	Value Value
	Data  interface{}
}

var (
	worstFeasible   = Value{Hard: 0, Soft: 1<<62 - 1}
	bestFeasible    = Value{Hard: 0, Soft: -(1<<62 - 1)}
	worstInfeasible = Value{Hard: 1<<62 - 1, Soft: 1<<62 - 1}
	bestInfeasible  = Value{Hard: 1<<62 - 1, Soft: -(1<<62 - 1)}
)

// Solutions tracks the best/worst feasible and infeasible values seen
// during a search, plus the running list of improving incumbents.
//
// Grounded on rr/opt/mcts/simple.py's Solutions class.
type Solutions struct {
	Best Solution

	FeasCount int
	FeasBest  Value
	FeasWorst Value

	InfeasCount int
	InfeasBest  Value
	InfeasWorst Value

	Incumbents []Solution
}

// NewSolutions returns an empty tracker with sentinel extremes, so the
// first Update always records both a best and a worst.
func NewSolutions() *Solutions {
	return &Solutions{
		Best:      Solution{Value: bestInfeasible},
		FeasBest:  worstFeasible,
		FeasWorst: bestFeasible,
		InfeasBest: worstInfeasible,
		InfeasWorst: bestInfeasible,
	}
}

// Update folds sol into the tracker, recording a new incumbent if sol
// improves on Best.
func (s *Solutions) Update(sol Solution) {
	if sol.Value.Feasible() {
		s.FeasCount++
		if sol.Value.Less(s.FeasBest) {
			s.FeasBest = sol.Value
		}
		if s.FeasWorst.Less(sol.Value) {
			s.FeasWorst = sol.Value
		}
	} else {
		s.InfeasCount++
		if sol.Value.Less(s.InfeasBest) {
			s.InfeasBest = sol.Value
		}
		if s.InfeasWorst.Less(sol.Value) {
			s.InfeasWorst = sol.Value
		}
	}
	if sol.Value.Less(s.Best.Value) {
		s.Best = sol
		s.Incumbents = append(s.Incumbents, sol)
	}
}

// FeasRatio is the fraction of all solutions seen that were feasible.
func (s *Solutions) FeasRatio() float64 {
	total := s.FeasCount + s.InfeasCount
	if total == 0 {
		return 0
	}
	return float64(s.FeasCount) / float64(total)
}
