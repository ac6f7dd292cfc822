// Package feasible implements the stateless admissibility predicates
// of spec.md §4.B over (instance, assignment) pairs. Every predicate
// here is pure: it reads the assignment but never mutates it.
//
// Grounded line-for-line on
// itc2007_framework/feasibility_tester.py's FeasibilityTester.
package feasible

import (
	"github.com/examtt/core/internal/assignment"
	"github.com/examtt/core/internal/instance"
)

// Period reports whether exam can be booked into period given a.
func Period(inst *instance.Instance, a *assignment.Assignment, exam, period int) bool {
	class := inst.CoincidenceClasses[inst.CoincidenceClass[exam]]

	for _, e := range class {
		if inst.Exams[e].Duration > inst.Periods[period].Duration {
			return false
		}
	}

	for _, e := range class {
		if e == exam {
			continue
		}
		if b, ok := a.Booked(e); ok && b.Period != period {
			return false
		}
	}

	for _, other := range a.ExamsInPeriod(period) {
		if inst.Clash[exam][other] > 0 {
			return false
		}
	}

	for _, pc := range inst.PeriodConstraints {
		if pc.Kind != instance.After {
			continue
		}
		switch exam {
		case pc.ExamA:
			// a must end up after b: infeasible unless b's period < p.
			if b, ok := a.Booked(pc.ExamB); ok && b.Period >= period {
				return false
			}
		case pc.ExamB:
			// b must end up before a: infeasible unless a's period > p.
			if b, ok := a.Booked(pc.ExamA); ok && b.Period <= period {
				return false
			}
		}
	}

	return true
}

// Room reports whether exam can be placed alone into (period, room),
// i.e. room must hold exam's full enrollment by itself.
func Room(inst *instance.Instance, a *assignment.Assignment, exam, period, room int) bool {
	capacity := a.CurrentRoomCapacity(period, room)
	if inst.Exams[exam].NumStudents() > capacity {
		return false
	}
	if inst.Exams[exam].Exclusive && capacity != inst.Rooms[room].Capacity {
		return false
	}
	return !occupiedByExclusive(inst, a, period, room)
}

// Rooms reports whether room may be used as one member of a multi-room
// split for exam: any positive capacity suffices, exclusivity rules
// are unchanged.
func Rooms(inst *instance.Instance, a *assignment.Assignment, exam, period, room int) bool {
	capacity := a.CurrentRoomCapacity(period, room)
	if capacity <= 0 {
		return false
	}
	if inst.Exams[exam].Exclusive && capacity != inst.Rooms[room].Capacity {
		return false
	}
	return !occupiedByExclusive(inst, a, period, room)
}

func occupiedByExclusive(inst *instance.Instance, a *assignment.Assignment, period, room int) bool {
	for _, e := range a.ExamsInPeriodRoom(period, room) {
		if inst.Exams[e].Exclusive {
			return true
		}
	}
	return false
}

// CurrentRoomCapacity is a thin re-export so callers of this package
// do not also need to import assignment for the one query the spec
// names as part of the feasibility tester (§4.B).
func CurrentRoomCapacity(a *assignment.Assignment, period, room int) int {
	return a.CurrentRoomCapacity(period, room)
}
