// Package evaluator computes the hard-violation count and soft-penalty
// total of a complete or partial booking (spec §4.F).
//
// Grounded line-for-line on
// itc2007_framework/exam_timetabling_solution.py's
// ExamTimetablingSolution, with the labeled-component report shape
// adapted from the teacher's score.go Problem{Message, Badness} list.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/examtt/core/internal/assignment"
	"github.com/examtt/core/internal/instance"
)

// Report is the full breakdown of one booking's score: every hard and
// soft component, plus the two-tier objective (Hard, Soft).
type Report struct {
	ConflictingExams         int
	OverbookedPeriods        int
	TooShortPeriods          int
	PeriodConstraintViolations int
	RoomConstraintViolations int

	TwoInARow         int
	TwoInADay         int
	PeriodSpread      int
	NonMixedDurations int
	Frontload         int
	RoomPenalty       int
	PeriodPenalty     int
}

// Hard is the feasibility distance: the sum of all hard-violation
// counts. Zero iff the booking is feasible.
func (r Report) Hard() int {
	return r.ConflictingExams + r.OverbookedPeriods + r.TooShortPeriods +
		r.PeriodConstraintViolations + r.RoomConstraintViolations
}

// Soft is the sum of all soft-penalty components.
func (r Report) Soft() int {
	return r.TwoInARow + r.TwoInADay + r.PeriodSpread + r.NonMixedDurations +
		r.Frontload + r.RoomPenalty + r.PeriodPenalty
}

// Lines renders one labeled line per component, matching spec §6's
// output format.
func (r Report) Lines() []string {
	return []string{
		fmt.Sprintf("Hard constraints -> %d", r.Hard()),
		fmt.Sprintf("Conflicting exams -> %d", r.ConflictingExams),
		fmt.Sprintf("Overbooked periods -> %d", r.OverbookedPeriods),
		fmt.Sprintf("Short Periods -> %d", r.TooShortPeriods),
		fmt.Sprintf("Period constraints -> %d", r.PeriodConstraintViolations),
		fmt.Sprintf("Room constraints -> %d", r.RoomConstraintViolations),
		fmt.Sprintf("Soft constraints -> %d", r.Soft()),
		fmt.Sprintf("Two in a row -> %d", r.TwoInARow),
		fmt.Sprintf("Two in a day -> %d", r.TwoInADay),
		fmt.Sprintf("Period spread -> %d", r.PeriodSpread),
		fmt.Sprintf("Mixed durations -> %d", r.NonMixedDurations),
		fmt.Sprintf("Frontload -> %d", r.Frontload),
		fmt.Sprintf("Period penalty -> %d", r.PeriodPenalty),
		fmt.Sprintf("Room penalty -> %d", r.RoomPenalty),
	}
}

// Evaluate scores a (possibly partial) booking. Unbooked exams simply
// do not contribute to any pairwise or per-exam component.
func Evaluate(inst *instance.Instance, a *assignment.Assignment) Report {
	var r Report
	bookings := a.AllBookings()

	r.ConflictingExams = conflictingExams(inst, bookings)
	r.OverbookedPeriods = overbookedPeriods(inst, bookings)
	r.TooShortPeriods = tooShortPeriods(inst, bookings)
	r.PeriodConstraintViolations = periodConstraintViolations(inst, bookings)
	r.RoomConstraintViolations = roomConstraintViolations(inst, bookings)

	r.TwoInARow = twoInARow(inst, bookings)
	r.TwoInADay = twoInADay(inst, bookings)
	r.PeriodSpread = periodSpread(inst, bookings)
	r.NonMixedDurations = nonMixedDurations(inst, bookings)
	r.Frontload = frontload(inst, bookings)
	r.RoomPenalty = roomPenalty(inst, bookings)
	r.PeriodPenalty = periodPenalty(inst, bookings)
	return r
}

func conflictingExams(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	n := 0
	for i, bi := range bookings {
		for j, bj := range bookings {
			if i == j {
				continue
			}
			if bi.Period == bj.Period && inst.Clash[i][j] > 0 {
				n++
			}
		}
	}
	return n
}

func overbookedPeriods(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	n := 0
	for e, b := range bookings {
		total := 0
		for _, r := range b.Rooms {
			total += inst.Rooms[r].Capacity
		}
		if inst.Exams[e].NumStudents() > total {
			n++
		}
	}
	return n
}

func tooShortPeriods(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	n := 0
	for e, b := range bookings {
		if inst.Exams[e].Duration > inst.Periods[b.Period].Duration {
			n++
		}
	}
	return n
}

func periodConstraintViolations(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	n := 0
	for _, pc := range inst.PeriodConstraints {
		ba, okA := bookings[pc.ExamA]
		bb, okB := bookings[pc.ExamB]
		if !okA || !okB {
			continue
		}
		switch pc.Kind {
		case instance.Coincidence:
			if ba.Period != bb.Period {
				n++
			}
		case instance.Exclusion:
			if ba.Period == bb.Period {
				n++
			}
		case instance.After:
			// exam_a must be AFTER exam_b: violated if a's datetime <= b's.
			if ba.Period <= bb.Period {
				n++
			}
		}
	}
	return n
}

func roomConstraintViolations(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	n := 0
	for _, rc := range inst.RoomConstraints {
		b, ok := bookings[rc.Exam]
		if !ok {
			continue
		}
		roomSet := make(map[int]bool, len(b.Rooms))
		for _, r := range b.Rooms {
			roomSet[r] = true
		}
		sharesRoom := false
		for other, ob := range bookings {
			if other == rc.Exam || ob.Period != b.Period {
				continue
			}
			for _, r := range ob.Rooms {
				if roomSet[r] {
					sharesRoom = true
					break
				}
			}
			if sharesRoom {
				break
			}
		}
		if sharesRoom {
			n++
		}
	}
	return n
}

func twoInARow(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	w, ok := inst.Weighting(instance.TwoInARow)
	if !ok {
		return 0
	}
	total := 0
	for i, bi := range bookings {
		for j, bj := range bookings {
			if j <= i {
				continue
			}
			if abs(bi.Period-bj.Period) == 1 && sameDate(inst, bi.Period, bj.Period) {
				total += w.Weight * inst.Clash[i][j]
			}
		}
	}
	return total
}

func twoInADay(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	w, ok := inst.Weighting(instance.TwoInADay)
	if !ok {
		return 0
	}
	total := 0
	for i, bi := range bookings {
		for j, bj := range bookings {
			if j <= i {
				continue
			}
			if abs(bi.Period-bj.Period) != 1 && sameDate(inst, bi.Period, bj.Period) {
				total += w.Weight * inst.Clash[i][j]
			}
		}
	}
	return total
}

func periodSpread(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	w, ok := inst.Weighting(instance.PeriodSpread)
	if !ok {
		return 0
	}
	total := 0
	for i, bi := range bookings {
		for j, bj := range bookings {
			spread := bj.Period - bi.Period
			if spread > 0 && spread <= w.Weight {
				total += inst.Clash[i][j]
			}
		}
	}
	return total
}

func nonMixedDurations(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	w, ok := inst.Weighting(instance.NonMixedDurations)
	if !ok {
		return 0
	}
	type key struct{ period, room int }
	durations := make(map[key]map[int]bool)
	for e, b := range bookings {
		for _, r := range b.Rooms {
			k := key{b.Period, r}
			if durations[k] == nil {
				durations[k] = make(map[int]bool)
			}
			durations[k][inst.Exams[e].Duration] = true
		}
	}
	total := 0
	for _, set := range durations {
		if len(set) > 1 {
			total += (len(set) - 1) * w.Weight
		}
	}
	return total
}

func frontload(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	w, ok := inst.Weighting(instance.Frontload)
	if !ok {
		return 0
	}
	sorted := make([]examBySize, len(inst.Exams))
	for i, e := range inst.Exams {
		sorted[i] = examBySize{id: e.ID, num: e.NumStudents()}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].num > sorted[j].num })
	topN := w.TopN
	if topN > len(sorted) {
		topN = len(sorted)
	}

	lastPeriodStart := len(inst.Periods) - w.LastP
	if lastPeriodStart < 0 {
		lastPeriodStart = 0
	}

	total := 0
	for i := 0; i < topN; i++ {
		b, booked := bookings[sorted[i].id]
		if booked && b.Period >= lastPeriodStart {
			total += w.Weight
		}
	}
	return total
}

func roomPenalty(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	total := 0
	for _, b := range bookings {
		for _, r := range b.Rooms {
			total += inst.Rooms[r].Penalty
		}
	}
	return total
}

func periodPenalty(inst *instance.Instance, bookings map[int]assignment.Booking) int {
	total := 0
	for _, b := range bookings {
		total += inst.Periods[b.Period].Penalty
	}
	return total
}

func sameDate(inst *instance.Instance, pa, pb int) bool {
	return inst.Periods[pa].DateOrdinal == inst.Periods[pb].DateOrdinal
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

type examBySize struct {
	id  int
	num int
}
