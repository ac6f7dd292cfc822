// Package dsatur implements the next-exam selection heuristic (spec
// §4.D) and the branch/room scoring used during MCTS expansion and
// rollout (spec §4.E).
//
// Grounded on heuristics/da_mcts.py's ExamTimetableState: next_exam,
// get_legal_actions, _find_single_room, _find_multiple_rooms.
package dsatur

import (
	"math/rand"
	"sort"

	"github.com/examtt/core/internal/assignment"
	"github.com/examtt/core/internal/feasible"
	"github.com/examtt/core/internal/instance"
)

// Scratch holds the incremental DSatur bookkeeping for one Assignment:
// unassigned exams, saturation degree, and the set of periods already
// used by each exam's booked neighbors in the clash graph.
type Scratch struct {
	Unassigned   map[int]bool
	SatDegree    []int
	AdjPeriods   []map[int]bool
}

// NewScratch builds a fresh Scratch with every exam unassigned.
func NewScratch(inst *instance.Instance) *Scratch {
	n := len(inst.Exams)
	unassigned := make(map[int]bool, n)
	adj := make([]map[int]bool, n)
	for e := 0; e < n; e++ {
		unassigned[e] = true
		adj[e] = make(map[int]bool)
	}
	return &Scratch{Unassigned: unassigned, SatDegree: make([]int, n), AdjPeriods: adj}
}

// Clone deep-copies the scratch state for a new search node.
func (s *Scratch) Clone() *Scratch {
	n := len(s.SatDegree)
	unassigned := make(map[int]bool, len(s.Unassigned))
	for k, v := range s.Unassigned {
		unassigned[k] = v
	}
	satDegree := append([]int(nil), s.SatDegree...)
	adj := make([]map[int]bool, n)
	for i, m := range s.AdjPeriods {
		cm := make(map[int]bool, len(m))
		for k, v := range m {
			cm[k] = v
		}
		adj[i] = cm
	}
	return &Scratch{Unassigned: unassigned, SatDegree: satDegree, AdjPeriods: adj}
}

// MarkBooked removes exam from the unassigned set and folds its
// placement into every still-unassigned neighbor's saturation degree.
func (s *Scratch) MarkBooked(inst *instance.Instance, exam, period int) {
	delete(s.Unassigned, exam)
	for other := range s.Unassigned {
		if inst.Clash[exam][other] > 0 && !s.AdjPeriods[other][period] {
			s.AdjPeriods[other][period] = true
			s.SatDegree[other]++
		}
	}
}

// NextExam returns the unassigned exam with the highest saturation
// degree, breaking ties by the number of unassigned clashing neighbors
// (highest wins), then by smallest exam id. Returns -1 if nothing is
// unassigned.
func NextExam(inst *instance.Instance, s *Scratch) int {
	best := -1
	var bestSat, bestConflicts int
	for e := range s.Unassigned {
		sat := s.SatDegree[e]
		if best == -1 || sat > bestSat {
			best, bestSat, bestConflicts = e, sat, unassignedConflicts(inst, s, e)
			continue
		}
		if sat == bestSat {
			conflicts := unassignedConflicts(inst, s, e)
			if conflicts > bestConflicts || (conflicts == bestConflicts && e < best) {
				best, bestConflicts = e, conflicts
			}
		}
	}
	return best
}

func unassignedConflicts(inst *instance.Instance, s *Scratch, exam int) int {
	n := 0
	for other := range s.Unassigned {
		if other != exam && inst.Clash[exam][other] > 0 {
			n++
		}
	}
	return n
}

// Branch is one candidate (period, rooms) decision for a chosen exam.
type Branch struct {
	Exam   int
	Period int
	Rooms  []int
}

// Branches enumerates the candidate branches for exam per spec §4.E:
// a pinned coincidence period if one of exam's class-mates is already
// booked, otherwise periods ranked by descending remaining capacity
// and filtered by feasibility; each retained period gets a room choice
// via single-room best fit, then multi-room split, then a random
// last resort.
func Branches(inst *instance.Instance, a *assignment.Assignment, exam int, rng *rand.Rand) []Branch {
	class := inst.CoincidenceClasses[inst.CoincidenceClass[exam]]
	for _, e := range class {
		if e == exam {
			continue
		}
		if b, ok := a.Booked(e); ok {
			rooms := roomsFor(inst, a, exam, b.Period, rng)
			if rooms == nil {
				return nil
			}
			return []Branch{{Exam: exam, Period: b.Period, Rooms: rooms}}
		}
	}

	periods := make([]int, len(inst.Periods))
	for p := range periods {
		periods[p] = p
	}
	sort.SliceStable(periods, func(i, j int) bool {
		return a.Remaining(periods[i]) > a.Remaining(periods[j])
	})

	var branches []Branch
	for _, p := range periods {
		if !feasible.Period(inst, a, exam, p) {
			continue
		}
		rooms := roomsFor(inst, a, exam, p, rng)
		if rooms != nil {
			branches = append(branches, Branch{Exam: exam, Period: p, Rooms: rooms})
		}
	}
	return branches
}

// roomsFor picks a room assignment for (exam, period): single-room
// best fit, else a multi-room split, else a uniformly random room (the
// spec's documented last resort, which may produce an infeasible
// leaf).
func roomsFor(inst *instance.Instance, a *assignment.Assignment, exam, period int, rng *rand.Rand) []int {
	if r, ok := singleRoomBestFit(inst, a, exam, period); ok {
		return []int{r}
	}
	if rooms := multiRoomSplit(inst, a, exam, period); rooms != nil {
		return rooms
	}
	if len(inst.Rooms) == 0 {
		return nil
	}
	return []int{randomRoom(inst, rng)}
}

func singleRoomBestFit(inst *instance.Instance, a *assignment.Assignment, exam, period int) (int, bool) {
	students := inst.Exams[exam].NumStudents()
	best := -1
	bestCap := -1
	for _, room := range inst.EligibleRooms[exam] {
		if a.RoomFull(room, period) {
			continue
		}
		cap := a.CurrentRoomCapacity(period, room)
		if cap < students {
			continue
		}
		if !feasible.Room(inst, a, exam, period, room) {
			continue
		}
		if cap == students {
			return room, true
		}
		if best == -1 || cap < bestCap {
			best, bestCap = room, cap
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func multiRoomSplit(inst *instance.Instance, a *assignment.Assignment, exam, period int) []int {
	students := inst.Exams[exam].NumStudents()
	type cand struct {
		room int
		cap  int
	}
	var cands []cand
	for room := 0; room < len(inst.Rooms); room++ {
		if a.RoomFull(room, period) {
			continue
		}
		cap := a.CurrentRoomCapacity(period, room)
		if cap <= 0 {
			continue
		}
		if !feasible.Rooms(inst, a, exam, period, room) {
			continue
		}
		cands = append(cands, cand{room: room, cap: cap})
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].cap > cands[j].cap })

	var rooms []int
	total := 0
	for _, c := range cands {
		rooms = append(rooms, c.room)
		total += c.cap
		if total >= students {
			return rooms
		}
	}
	return nil
}

func randomRoom(inst *instance.Instance, rng *rand.Rand) int {
	return rng.Intn(len(inst.Rooms))
}

// PickRooms exposes the room-selection half of Branches (single-room
// best fit, then multi-room split, then a uniform random last resort)
// for callers, such as a rollout, that already have a committed
// period and only need a room decision.
func PickRooms(inst *instance.Instance, a *assignment.Assignment, exam, period int, rng *rand.Rand) []int {
	return roomsFor(inst, a, exam, period, rng)
}

// RolloutPeriod picks the period for exam during simulation (spec
// §4.G): a coincidence-pinned period if a class-mate is already
// booked; otherwise, among the periods feasible.Period accepts, the
// one minimizing a score that is dominated by a same-day-adjacency
// conflict estimate with a small capacity-based tiebreak; if none of
// the periods are feasible, a uniformly random period (the rollout's
// documented recoverable fallback, scored as infeasible downstream by
// the evaluator).
//
// Since feasible.Period already guarantees zero *same-period* clashes
// for every candidate, "conflict count against already-placed
// neighbors" is read as same-day adjacency pressure (the TWOINAROW/
// TWOINADAY soft-constraint risk a greedy rollout should still steer
// away from), not a same-period clash count that would always be
// zero by construction.
func RolloutPeriod(inst *instance.Instance, a *assignment.Assignment, exam int, rng *rand.Rand) int {
	class := inst.CoincidenceClasses[inst.CoincidenceClass[exam]]
	for _, e := range class {
		if e == exam {
			continue
		}
		if b, ok := a.Booked(e); ok {
			return b.Period
		}
	}

	var feasiblePeriods []int
	for p := range inst.Periods {
		if feasible.Period(inst, a, exam, p) {
			feasiblePeriods = append(feasiblePeriods, p)
		}
	}
	if len(feasiblePeriods) == 0 {
		return rng.Intn(len(inst.Periods))
	}

	students := inst.Exams[exam].NumStudents()
	if students < 1 {
		students = 1
	}
	const epsilon = 1e-6

	best := feasiblePeriods[0]
	bestScore := rolloutScore(inst, a, exam, best, students, epsilon)
	for _, p := range feasiblePeriods[1:] {
		score := rolloutScore(inst, a, exam, p, students, epsilon)
		if score < bestScore {
			best, bestScore = p, score
		}
	}
	return best
}

func rolloutScore(inst *instance.Instance, a *assignment.Assignment, exam, period, students int, epsilon float64) float64 {
	conflicts := 0
	for _, other := range adjacentDayExams(inst, a, period) {
		if inst.Clash[exam][other] > 0 {
			conflicts++
		}
	}
	capacityTerm := epsilon * float64(a.Remaining(period)) / float64(students)
	return float64(conflicts) - capacityTerm
}

// adjacentDayExams lists exams booked into any period on the same
// date as period and within one slot of it (TWOINAROW's window).
func adjacentDayExams(inst *instance.Instance, a *assignment.Assignment, period int) []int {
	var out []int
	date := inst.Periods[period].DateOrdinal
	for p := range inst.Periods {
		if p == period {
			continue
		}
		if inst.Periods[p].DateOrdinal != date {
			continue
		}
		if abs(p-period) != 1 {
			continue
		}
		out = append(out, a.ExamsInPeriod(p)...)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
