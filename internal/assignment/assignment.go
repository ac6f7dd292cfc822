// Package assignment holds the mutable per-node booking state of the
// search: which exam is booked where, the derived occupancy index, and
// the remaining-capacity and "full" bookkeeping the feasibility tester
// and DSatur heuristic read from on every call.
//
// An Assignment shares its Instance by reference and owns only its own
// mutable tables, so that cloning one for a new search node never
// touches the Instance (spec §9's "explicit Assignment::clone()").
package assignment

import "github.com/examtt/core/internal/instance"

// Booking records where one exam ended up.
type Booking struct {
	Period int
	Rooms  []int
}

// Assignment is the mutable booking state owned by one search node.
type Assignment struct {
	Inst *instance.Instance

	booked    map[int]Booking
	pa        [][][]int // pa[period][room] = exam ids
	remaining []int     // remaining[period]
	full      map[roomPeriod]bool
}

type roomPeriod struct {
	Room   int
	Period int
}

// New returns an empty Assignment over inst.
func New(inst *instance.Instance) *Assignment {
	pa := make([][][]int, len(inst.Periods))
	for p := range pa {
		pa[p] = make([][]int, len(inst.Rooms))
	}
	remaining := make([]int, len(inst.Periods))
	for p := range remaining {
		remaining[p] = inst.TotalPeriodCapacity
	}
	return &Assignment{
		Inst:      inst,
		booked:    make(map[int]Booking),
		pa:        pa,
		remaining: remaining,
		full:      make(map[roomPeriod]bool),
	}
}

// Clone produces a deep copy of the mutable tables; Inst is shared.
func (a *Assignment) Clone() *Assignment {
	booked := make(map[int]Booking, len(a.booked))
	for e, b := range a.booked {
		rooms := make([]int, len(b.Rooms))
		copy(rooms, b.Rooms)
		booked[e] = Booking{Period: b.Period, Rooms: rooms}
	}
	pa := make([][][]int, len(a.pa))
	for p := range a.pa {
		pa[p] = make([][]int, len(a.pa[p]))
		for r := range a.pa[p] {
			if len(a.pa[p][r]) > 0 {
				pa[p][r] = append([]int(nil), a.pa[p][r]...)
			}
		}
	}
	remaining := append([]int(nil), a.remaining...)
	full := make(map[roomPeriod]bool, len(a.full))
	for k, v := range a.full {
		full[k] = v
	}
	return &Assignment{Inst: a.Inst, booked: booked, pa: pa, remaining: remaining, full: full}
}

// Booked reports whether exam is already placed, and where.
func (a *Assignment) Booked(exam int) (Booking, bool) {
	b, ok := a.booked[exam]
	return b, ok
}

// IsBooked reports whether exam has been placed.
func (a *Assignment) IsBooked(exam int) bool {
	_, ok := a.booked[exam]
	return ok
}

// NumBooked returns how many exams are currently placed.
func (a *Assignment) NumBooked() int {
	return len(a.booked)
}

// AllBookings returns the live booking map keyed by exam id, not a
// copy; its iteration order is not defined. Callers must not mutate
// the map or its Booking.Rooms slices.
func (a *Assignment) AllBookings() map[int]Booking {
	return a.booked
}

// ExamsInPeriodRoom returns the exam ids currently booked into
// (period, room).
func (a *Assignment) ExamsInPeriodRoom(period, room int) []int {
	return a.pa[period][room]
}

// ExamsInPeriod returns the exam ids booked into period, across all
// rooms, without duplicates.
func (a *Assignment) ExamsInPeriod(period int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, exams := range a.pa[period] {
		for _, e := range exams {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// Remaining returns the remaining seat capacity of period across all
// rooms.
func (a *Assignment) Remaining(period int) int {
	return a.remaining[period]
}

// CurrentRoomCapacity is room's capacity minus students already booked
// into (period, room).
func (a *Assignment) CurrentRoomCapacity(period, room int) int {
	cap := a.Inst.Rooms[room].Capacity
	for _, e := range a.pa[period][room] {
		cap -= a.Inst.Exams[e].NumStudents()
	}
	return cap
}

// RoomFull reports the sticky "full" flag for (room, period): set once
// an exclusive exam claims the room and never cleared for this node's
// lineage. It is a search accelerant only — the evaluator never reads
// it.
func (a *Assignment) RoomFull(room, period int) bool {
	return a.full[roomPeriod{Room: room, Period: period}]
}

// Place books exam into period using rooms (non-empty). Panics if exam
// is already booked — a double-booking is a programmer error per
// spec §7, not a recoverable condition.
func (a *Assignment) Place(exam, period int, rooms []int) {
	if len(rooms) == 0 {
		panic("assignment: Place requires at least one room")
	}
	if _, already := a.booked[exam]; already {
		panic("assignment: exam already booked")
	}
	students := a.Inst.Exams[exam].NumStudents()
	for _, r := range rooms {
		a.pa[period][r] = append(a.pa[period][r], exam)
	}
	a.remaining[period] -= students
	roomsCopy := append([]int(nil), rooms...)
	a.booked[exam] = Booking{Period: period, Rooms: roomsCopy}
	if a.Inst.Exams[exam].Exclusive {
		for _, r := range rooms {
			a.full[roomPeriod{Room: r, Period: period}] = true
		}
	}
}

// Unplace is the inverse of Place. It does not clear sticky "full"
// flags left by an exclusive booking: spec §8 requires a documented
// choice here, and this implementation treats "full" as sticky for the
// node's lineage even across an unplace, matching its role as a
// one-way search accelerant rather than ground truth.
func (a *Assignment) Unplace(exam int) {
	b, ok := a.booked[exam]
	if !ok {
		panic("assignment: exam is not booked")
	}
	students := a.Inst.Exams[exam].NumStudents()
	for _, r := range b.Rooms {
		exams := a.pa[b.Period][r]
		for i, e := range exams {
			if e == exam {
				a.pa[b.Period][r] = append(exams[:i], exams[i+1:]...)
				break
			}
		}
	}
	a.remaining[b.Period] += students
	delete(a.booked, exam)
}
