package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/examtt/core/internal/assignment"
	"github.com/examtt/core/internal/instance"
)

func build(t *testing.T, r instance.Records) *instance.Instance {
	t.Helper()
	inst, err := instance.Build(r)
	require.NoError(t, err)
	return inst
}

// Scenario 1: conflict detection.
func TestConflictDetection(t *testing.T) {
	r := instance.Records{
		Exams: []instance.ExamRecord{
			{Duration: 60, Students: []int{1, 2}},
			{Duration: 60, Students: []int{2, 3}},
		},
		Periods: []instance.PeriodRecord{
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 60},
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 100, Duration: 60},
		},
		Rooms: []instance.RoomRecord{{Capacity: 10}},
	}
	inst := build(t, r)

	a := assignment.New(inst)
	a.Place(0, 1, []int{0})
	a.Place(1, 1, []int{0})
	rep := Evaluate(inst, a)
	require.Equal(t, 2, rep.ConflictingExams) // ordered pairs (0,1) and (1,0)
	require.GreaterOrEqual(t, rep.Hard(), 2)

	b := assignment.New(inst)
	b.Place(0, 0, []int{0})
	b.Place(1, 1, []int{0})
	rep2 := Evaluate(inst, b)
	require.Equal(t, 0, rep2.ConflictingExams)
}

// Scenario 2: overbooking.
func TestOverbookedPeriods(t *testing.T) {
	r := instance.Records{
		Exams:   []instance.ExamRecord{{Duration: 60, Students: make([]int, 100)}},
		Periods: []instance.PeriodRecord{{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 60}},
		Rooms:   []instance.RoomRecord{{Capacity: 80}, {Capacity: 60}, {Capacity: 60}},
	}
	for i := range r.Exams[0].Students {
		r.Exams[0].Students[i] = i
	}
	inst := build(t, r)

	a := assignment.New(inst)
	a.Place(0, 0, []int{0})
	require.Equal(t, 1, Evaluate(inst, a).OverbookedPeriods)

	b := assignment.New(inst)
	b.Place(0, 0, []int{1, 2})
	require.Equal(t, 0, Evaluate(inst, b).OverbookedPeriods)
}

// Scenario 3: too-short period.
func TestTooShortPeriods(t *testing.T) {
	r := instance.Records{
		Exams:   []instance.ExamRecord{{Duration: 180, Students: []int{1}}},
		Periods: []instance.PeriodRecord{{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 120}},
		Rooms:   []instance.RoomRecord{{Capacity: 10}},
	}
	inst := build(t, r)
	a := assignment.New(inst)
	a.Place(0, 0, []int{0})
	require.Equal(t, 1, Evaluate(inst, a).TooShortPeriods)
}

// Scenario 4: AFTER constraint.
func TestAfterConstraintViolation(t *testing.T) {
	r := instance.Records{
		Exams: make([]instance.ExamRecord, 11),
		Periods: []instance.PeriodRecord{
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 60},
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 100, Duration: 60},
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 200, Duration: 60},
		},
		Rooms:             []instance.RoomRecord{{Capacity: 10}},
		PeriodConstraints: []instance.PeriodConstraintRecord{{ExamA: 9, Kind: instance.After, ExamB: 10}},
	}
	for i := range r.Exams {
		r.Exams[i] = instance.ExamRecord{Duration: 60, Students: []int{i + 100}}
	}
	inst := build(t, r)

	a := assignment.New(inst)
	a.Place(9, 2, []int{0})
	a.Place(10, 1, []int{0})
	require.Equal(t, 0, Evaluate(inst, a).PeriodConstraintViolations)

	b := assignment.New(inst)
	b.Place(9, 1, []int{0})
	b.Place(10, 2, []int{0})
	require.Equal(t, 1, Evaluate(inst, b).PeriodConstraintViolations)
}

// Scenario 5: FRONTLOAD.
func TestFrontloadPenalty(t *testing.T) {
	exams := make([]instance.ExamRecord, 31)
	for i := range exams {
		students := make([]int, 31-i) // exam 0 biggest, descending
		for s := range students {
			students[s] = i*1000 + s
		}
		exams[i] = instance.ExamRecord{Duration: 60, Students: students}
	}
	periods := make([]instance.PeriodRecord, 14)
	for i := range periods {
		periods[i] = instance.PeriodRecord{Date: "01:06:2024", DateOrdinal: 1, StartMinute: i * 200, Duration: 60}
	}
	r := instance.Records{
		Exams:      exams,
		Periods:    periods,
		Rooms:      []instance.RoomRecord{{Capacity: 1000}},
		Weightings: []instance.WeightingRecord{{Kind: instance.Frontload, TopN: 30, LastP: 5, Weight: 5}},
	}
	inst := build(t, r)

	a := assignment.New(inst)
	a.Place(0, 10, []int{0}) // one of the top-30 exams, in the last-5 window (periods 9..13)
	require.Equal(t, 5, Evaluate(inst, a).Frontload)

	b := assignment.New(inst)
	b.Place(0, 8, []int{0}) // outside the last-5 window
	require.Equal(t, 0, Evaluate(inst, b).Frontload)
}

func TestRoomAndPeriodPenaltiesSum(t *testing.T) {
	r := instance.Records{
		Exams:   []instance.ExamRecord{{Duration: 60, Students: []int{1}}},
		Periods: []instance.PeriodRecord{{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 60, Penalty: 3}},
		Rooms:   []instance.RoomRecord{{Capacity: 10, Penalty: 7}},
	}
	inst := build(t, r)
	a := assignment.New(inst)
	a.Place(0, 0, []int{0})
	rep := Evaluate(inst, a)
	require.Equal(t, 7, rep.RoomPenalty)
	require.Equal(t, 3, rep.PeriodPenalty)
}

func TestRoomConstraintViolationWhenExclusiveRoomShared(t *testing.T) {
	r := instance.Records{
		Exams: []instance.ExamRecord{
			{Duration: 60, Students: []int{1}},
			{Duration: 60, Students: []int{2}},
		},
		Periods:         []instance.PeriodRecord{{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 60}},
		Rooms:           []instance.RoomRecord{{Capacity: 10}},
		RoomConstraints: []instance.RoomConstraintRecord{{Exam: 0}},
	}
	inst := build(t, r)
	a := assignment.New(inst)
	a.Place(0, 0, []int{0})
	a.Place(1, 0, []int{0})
	require.Equal(t, 1, Evaluate(inst, a).RoomConstraintViolations)
}

func TestSoftSumIsOrderIndependent(t *testing.T) {
	r := instance.Records{
		Exams: []instance.ExamRecord{
			{Duration: 60, Students: []int{1, 2}},
			{Duration: 60, Students: []int{2, 3}},
			{Duration: 60, Students: []int{3, 4}},
		},
		Periods: []instance.PeriodRecord{
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 60},
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 100, Duration: 60},
			{Date: "02:06:2024", DateOrdinal: 2, StartMinute: 0, Duration: 60},
		},
		Rooms:      []instance.RoomRecord{{Capacity: 10}},
		Weightings: []instance.WeightingRecord{{Kind: instance.TwoInARow, Weight: 2}},
	}
	inst := build(t, r)

	a := assignment.New(inst)
	a.Place(0, 0, []int{0})
	a.Place(2, 2, []int{0})
	a.Place(1, 1, []int{0})

	b := assignment.New(inst)
	b.Place(1, 1, []int{0})
	b.Place(0, 0, []int{0})
	b.Place(2, 2, []int{0})

	require.Equal(t, Evaluate(inst, a).Soft(), Evaluate(inst, b).Soft())
}
