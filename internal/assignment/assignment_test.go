package assignment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/examtt/core/internal/instance"
)

func testInstance(t *testing.T) *instance.Instance {
	t.Helper()
	inst, err := instance.Build(instance.Records{
		Exams: []instance.ExamRecord{
			{Duration: 120, Students: []int{1, 2}},
			{Duration: 90, Students: []int{3}},
		},
		Periods: []instance.PeriodRecord{
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 120},
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 200, Duration: 120},
		},
		Rooms: []instance.RoomRecord{
			{Capacity: 10},
			{Capacity: 5},
		},
		RoomConstraints: []instance.RoomConstraintRecord{{Exam: 1}},
	})
	require.NoError(t, err)
	return inst
}

func TestPlaceUpdatesRemainingCapacity(t *testing.T) {
	inst := testInstance(t)
	a := New(inst)
	require.Equal(t, inst.TotalPeriodCapacity, a.Remaining(0))
	a.Place(0, 0, []int{0})
	require.Equal(t, inst.TotalPeriodCapacity-2, a.Remaining(0))
}

func TestPlacePopulatesOccupancyIndex(t *testing.T) {
	inst := testInstance(t)
	a := New(inst)
	a.Place(0, 0, []int{0})
	require.Equal(t, []int{0}, a.ExamsInPeriodRoom(0, 0))
	require.ElementsMatch(t, []int{0}, a.ExamsInPeriod(0))
}

func TestPlaceSetsFullFlagOnlyForExclusiveExams(t *testing.T) {
	inst := testInstance(t)
	a := New(inst)
	a.Place(0, 0, []int{0})
	require.False(t, a.RoomFull(0, 0))
	a.Place(1, 1, []int{1})
	require.True(t, a.RoomFull(1, 1))
}

func TestPlacePanicsOnDoubleBooking(t *testing.T) {
	inst := testInstance(t)
	a := New(inst)
	a.Place(0, 0, []int{0})
	require.Panics(t, func() { a.Place(0, 1, []int{1}) })
}

func TestUnplaceRestoresRemainingCapacityAndOccupancy(t *testing.T) {
	inst := testInstance(t)
	a := New(inst)
	before := a.Remaining(0)
	a.Place(0, 0, []int{0})
	a.Unplace(0)
	require.Equal(t, before, a.Remaining(0))
	require.Empty(t, a.ExamsInPeriodRoom(0, 0))
	require.False(t, a.IsBooked(0))
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	inst := testInstance(t)
	a := New(inst)
	a.Place(0, 0, []int{0})
	clone := a.Clone()
	clone.Place(1, 1, []int{1})

	require.True(t, clone.IsBooked(1))
	require.False(t, a.IsBooked(1))
	require.Equal(t, inst.TotalPeriodCapacity, a.Remaining(1))
}

func TestCurrentRoomCapacityAccountsForBookedStudents(t *testing.T) {
	inst := testInstance(t)
	a := New(inst)
	require.Equal(t, 10, a.CurrentRoomCapacity(0, 0))
	a.Place(0, 0, []int{0})
	require.Equal(t, 8, a.CurrentRoomCapacity(0, 0))
}
