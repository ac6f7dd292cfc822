package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/examtt/core/internal/config"
	"github.com/examtt/core/internal/evaluator"
	"github.com/examtt/core/internal/instance"
)

func smallInstance(t *testing.T) *instance.Instance {
	t.Helper()
	inst, err := instance.Build(instance.Records{
		Exams: []instance.ExamRecord{
			{Duration: 60, Students: []int{1, 2}},
			{Duration: 60, Students: []int{2, 3}},
			{Duration: 60, Students: []int{4, 5}},
			{Duration: 60, Students: []int{6}},
		},
		Periods: []instance.PeriodRecord{
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 0, Duration: 60},
			{Date: "01:06:2024", DateOrdinal: 1, StartMinute: 100, Duration: 60},
			{Date: "02:06:2024", DateOrdinal: 2, StartMinute: 0, Duration: 60},
		},
		Rooms: []instance.RoomRecord{{Capacity: 10}, {Capacity: 10}},
	})
	require.NoError(t, err)
	return inst
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.IterationLimit = 200
	cfg.TimeLimit = 0
	cfg.ProgressEvery = 0
	return cfg
}

func TestRunProducesAFullFeasibleBooking(t *testing.T) {
	inst := smallInstance(t)
	d := New(inst, testConfig(), nil, nil)
	result := d.Run(nil)

	asn := result.BestAssignment()
	require.Equal(t, len(inst.Exams), asn.NumBooked())
	rep := evaluator.Evaluate(inst, asn)
	require.Equal(t, 0, rep.Hard())
	require.Equal(t, result.Best.Value.Hard, rep.Hard())
	require.Equal(t, result.Best.Value.Soft, rep.Soft())
}

func TestRunIsDeterministicForAFixedSeed(t *testing.T) {
	inst := smallInstance(t)
	cfg := testConfig()
	cfg.Seed = 99

	r1 := New(inst, cfg, nil, nil).Run(nil)
	r2 := New(inst, cfg, nil, nil).Run(nil)

	require.Equal(t, r1.Best.Value, r2.Best.Value)
	require.Equal(t, len(r1.Incumbents), len(r2.Incumbents))
	for i := range r1.Incumbents {
		require.Equal(t, r1.Incumbents[i].Value, r2.Incumbents[i].Value)
	}
}

func TestRunRespectsIterationLimit(t *testing.T) {
	inst := smallInstance(t)
	cfg := testConfig()
	cfg.IterationLimit = 17
	result := New(inst, cfg, nil, nil).Run(nil)
	require.Equal(t, 17, result.Iterations)
	require.Equal(t, "iterations", result.StopReason)
}

func TestRunRespectsInterrupt(t *testing.T) {
	inst := smallInstance(t)
	cfg := testConfig()
	cfg.IterationLimit = 0
	cfg.TimeLimit = time.Hour

	interrupt := make(chan struct{})
	close(interrupt)
	result := New(inst, cfg, nil, nil).Run(interrupt)
	require.Equal(t, "interrupted", result.StopReason)
	require.Equal(t, 0, result.Iterations)
}

func TestRunStopsEarlyOnFeasibleWhenConfigured(t *testing.T) {
	inst := smallInstance(t)
	cfg := testConfig()
	cfg.IterationLimit = 5000
	cfg.StopOnFeasible = true
	result := New(inst, cfg, nil, nil).Run(nil)
	require.True(t, result.Best.Value.Feasible())
	require.Equal(t, "feasible", result.StopReason)
}
