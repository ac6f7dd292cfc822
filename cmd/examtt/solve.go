package main

import (
	"fmt"
	"sort"

	"github.com/examtt/core/internal/assignment"
	"github.com/examtt/core/internal/config"
	"github.com/examtt/core/internal/evaluator"
	"github.com/examtt/core/internal/instance"
	"github.com/examtt/core/internal/itcfile"
	"github.com/examtt/core/internal/solver"
)

func runSolve(path string, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	records, err := itcfile.ReadFile(path)
	if err != nil {
		return err
	}
	inst, err := instance.Build(*records)
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	driver := solver.New(inst, cfg, log, nil)
	result := driver.Run(nil)

	asn := result.BestAssignment()
	printBooking(asn)

	report := evaluator.Evaluate(inst, asn)
	for _, line := range report.Lines() {
		fmt.Println(line)
	}
	fmt.Printf("Iterations -> %d\n", result.Iterations)
	fmt.Printf("Nodes -> %d\n", result.NodesCreated)
	fmt.Printf("Elapsed -> %s\n", result.Elapsed)
	fmt.Printf("Stopped -> %s\n", result.StopReason)
	return nil
}

// printBooking renders one line per exam in exam-id order: (exam,
// period, room) or (exam, period, [rooms]) when the exam was split
// across more than one room, per spec.md §6's output format.
func printBooking(asn *assignment.Assignment) {
	bookings := asn.AllBookings()
	ids := make([]int, 0, len(bookings))
	for e := range bookings {
		ids = append(ids, e)
	}
	sort.Ints(ids)
	for _, e := range ids {
		b := bookings[e]
		if len(b.Rooms) == 1 {
			fmt.Printf("%d, %d, %d\n", e, b.Period, b.Rooms[0])
			continue
		}
		fmt.Printf("%d, %d, %v\n", e, b.Period, b.Rooms)
	}
}
