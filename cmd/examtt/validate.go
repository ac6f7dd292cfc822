package main

import (
	"fmt"

	"github.com/examtt/core/internal/instance"
	"github.com/examtt/core/internal/itcfile"
)

func runValidate(path string) error {
	records, err := itcfile.ReadFile(path)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	inst, err := instance.Build(*records)
	if err != nil {
		return err
	}
	fmt.Printf("OK: %d exams, %d periods, %d rooms, %d period constraints, %d room constraints, %d weightings\n",
		len(inst.Exams), len(inst.Periods), len(inst.Rooms),
		len(inst.PeriodConstraints), len(inst.RoomConstraints), len(inst.Weightings))
	return nil
}
