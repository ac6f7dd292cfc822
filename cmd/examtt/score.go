package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/examtt/core/internal/assignment"
	"github.com/examtt/core/internal/evaluator"
	"github.com/examtt/core/internal/instance"
	"github.com/examtt/core/internal/itcfile"
)

func runScore(instancePath, solutionPath string) error {
	records, err := itcfile.ReadFile(instancePath)
	if err != nil {
		return err
	}
	inst, err := instance.Build(*records)
	if err != nil {
		return err
	}

	asn, err := readBooking(solutionPath, inst)
	if err != nil {
		return err
	}

	report := evaluator.Evaluate(inst, asn)
	for _, line := range report.Lines() {
		fmt.Println(line)
	}
	return nil
}

// readBooking parses the line format spec.md §6 documents as solver
// output: "exam, period, room" or "exam, period, [room room ...]".
func readBooking(path string, inst *instance.Instance) (*assignment.Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	asn := assignment.New(inst)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, ",", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%q line %d: expected 3 comma-separated fields, got %d", path, lineNo, len(fields))
		}
		exam, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%q line %d: %v", path, lineNo, err)
		}
		period, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("%q line %d: %v", path, lineNo, err)
		}
		rooms, err := parseRoomList(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("%q line %d: %v", path, lineNo, err)
		}
		asn.Place(exam, period, rooms)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return asn, nil
}

func parseRoomList(s string) ([]int, error) {
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	parts := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(parts) == 0 {
		return nil, fmt.Errorf("expected at least one room, got %q", s)
	}
	rooms := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		rooms[i] = n
	}
	return rooms, nil
}
