// Package itcfile reads the ITC-2007 `.exam` instance text format
// described in spec.md §6 into instance.Records. It is intentionally
// thin: no dataset-selection logic, no CLI glue, nothing beyond the
// text-to-Records translation — that stays out of the core per
// spec.md §1's Non-goals.
//
// Grounded on itc2007_framework/exam_timetabling_problem.py's
// _read_information/_read_exams/_read_periods/_read_rooms/
// _read_period_hard_constraints/_read_room_hard_constraints/
// _read_institutional_weightings for the exact line layout, and on
// the teacher's parse.go for the Go-side bufio.Scanner idiom and
// %q-line-number error wrapping style.
package itcfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/examtt/core/internal/instance"
)

var sectionHeader = regexp.MustCompile(`^\[([A-Za-z]+)(?::\s*(\d+))?\]$`)

// ReadFile opens path and parses it as an ITC-2007 instance file.
func ReadFile(path string) (*instance.Records, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return recs, nil
}

// Read parses an ITC-2007 instance file from r.
func Read(r io.Reader) (*instance.Records, error) {
	recs := &instance.Records{}
	section := ""
	lineNo := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}
		fields := splitFields(line)
		var err error
		switch section {
		case "Exams":
			err = parseExam(recs, fields)
		case "Periods":
			err = parsePeriod(recs, fields)
		case "Rooms":
			err = parseRoom(recs, fields)
		case "PeriodHardConstraints":
			err = parsePeriodConstraint(recs, fields)
		case "RoomHardConstraints":
			err = parseRoomConstraint(recs, fields)
		case "InstitutionalWeightings":
			err = parseWeighting(recs, fields)
		default:
			err = fmt.Errorf("data line outside any known section: %q", line)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func splitFields(line string) []string {
	raw := strings.Split(line, ",")
	fields := make([]string, len(raw))
	for i, f := range raw {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", s)
	}
	return n, nil
}

func parseExam(recs *instance.Records, fields []string) error {
	if len(fields) < 1 {
		return fmt.Errorf("exam line needs at least a duration")
	}
	duration, err := atoi(fields[0])
	if err != nil {
		return err
	}
	students := make([]int, 0, len(fields)-1)
	for _, f := range fields[1:] {
		id, err := atoi(f)
		if err != nil {
			return err
		}
		students = append(students, id)
	}
	recs.Exams = append(recs.Exams, instance.ExamRecord{Duration: duration, Students: students})
	return nil
}

func parsePeriod(recs *instance.Records, fields []string) error {
	if len(fields) != 4 {
		return fmt.Errorf("period line needs 4 fields, got %d", len(fields))
	}
	date := fields[0]
	ordinal, err := dateOrdinal(date)
	if err != nil {
		return err
	}
	startMinute, err := timeOfDayMinutes(fields[1])
	if err != nil {
		return err
	}
	duration, err := atoi(fields[2])
	if err != nil {
		return err
	}
	penalty, err := atoi(fields[3])
	if err != nil {
		return err
	}
	recs.Periods = append(recs.Periods, instance.PeriodRecord{
		Date: date, DateOrdinal: ordinal, StartMinute: startMinute,
		Duration: duration, Penalty: penalty,
	})
	return nil
}

func parseRoom(recs *instance.Records, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("room line needs 2 fields, got %d", len(fields))
	}
	capacity, err := atoi(fields[0])
	if err != nil {
		return err
	}
	penalty, err := atoi(fields[1])
	if err != nil {
		return err
	}
	recs.Rooms = append(recs.Rooms, instance.RoomRecord{Capacity: capacity, Penalty: penalty})
	return nil
}

var periodConstraintKinds = map[string]instance.PeriodConstraintKind{
	"EXAM_COINCIDENCE": instance.Coincidence,
	"EXCLUSION":        instance.Exclusion,
	"AFTER":            instance.After,
}

func parsePeriodConstraint(recs *instance.Records, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("period hard constraint line needs 3 fields, got %d", len(fields))
	}
	a, err := atoi(fields[0])
	if err != nil {
		return err
	}
	kind, ok := periodConstraintKinds[strings.ToUpper(fields[1])]
	if !ok {
		return fmt.Errorf("unknown period hard constraint kind %q", fields[1])
	}
	b, err := atoi(fields[2])
	if err != nil {
		return err
	}
	recs.PeriodConstraints = append(recs.PeriodConstraints, instance.PeriodConstraintRecord{
		ExamA: a, Kind: kind, ExamB: b,
	})
	return nil
}

func parseRoomConstraint(recs *instance.Records, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("room hard constraint line needs 2 fields, got %d", len(fields))
	}
	exam, err := atoi(fields[0])
	if err != nil {
		return err
	}
	if strings.ToUpper(fields[1]) != "ROOM_EXCLUSIVE" {
		return fmt.Errorf("unknown room hard constraint kind %q", fields[1])
	}
	recs.RoomConstraints = append(recs.RoomConstraints, instance.RoomConstraintRecord{Exam: exam})
	return nil
}

var weightingKinds = map[string]instance.WeightingKind{
	"TWOINAROW":         instance.TwoInARow,
	"TWOINADAY":         instance.TwoInADay,
	"PERIODSPREAD":      instance.PeriodSpread,
	"NONMIXEDDURATIONS": instance.NonMixedDurations,
	"FRONTLOAD":         instance.Frontload,
}

func parseWeighting(recs *instance.Records, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("institutional weighting line needs a name and at least one parameter")
	}
	kind, ok := weightingKinds[strings.ToUpper(fields[0])]
	if !ok {
		return fmt.Errorf("unknown institutional weighting %q", fields[0])
	}
	w := instance.WeightingRecord{Kind: kind}
	if kind == instance.Frontload {
		if len(fields) != 4 {
			return fmt.Errorf("FRONTLOAD requires three parameters, got %d", len(fields)-1)
		}
		topN, err := atoi(fields[1])
		if err != nil {
			return err
		}
		lastP, err := atoi(fields[2])
		if err != nil {
			return err
		}
		weight, err := atoi(fields[3])
		if err != nil {
			return err
		}
		w.TopN, w.LastP, w.Weight = topN, lastP, weight
	} else {
		if len(fields) != 2 {
			return fmt.Errorf("%s requires exactly one parameter, got %d", fields[0], len(fields)-1)
		}
		weight, err := atoi(fields[1])
		if err != nil {
			return err
		}
		w.Weight = weight
	}
	recs.Weightings = append(recs.Weightings, w)
	return nil
}

func dateOrdinal(s string) (int, error) {
	t, err := time.Parse("02:01:2006", s)
	if err != nil {
		return 0, fmt.Errorf("bad date %q: %w", s, err)
	}
	return int(t.Unix() / 86400), nil
}

func timeOfDayMinutes(s string) (int, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("bad time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
