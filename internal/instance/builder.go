package instance

import "fmt"

// ExamRecord, PeriodRecord, RoomRecord, PeriodConstraintRecord,
// RoomConstraintRecord and WeightingRecord are the parsed-but-not-yet
// validated records a loader (e.g. internal/itcfile) hands to Build.
// They mirror the file format of spec.md §6 one field at a time so a
// loader never has to know about clash matrices or coincidence
// closures.
type ExamRecord struct {
	Duration int
	Students []int
}

type PeriodRecord struct {
	Date        string
	DateOrdinal int
	StartMinute int
	Duration    int
	Penalty     int
}

type RoomRecord struct {
	Capacity int
	Penalty  int
}

type PeriodConstraintRecord struct {
	ExamA int
	Kind  PeriodConstraintKind
	ExamB int
}

type RoomConstraintRecord struct {
	Exam int
}

type WeightingRecord struct {
	Kind   WeightingKind
	Weight int
	TopN   int
	LastP  int
}

// Records is the full set of parsed records for one instance.
type Records struct {
	Exams             []ExamRecord
	Periods           []PeriodRecord
	Rooms             []RoomRecord
	PeriodConstraints []PeriodConstraintRecord
	RoomConstraints   []RoomConstraintRecord
	Weightings        []WeightingRecord
}

// Build validates Records and constructs the immutable Instance,
// computing the clash matrix, coincidence classes, exclusivity flags
// and eligible-rooms pruning list along the way.
//
// Grounded on itc2007_framework/exam_timetabling_problem.py's
// constructor: the clash matrix starts as pairwise student-set
// intersection cardinality, then gets +1 in both directions per
// EXCLUSION constraint; exclusivity is derived from room constraints;
// coincidence classes are the transitive closure of EXAM_COINCIDENCE
// edges.
func Build(r Records) (*Instance, error) {
	numExams := len(r.Exams)
	numPeriods := len(r.Periods)
	numRooms := len(r.Rooms)

	if numExams == 0 {
		return nil, &InvalidInstance{Reason: "instance has no exams"}
	}
	if numPeriods == 0 {
		return nil, &InvalidInstance{Reason: "instance has no periods"}
	}
	if numRooms == 0 {
		return nil, &InvalidInstance{Reason: "instance has no rooms"}
	}

	for i := 1; i < numPeriods; i++ {
		prev, cur := r.Periods[i-1], r.Periods[i]
		if cur.DateOrdinal < prev.DateOrdinal ||
			(cur.DateOrdinal == prev.DateOrdinal && cur.StartMinute < prev.StartMinute) {
			return nil, &InvalidInstance{Reason: fmt.Sprintf(
				"period %d is not in chronological order relative to period %d", i, i-1)}
		}
	}

	exams := make([]Exam, numExams)
	for i, er := range r.Exams {
		exams[i] = Exam{ID: i, Duration: er.Duration, Students: er.Students}
	}

	periods := make([]Period, numPeriods)
	for i, pr := range r.Periods {
		periods[i] = Period{
			ID:          i,
			Date:        pr.Date,
			DateOrdinal: pr.DateOrdinal,
			StartMinute: pr.StartMinute,
			Duration:    pr.Duration,
			Penalty:     pr.Penalty,
		}
	}

	rooms := make([]Room, numRooms)
	totalCapacity := 0
	for i, rr := range r.Rooms {
		rooms[i] = Room{ID: i, Capacity: rr.Capacity, Penalty: rr.Penalty}
		totalCapacity += rr.Capacity
	}

	periodConstraints := make([]PeriodConstraint, 0, len(r.PeriodConstraints))
	for _, pc := range r.PeriodConstraints {
		if pc.ExamA < 0 || pc.ExamA >= numExams || pc.ExamB < 0 || pc.ExamB >= numExams {
			return nil, &InvalidInstance{Reason: fmt.Sprintf(
				"period hard constraint references out-of-range exam (%d, %d)", pc.ExamA, pc.ExamB)}
		}
		if pc.ExamA == pc.ExamB {
			return nil, &InvalidInstance{Reason: fmt.Sprintf(
				"period hard constraint references exam %d twice", pc.ExamA)}
		}
		periodConstraints = append(periodConstraints, PeriodConstraint{
			ExamA: pc.ExamA, Kind: pc.Kind, ExamB: pc.ExamB,
		})
	}

	roomConstraints := make([]RoomConstraint, 0, len(r.RoomConstraints))
	for _, rc := range r.RoomConstraints {
		if rc.Exam < 0 || rc.Exam >= numExams {
			return nil, &InvalidInstance{Reason: fmt.Sprintf(
				"room hard constraint references out-of-range exam %d", rc.Exam)}
		}
		roomConstraints = append(roomConstraints, RoomConstraint{Exam: rc.Exam})
		exams[rc.Exam].Exclusive = true
	}

	weightingIndex := make(map[WeightingKind]*Weighting, len(r.Weightings))
	weightings := make([]Weighting, 0, len(r.Weightings))
	for _, wr := range r.Weightings {
		if wr.Kind == Frontload {
			if wr.TopN == 0 && wr.LastP == 0 && wr.Weight == 0 {
				return nil, &InvalidInstance{Reason: "FRONTLOAD requires three parameters"}
			}
		}
		if _, dup := weightingIndex[wr.Kind]; dup {
			return nil, &InvalidInstance{Reason: fmt.Sprintf(
				"duplicate institutional weighting %s", wr.Kind)}
		}
		w := Weighting{Kind: wr.Kind, Weight: wr.Weight, TopN: wr.TopN, LastP: wr.LastP}
		weightings = append(weightings, w)
		weightingIndex[wr.Kind] = &weightings[len(weightings)-1]
	}

	clash := make([][]int, numExams)
	for i := range clash {
		clash[i] = make([]int, numExams)
	}
	for i := 0; i < numExams; i++ {
		setI := toSet(exams[i].Students)
		for j := i + 1; j < numExams; j++ {
			shared := 0
			for s := range toSet(exams[j].Students) {
				if setI[s] {
					shared++
				}
			}
			clash[i][j] = shared
			clash[j][i] = shared
		}
	}
	for _, pc := range periodConstraints {
		if pc.Kind == Exclusion {
			clash[pc.ExamA][pc.ExamB]++
			clash[pc.ExamB][pc.ExamA]++
		}
	}

	class := unionFindCoincidence(numExams, periodConstraints)

	eligible := make([][]int, numExams)
	for e := range exams {
		needed := exams[e].NumStudents()
		for _, room := range rooms {
			if room.Capacity >= needed {
				eligible[e] = append(eligible[e], room.ID)
			}
		}
	}

	inst := &Instance{
		Exams:               exams,
		Periods:             periods,
		Rooms:               rooms,
		PeriodConstraints:   periodConstraints,
		RoomConstraints:     roomConstraints,
		Weightings:          weightings,
		Clash:               clash,
		CoincidenceClass:    class.classOf,
		CoincidenceClasses:  class.classes,
		EligibleRooms:       eligible,
		TotalPeriodCapacity: totalCapacity,
		weightingIndex:      weightingIndex,
	}
	return inst, nil
}

func toSet(xs []int) map[int]bool {
	m := make(map[int]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

type coincidenceClasses struct {
	classOf []int
	classes [][]int
}

// unionFindCoincidence computes the equivalence classes induced by
// EXAM_COINCIDENCE edges via disjoint-set union, then compacts the
// result into dense class ids and member lists.
func unionFindCoincidence(numExams int, constraints []PeriodConstraint) coincidenceClasses {
	parent := make([]int, numExams)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for _, pc := range constraints {
		if pc.Kind == Coincidence {
			union(pc.ExamA, pc.ExamB)
		}
	}

	rootToClass := make(map[int]int)
	classOf := make([]int, numExams)
	var classes [][]int
	for e := 0; e < numExams; e++ {
		root := find(e)
		cid, ok := rootToClass[root]
		if !ok {
			cid = len(classes)
			rootToClass[root] = cid
			classes = append(classes, nil)
		}
		classOf[e] = cid
		classes[cid] = append(classes[cid], e)
	}
	return coincidenceClasses{classOf: classOf, classes: classes}
}
