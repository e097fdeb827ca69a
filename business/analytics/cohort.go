package analytics

import (
	"math"
	"sort"
	"time"

	"shopRadar/domain"
)

// CohortRow is one cohort (customers first seen in the same calendar month)
// and its retention percentages by month offset. A nil cell means the
// (cohort, offset) pair was never observed and should render blank, which
// is different from an observed 0.
type CohortRow struct {
	Month     string     `json:"month"`
	Size      int        `json:"size"`
	Retention []*float64 `json:"retention"`
}

type CohortMatrix struct {
	// MaxOffset is the highest month offset observed across all cohorts;
	// every row's Retention slice has MaxOffset+1 cells.
	MaxOffset int         `json:"max_offset"`
	Rows      []CohortRow `json:"rows"`
}

// BuildCohorts groups customers by first-seen month and measures how many
// of each cohort were active (produced any event) in each subsequent month.
// Offset 0 is the cohort's own first month.
func BuildCohorts(customers []domain.CustomerCohort, activity []domain.CustomerMonth) (*CohortMatrix, string) {
	if len(customers) == 0 {
		return nil, "no customers to analyze"
	}
	if len(activity) == 0 {
		return nil, "no events to analyze"
	}

	cohortOf := make(map[uint64]time.Time, len(customers))
	for _, c := range customers {
		cohortOf[c.CustomerID] = truncateMonth(c.FirstSeen)
	}

	// distinct customers per (cohort, offset); activity rows are already
	// distinct per (customer, month)
	type cell struct {
		cohort time.Time
		offset int
	}
	retained := make(map[cell]map[uint64]struct{})
	cohortMembers := make(map[time.Time]map[uint64]struct{})
	maxOffset := 0

	for _, a := range activity {
		cohort, ok := cohortOf[a.CustomerID]
		if !ok {
			continue
		}
		offset := monthDiff(cohort, truncateMonth(a.Month))
		if offset < 0 {
			continue
		}
		if offset > maxOffset {
			maxOffset = offset
		}

		key := cell{cohort: cohort, offset: offset}
		if retained[key] == nil {
			retained[key] = make(map[uint64]struct{})
		}
		retained[key][a.CustomerID] = struct{}{}

		if cohortMembers[cohort] == nil {
			cohortMembers[cohort] = make(map[uint64]struct{})
		}
		cohortMembers[cohort][a.CustomerID] = struct{}{}
	}

	if len(cohortMembers) == 0 {
		return nil, "no events to analyze"
	}

	months := make([]time.Time, 0, len(cohortMembers))
	for month := range cohortMembers {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	matrix := &CohortMatrix{MaxOffset: maxOffset}
	for _, month := range months {
		size := len(cohortMembers[month])
		row := CohortRow{
			Month:     month.Format("2006-01"),
			Size:      size,
			Retention: make([]*float64, maxOffset+1),
		}
		for offset := 0; offset <= maxOffset; offset++ {
			set, ok := retained[cell{cohort: month, offset: offset}]
			if !ok {
				continue
			}
			pct := math.Round(float64(len(set))/float64(size)*1000) / 10
			row.Retention[offset] = &pct
		}
		matrix.Rows = append(matrix.Rows, row)
	}

	return matrix, ""
}

func truncateMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthDiff(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
