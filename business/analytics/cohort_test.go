package analytics

import (
	"testing"
	"time"

	"shopRadar/domain"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestBuildCohortsRetention(t *testing.T) {
	customers := []domain.CustomerCohort{
		// January cohort: three customers
		{CustomerID: 1, FirstSeen: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
		{CustomerID: 2, FirstSeen: time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)},
		{CustomerID: 3, FirstSeen: time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)},
		// February cohort: one customer
		{CustomerID: 4, FirstSeen: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)},
	}

	activity := []domain.CustomerMonth{
		{CustomerID: 1, Month: month(2026, 1)},
		{CustomerID: 2, Month: month(2026, 1)},
		{CustomerID: 3, Month: month(2026, 1)},
		// only customer 1 returns in February
		{CustomerID: 1, Month: month(2026, 2)},
		{CustomerID: 4, Month: month(2026, 2)},
		// customers 1 and 2 return in March
		{CustomerID: 1, Month: month(2026, 3)},
		{CustomerID: 2, Month: month(2026, 3)},
	}

	matrix, reason := BuildCohorts(customers, activity)
	if matrix == nil {
		t.Fatalf("no matrix, reason: %q", reason)
	}

	if matrix.MaxOffset != 2 {
		t.Fatalf("MaxOffset = %d, want 2", matrix.MaxOffset)
	}
	if len(matrix.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(matrix.Rows))
	}

	jan := matrix.Rows[0]
	if jan.Month != "2026-01" || jan.Size != 3 {
		t.Fatalf("jan = %s/%d, want 2026-01/3", jan.Month, jan.Size)
	}
	if len(jan.Retention) != 3 {
		t.Fatalf("jan retention cells = %d, want 3", len(jan.Retention))
	}
	if jan.Retention[0] == nil || *jan.Retention[0] != 100 {
		t.Errorf("jan offset 0 = %v, want 100", jan.Retention[0])
	}
	if jan.Retention[1] == nil || *jan.Retention[1] != 33.3 {
		t.Errorf("jan offset 1 = %v, want 33.3", jan.Retention[1])
	}
	if jan.Retention[2] == nil || *jan.Retention[2] != 66.7 {
		t.Errorf("jan offset 2 = %v, want 66.7", jan.Retention[2])
	}

	feb := matrix.Rows[1]
	if feb.Month != "2026-02" || feb.Size != 1 {
		t.Fatalf("feb = %s/%d, want 2026-02/1", feb.Month, feb.Size)
	}
	if feb.Retention[0] == nil || *feb.Retention[0] != 100 {
		t.Errorf("feb offset 0 = %v, want 100", feb.Retention[0])
	}
	if feb.Retention[1] != nil {
		t.Errorf("feb offset 1 = %v, want blank", *feb.Retention[1])
	}
	// offset 2 for the February cohort is beyond the observed window
	if feb.Retention[2] != nil {
		t.Errorf("feb offset 2 = %v, want blank", *feb.Retention[2])
	}
}

func TestBuildCohortsNoData(t *testing.T) {
	if matrix, reason := BuildCohorts(nil, nil); matrix != nil || reason == "" {
		t.Error("expected nil matrix and a reason with no customers")
	}

	customers := []domain.CustomerCohort{{CustomerID: 1, FirstSeen: month(2026, 1)}}
	if matrix, reason := BuildCohorts(customers, nil); matrix != nil || reason == "" {
		t.Error("expected nil matrix and a reason with no activity")
	}
}
