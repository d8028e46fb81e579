package domain

import (
	"testing"
	"time"
)

func TestClassOccupancy(t *testing.T) {
	t.Parallel()

	full := Class{Capacity: 3, CurrentBookings: 3}
	if !full.IsFull() || full.AvailableSlots() != 0 {
		t.Fatalf("expected full class, got slots=%d", full.AvailableSlots())
	}

	open := Class{Capacity: 5, CurrentBookings: 2}
	if open.IsFull() || open.AvailableSlots() != 3 {
		t.Fatalf("expected 3 slots, got %d", open.AvailableSlots())
	}

	// Inconsistent state still reports zero, never negative.
	over := Class{Capacity: 2, CurrentBookings: 3}
	if over.AvailableSlots() != 0 {
		t.Fatalf("expected 0 slots, got %d", over.AvailableSlots())
	}
}

func TestClassOverlaps(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	class := Class{StartTime: base, EndTime: base.Add(time.Hour)}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical window", base, base.Add(time.Hour), true},
		{"partial overlap", base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"contains class", base.Add(-time.Hour), base.Add(2 * time.Hour), true},
		{"inside class", base.Add(15 * time.Minute), base.Add(45 * time.Minute), true},
		{"starts at class end", base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"ends at class start", base.Add(-time.Hour), base, false},
		{"disjoint", base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := class.Overlaps(tc.start, tc.end); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}
