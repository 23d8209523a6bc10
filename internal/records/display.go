// ABOUTME: Newest-first view rows with consumption deltas and day gaps
// ABOUTME: Each row is compared against its chronological predecessor

package records

import (
	"iter"
	"math"
	"slices"

	"github.com/harper/fuel/internal/models"
)

// Direction tags a non-zero consumption delta.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Delta is the rounded change in consumption from the previous fill-up.
type Delta struct {
	Value     float64   `json:"value"`
	Direction Direction `json:"direction"`
}

// Row is one line of the display list.
type Row struct {
	Entry models.Entry `json:"entry"`
	// Index is the entry's sorted position, valid until the next mutation.
	Index  int    `json:"index"`
	Delta  *Delta `json:"delta,omitempty"`
	DayGap *int   `json:"day_gap,omitempty"`
}

// DisplayList yields rows newest first. The collection is snapshotted when
// DisplayList is called; ranging over the result again replays that snapshot.
func (s *Store) DisplayList() iter.Seq[Row] {
	snapshot := s.Entries()

	return func(yield func(Row) bool) {
		for i := len(snapshot) - 1; i >= 0; i-- {
			if !yield(buildRow(snapshot, i)) {
				return
			}
		}
	}
}

// Rows collects DisplayList into a slice.
func (s *Store) Rows() []Row {
	return slices.Collect(s.DisplayList())
}

func buildRow(entries []models.Entry, i int) Row {
	row := Row{Entry: entries[i], Index: i}
	if i == 0 {
		return row
	}
	prev := entries[i-1]
	row.Delta = consumptionDelta(prev, entries[i])
	row.DayGap = dayGap(prev, entries[i])
	return row
}

// consumptionDelta is nil when the rounded change is zero or either side is undefined.
func consumptionDelta(prev, cur models.Entry) *Delta {
	if !prev.HasConsumption() || !cur.HasConsumption() {
		return nil
	}
	d := models.Round2(cur.Consumption - prev.Consumption)
	switch {
	case d > 0:
		return &Delta{Value: d, Direction: Increase}
	case d < 0:
		return &Delta{Value: d, Direction: Decrease}
	default:
		return nil
	}
}

// dayGap counts whole calendar days between two entries, rounded up.
// Clock times are ignored. Nil when either date cannot be parsed.
func dayGap(prev, cur models.Entry) *int {
	from, err := prev.Day()
	if err != nil {
		return nil
	}
	to, err := cur.Day()
	if err != nil {
		return nil
	}
	days := int(math.Ceil(math.Abs(to.Sub(from).Hours()) / 24))
	return &days
}
