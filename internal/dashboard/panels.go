package dashboard

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

// PanelSpec is one entry of the static panel table.
type PanelSpec struct {
	ID    int
	Label string
	Value func(scheduler.State) string
}

// DefaultPanels builds the dashboard's panel table in display order.
func DefaultPanels() []PanelSpec {
	return []PanelSpec{
		{
			ID:    1,
			Label: "Total Interviews",
			Value: func(s scheduler.State) string {
				return strconv.Itoa(scheduler.TotalInterviews(s))
			},
		},
		{
			ID:    2,
			Label: "Least Popular Time Slot",
			Value: scheduler.LeastPopularTimeSlot,
		},
		{
			ID:    3,
			Label: "Most Popular Day",
			Value: scheduler.MostPopularDay,
		},
		{
			ID:    4,
			Label: "Interviews Per Day",
			Value: func(s scheduler.State) string {
				return strconv.FormatFloat(scheduler.InterviewsPerDay(s), 'f', -1, 64)
			},
		},
	}
}

// ValidatePanels checks that ids are positive and unique and every entry
// can compute a value.
func ValidatePanels(panels []PanelSpec) error {
	if len(panels) == 0 {
		return errors.New("at least one panel is required")
	}
	seen := make(map[int]bool, len(panels))
	for _, p := range panels {
		if p.ID <= 0 {
			return fmt.Errorf("panel %q: id must be positive, got %d", p.Label, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate panel id %d", p.ID)
		}
		if p.Value == nil {
			return fmt.Errorf("panel %d has no value function", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
