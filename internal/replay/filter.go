package replay

import (
	"time"

	"github.com/SmitUplenchwar2687/schedboard/internal/recorder"
	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

// Filter defines criteria for selecting update records during replay.
type Filter struct {
	IDs      []int               // Only include these appointment ids (empty = all)
	Outcomes []scheduler.Outcome // Only include records originally seen with these outcomes (empty = all)
	After    time.Time           // Only include records after this time (zero = no limit)
	Before   time.Time           // Only include records before this time (zero = no limit)
}

// Match returns true if the record passes the filter.
func (f *Filter) Match(r recorder.UpdateRecord) bool {
	if len(f.IDs) > 0 && !containsID(f.IDs, r.ID) {
		return false
	}
	if len(f.Outcomes) > 0 && !containsOutcome(f.Outcomes, r.Outcome) {
		return false
	}
	if !f.After.IsZero() && !r.Timestamp.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !r.Timestamp.Before(f.Before) {
		return false
	}
	return true
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsOutcome(outcomes []scheduler.Outcome, o scheduler.Outcome) bool {
	for _, v := range outcomes {
		if v == o {
			return true
		}
	}
	return false
}
