package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/SmitUplenchwar2687/schedboard/internal/clock"
	"github.com/SmitUplenchwar2687/schedboard/internal/recorder"
	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

// ErrNoRecords is returned by Run when nothing was loaded.
var ErrNoRecords = errors.New("no records loaded")

// Replayer folds recorded push messages into a state with the live reducer.
type Replayer struct {
	records []recorder.UpdateRecord
	clock   *clock.ManualClock
	filter  Filter
	speed   float64 // 1.0 = real-time, 10.0 = 10x, 0 = instant
}

// Result captures the outcome of replaying a single record.
type Result struct {
	Record  recorder.UpdateRecord `json:"record"`
	Outcome scheduler.Outcome     `json:"outcome"`
	Time    time.Time             `json:"time"` // manual clock time when applied
}

// Summary aggregates replay statistics.
type Summary struct {
	TotalRecords   int             `json:"total_records"`
	Filtered       int             `json:"filtered"`
	Replayed       int             `json:"replayed"`
	Applied        int             `json:"applied"`
	Dropped        int             `json:"dropped"`
	Ignored        int             `json:"ignored"`
	Duration       time.Duration   `json:"duration"`      // recorded time span
	WallDuration   time.Duration   `json:"wall_duration"` // actual wall clock time
	PerAppointment map[int]int     `json:"per_appointment"`
	State          scheduler.State `json:"-"`
}

// New creates a new replayer. A nil mc starts a manual clock at the zero time.
func New(mc *clock.ManualClock, speed float64, filter Filter) *Replayer {
	if speed < 0 {
		speed = 0
	}
	if mc == nil {
		mc = clock.NewManualClock(time.Time{})
	}
	return &Replayer{
		clock:  mc,
		speed:  speed,
		filter: filter,
	}
}

// Load reads update records from a JSON reader.
func (r *Replayer) Load(reader io.Reader) error {
	records, err := recorder.LoadJSON(reader)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	r.records = records
	return nil
}

// LoadRecords sets the records directly.
func (r *Replayer) LoadRecords(records []recorder.UpdateRecord) {
	r.records = make([]recorder.UpdateRecord, len(records))
	copy(r.records, records)
}

// Run applies every matching record to start in timestamp order.
// The callback is called for each replayed record. The final state is in
// Summary.State.
func (r *Replayer) Run(ctx context.Context, start scheduler.State, cb func(Result)) (*Summary, error) {
	if len(r.records) == 0 {
		return nil, ErrNoRecords
	}

	sorted := make([]recorder.UpdateRecord, len(r.records))
	copy(sorted, r.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var filtered []recorder.UpdateRecord
	for _, rec := range sorted {
		if r.filter.Match(rec) {
			filtered = append(filtered, rec)
		}
	}

	summary := &Summary{
		TotalRecords:   len(sorted),
		Filtered:       len(filtered),
		PerAppointment: make(map[int]int),
		State:          start,
	}
	if len(filtered) == 0 {
		return summary, nil
	}

	wallStart := time.Now()
	r.clock.Set(filtered[0].Timestamp)
	state := start

	for i, rec := range filtered {
		select {
		case <-ctx.Done():
			summary.State = state
			return summary, ctx.Err()
		default:
		}

		if i > 0 {
			gap := rec.Timestamp.Sub(filtered[i-1].Timestamp)
			if gap > 0 {
				if r.speed > 0 {
					scaledGap := time.Duration(float64(gap) / r.speed)
					if scaledGap > time.Millisecond {
						select {
						case <-ctx.Done():
							summary.State = state
							return summary, ctx.Err()
						case <-time.After(scaledGap):
						}
					}
				}
				r.clock.Advance(gap)
			}
		}

		var outcome scheduler.Outcome
		state, outcome = scheduler.Apply(state, rec.Message())

		summary.Replayed++
		switch outcome {
		case scheduler.OutcomeApplied:
			summary.Applied++
			summary.PerAppointment[rec.ID]++
		case scheduler.OutcomeDropped:
			summary.Dropped++
		default:
			summary.Ignored++
		}

		if cb != nil {
			cb(Result{Record: rec, Outcome: outcome, Time: r.clock.Now()})
		}
	}

	summary.State = state
	summary.Duration = filtered[len(filtered)-1].Timestamp.Sub(filtered[0].Timestamp)
	summary.WallDuration = time.Since(wallStart)
	return summary, nil
}
