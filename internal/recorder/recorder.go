package recorder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/SmitUplenchwar2687/schedboard/internal/clock"
	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

// Recorder captures push messages for later replay.
// Thread-safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	clock   clock.Clock
	records []UpdateRecord
	writer  io.Writer // optional: stream records as they arrive
}

// New creates a new Recorder. If w is non-nil, records are also
// written to w as newline-delimited JSON as they arrive. A nil clk uses
// the real clock.
func New(w io.Writer, clk clock.Clock) *Recorder {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Recorder{
		clock:  clk,
		writer: w,
	}
}

// Observe stamps and records a handled push message.
func (r *Recorder) Observe(raw []byte, msg scheduler.Message, outcome scheduler.Outcome) error {
	rec := UpdateRecord{
		Timestamp: r.clock.Now(),
		Type:      msg.Type,
		ID:        msg.ID,
		Interview: msg.Interview,
		Outcome:   outcome,
	}
	if outcome == scheduler.OutcomeIgnored {
		rec.Raw = string(raw)
	}
	return r.Record(rec)
}

// Record captures a single update record.
func (r *Recorder) Record(rec UpdateRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)

	if r.writer != nil {
		if err := json.NewEncoder(r.writer).Encode(rec); err != nil {
			return fmt.Errorf("streaming record: %w", err)
		}
	}
	return nil
}

// Records returns a copy of all recorded updates.
func (r *Recorder) Records() []UpdateRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]UpdateRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of recorded items.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// ExportJSON writes all records to the given writer as a JSON array.
func (r *Recorder) ExportJSON(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.records
	if records == nil {
		records = []UpdateRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ExportFile writes all records to a file as a JSON array.
func (r *Recorder) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.ExportJSON(f)
}

// LoadJSON reads update records from a JSON array.
func LoadJSON(r io.Reader) ([]UpdateRecord, error) {
	var records []UpdateRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadFile reads update records from a JSON file.
func LoadFile(path string) ([]UpdateRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}
