package recorder

import (
	"time"

	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

// UpdateRecord is one push message as the dashboard saw it.
type UpdateRecord struct {
	Timestamp time.Time            `json:"timestamp"`
	Type      string               `json:"type,omitempty"`
	ID        int                  `json:"id,omitempty"`
	Interview *scheduler.Interview `json:"interview"`
	Outcome   scheduler.Outcome    `json:"outcome"`
	Raw       string               `json:"raw,omitempty"` // kept only for ignored payloads
}

// Message returns the record as a push message for replay.
func (r UpdateRecord) Message() scheduler.Message {
	return scheduler.Message{Type: r.Type, ID: r.ID, Interview: r.Interview}
}
