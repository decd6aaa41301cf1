package scheduler

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
)

// TypeSetInterview is the only push message type the dashboard acts on.
const TypeSetInterview = "SET_INTERVIEW"

// Message is a decoded push message. A nil Interview clears the slot.
type Message struct {
	Type      string     `json:"type"`
	ID        int        `json:"id"`
	Interview *Interview `json:"interview"`
}

// Outcome describes what happened to an inbound push message.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	// OutcomeIgnored covers malformed payloads and other message types.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeDropped is a well-formed update for an appointment id the state
	// does not hold, typically because the initial fetch has not resolved yet.
	OutcomeDropped Outcome = "dropped"
	// OutcomeUnmounted is a message that arrived after the view was torn down.
	OutcomeUnmounted Outcome = "after_unmount"
)

// DecodeMessage parses a raw push payload. It reports false for anything that
// is not a JSON object carrying type SET_INTERVIEW, an integer id and an
// interview that is an object, null or absent.
func DecodeMessage(data []byte) (Message, bool) {
	if !gjson.ValidBytes(data) {
		return Message{}, false
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Message{}, false
	}

	typ := root.Get("type")
	if typ.Type != gjson.String || typ.Str != TypeSetInterview {
		return Message{}, false
	}

	id, ok := decodeID(root.Get("id"))
	if !ok {
		return Message{}, false
	}

	msg := Message{Type: TypeSetInterview, ID: id}
	iv := root.Get("interview")
	switch {
	case !iv.Exists(), iv.Type == gjson.Null:
	case iv.IsObject():
		var interview Interview
		if err := json.Unmarshal([]byte(iv.Raw), &interview); err != nil {
			return Message{}, false
		}
		msg.Interview = &interview
	default:
		return Message{}, false
	}
	return msg, true
}

// Object keys arrive as strings on some backends, so "3" and 3 are the same id.
func decodeID(r gjson.Result) (int, bool) {
	switch r.Type {
	case gjson.Number:
		n := r.Int()
		if float64(n) != r.Num {
			return 0, false
		}
		return int(n), true
	case gjson.String:
		n, err := strconv.Atoi(r.Str)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// SetInterview returns a copy of s with the interview at appointment id
// replaced. Days and Interviewers are shared with s, as is every other
// appointment. It reports false and returns s unchanged when id is unknown.
func SetInterview(s State, id int, interview *Interview) (State, bool) {
	current, ok := s.Appointments[id]
	if !ok {
		return s, false
	}

	appointments := make(map[int]Appointment, len(s.Appointments))
	for k, v := range s.Appointments {
		appointments[k] = v
	}
	current.Interview = interview
	appointments[id] = current

	return State{
		Days:         s.Days,
		Appointments: appointments,
		Interviewers: s.Interviewers,
	}, true
}

// Apply is the push handler: it folds one decoded message into s.
func Apply(s State, msg Message) (State, Outcome) {
	if msg.Type != TypeSetInterview {
		return s, OutcomeIgnored
	}
	next, ok := SetInterview(s, msg.ID, msg.Interview)
	if !ok {
		return s, OutcomeDropped
	}
	return next, OutcomeApplied
}

// Handle decodes data and applies it to s.
func Handle(s State, data []byte) (State, Message, Outcome) {
	msg, ok := DecodeMessage(data)
	if !ok {
		return s, Message{}, OutcomeIgnored
	}
	next, outcome := Apply(s, msg)
	return next, msg, outcome
}
