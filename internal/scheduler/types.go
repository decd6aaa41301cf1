// Package scheduler holds the read model the dashboard consumes from the
// scheduling backend, the statistics derived from it, and the reducer that
// applies live interview updates.
package scheduler

// Day is a named calendar day with its appointment slots.
type Day struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Appointments []int  `json:"appointments"`
	Interviewers []int  `json:"interviewers"`
	Spots        int    `json:"spots"`
}

// Interview is a booking attached to an appointment slot.
type Interview struct {
	Student     string `json:"student"`
	Interviewer int    `json:"interviewer"`
}

// Appointment is a time slot. A nil Interview means the slot is open.
type Appointment struct {
	ID        int        `json:"id"`
	Time      string     `json:"time"`
	Interview *Interview `json:"interview"`
}

// Booked reports whether the slot has an interview.
func (a Appointment) Booked() bool {
	return a.Interview != nil
}

// Interviewer is a person who can be booked for an interview.
type Interviewer struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// State is the data portion of the dashboard view.
//
// State values are treated as immutable: reducers build a new State and share
// every branch they do not touch.
type State struct {
	Days         []Day               `json:"days"`
	Appointments map[int]Appointment `json:"appointments"`
	Interviewers map[int]Interviewer `json:"interviewers"`
}

// Empty returns a State with empty, non-nil collections.
func Empty() State {
	return State{
		Days:         []Day{},
		Appointments: map[int]Appointment{},
		Interviewers: map[int]Interviewer{},
	}
}
