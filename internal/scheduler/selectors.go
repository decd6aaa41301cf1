package scheduler

import "sort"

// TotalInterviews counts booked appointments.
func TotalInterviews(s State) int {
	total := 0
	for _, a := range s.Appointments {
		if a.Booked() {
			total++
		}
	}
	return total
}

// LeastPopularTimeSlot returns the appointment time with the fewest booked
// interviews across all days. Ties go to the slot seen first in appointment id
// order. It returns "" when there are no appointments.
func LeastPopularTimeSlot(s State) string {
	counts := make(map[string]int)
	var order []string
	for _, id := range sortedAppointmentIDs(s.Appointments) {
		a := s.Appointments[id]
		if _, seen := counts[a.Time]; !seen {
			counts[a.Time] = 0
			order = append(order, a.Time)
		}
		if a.Booked() {
			counts[a.Time]++
		}
	}

	least := ""
	for i, slot := range order {
		if i == 0 || counts[slot] < counts[least] {
			least = slot
		}
	}
	return least
}

// MostPopularDay returns the name of the day with the fewest spots remaining.
// Ties go to the earlier day. It returns "" when there are no days.
func MostPopularDay(s State) string {
	if len(s.Days) == 0 {
		return ""
	}
	best := s.Days[0]
	for _, d := range s.Days[1:] {
		if d.Spots < best.Spots {
			best = d
		}
	}
	return best.Name
}

// InterviewsPerDay is the average number of booked interviews per day, or 0
// when there are no days.
func InterviewsPerDay(s State) float64 {
	if len(s.Days) == 0 {
		return 0
	}
	return float64(TotalInterviews(s)) / float64(len(s.Days))
}

func sortedAppointmentIDs(m map[int]Appointment) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
