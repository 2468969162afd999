package appointment

// transitions maps each status to the statuses it may move to. Statuses
// absent from the map are terminal. Setting a status to itself is always
// allowed so full-resource updates that keep the status unchanged pass.
var transitions = map[string][]string{
	StatusProposed:  {StatusPending, StatusBooked, StatusCancelled, StatusEnteredInError},
	StatusPending:   {StatusBooked, StatusCancelled, StatusWaitlist, StatusEnteredInError},
	StatusBooked:    {StatusArrived, StatusCheckedIn, StatusFulfilled, StatusCancelled, StatusNoShow},
	StatusArrived:   {StatusFulfilled, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusArrived, StatusFulfilled, StatusCancelled, StatusNoShow},
	StatusWaitlist:  {StatusPending, StatusBooked, StatusCancelled},
}

// CanTransition reports whether an appointment may move from one status to another
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status changes are allowed
func IsTerminal(status string) bool {
	_, ok := transitions[status]
	return !ok && ValidStatuses[status]
}

// activeStatuses are the statuses that occupy a practitioner's calendar slot
var activeStatuses = []string{
	StatusProposed,
	StatusPending,
	StatusBooked,
	StatusArrived,
	StatusCheckedIn,
}

// upcomingStatuses are the statuses shown in the upcoming-appointments view
var upcomingStatuses = []string{
	StatusProposed,
	StatusPending,
	StatusBooked,
	StatusWaitlist,
}
