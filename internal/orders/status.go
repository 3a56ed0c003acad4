package orders

type Status string

const (
	StatusPending    Status = "Pending"
	StatusActive     Status = "Active"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	// StatusInactive is offer-only: archived, terminal, never overwritten
	// by order propagation.
	StatusInactive Status = "Inactive"
)

var OrderStatuses = []Status{StatusPending, StatusActive, StatusProcessing, StatusCompleted}

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusActive: true},
	StatusActive:     {StatusProcessing: true},
	StatusProcessing: {StatusCompleted: true},
	StatusCompleted:  {},
}

var actionLabel = map[Status]string{
	StatusPending:    "Accept",
	StatusActive:     "Start",
	StatusProcessing: "Complete",
}

func (s Status) IsOrderStatus() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) IsOfferStatus() bool {
	return s == StatusInactive || s.IsOrderStatus()
}

// CanTransition reports whether to is the single forward step from from.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// NextStatus returns the only legal successor of s. Completed has none.
func NextStatus(s Status) (Status, bool) {
	for next := range validNext[s] {
		return next, true
	}
	return "", false
}

// NextAction is the label of the action offered to suppliers for an order
// in status s, empty when no action exists.
func NextAction(s Status) string {
	return actionLabel[s]
}
