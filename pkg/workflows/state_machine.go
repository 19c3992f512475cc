package workflows

// SharingStatus is the approval state of a product sharing request.
type SharingStatus string

const (
	StatusNotRequested SharingStatus = "Not requested"
	StatusPending      SharingStatus = "Pending"
	StatusAccepted     SharingStatus = "Accepted"
	StatusRejected     SharingStatus = "Rejected"
)

// SharingGate enforces sharing request status transitions
type SharingGate struct {
	allowedTransitions map[SharingStatus][]SharingStatus
}

// NewSharingGate creates a new gate with allowed transitions
func NewSharingGate() *SharingGate {
	return &SharingGate{
		allowedTransitions: map[SharingStatus][]SharingStatus{
			StatusNotRequested: {StatusPending},
			StatusPending:      {StatusAccepted, StatusRejected},
			StatusAccepted:     {}, // terminal
			StatusRejected:     {}, // terminal, no path back to Not requested
		},
	}
}

// CanTransition checks if a status transition is allowed
func (g *SharingGate) CanTransition(from, to SharingStatus) bool {
	allowed, exists := g.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed next statuses for a given status
func (g *SharingGate) AllowedTransitions(from SharingStatus) []SharingStatus {
	allowed, exists := g.allowedTransitions[from]
	if !exists {
		return []SharingStatus{}
	}
	return allowed
}

// IsTerminal reports whether no further transitions exist for a status
func (g *SharingGate) IsTerminal(status SharingStatus) bool {
	return len(g.allowedTransitions[status]) == 0
}

// IsValid reports whether the status is one of the known states
func IsValid(status SharingStatus) bool {
	switch status {
	case StatusNotRequested, StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}
