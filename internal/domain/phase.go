package domain

// Phase lifecycle stage of an exchange session.
type Phase int

const (
	// PhaseIdle editing amounts.
	PhaseIdle Phase = iota
	// PhaseLoading exchange submitted and not settled yet.
	PhaseLoading
	// PhaseSuccess exchange applied.
	PhaseSuccess
)

// String returns the string representation.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	default:
		return "unknown"
	}
}
