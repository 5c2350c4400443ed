package booking

// State is the booking flow's linear progression. Transitions only move
// forward; Confirmed is terminal for the page's lifetime.
type State int

const (
	StateSelecting State = iota
	StateAwaitingPayment
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateAwaitingPayment:
		return "awaiting_payment"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}
