package session

// Phase is where a login session stands. PolicyRejected and StoreRejected
// are transient: Submit reports them through Result.Kind and the returned
// State is back in AwaitingInput.
type Phase int

const (
	AwaitingInput Phase = iota
	PolicyRejected
	StoreRejected
	Authenticated
	Locked
)

func (p Phase) String() string {
	switch p {
	case AwaitingInput:
		return "awaiting_input"
	case PolicyRejected:
		return "policy_rejected"
	case StoreRejected:
		return "store_rejected"
	case Authenticated:
		return "authenticated"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves p.
func (p Phase) Terminal() bool {
	return p == Authenticated || p == Locked
}

// State is the value a session carries between submissions. Controller
// methods take a State and return the next one; they never modify it.
type State struct {
	Phase    Phase
	Attempts int
}

// Locked reports whether the failed-attempt limit is reached.
func (s State) Locked() bool {
	return s.Attempts >= MaxAttempts
}

// Remaining is the number of store checks left before lockout.
func (s State) Remaining() int {
	if s.Attempts >= MaxAttempts {
		return 0
	}
	return MaxAttempts - s.Attempts
}
