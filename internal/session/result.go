package session

import (
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/policy"
)

// ResultKind classifies the outcome of one submission.
type ResultKind int

const (
	ResultAuthenticated ResultKind = iota + 1
	ResultPolicyRejected
	ResultStoreRejected
	ResultLocked
)

func (k ResultKind) String() string {
	switch k {
	case ResultAuthenticated:
		return "authenticated"
	case ResultPolicyRejected:
		return "policy_rejected"
	case ResultStoreRejected:
		return "store_rejected"
	case ResultLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Phase is the phase the submission passed through.
func (k ResultKind) Phase() Phase {
	switch k {
	case ResultAuthenticated:
		return Authenticated
	case ResultPolicyRejected:
		return PolicyRejected
	case ResultStoreRejected:
		return StoreRejected
	case ResultLocked:
		return Locked
	default:
		return AwaitingInput
	}
}

const (
	MessageAuthenticated = "Authentication successful!"
	MessageLocked        = "Maximum attempts reached."
)

// Result is what the shell renders after a submission.
type Result struct {
	Kind ResultKind

	// Violations lists the unmet password rules for ResultPolicyRejected.
	Violations []policy.Rule

	// AttemptsUsed and AttemptsMax are set for store rejections and lockout.
	AttemptsUsed int
	AttemptsMax  int
}

// Message is the user-facing text for r.
func (r Result) Message() string {
	switch r.Kind {
	case ResultAuthenticated:
		return MessageAuthenticated
	case ResultPolicyRejected:
		return policy.Message(r.Violations)
	case ResultStoreRejected:
		return fmt.Sprintf("Invalid credentials. Attempts: %d/%d", r.AttemptsUsed, r.AttemptsMax)
	case ResultLocked:
		return MessageLocked
	default:
		return ""
	}
}
