package types

// State is the lifecycle position of a client instance.
type State int32

const (
	StateUninitialized State = iota
	StateTrustPending
	StateTrusted
	StateReady
	StateRejected
	StateDiscoveryFailed
	StateKeyAgreementFailed
	StateClosed
)

// String returns a lowercase name for the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateTrustPending:
		return "trust-pending"
	case StateTrusted:
		return "trusted"
	case StateReady:
		return "ready"
	case StateRejected:
		return "rejected"
	case StateDiscoveryFailed:
		return "discovery-failed"
	case StateKeyAgreementFailed:
		return "key-agreement-failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	switch s {
	case StateRejected, StateDiscoveryFailed, StateKeyAgreementFailed, StateClosed:
		return true
	}
	return false
}
