package store

// State is the lifecycle of a cache store. Only a Ready store reflects
// persisted data; reads before that return an empty snapshot, so callers
// gate on the state, not on whether the data looks fresh.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}
