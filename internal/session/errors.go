package session

import "fmt"

// StateError reports an operation issued in the wrong session phase, e.g.
// submitting before Start. This is a caller bug, not a recoverable input
// problem.
type StateError struct {
	Op    string
	Phase Phase
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while session is %s", e.Op, e.Phase)
}
