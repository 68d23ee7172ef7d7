package execution

// State is a point in the session lifecycle:
//
//	spawned → running → {completed | timed_out | cancelled} → terminating → closed
//	running → detached (background hand-off)
type State int32

const (
	StateSpawned State = iota
	StateRunning
	StateCompleted
	StateTimedOut
	StateCancelled
	StateTerminating
	StateClosed
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateSpawned:
		return "spawned"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateTimedOut:
		return "timed_out"
	case StateCancelled:
		return "cancelled"
	case StateTerminating:
		return "terminating"
	case StateClosed:
		return "closed"
	case StateDetached:
		return "detached"
	default:
		return "unknown"
	}
}
