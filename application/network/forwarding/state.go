package forwarding

import (
	"fmt"
	"sync"

	"powertun/application/logging"
)

type State int

const (
	Init State = iota
	Establishing
	Forwarding
	Closed
	Failed
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case Establishing:
		return "ESTABLISHING"
	case Forwarding:
		return "FORWARDING"
	case Closed:
		return "CLOSED"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Closed || s == Failed
}

var allowedTransitions = map[State][]State{
	Init:         {Establishing, Failed},
	Establishing: {Forwarding, Failed},
	Forwarding:   {Closed, Failed},
}

// StateMachine tracks the session lifecycle. It is read by the stats
// reporter while the loop drives it, hence the mutex.
type StateMachine struct {
	mu     sync.Mutex
	state  State
	logger logging.Logger
}

func NewStateMachine(logger logging.Logger) *StateMachine {
	return &StateMachine{state: Init, logger: logger}
}

func (m *StateMachine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *StateMachine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, allowed := range allowedTransitions[m.state] {
		if allowed == to {
			m.logger.Debugf("session state %s -> %s", m.state, to)
			m.state = to
			return nil
		}
	}
	return fmt.Errorf("invalid session state transition %s -> %s", m.state, to)
}
