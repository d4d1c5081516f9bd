package session

import "fmt"

type State int

const (
	Anonymous State = iota
	Pending
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type event string

const (
	eventRestore  event = "restore"  // stored credential found
	eventVerified event = "verified" // stored credential accepted
	eventLogin    event = "login"    // fresh credential obtained
	eventClear    event = "clear"    // logout, rejection or failed verification
)

type transition struct {
	from State
	on   event
}

var transitions = map[transition]State{
	{Anonymous, eventRestore}:   Pending,
	{Pending, eventVerified}:    Authenticated,
	{Pending, eventClear}:       Anonymous,
	{Anonymous, eventLogin}:     Authenticated,
	{Authenticated, eventLogin}: Authenticated,
	{Authenticated, eventClear}: Anonymous,
}

// ErrNoTransition reports an event fired in a state that does not declare it.
type ErrNoTransition struct {
	From  State
	Event string
}

func (e *ErrNoTransition) Error() string {
	return fmt.Sprintf("no transition from state '%s' for event '%s'", e.From, e.Event)
}

func nextState(from State, on event) (State, error) {
	to, ok := transitions[transition{from, on}]
	if !ok {
		return from, &ErrNoTransition{From: from, Event: string(on)}
	}
	return to, nil
}
