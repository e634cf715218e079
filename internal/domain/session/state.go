package session

import (
	"errors"
	"fmt"
)

// State is the orchestration state of a single monitoring run.
type State string

const (
	// StateInitializing is the entry state: no job has been created or resumed yet.
	StateInitializing State = "initializing"
	// StateAwaitingPayment means a job exists and its escrow is unfunded.
	StateAwaitingPayment State = "awaiting_payment"
	// StateProcessing means payment is confirmed and the run is polling the agent.
	StateProcessing State = "processing"
	// StateCompleted means the result was received and parsed. Terminal.
	StateCompleted State = "completed"
	// StateError means the run halted with a surfaced cause. Terminal.
	StateError State = "error"
)

// ErrInvalidTransition is returned when a transition is not legal from the
// current state. Job creation in particular is only legal from the entry
// state, which is what makes duplicate session starts cheap no-ops instead
// of duplicate network calls.
var ErrInvalidTransition = errors.New("invalid state transition")

// transitions lists the legal next states. Terminal states have none; a new
// run starts over from StateInitializing.
var transitions = map[State][]State{
	// initializing -> processing covers resume of an already-paid job.
	StateInitializing:    {StateAwaitingPayment, StateProcessing, StateError},
	StateAwaitingPayment: {StateProcessing, StateError},
	StateProcessing:      {StateCompleted, StateError},
	StateCompleted:       {},
	StateError:           {},
}

// Terminal returns true when no further transitions are legal.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Machine tracks the state of one monitoring run and rejects illegal
// transitions. It is not safe for concurrent use; the owning session
// serializes access.
type Machine struct {
	current State
}

// NewMachine returns a Machine in the entry state.
func NewMachine() *Machine {
	return &Machine{current: StateInitializing}
}

// Current returns the current state.
func (m *Machine) Current() State {
	return m.current
}

// Transition moves the machine to next, or fails with ErrInvalidTransition.
func (m *Machine) Transition(next State) error {
	if !m.current.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.current, next)
	}
	m.current = next
	return nil
}

// GuardEntry fails unless the machine is still in the entry state. It is the
// create-job guard: a second trigger within the same run is rejected before
// any network call is made.
func (m *Machine) GuardEntry() error {
	if m.current != StateInitializing {
		return fmt.Errorf("%w: job creation requires state %s, currently %s",
			ErrInvalidTransition, StateInitializing, m.current)
	}
	return nil
}
