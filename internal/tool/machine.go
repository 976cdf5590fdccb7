package tool

import "LocalBoard/internal/input"

// Effect runs on a transition and returns the intents it produces.
type Effect func(ev input.Event, env Env) []Intent

// Transition is one row of a tool's table.
type Transition struct {
	Next   State
	Effect Effect
}

type key struct {
	state   State
	trigger Trigger
}

// machine holds a transition table and the current state. Pairs missing from
// the table leave the state unchanged.
type machine struct {
	state State
	table map[key]Transition
}

func newMachine(table map[key]Transition) machine {
	return machine{state: StateIdle, table: table}
}

func (m *machine) fire(t Trigger, ev input.Event, env Env) Step {
	step := Step{Trigger: t, From: m.state, To: m.state}
	tr, ok := m.table[key{m.state, t}]
	if !ok {
		step.Ignored = true
		return step
	}
	if tr.Effect != nil {
		step.Intents = tr.Effect(ev, env)
	}
	if tr.Next == StateCancelled {
		step.Cancelled = true
		tr.Next = StateIdle
	}
	m.state = tr.Next
	step.To = tr.Next
	return step
}

// cancel fires Escape from a non-idle state.
func (m *machine) cancel() []Intent {
	if m.state == StateIdle {
		return nil
	}
	step := m.fire(TriggerEscape, input.Event{Kind: input.KeyDown, Key: input.KeyEscape}, Env{})
	m.state = StateIdle
	return step.Intents
}
