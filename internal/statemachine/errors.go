/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package statemachine implements the entity state machines: typed
// tagged unions whose transitions are guarded methods returning either
// the next state or one of the errors defined here. No transition method
// ever panics on disallowed input.
package statemachine

import "fmt"

// InvalidTransition reports an attempt to move between two states that
// have no permitted edge.
type InvalidTransition struct {
	From string
	To   string
}

func (e *InvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// TerminalState reports an attempt to transition out of a terminal
// state.
type TerminalState struct {
	Name string
}

func (e *TerminalState) Error() string {
	return fmt.Sprintf("state %s is terminal", e.Name)
}

// ValidationFailed reports a transition rejected by a state-specific
// guard (e.g. an empty change list, or inverted temporal bounds).
type ValidationFailed struct {
	Reason string
}

func (e *ValidationFailed) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}
