/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package causality

import "sort"

// CausalChain is an ordered, acyclic sequence of causal events. Methods
// that add events consume and return the chain value so callers thread
// state explicitly and retain the pre-mutation chain on failure.
type CausalChain[T any] struct {
	events  []CausalEvent[T]
	atTime  map[CausalId]CausalTime
}

// NewChain returns an empty chain.
func NewChain[T any]() CausalChain[T] {
	return CausalChain[T]{atTime: make(map[CausalId]CausalTime)}
}

// Add validates event against the chain's known events and, on success,
// returns a new chain containing it. On failure the original chain is
// discarded along with the event; use TryAdd to recover the event.
func (c CausalChain[T]) Add(event CausalEvent[T]) (CausalChain[T], error) {
	next, _, err := c.TryAdd(event)
	if err != nil {
		return CausalChain[T]{}, err
	}
	return next, nil
}

// TryAdd validates event and returns the updated chain on success. On
// failure it returns the unchanged chain and the rejected event so the
// caller can buffer it for later retry.
func (c CausalChain[T]) TryAdd(event CausalEvent[T]) (CausalChain[T], CausalEvent[T], error) {
	if err := ValidateEvent(event, c.atTime); err != nil {
		return c, event, err
	}

	atTime := make(map[CausalId]CausalTime, len(c.atTime)+1)
	for k, v := range c.atTime {
		atTime[k] = v
	}
	atTime[event.ID()] = event.Time()

	events := make([]CausalEvent[T], len(c.events), len(c.events)+1)
	copy(events, c.events)
	events = append(events, event)

	return CausalChain[T]{events: events, atTime: atTime}, event, nil
}

// Validate re-checks every event in the chain (temporal ordering plus
// acyclicity). Adding via Add/TryAdd already enforces this per-insert;
// Validate is for chains built via FromEvents or mutated directly.
func (c CausalChain[T]) Validate() error {
	return ValidateEvents(c.events)
}

// Len returns the number of events in the chain.
func (c CausalChain[T]) Len() int { return len(c.events) }

// IsEmpty reports whether the chain has no events.
func (c CausalChain[T]) IsEmpty() bool { return len(c.events) == 0 }

// Events returns a copy of the chain's events in insertion order.
func (c CausalChain[T]) Events() []CausalEvent[T] {
	out := make([]CausalEvent[T], len(c.events))
	copy(out, c.events)
	return out
}

// Get returns the event with the given id, if present.
func (c CausalChain[T]) Get(id CausalId) (CausalEvent[T], bool) {
	for _, e := range c.events {
		if e.ID() == id {
			return e, true
		}
	}
	return CausalEvent[T]{}, false
}

// DependentsOf returns every event in the chain that declares id as a dependency.
func (c CausalChain[T]) DependentsOf(id CausalId) []CausalEvent[T] {
	var out []CausalEvent[T]
	for _, e := range c.events {
		if e.DependsOn(id) {
			out = append(out, e)
		}
	}
	return out
}

// TopologicalOrder returns the chain's events ordered so every
// dependency precedes its dependents, or false if the chain is invalid.
// Because causality is enforced on every insert, temporal order already
// equals topological order.
func (c CausalChain[T]) TopologicalOrder() ([]CausalEvent[T], bool) {
	if err := c.Validate(); err != nil {
		return nil, false
	}
	sorted := c.Events()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time() < sorted[j].Time() })
	return sorted, true
}

// IntoEvents consumes the chain and returns its events.
func (c CausalChain[T]) IntoEvents() []CausalEvent[T] {
	return c.Events()
}

// FromEvents builds and validates a chain from a pre-existing slice of events.
func FromEvents[T any](events []CausalEvent[T]) (CausalChain[T], error) {
	if err := ValidateEvents(events); err != nil {
		return CausalChain[T]{}, err
	}
	atTime := make(map[CausalId]CausalTime, len(events))
	for _, e := range events {
		atTime[e.ID()] = e.Time()
	}
	out := make([]CausalEvent[T], len(events))
	copy(out, events)
	return CausalChain[T]{events: out, atTime: atTime}, nil
}
