/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package causality

// CausalEvent carries data of type T along with the causal metadata
// (id, time, dependencies) needed to validate and order it against
// other events.
type CausalEvent[T any] struct {
	id           CausalId
	time         CausalTime
	dependencies []CausalId
	data         T
}

// NewEvent creates an event with no dependencies.
func NewEvent[T any](data T) CausalEvent[T] {
	return CausalEvent[T]{
		id:   NewCausalId(),
		time: Now(),
		data: data,
	}
}

// CausedBy creates an event that depends on the given prior events.
func CausedBy[T any](data T, dependencies ...CausalId) CausalEvent[T] {
	deps := make([]CausalId, len(dependencies))
	copy(deps, dependencies)
	return CausalEvent[T]{
		id:           NewCausalId(),
		time:         Now(),
		dependencies: deps,
		data:         data,
	}
}

// ID returns the event's unique identifier.
func (e CausalEvent[T]) ID() CausalId { return e.id }

// Time returns the event's causal time.
func (e CausalEvent[T]) Time() CausalTime { return e.time }

// Dependencies returns the event's declared dependencies.
func (e CausalEvent[T]) Dependencies() []CausalId {
	out := make([]CausalId, len(e.dependencies))
	copy(out, e.dependencies)
	return out
}

// Data returns the event's payload.
func (e CausalEvent[T]) Data() T { return e.data }

// DependsOn reports whether the event declares id as a dependency.
func (e CausalEvent[T]) DependsOn(id CausalId) bool {
	for _, d := range e.dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// WithDependency returns a copy of the event with dep added, if not
// already present. Intended for construction only — adding a
// dependency to an already-chained event can violate causality.
func (e CausalEvent[T]) WithDependency(dep CausalId) CausalEvent[T] {
	if e.DependsOn(dep) {
		return e
	}
	next := e
	next.dependencies = append(append([]CausalId(nil), e.dependencies...), dep)
	return next
}
