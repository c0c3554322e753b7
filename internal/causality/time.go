/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package causality implements the causal event substrate: a monotonic
// time source, unique event identifiers, and causally-ordered event
// chains with cycle and temporal-ordering validation.
//
// CausalTime and CausalId are drawn from the same process-wide atomic
// counter (the only global mutable state this module permits). They are
// distinct Go types so the compiler rejects comparing a time against an
// id even though the underlying values are interchangeable.
package causality

import "sync/atomic"

// counter is the single process-wide monotonic source for both
// CausalTime.Now and NewCausalId. It is never reset.
var counter atomic.Uint64

// CausalTime is an opaque, totally ordered point drawn from the process
// counter. Equal values denote concurrent observations.
type CausalTime uint64

// Now returns the current causal time and advances the counter.
func Now() CausalTime {
	return CausalTime(counter.Add(1))
}

// Before reports whether t happened strictly before other.
func (t CausalTime) Before(other CausalTime) bool {
	return t < other
}

// DurationSince returns how many counter ticks elapsed since earlier, or
// false if earlier is later than t (time travel). Equal times yield
// (0, true).
func (t CausalTime) DurationSince(earlier CausalTime) (uint64, bool) {
	if t < earlier {
		return 0, false
	}
	return uint64(t - earlier), true
}

// CausalId uniquely identifies a causal event. Drawn from the same
// counter as CausalTime but kept as a distinct type.
type CausalId uint64

// NewCausalId returns a fresh, unique identifier.
func NewCausalId() CausalId {
	return CausalId(counter.Add(1))
}

// CausalDependency records that one event (Dependent) depends on another
// (Dependency), which must have occurred earlier.
type CausalDependency struct {
	Dependent  CausalId
	Dependency CausalId
}
