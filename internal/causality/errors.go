/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package causality

import "fmt"

// SelfDependencyError reports that an event declared itself as a dependency.
type SelfDependencyError struct {
	Event CausalId
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("event %d depends on itself", e.Event)
}

// MissingDependencyError reports that a declared dependency has no known time.
type MissingDependencyError struct {
	Event      CausalId
	Dependency CausalId
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("event %d depends on unknown event %d", e.Event, e.Dependency)
}

// FutureDependencyError reports that a dependency's time is not strictly
// earlier than the dependent event's time.
type FutureDependencyError struct {
	Event      CausalId
	Dependency CausalId
	EventTime  CausalTime
	DepTime    CausalTime
}

func (e *FutureDependencyError) Error() string {
	return fmt.Sprintf("event %d at time %d depends on event %d at time %d, which is not earlier",
		e.Event, e.EventTime, e.Dependency, e.DepTime)
}

// CircularDependencyError reports a cycle discovered in the dependency graph.
type CircularDependencyError struct {
	Cycle []CausalId
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %v", e.Cycle)
}
