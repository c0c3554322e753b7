/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package causality

// ValidateEvent checks a single event's causality against a map of
// already-known event times. It fails with SelfDependencyError,
// MissingDependencyError, or FutureDependencyError.
func ValidateEvent[T any](event CausalEvent[T], known map[CausalId]CausalTime) error {
	if event.DependsOn(event.ID()) {
		return &SelfDependencyError{Event: event.ID()}
	}

	for _, dep := range event.Dependencies() {
		depTime, ok := known[dep]
		if !ok {
			return &MissingDependencyError{Event: event.ID(), Dependency: dep}
		}
		if !depTime.Before(event.Time()) {
			return &FutureDependencyError{
				Event:      event.ID(),
				Dependency: dep,
				EventTime:  event.Time(),
				DepTime:    depTime,
			}
		}
	}

	return nil
}

// DetectCycles runs DFS with white/gray/black coloring over the
// dependent→dependency edge list and reports the first cycle found as
// the path from the gray ancestor to the re-encountered node.
func DetectCycles(deps []CausalDependency) error {
	graph := make(map[CausalId][]CausalId)
	for _, d := range deps {
		graph[d.Dependent] = append(graph[d.Dependent], d.Dependency)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[CausalId]int)
	var path []CausalId

	var visit func(node CausalId) error
	visit = func(node CausalId) error {
		color[node] = gray
		path = append(path, node)

		for _, next := range graph[node] {
			switch color[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				start := 0
				for i, n := range path {
					if n == next {
						start = i
						break
					}
				}
				cycle := append([]CausalId(nil), path[start:]...)
				return &CircularDependencyError{Cycle: cycle}
			}
		}

		path = path[:len(path)-1]
		color[node] = black
		return nil
	}

	// Stable-ish iteration order isn't available over a map; since the
	// caller only needs *a* cycle (order rotated per starting DFS node is
	// explicitly acceptable per spec), visiting in whatever order the
	// runtime gives us is sufficient.
	for node := range graph {
		if color[node] == white {
			if err := visit(node); err != nil {
				return err
			}
		}
	}

	return nil
}

// ValidateEvents validates temporal ordering for every event, then runs
// cycle detection over the induced dependency graph.
func ValidateEvents[T any](events []CausalEvent[T]) error {
	known := make(map[CausalId]CausalTime, len(events))
	for _, e := range events {
		known[e.ID()] = e.Time()
	}

	for _, e := range events {
		if err := ValidateEvent(e, known); err != nil {
			return err
		}
	}

	var deps []CausalDependency
	for _, e := range events {
		for _, d := range e.Dependencies() {
			deps = append(deps, CausalDependency{Dependent: e.ID(), Dependency: d})
		}
	}

	return DetectCycles(deps)
}
