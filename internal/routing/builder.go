/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package routing

// RouteBuilder accumulates a sequential composition starting from input
// type A, currently producing output type B. Go forbids a method from
// introducing a type parameter beyond its receiver's, so the fluent
// "advance output type per step" API is expressed as the package-level
// Then function rather than chained method calls; RouteBuilder itself
// only exposes the terminal Build/RunWith operations.
type RouteBuilder[A, B any] struct {
	route Route[A, B]
}

// NewBuilder starts a RouteBuilder from an initial route.
func NewBuilder[A, B any](first Route[A, B]) RouteBuilder[A, B] {
	return RouteBuilder[A, B]{route: first}
}

// Then advances a builder by composing its current route with next,
// producing a builder whose output type is next's output type.
func Then[A, B, C any](b RouteBuilder[A, B], next Route[B, C]) RouteBuilder[A, C] {
	return RouteBuilder[A, C]{route: Compose(b.route, next)}
}

// Build finalizes the builder into a Route.
func (b RouteBuilder[A, B]) Build() Route[A, B] {
	return b.route
}

// RunWith builds and immediately runs the route against input.
func (b RouteBuilder[A, B]) RunWith(input A) B {
	return b.route.Run(input)
}
