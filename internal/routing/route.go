/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package routing provides the compositional Route category (identity,
// sequential composition, fanout, parallel product) and subject-pattern
// dispatch built on top of it.
package routing

// Route is an opaque morphism from A to B. Routes form a category under
// Identity and Compose; Parallel and Fanout are additional combinators
// for building product/duplicated routes.
type Route[A, B any] struct {
	run func(A) B
}

// New wraps a plain function as a Route.
func New[A, B any](f func(A) B) Route[A, B] {
	return Route[A, B]{run: f}
}

// Run applies the route to an input.
func (r Route[A, B]) Run(input A) B {
	return r.run(input)
}

// Identity returns the identity morphism for type A.
func Identity[A any]() Route[A, A] {
	return Route[A, A]{run: func(a A) A { return a }}
}

// Compose sequentially composes f then g: Compose(f, g).Run(a) == g.Run(f.Run(a)).
func Compose[A, B, C any](f Route[A, B], g Route[B, C]) Route[A, C] {
	return Route[A, C]{run: func(a A) C { return g.run(f.run(a)) }}
}

// Pair is a simple product type used by Parallel and Fanout.
type Pair[X, Y any] struct {
	First  X
	Second Y
}

// Parallel builds the parallel product of two routes: given (A, C), runs
// f on the first component and g on the second, producing (B, D).
func Parallel[A, B, C, D any](f Route[A, B], g Route[C, D]) Route[Pair[A, C], Pair[B, D]] {
	return Route[Pair[A, C], Pair[B, D]]{
		run: func(in Pair[A, C]) Pair[B, D] {
			return Pair[B, D]{First: f.run(in.First), Second: g.run(in.Second)}
		},
	}
}

// Fanout duplicates a single input A to two routes, producing (B, C).
func Fanout[A, B, C any](f Route[A, B], g Route[A, C]) Route[A, Pair[B, C]] {
	return Route[A, Pair[B, C]]{
		run: func(a A) Pair[B, C] {
			return Pair[B, C]{First: f.run(a), Second: g.run(a)}
		},
	}
}
