/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package routing

import (
	"sort"

	"github.com/cim-labs/keyforge/internal/subject"
)

// Handler processes a model and intent, returning the (possibly updated)
// model and an optional emitted intent.
type Handler[M, I any] func(M, I) (M, *I)

type registeredRoute[M, I any] struct {
	pattern subject.Subject
	handler Handler[M, I]
	order   int
}

// SubjectRouter dispatches (model, intent) pairs to the first handler
// whose subject pattern matches, most-specific pattern first.
type SubjectRouter[M, I any] struct {
	routes       []registeredRoute[M, I]
	builtDefault Handler[M, I]
	built        bool
}

// NewSubjectRouter creates an empty router.
func NewSubjectRouter[M, I any]() *SubjectRouter[M, I] {
	return &SubjectRouter[M, I]{}
}

// Register adds a (pattern, handler) route. Registration order is
// recorded to break specificity ties.
func (r *SubjectRouter[M, I]) Register(pattern subject.Subject, handler Handler[M, I]) *SubjectRouter[M, I] {
	r.routes = append(r.routes, registeredRoute[M, I]{pattern: pattern, handler: handler, order: len(r.routes)})
	r.built = false
	return r
}

// Default sets the fallback handler invoked when no pattern matches.
func (r *SubjectRouter[M, I]) Default(handler Handler[M, I]) *SubjectRouter[M, I] {
	r.builtDefault = handler
	return r
}

// Build sorts the registered routes by specificity (descending), ties
// broken by registration order.
func (r *SubjectRouter[M, I]) Build() *SubjectRouter[M, I] {
	sort.SliceStable(r.routes, func(i, j int) bool {
		si, sj := r.routes[i].pattern.Specificity(), r.routes[j].pattern.Specificity()
		if si != sj {
			return si > sj
		}
		return r.routes[i].order < r.routes[j].order
	})
	r.built = true
	return r
}

// Dispatch finds the first (by specificity) pattern matching subj and
// invokes its handler. If none match, the default handler runs if set;
// otherwise the model is returned unchanged with no emitted intent.
func (r *SubjectRouter[M, I]) Dispatch(model M, subj subject.Subject, intent I) (M, *I) {
	if !r.built {
		r.Build()
	}
	for _, route := range r.routes {
		if route.pattern.Matches(subj) {
			return route.handler(model, intent)
		}
	}
	if r.builtDefault != nil {
		return r.builtDefault(model, intent)
	}
	return model, nil
}

// IntentCategory is the top-level subject prefix a HierarchicalRouter
// dispatches on before falling back to a root router.
type IntentCategory string

const (
	CategoryUI     IntentCategory = "ui"
	CategoryDomain IntentCategory = "domain"
	CategoryPort   IntentCategory = "port"
	CategorySystem IntentCategory = "system"
	CategoryError  IntentCategory = "error"
)

// HierarchicalRouter dispatches first by the intent category prefix
// (ui/domain/port/system/error), falling back to a root router for
// subjects whose prefix doesn't match a registered category.
type HierarchicalRouter[M, I any] struct {
	byCategory map[IntentCategory]*SubjectRouter[M, I]
	root       *SubjectRouter[M, I]
}

// NewHierarchicalRouter creates a hierarchical router with the given root fallback.
func NewHierarchicalRouter[M, I any](root *SubjectRouter[M, I]) *HierarchicalRouter[M, I] {
	return &HierarchicalRouter[M, I]{
		byCategory: make(map[IntentCategory]*SubjectRouter[M, I]),
		root:       root,
	}
}

// ForCategory registers (or replaces) the router for a given category prefix.
func (h *HierarchicalRouter[M, I]) ForCategory(cat IntentCategory, router *SubjectRouter[M, I]) *HierarchicalRouter[M, I] {
	h.byCategory[cat] = router
	return h
}

// Dispatch routes subj to the router registered for its leading category
// token, or to the root router if the category is unregistered.
func (h *HierarchicalRouter[M, I]) Dispatch(model M, subj subject.Subject, intent I) (M, *I) {
	tokens := subj.Tokens()
	if len(tokens) > 0 && tokens[0].Kind == subject.Literal {
		if router, ok := h.byCategory[IntentCategory(tokens[0].Literal)]; ok {
			return router.Dispatch(model, subj, intent)
		}
	}
	if h.root != nil {
		return h.root.Dispatch(model, subj, intent)
	}
	return model, nil
}
