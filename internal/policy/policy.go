/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package policy implements claims-based policy evaluation: policies
// carry claims and conditions, bindings attach policies to principals,
// and Evaluate resolves a principal's active policies deterministically.
package policy

import (
	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/claims"
)

// Policy bundles a set of claims with the conditions that must all hold
// for the policy to be active.
type Policy struct {
	ID         uuid.UUID
	Name       string
	Claims     claims.Set
	Conditions []Condition
	Priority   int
	Enabled    bool
}

// New constructs an enabled Policy.
func New(name string, claimSet claims.Set, conditions []Condition, priority int) Policy {
	return Policy{
		ID:         uuid.New(),
		Name:       name,
		Claims:     claimSet,
		Conditions: conditions,
		Priority:   priority,
		Enabled:    true,
	}
}

// PrincipalType distinguishes the kind of entity a binding attaches to.
type PrincipalType int

const (
	PrincipalPerson PrincipalType = iota
	PrincipalRole
	PrincipalDevice
	PrincipalService
)

// Binding attaches a Policy to a principal. Only active bindings are
// considered during evaluation.
type Binding struct {
	ID            uuid.UUID
	PolicyID      uuid.UUID
	PrincipalID   uuid.UUID
	PrincipalType PrincipalType
	Active        bool
}

// NewBinding constructs an active Binding.
func NewBinding(policyID, principalID uuid.UUID, principalType PrincipalType) Binding {
	return Binding{
		ID:            uuid.New(),
		PolicyID:      policyID,
		PrincipalID:   principalID,
		PrincipalType: principalType,
		Active:        true,
	}
}
