/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package roles implements the Role aggregate: a semantic composition of
// claims with a purpose, not a bare permission collection. Roles form a
// bounded join-semilattice under claim-set union, with explicit
// incompatibility tracking for separation-of-duties enforcement.
package roles

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/claims"
)

// SeparationClass groups roles for separation-of-duties enforcement.
// Two roles in conflicting classes may be declared mutually incompatible.
type SeparationClass int

const (
	SeparationOperational SeparationClass = iota
	SeparationAdministrative
	SeparationAudit
	SeparationEmergency
	SeparationFinancial
	SeparationPersonnel
)

func (s SeparationClass) String() string {
	switch s {
	case SeparationOperational:
		return "operational"
	case SeparationAdministrative:
		return "administrative"
	case SeparationAudit:
		return "audit"
	case SeparationEmergency:
		return "emergency"
	case SeparationFinancial:
		return "financial"
	case SeparationPersonnel:
		return "personnel"
	default:
		return "unknown"
	}
}

// Purpose documents why a role exists, distinguishing Role from a bare
// claim bag: every role is scoped to a domain, carries a human
// description, a separation class, and a seniority level (0-5).
type Purpose struct {
	Domain          claims.Category
	Description     string
	SeparationClass SeparationClass
	Level           uint8
}

// Error is returned by Role construction and mutation when an invariant
// is violated.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// Role is a semantic aggregate of claims with a unique purpose. Roles do
// not inherit implicitly; composition happens through explicit Union.
type Role struct {
	ID              uuid.UUID
	Name            string
	Purpose         Purpose
	Claims          claims.Set
	IncompatibleWith map[string]struct{}
	CreatedBy       uuid.UUID
}

// New constructs a Role. Name must be non-empty and Level must be in
// [0, 5].
func New(name string, purpose Purpose, claimSet claims.Set, createdBy uuid.UUID) (Role, error) {
	if name == "" {
		return Role{}, &Error{Reason: "role name must not be empty"}
	}
	if purpose.Level > 5 {
		return Role{}, &Error{Reason: fmt.Sprintf("role level %d exceeds maximum of 5", purpose.Level)}
	}
	return Role{
		ID:               uuid.New(),
		Name:             name,
		Purpose:          purpose,
		Claims:           claimSet,
		IncompatibleWith: make(map[string]struct{}),
		CreatedBy:        createdBy,
	}, nil
}

// DeclareIncompatible marks other as incompatible with r, enforcing
// separation of duties: a subject must never hold both.
func (r Role) DeclareIncompatible(otherName string) Role {
	next := r.clone()
	next.IncompatibleWith[otherName] = struct{}{}
	return next
}

// IsIncompatibleWith reports whether otherName has been declared
// incompatible with r.
func (r Role) IsIncompatibleWith(otherName string) bool {
	_, ok := r.IncompatibleWith[otherName]
	return ok
}

// Union composes two roles' claim sets into a new role called name,
// honoring the join-semilattice structure: Union(a, b).Claims is the
// least upper bound of a.Claims and b.Claims. Union fails if a and b
// have declared each other incompatible.
func Union(a, b Role, name string, purpose Purpose, createdBy uuid.UUID) (Role, error) {
	if a.IsIncompatibleWith(b.Name) || b.IsIncompatibleWith(a.Name) {
		return Role{}, &Error{Reason: fmt.Sprintf("roles %q and %q are declared incompatible", a.Name, b.Name)}
	}
	return New(name, purpose, claims.Union(a.Claims, b.Claims), createdBy)
}

// Grants reports whether the role's claim set contains c.
func (r Role) Grants(c claims.Claim) bool {
	return r.Claims.Contains(c)
}

func (r Role) clone() Role {
	next := r
	next.IncompatibleWith = make(map[string]struct{}, len(r.IncompatibleWith))
	for k := range r.IncompatibleWith {
		next.IncompatibleWith[k] = struct{}{}
	}
	return next
}
