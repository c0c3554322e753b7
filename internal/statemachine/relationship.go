/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package statemachine

import (
	"time"

	"github.com/google/uuid"
)

// RelationshipChange describes one field-level edit applied by a
// Modified transition.
type RelationshipChange struct {
	Field    string
	OldValue string
	NewValue string
}

// RelationshipState is the tagged union of legal Relationship lifecycle
// payloads. Only Active (and only within [ValidFrom, ValidUntil]) grants
// authorization. Permitted transitions exactly:
//
//	Proposed   -> Active
//	Active     -> {Modified, Suspended, Terminated}
//	Modified   -> Active (apply)
//	Suspended  -> Active
//	Terminated -> Archived
//	Archived   -> (terminal)
type RelationshipState interface {
	Description() string
	IsActive() bool
	IsTerminal() bool
	CanTransitionTo(to string) bool
}

// RelationshipProposed is the initial state: the relationship has been
// proposed but not yet accepted.
type RelationshipProposed struct {
	ProposedAt           time.Time
	ProposedBy           uuid.UUID
	PendingApprovalFrom  *uuid.UUID
}

func (RelationshipProposed) Description() string           { return "Proposed" }
func (RelationshipProposed) IsActive() bool                 { return false }
func (RelationshipProposed) IsTerminal() bool               { return false }
func (RelationshipProposed) CanTransitionTo(to string) bool { return to == "Active" }

// RelationshipActive is the operational state, bounded to a validity
// window.
type RelationshipActive struct {
	ValidFrom        time.Time
	ValidUntil       *time.Time
	RelationshipType string
	Metadata         map[string]string
}

func (RelationshipActive) Description() string { return "Active" }
func (RelationshipActive) IsActive() bool       { return true }
func (RelationshipActive) IsTerminal() bool     { return false }
func (RelationshipActive) CanTransitionTo(to string) bool {
	return to == "Modified" || to == "Suspended" || to == "Terminated"
}

// WithinWindow reports whether at falls inside [ValidFrom, ValidUntil]
// (an unset ValidUntil means unbounded).
func (s RelationshipActive) WithinWindow(at time.Time) bool {
	if at.Before(s.ValidFrom) {
		return false
	}
	if s.ValidUntil != nil && at.After(*s.ValidUntil) {
		return false
	}
	return true
}

// RelationshipModified is a staged edit awaiting application back into
// Active; PreviousVersion is the Active snapshot the edit was proposed
// against.
type RelationshipModified struct {
	ModifiedAt      time.Time
	ModifiedBy      uuid.UUID
	PreviousVersion RelationshipActive
	Changes         []RelationshipChange
}

func (RelationshipModified) Description() string           { return "Modified" }
func (RelationshipModified) IsActive() bool                 { return false }
func (RelationshipModified) IsTerminal() bool               { return false }
func (RelationshipModified) CanTransitionTo(to string) bool { return to == "Active" }

// RelationshipSuspended is a reversible hold; authorization is withdrawn
// while suspended.
type RelationshipSuspended struct {
	SuspendedAt time.Time
	SuspendedBy uuid.UUID
	Reason      string
	prior       RelationshipActive
}

func (RelationshipSuspended) Description() string           { return "Suspended" }
func (RelationshipSuspended) IsActive() bool                 { return false }
func (RelationshipSuspended) IsTerminal() bool               { return false }
func (RelationshipSuspended) CanTransitionTo(to string) bool { return to == "Active" }

// RelationshipTerminated ends the relationship's operational life; only
// Archived follows.
type RelationshipTerminated struct {
	TerminatedAt time.Time
	TerminatedBy uuid.UUID
	Reason       string
}

func (RelationshipTerminated) Description() string           { return "Terminated" }
func (RelationshipTerminated) IsActive() bool                 { return false }
func (RelationshipTerminated) IsTerminal() bool               { return false }
func (RelationshipTerminated) CanTransitionTo(to string) bool { return to == "Archived" }

// RelationshipArchived is terminal.
type RelationshipArchived struct {
	ArchivedAt time.Time
}

func (RelationshipArchived) Description() string           { return "Archived" }
func (RelationshipArchived) IsActive() bool                 { return false }
func (RelationshipArchived) IsTerminal() bool               { return true }
func (RelationshipArchived) CanTransitionTo(to string) bool { return false }

// Relationship is the lifecycle wrapper around RelationshipState.
type Relationship struct {
	State RelationshipState
}

// NewRelationship starts a fresh relationship in the Proposed state.
func NewRelationship(proposedBy uuid.UUID, pendingApprovalFrom *uuid.UUID, at time.Time) Relationship {
	return Relationship{State: RelationshipProposed{ProposedAt: at, ProposedBy: proposedBy, PendingApprovalFrom: pendingApprovalFrom}}
}

func (r Relationship) guard(to string) error {
	if r.State.IsTerminal() {
		return &TerminalState{Name: r.State.Description()}
	}
	if !r.State.CanTransitionTo(to) {
		return &InvalidTransition{From: r.State.Description(), To: to}
	}
	return nil
}

// Accept transitions Proposed -> Active.
func (r Relationship) Accept(validFrom time.Time, validUntil *time.Time, relType string, metadata map[string]string) (Relationship, error) {
	if _, ok := r.State.(RelationshipProposed); !ok {
		return r, r.guard("Active")
	}
	if validUntil != nil && validUntil.Before(validFrom) {
		return r, &ValidationFailed{Reason: "valid_until must not precede valid_from"}
	}
	return Relationship{State: RelationshipActive{ValidFrom: validFrom, ValidUntil: validUntil, RelationshipType: relType, Metadata: metadata}}, nil
}

// Modify transitions Active -> Modified. changes must be non-empty.
func (r Relationship) Modify(changes []RelationshipChange, at time.Time, by uuid.UUID) (Relationship, error) {
	active, ok := r.State.(RelationshipActive)
	if !ok {
		return r, r.guard("Modified")
	}
	if len(changes) == 0 {
		return r, &ValidationFailed{Reason: "modification change list must not be empty"}
	}
	return Relationship{State: RelationshipModified{ModifiedAt: at, ModifiedBy: by, PreviousVersion: active, Changes: changes}}, nil
}

// ApplyModifications transitions Modified -> Active with the validity
// window given by validFrom and validUntil; validUntil must not precede
// validFrom. RelationshipType and Metadata are carried over unchanged
// from PreviousVersion: the staged Changes are not applied to them.
func (r Relationship) ApplyModifications(validFrom time.Time, validUntil *time.Time) (Relationship, error) {
	modified, ok := r.State.(RelationshipModified)
	if !ok {
		return r, r.guard("Active")
	}
	if validUntil != nil && validUntil.Before(validFrom) {
		return r, &ValidationFailed{Reason: "valid_until must not precede valid_from"}
	}
	return Relationship{State: RelationshipActive{
		ValidFrom:        validFrom,
		ValidUntil:       validUntil,
		RelationshipType: modified.PreviousVersion.RelationshipType,
		Metadata:         modified.PreviousVersion.Metadata,
	}}, nil
}

// Suspend transitions Active -> Suspended.
func (r Relationship) Suspend(reason string, at time.Time, by uuid.UUID) (Relationship, error) {
	active, ok := r.State.(RelationshipActive)
	if !ok {
		return r, r.guard("Suspended")
	}
	return Relationship{State: RelationshipSuspended{SuspendedAt: at, SuspendedBy: by, Reason: reason, prior: active}}, nil
}

// Resume transitions Suspended -> Active, restoring the pre-suspension
// validity window.
func (r Relationship) Resume() (Relationship, error) {
	suspended, ok := r.State.(RelationshipSuspended)
	if !ok {
		return r, r.guard("Active")
	}
	return Relationship{State: suspended.prior}, nil
}

// Terminate transitions Active -> Terminated.
func (r Relationship) Terminate(reason string, at time.Time, by uuid.UUID) (Relationship, error) {
	if _, ok := r.State.(RelationshipActive); !ok {
		return r, r.guard("Terminated")
	}
	return Relationship{State: RelationshipTerminated{TerminatedAt: at, TerminatedBy: by, Reason: reason}}, nil
}

// Archive transitions Terminated -> Archived.
func (r Relationship) Archive(at time.Time) (Relationship, error) {
	if _, ok := r.State.(RelationshipTerminated); !ok {
		return r, r.guard("Archived")
	}
	return Relationship{State: RelationshipArchived{ArchivedAt: at}}, nil
}

// IsActive reports whether the wrapped state is the Active variant,
// irrespective of the validity window. Use IsAuthorized to also check
// the window.
func (r Relationship) IsActive() bool { return r.State.IsActive() }

// IsAuthorized reports whether the relationship grants authorization at
// the given instant: the wrapped state must be RelationshipActive and at
// must fall within its validity window.
func (r Relationship) IsAuthorized(at time.Time) bool {
	active, ok := r.State.(RelationshipActive)
	if !ok {
		return false
	}
	return active.WithinWindow(at)
}

// IsTerminal reports whether the wrapped state is terminal.
func (r Relationship) IsTerminal() bool { return r.State.IsTerminal() }

// Description returns the wrapped state's name.
func (r Relationship) Description() string { return r.State.Description() }

// CanTransitionTo reports whether the wrapped state permits a
// transition to the named state.
func (r Relationship) CanTransitionTo(to string) bool { return r.State.CanTransitionTo(to) }
