/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package statemachine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NatsAccountPermissions carries the publish/subscribe grant attached to
// an active or reactivated account.
type NatsAccountPermissions struct {
	Publish        []string
	Subscribe      []string
	AllowResponses bool
	MaxConnections int
	MaxPayload     int
}

// NatsAccountState is the tagged union of legal NatsAccount lifecycle
// payloads. Permitted transitions exactly:
//
//	Created     -> Active
//	Active      -> {Suspended, Deleted}
//	Suspended   -> {Reactivated, Deleted}
//	Reactivated -> {Active, Deleted}
//	Deleted     -> (terminal)
type NatsAccountState interface {
	Description() string
	IsActive() bool
	IsTerminal() bool
	CanTransitionTo(to string) bool
}

// NatsAccountCreated is the initial state: the account exists but has no
// permission grant and no users yet.
type NatsAccountCreated struct {
	CreatedBy  uuid.UUID
	OperatorID uuid.UUID
}

func (NatsAccountCreated) Description() string           { return "Created" }
func (NatsAccountCreated) IsActive() bool                 { return false }
func (NatsAccountCreated) IsTerminal() bool               { return false }
func (NatsAccountCreated) CanTransitionTo(to string) bool { return to == "Active" }

// NatsAccountActive is the operational state: the account can publish,
// subscribe, and accumulate authorized users.
type NatsAccountActive struct {
	Permissions NatsAccountPermissions
	ActivatedAt time.Time
	Users       []uuid.UUID
}

func (NatsAccountActive) Description() string { return "Active" }
func (NatsAccountActive) IsActive() bool       { return true }
func (NatsAccountActive) IsTerminal() bool     { return false }
func (NatsAccountActive) CanTransitionTo(to string) bool {
	return to == "Suspended" || to == "Deleted"
}

// NatsAccountSuspended is a reversible hold state; the account grants no
// authorization while suspended.
type NatsAccountSuspended struct {
	Reason      string
	SuspendedAt time.Time
	SuspendedBy uuid.UUID
	prior       NatsAccountActive
}

func (NatsAccountSuspended) Description() string { return "Suspended" }
func (NatsAccountSuspended) IsActive() bool       { return false }
func (NatsAccountSuspended) IsTerminal() bool     { return false }
func (NatsAccountSuspended) CanTransitionTo(to string) bool {
	return to == "Reactivated" || to == "Deleted"
}

// NatsAccountReactivated counts as active for authorization purposes,
// but is tracked distinctly from Active so audit trails can see the
// account passed through a suspension.
type NatsAccountReactivated struct {
	Permissions   NatsAccountPermissions
	ReactivatedAt time.Time
	ReactivatedBy uuid.UUID
	Users         []uuid.UUID
}

func (NatsAccountReactivated) Description() string { return "Reactivated" }
func (NatsAccountReactivated) IsActive() bool      { return true }
func (NatsAccountReactivated) IsTerminal() bool    { return false }
func (NatsAccountReactivated) CanTransitionTo(to string) bool {
	return to == "Active" || to == "Deleted"
}

// NatsAccountDeleted is terminal: no further transitions are permitted.
type NatsAccountDeleted struct {
	Reason    string
	DeletedAt time.Time
	DeletedBy uuid.UUID
}

func (NatsAccountDeleted) Description() string           { return "Deleted" }
func (NatsAccountDeleted) IsActive() bool                 { return false }
func (NatsAccountDeleted) IsTerminal() bool               { return true }
func (NatsAccountDeleted) CanTransitionTo(to string) bool { return false }

// NatsAccount is the lifecycle wrapper: the machine's transitions are
// exposed as methods that consume the current state and return either
// the next machine value or a typed error. No method panics.
type NatsAccount struct {
	State NatsAccountState
}

// NewNatsAccount starts a fresh account in the Created state.
func NewNatsAccount(createdBy, operatorID uuid.UUID) NatsAccount {
	return NatsAccount{State: NatsAccountCreated{CreatedBy: createdBy, OperatorID: operatorID}}
}

func (a NatsAccount) guard(to string) error {
	if a.State.IsTerminal() {
		return &TerminalState{Name: a.State.Description()}
	}
	if !a.State.CanTransitionTo(to) {
		return &InvalidTransition{From: a.State.Description(), To: to}
	}
	return nil
}

// Activate transitions Created -> Active, attaching the initial
// permission grant.
func (a NatsAccount) Activate(perms NatsAccountPermissions, at time.Time) (NatsAccount, error) {
	if err := a.guard("Active"); err != nil {
		return a, err
	}
	return NatsAccount{State: NatsAccountActive{Permissions: perms, ActivatedAt: at}}, nil
}

// AddUser appends userID to the active user list, idempotently: adding
// the same user twice leaves the list unchanged. Only valid in Active.
func (a NatsAccount) AddUser(userID uuid.UUID) (NatsAccount, error) {
	active, ok := a.State.(NatsAccountActive)
	if !ok {
		if a.State.IsTerminal() {
			return a, &TerminalState{Name: a.State.Description()}
		}
		return a, &InvalidTransition{From: a.State.Description(), To: "Active"}
	}
	for _, u := range active.Users {
		if u == userID {
			return a, nil
		}
	}
	next := active
	next.Users = append(append([]uuid.UUID{}, active.Users...), userID)
	return NatsAccount{State: next}, nil
}

// Suspend transitions Active -> Suspended.
func (a NatsAccount) Suspend(reason string, at time.Time, by uuid.UUID) (NatsAccount, error) {
	active, ok := a.State.(NatsAccountActive)
	if !ok {
		return a, a.guard("Suspended")
	}
	return NatsAccount{State: NatsAccountSuspended{Reason: reason, SuspendedAt: at, SuspendedBy: by, prior: active}}, nil
}

// Reactivate transitions Suspended -> Reactivated, carrying forward the
// prior user roster and attaching a (possibly revised) permission grant.
func (a NatsAccount) Reactivate(perms NatsAccountPermissions, at time.Time, by uuid.UUID) (NatsAccount, error) {
	suspended, ok := a.State.(NatsAccountSuspended)
	if !ok {
		return a, a.guard("Reactivated")
	}
	return NatsAccount{State: NatsAccountReactivated{
		Permissions:   perms,
		ReactivatedAt: at,
		ReactivatedBy: by,
		Users:         append([]uuid.UUID{}, suspended.prior.Users...),
	}}, nil
}

// Resume transitions Reactivated -> Active, folding back into the
// ordinary operational state.
func (a NatsAccount) Resume(at time.Time) (NatsAccount, error) {
	reactivated, ok := a.State.(NatsAccountReactivated)
	if !ok {
		return a, a.guard("Active")
	}
	return NatsAccount{State: NatsAccountActive{
		Permissions: reactivated.Permissions,
		ActivatedAt: at,
		Users:       append([]uuid.UUID{}, reactivated.Users...),
	}}, nil
}

// Delete transitions Active, Suspended, or Reactivated -> Deleted.
func (a NatsAccount) Delete(reason string, at time.Time, by uuid.UUID) (NatsAccount, error) {
	switch a.State.(type) {
	case NatsAccountActive, NatsAccountSuspended, NatsAccountReactivated:
		return NatsAccount{State: NatsAccountDeleted{Reason: reason, DeletedAt: at, DeletedBy: by}}, nil
	default:
		return a, a.guard("Deleted")
	}
}

// IsActive reports whether the wrapped state authorizes account use.
func (a NatsAccount) IsActive() bool { return a.State.IsActive() }

// IsTerminal reports whether the wrapped state is terminal.
func (a NatsAccount) IsTerminal() bool { return a.State.IsTerminal() }

// CanTransitionTo reports whether the wrapped state permits a transition
// to the named state.
func (a NatsAccount) CanTransitionTo(to string) bool { return a.State.CanTransitionTo(to) }

// Description returns the wrapped state's name.
func (a NatsAccount) Description() string { return a.State.Description() }

// NatsAccountFromDescription reconstructs a machine positioned in the
// named state, for driving a transition against a graph projection that
// only recorded the state's name (not its full payload). The guard
// logic this enables — CanTransitionTo, IsTerminal — depends only on
// which variant is wrapped, never on payload fields, so a zero-value
// instance of the named variant is sufficient to evaluate and perform a
// transition; it is not a substitute for the richer, payload-carrying
// value a live state store would hold.
func NatsAccountFromDescription(name string) (NatsAccount, error) {
	switch name {
	case "Created":
		return NatsAccount{State: NatsAccountCreated{}}, nil
	case "Active":
		return NatsAccount{State: NatsAccountActive{}}, nil
	case "Suspended":
		return NatsAccount{State: NatsAccountSuspended{}}, nil
	case "Reactivated":
		return NatsAccount{State: NatsAccountReactivated{}}, nil
	case "Deleted":
		return NatsAccount{State: NatsAccountDeleted{}}, nil
	default:
		return NatsAccount{}, fmt.Errorf("statemachine: unknown nats account state %q", name)
	}
}
