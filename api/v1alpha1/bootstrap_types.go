/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package v1alpha1 holds the plain (non-CustomResourceDefinition) wire
// types the bootstrap tooling reads and writes: the organization
// description consumed by the bootstrap workflow, and the policy
// bootstrap document consumed by the policy loader. Neither type is
// reconciled by a controller; both are one-shot inputs to a pipeline.
package v1alpha1

import "github.com/google/uuid"

// OrganizationInfo identifies the legal entity a bootstrap run issues
// a root CA and NATS operator for.
type OrganizationInfo struct {
	ID          uuid.UUID         `json:"id,omitempty"`
	Name        string            `json:"name" validate:"required"`
	DisplayName string            `json:"display_name,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// UnitInput is one organizational unit: it receives its own
// intermediate CA signed by the organization's root.
type UnitInput struct {
	ID   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name" validate:"required"`
}

// ServiceEndpointInput is one pre-declared service endpoint belonging
// to a unit; it receives a leaf certificate signed by that unit's
// intermediate.
type ServiceEndpointInput struct {
	UnitID     uuid.UUID `json:"unit_id"`
	CommonName string    `json:"common_name" validate:"required"`
	SANEntries []string  `json:"san_entries,omitempty"`
}

// PersonInput is one member of the organization.
type PersonInput struct {
	ID    uuid.UUID `json:"id,omitempty"`
	Name  string    `json:"name" validate:"required"`
	Email string    `json:"email,omitempty"`
	Role  string    `json:"role,omitempty"`
}

// YubiKeyAssignment binds a physical device serial to a person and the
// role their slots should be planned from.
type YubiKeyAssignment struct {
	Serial   string    `json:"serial" validate:"required"`
	Name     string    `json:"name,omitempty"`
	PersonID uuid.UUID `json:"person_id,omitempty"`
	Role     string    `json:"role" validate:"required"`
}

// NatsOperatorInput names the single operator a bootstrap run issues.
type NatsOperatorInput struct {
	Name string `json:"name"`
}

// NatsAccountInput is one declared NATS account.
type NatsAccountInput struct {
	Name     string `json:"name" validate:"required"`
	IsSystem bool   `json:"is_system,omitempty"`
}

// NatsUserInput is one declared NATS user, bound to an account by name.
type NatsUserInput struct {
	Name    string `json:"name" validate:"required"`
	Account string `json:"account" validate:"required"`
}

// NatsHierarchyInput is the NATS half of the organization description.
type NatsHierarchyInput struct {
	Operator NatsOperatorInput  `json:"operator"`
	Accounts []NatsAccountInput `json:"accounts,omitempty" validate:"dive"`
	Users    []NatsUserInput    `json:"users,omitempty" validate:"dive"`
}

// BootstrapInput is the organization description §6 defines: the root
// document a bootstrap run is driven from. Unknown fields are ignored
// by encoding/json's default unmarshal behavior; missing required
// fields are rejected at validation, not at parse time.
type BootstrapInput struct {
	Organization       OrganizationInfo       `json:"organization" validate:"required"`
	Units              []UnitInput            `json:"units,omitempty" validate:"dive"`
	ServiceEndpoints   []ServiceEndpointInput `json:"service_endpoints,omitempty" validate:"dive"`
	People             []PersonInput          `json:"people" validate:"required,min=1,dive"`
	YubiKeyAssignments []YubiKeyAssignment    `json:"yubikey_assignments,omitempty" validate:"dive"`
	NatsHierarchy      NatsHierarchyInput     `json:"nats_hierarchy,omitempty"`
}

// CLevelAssignment names a person's C-level title for the policy
// bootstrap's separation-of-duties bookkeeping.
type CLevelAssignment struct {
	PersonID uuid.UUID `json:"person_id"`
	Title    string    `json:"title"`
}

// RoleAssignment binds a person to a standard role by name.
type RoleAssignment struct {
	PersonID uuid.UUID `json:"person_id"`
	RoleName string    `json:"role_name"`
}

// SeparationOfDutiesRule names a set of roles that must never be held
// by the same person simultaneously.
type SeparationOfDutiesRule struct {
	Name              string   `json:"name"`
	IncompatibleRoles []string `json:"incompatible_roles"`
}

// PolicyBootstrapInput is the policy document §6 defines. Standard role
// names, separation-of-duties rules and claim categories are kept as
// the plain strings the document holds: nothing matches separation
// classes or claim strings against the closed vocabulary, and nothing
// downgrades an unknown value to Operational. Only
// RoleAssignment.RoleName is resolved, through roles.ByName, and
// callers skip an assignment whose name it does not know.
type PolicyBootstrapInput struct {
	Organization            OrganizationInfo         `json:"organization"`
	CLevelAssignments       []CLevelAssignment       `json:"c_level_assignments,omitempty"`
	People                  []PersonInput            `json:"people,omitempty"`
	StandardRoles            []string                 `json:"standard_roles,omitempty"`
	RoleAssignments          []RoleAssignment         `json:"role_assignments,omitempty"`
	SeparationOfDutiesRules  []SeparationOfDutiesRule `json:"separation_of_duties_rules,omitempty"`
	ClaimCategories          []string                 `json:"claim_categories,omitempty"`
	Metadata                 map[string]string        `json:"metadata,omitempty"`
}
