/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/config"
	"github.com/cim-labs/keyforge/internal/policy"
	"github.com/cim-labs/keyforge/internal/roles"
)

// policyStore holds the policies and bindings derived from one policy
// bootstrap document. Evaluation itself stays stateless and lives in
// internal/policy; this store only owns the loaded facts Evaluate runs
// against, and reload() lets an operator push a revised document (new
// hires, revoked roles) into a running process without a restart.
type policyStore struct {
	mu        sync.RWMutex
	path      string
	createdBy uuid.UUID
	policies  []policy.Policy
	bindings  []policy.Binding
	roleNames map[uuid.UUID][]string
}

func newPolicyStore(path string, createdByLabel string) (*policyStore, error) {
	s := &policyStore{
		path:      path,
		createdBy: uuid.NewSHA1(uuid.NameSpaceDNS, []byte(createdByLabel)),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload re-reads the policy bootstrap document from disk and swaps it
// in atomically. An in-flight evaluate() sees either the old or the new
// document in full, never a partial mix of the two.
func (s *policyStore) reload() error {
	input, err := config.LoadPolicyFile(s.path)
	if err != nil {
		return err
	}

	policies := make([]policy.Policy, 0, len(input.RoleAssignments))
	bindings := make([]policy.Binding, 0, len(input.RoleAssignments))
	roleNames := make(map[uuid.UUID][]string)

	for _, assignment := range input.RoleAssignments {
		template, ok := roles.ByName(assignment.RoleName)
		if !ok {
			continue
		}
		role, err := template.ToRole(s.createdBy)
		if err != nil {
			return fmt.Errorf("controlplane: instantiate role %q: %w", assignment.RoleName, err)
		}

		minClearance := policy.Public
		switch {
		case role.Purpose.Level >= 4:
			minClearance = policy.TopSecret
		case role.Purpose.Level == 3:
			minClearance = policy.Secret
		case role.Purpose.Level == 2:
			minClearance = policy.Confidential
		case role.Purpose.Level == 1:
			minClearance = policy.Internal
		}

		p := policy.New(role.Name, role.Claims, []policy.Condition{
			policy.MinimumSecurityClearance(minClearance),
		}, int(role.Purpose.Level))
		binding := policy.NewBinding(p.ID, assignment.PersonID, policy.PrincipalPerson)

		policies = append(policies, p)
		bindings = append(bindings, binding)
		roleNames[assignment.PersonID] = append(roleNames[assignment.PersonID], assignment.RoleName)
	}

	s.mu.Lock()
	s.policies = policies
	s.bindings = bindings
	s.roleNames = roleNames
	s.mu.Unlock()
	return nil
}

func (s *policyStore) personCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roleNames)
}

func (s *policyStore) evaluate(personID uuid.UUID, ctx policy.Context) policy.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return policy.Evaluate(s.policies, s.bindings, personID, policy.PrincipalPerson, ctx)
}

func (s *policyStore) rolesFor(personID uuid.UUID) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.roleNames[personID]...)
}
