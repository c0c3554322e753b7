/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package config loads and validates the bootstrap and policy input
// files keyforgectl and keyforge-controlplane read at startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	v1alpha1 "github.com/cim-labs/keyforge/api/v1alpha1"
	"github.com/cim-labs/keyforge/internal/workflow"
)

var validate = validator.New()

// LoadBootstrapConfig reads and validates an organization description
// file in the §6 bootstrap input shape.
func LoadBootstrapConfig(path string) (v1alpha1.BootstrapInput, error) {
	var input v1alpha1.BootstrapInput
	raw, err := os.ReadFile(path)
	if err != nil {
		return v1alpha1.BootstrapInput{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &input); err != nil {
		return v1alpha1.BootstrapInput{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := validate.Struct(input); err != nil {
		return v1alpha1.BootstrapInput{}, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return input, nil
}

// ToTopology converts a validated BootstrapInput into the shape the
// workflow package consumes. People without an explicit id are
// assigned a fresh one; YubiKey assignments are matched to a person by
// person_id first, falling back to an exact name match.
func ToTopology(input v1alpha1.BootstrapInput) workflow.Topology {
	topology := workflow.Topology{Organization: input.Organization.Name}

	personIDs := make(map[string]uuid.UUID, len(input.People))
	personNames := make(map[string]uuid.UUID, len(input.People))
	for _, p := range input.People {
		id := p.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		personIDs[id.String()] = id
		personNames[p.Name] = id
		topology.People = append(topology.People, workflow.PersonSpec{
			ID:   id,
			Name: p.Name,
			Role: p.Role,
		})
	}

	for _, a := range input.YubiKeyAssignments {
		id, ok := personIDs[a.PersonID.String()]
		if !ok {
			id, ok = personNames[a.Name]
		}
		if !ok {
			continue
		}
		for i := range topology.People {
			if topology.People[i].ID == id {
				topology.People[i].YubiKeySerial = a.Serial
				if a.Role != "" {
					topology.People[i].Role = a.Role
				}
			}
		}
	}

	endpointsByUnit := make(map[uuid.UUID][]workflow.ServiceEndpointSpec)
	for _, e := range input.ServiceEndpoints {
		endpointsByUnit[e.UnitID] = append(endpointsByUnit[e.UnitID], workflow.ServiceEndpointSpec{
			CommonName: e.CommonName,
			SANEntries: e.SANEntries,
		})
	}
	for _, u := range input.Units {
		id := u.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		topology.Units = append(topology.Units, workflow.UnitSpec{
			ID:        id,
			Name:      u.Name,
			Endpoints: endpointsByUnit[u.ID],
		})
	}

	accountUsers := make(map[string][]string)
	for _, u := range input.NatsHierarchy.Users {
		accountUsers[u.Account] = append(accountUsers[u.Account], u.Name)
	}
	for _, a := range input.NatsHierarchy.Accounts {
		topology.NatsAccounts = append(topology.NatsAccounts, workflow.NatsAccountSpec{
			Name:  a.Name,
			Users: accountUsers[a.Name],
		})
	}

	return topology
}

// LoadPolicyFile reads and validates a policy bootstrap document in
// the §6 policy bootstrap shape.
func LoadPolicyFile(path string) (v1alpha1.PolicyBootstrapInput, error) {
	var file v1alpha1.PolicyBootstrapInput
	raw, err := os.ReadFile(path)
	if err != nil {
		return v1alpha1.PolicyBootstrapInput{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return v1alpha1.PolicyBootstrapInput{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := validate.Struct(file); err != nil {
		return v1alpha1.PolicyBootstrapInput{}, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return file, nil
}
