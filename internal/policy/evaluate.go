/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package policy

import (
	"sort"

	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/claims"
)

// Evaluation is the deterministic result of evaluating a principal's
// policy bindings against a Context.
type Evaluation struct {
	ActivePolicies   []Policy
	InactivePolicies []Policy
	GrantedClaims    claims.Set
}

// Evaluate resolves which of the given policies apply to principalID,
// implementing the six-step algorithm:
//  1. filter bindings to (principalID, principalType) and active == true
//  2. resolve bindings to their policies, dropping disabled policies
//  3. evaluate every condition per candidate with logical AND
//  4. sort active policies by priority descending, ties by registration
//     order (the order policies appear in the policies slice)
//  5. union the claims of every active policy
//  6. return {active, inactive, granted}
func Evaluate(
	policies []Policy,
	bindings []Binding,
	principalID uuid.UUID,
	principalType PrincipalType,
	ctx Context,
) Evaluation {
	byID := make(map[uuid.UUID]Policy, len(policies))
	order := make(map[uuid.UUID]int, len(policies))
	for i, p := range policies {
		byID[p.ID] = p
		order[p.ID] = i
	}

	type candidate struct {
		policy Policy
		index  int
	}
	var candidates []candidate

	for _, b := range bindings {
		if !b.Active || b.PrincipalID != principalID || b.PrincipalType != principalType {
			continue
		}
		p, ok := byID[b.PolicyID]
		if !ok || !p.Enabled {
			continue
		}
		candidates = append(candidates, candidate{policy: p, index: order[p.ID]})
	}

	var active, inactive []Policy
	for _, c := range candidates {
		if allConditionsHold(c.policy.Conditions, ctx) {
			active = append(active, c.policy)
		} else {
			inactive = append(inactive, c.policy)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority > active[j].Priority
		}
		return order[active[i].ID] < order[active[j].ID]
	})

	granted := claims.NewSet()
	for _, p := range active {
		granted = claims.Union(granted, p.Claims)
	}

	return Evaluation{
		ActivePolicies:   active,
		InactivePolicies: inactive,
		GrantedClaims:    granted,
	}
}

func allConditionsHold(conditions []Condition, ctx Context) bool {
	for _, c := range conditions {
		if !c.Holds(ctx) {
			return false
		}
	}
	return true
}
