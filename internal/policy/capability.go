/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package policy

import (
	"github.com/cim-labs/keyforge/internal/claims"
	"github.com/cim-labs/keyforge/internal/roles"
	"github.com/cim-labs/keyforge/internal/subject"
)

// Capability is the product Role × Subject: a claim set scoped to the
// subject patterns it applies over.
type Capability struct {
	Role    roles.Role
	Subject subject.Subject
}

// Applier narrows (never widens) a Capability given one Policy.
// Implementations must be monotone: Applier(cap, p).Role.Claims is
// always a subset of cap.Role.Claims.
type Applier func(Capability, Policy) Capability

// Restrict is the default Applier: it intersects the capability's
// granted claims with the policy's claims, so applying a policy can only
// remove permissions, never add them.
func Restrict(cap Capability, p Policy) Capability {
	narrowed := claims.NewSet()
	for _, c := range cap.Role.Claims.ToSlice() {
		if p.Claims.Contains(c) {
			narrowed = narrowed.Add(c)
		}
	}
	cap.Role.Claims = narrowed
	return cap
}

// Fold implements the mandatory list catamorphism over policies:
//
//	Fold(nil, cap, apply)        == cap
//	Fold(p::ps, cap, apply)      == apply(Fold(ps, cap, apply), p)
//
// i.e. the last policy in the slice applies first (innermost), and the
// first policy applies last (outermost), matching a right fold.
func Fold(policies []Policy, cap Capability, apply Applier) Capability {
	result := cap
	for i := len(policies) - 1; i >= 0; i-- {
		result = apply(result, policies[i])
	}
	return result
}
