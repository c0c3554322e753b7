/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package policy

import "time"

// ConditionKind discriminates the closed PolicyCondition tagged union.
type ConditionKind int

const (
	ConditionMinimumSecurityClearance ConditionKind = iota
	ConditionMFAEnabled
	ConditionYubiKeyRequired
	ConditionRequiresWitness
	ConditionTimeWindow
)

// Condition is a single evaluable clause of a Policy. Exactly the fields
// relevant to Kind are populated; the rest are zero.
type Condition struct {
	Kind ConditionKind

	// ConditionMinimumSecurityClearance
	MinimumClearance ClearanceLevel

	// ConditionMFAEnabled
	MFARequired bool

	// ConditionYubiKeyRequired
	YubiKeyRequired bool

	// ConditionRequiresWitness
	WitnessCount     int
	WitnessClearance *ClearanceLevel // nil means no per-witness clearance floor

	// ConditionTimeWindow
	WindowStart time.Time
	WindowEnd   time.Time
}

// MinimumSecurityClearance constructs a clearance-floor condition.
func MinimumSecurityClearance(level ClearanceLevel) Condition {
	return Condition{Kind: ConditionMinimumSecurityClearance, MinimumClearance: level}
}

// MFAEnabled constructs a condition requiring the context's MFA
// verification flag to equal required.
func MFAEnabled(required bool) Condition {
	return Condition{Kind: ConditionMFAEnabled, MFARequired: required}
}

// YubiKeyRequired constructs a condition requiring the context's hardware
// key presence flag to equal required.
func YubiKeyRequired(required bool) Condition {
	return Condition{Kind: ConditionYubiKeyRequired, YubiKeyRequired: required}
}

// RequiresWitness constructs a condition requiring at least count
// witnesses, optionally each meeting a minimum clearance.
func RequiresWitness(count int, clearance *ClearanceLevel) Condition {
	return Condition{Kind: ConditionRequiresWitness, WitnessCount: count, WitnessClearance: clearance}
}

// TimeWindow constructs a condition requiring the context's evaluation
// time to fall within [start, end].
func TimeWindow(start, end time.Time) Condition {
	return Condition{Kind: ConditionTimeWindow, WindowStart: start, WindowEnd: end}
}

// Witness is a single witnessing subject presented in an evaluation
// context.
type Witness struct {
	SubjectID string
	Clearance ClearanceLevel
}

// Context carries the facts a Condition is evaluated against.
type Context struct {
	Clearance     ClearanceLevel
	MFAVerified   bool
	YubiKeyPresent bool
	Witnesses     []Witness
	EvaluatedAt   time.Time
}

// Holds reports whether c is satisfied by ctx.
func (c Condition) Holds(ctx Context) bool {
	switch c.Kind {
	case ConditionMinimumSecurityClearance:
		return ctx.Clearance.Meets(c.MinimumClearance)
	case ConditionMFAEnabled:
		return ctx.MFAVerified == c.MFARequired
	case ConditionYubiKeyRequired:
		return ctx.YubiKeyPresent == c.YubiKeyRequired
	case ConditionRequiresWitness:
		count := 0
		for _, w := range ctx.Witnesses {
			if c.WitnessClearance == nil || w.Clearance.Meets(*c.WitnessClearance) {
				count++
			}
		}
		return count >= c.WitnessCount
	case ConditionTimeWindow:
		t := ctx.EvaluatedAt
		return !t.Before(c.WindowStart) && !t.After(c.WindowEnd)
	default:
		return false
	}
}
