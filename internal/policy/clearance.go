/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package policy

// ClearanceLevel is a total order over security clearance tiers.
type ClearanceLevel int

const (
	Public ClearanceLevel = iota
	Internal
	Confidential
	Secret
	TopSecret
)

func (c ClearanceLevel) String() string {
	switch c {
	case Public:
		return "Public"
	case Internal:
		return "Internal"
	case Confidential:
		return "Confidential"
	case Secret:
		return "Secret"
	case TopSecret:
		return "TopSecret"
	default:
		return "Unknown"
	}
}

// Meets reports whether c satisfies a minimum required clearance.
func (c ClearanceLevel) Meets(required ClearanceLevel) bool {
	return c >= required
}
