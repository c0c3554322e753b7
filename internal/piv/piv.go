/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package piv binds generated key material into hardware PIV slots,
// selecting a slot layout by role and falling back to a logged skip
// when no device is present or discovery keeps failing.
package piv

import (
	"crypto"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// Slot identifies a PIV slot by its well-known hex designator.
type Slot string

const (
	SlotAuthentication Slot = "9a"
	SlotSignature      Slot = "9c"
	SlotKeyManagement  Slot = "9d"
	SlotCardAuth       Slot = "9e"
)

// Algorithm identifies the key algorithm generated in a slot.
type Algorithm string

const (
	AlgorithmECP256 Algorithm = "ecc-p256"
	AlgorithmECP384 Algorithm = "ecc-p384"
)

// SlotPlan describes which slots a role populates and with what
// algorithm, or that the role is skipped entirely (no hardware backing).
type SlotPlan struct {
	Role      string
	Skip      bool
	Slots     []Slot
	Algorithm Algorithm
}

// Plan for root authority, administrative, and backup roles, per the
// separation of duties already encoded in the role's SeparationClass:
// the root key is the most sensitive and gets the highest assurance
// curve in the signature slot; security-admin and developer get an
// authentication slot in addition; backup holders are deliberately
// never bound to hardware so the backup material stays recoverable
// from the deterministic seed alone.
var plans = map[string]SlotPlan{
	"root-authority": {Role: "root-authority", Slots: []Slot{SlotSignature}, Algorithm: AlgorithmECP384},
	"security-admin": {Role: "security-admin", Slots: []Slot{SlotAuthentication, SlotSignature}, Algorithm: AlgorithmECP256},
	"developer":      {Role: "developer", Slots: []Slot{SlotAuthentication, SlotSignature}, Algorithm: AlgorithmECP256},
	"backup-holder":  {Role: "backup-holder", Skip: true},
}

// PlanForRole returns the slot plan for a named role, or a skipped plan
// if the role has no hardware-backed allocation.
func PlanForRole(role string) SlotPlan {
	if p, ok := plans[role]; ok {
		return p
	}
	return SlotPlan{Role: role, Skip: true}
}

// Device abstracts the subset of hardware PIV operations the binder
// needs, so the binder can be exercised without a physical key present.
type Device interface {
	Serial() (uint32, error)
	GenerateKey(slot Slot, alg Algorithm) (crypto.PublicKey, error)
	SetManagementKey(newKey [24]byte) error
	SetPIN(newPIN string) error
	SetPUK(newPUK string) error
	Close() error
}

// Discoverer opens a device by serial, or reports its absence.
type Discoverer interface {
	Discover(serial string) (Device, error)
}

// Secrets is the randomly generated PIN/PUK/management-key triple
// produced once per device at bootstrap. It is written to a
// SECRETS.json artifact separate from everything else the run
// produces; the master passphrase itself is never persisted anywhere.
type Secrets struct {
	PIN           string
	PUK           string
	ManagementKey [24]byte
}

// GenerateSecrets draws a fresh PIN/PUK/management-key triple.
func GenerateSecrets() (Secrets, error) {
	pin, err := randomDigits(6)
	if err != nil {
		return Secrets{}, err
	}
	puk, err := randomDigits(8)
	if err != nil {
		return Secrets{}, err
	}
	var mgmt [24]byte
	if _, err := rand.Read(mgmt[:]); err != nil {
		return Secrets{}, err
	}
	return Secrets{PIN: pin, PUK: puk, ManagementKey: mgmt}, nil
}

func randomDigits(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	return string(out), nil
}

// Binding records the outcome of binding one role's key material into a
// device's slots, or the reason it was skipped.
type Binding struct {
	ID         uuid.UUID
	Role       string
	Serial     string
	Slots      []Slot
	PublicKeys []crypto.PublicKey
	Skipped    bool
	SkipReason string
}

// Event is the causal event payload emitted by a binding attempt.
type Event struct {
	Kind          string
	BindingID     uuid.UUID
	CorrelationID uuid.UUID
	CausationID   *uuid.UUID
}

// breakerSettings trips after 3 consecutive device-communication
// failures within a 60s window. Bind builds a fresh breaker from these
// settings on every call and runs a single discovery through it, so no
// failure count carries over from one Bind call to the next.
func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
}

// Bind discovers the device at serial (through a circuit breaker built
// for this call only), generates key material in the slots
// named by plan, sets the device's PIN/PUK/management key to secrets,
// and returns the resulting binding. A role whose plan is Skip, or a
// discovery failure, both yield a Binding with Skipped set rather than
// an error, matching the audited-skip handling for absent hardware.
func Bind(discoverer Discoverer, serial string, plan SlotPlan, secrets Secrets, correlationID uuid.UUID, causationID *uuid.UUID) (Binding, Event, error) {
	if plan.Skip {
		binding := Binding{ID: uuid.New(), Role: plan.Role, Skipped: true, SkipReason: "role has no hardware-backed slot allocation"}
		event := Event{Kind: "YubiKeyBindingSkipped", BindingID: binding.ID, CorrelationID: correlationID, CausationID: causationID}
		return binding, event, nil
	}

	breaker := gobreaker.NewCircuitBreaker[Device](breakerSettings(fmt.Sprintf("piv-discover-%s", serial)))
	device, err := breaker.Execute(func() (Device, error) {
		return discoverer.Discover(serial)
	})
	if err != nil {
		binding := Binding{ID: uuid.New(), Role: plan.Role, Serial: serial, Skipped: true, SkipReason: fmt.Sprintf("device discovery failed: %v", err)}
		event := Event{Kind: "YubiKeyDiscoverySkipped", BindingID: binding.ID, CorrelationID: correlationID, CausationID: causationID}
		return binding, event, nil
	}
	defer device.Close()

	if err := device.SetManagementKey(secrets.ManagementKey); err != nil {
		return Binding{}, Event{}, &Error{Op: "set_management_key", Reason: err.Error()}
	}
	if err := device.SetPIN(secrets.PIN); err != nil {
		return Binding{}, Event{}, &Error{Op: "set_pin", Reason: err.Error()}
	}
	if err := device.SetPUK(secrets.PUK); err != nil {
		return Binding{}, Event{}, &Error{Op: "set_puk", Reason: err.Error()}
	}

	var pubKeys []crypto.PublicKey
	for _, slot := range plan.Slots {
		pub, err := device.GenerateKey(slot, plan.Algorithm)
		if err != nil {
			return Binding{}, Event{}, &Error{Op: "generate_key", Reason: fmt.Sprintf("slot %s: %v", slot, err)}
		}
		pubKeys = append(pubKeys, pub)
	}

	binding := Binding{ID: uuid.New(), Role: plan.Role, Serial: serial, Slots: plan.Slots, PublicKeys: pubKeys}
	event := Event{Kind: "YubiKeyBindingEstablished", BindingID: binding.ID, CorrelationID: correlationID, CausationID: causationID}
	return binding, event, nil
}

// Error reports a failure binding a device's slots.
type Error struct {
	Op     string
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("piv: %s: %s", e.Op, e.Reason) }
