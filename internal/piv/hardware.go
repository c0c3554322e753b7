/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package piv

import (
	"crypto"
	"fmt"

	govpiv "github.com/go-piv/piv-go/v2/piv"
)

// HardwareDiscoverer opens a physical YubiKey by serial over PC/SC. It is
// the only Discoverer implementation in this package backed by a real
// device; piv_test.go and store_test.go exercise Bind against fakes
// instead, since a bootstrap run must succeed on a machine with no
// reader attached.
type HardwareDiscoverer struct{}

// Discover enumerates every connected smart card and opens the one
// whose serial matches. A card that fails to open or report its serial
// is skipped rather than aborting the scan, since a single malfunctioning
// reader among several must not hide the target device.
func (HardwareDiscoverer) Discover(serial string) (Device, error) {
	cards, err := govpiv.Cards()
	if err != nil {
		return nil, fmt.Errorf("piv: list cards: %w", err)
	}

	for _, card := range cards {
		yk, err := govpiv.Open(card)
		if err != nil {
			continue
		}
		got, err := yk.Serial()
		if err != nil {
			yk.Close()
			continue
		}
		if fmt.Sprintf("%d", got) == serial {
			return &hardwareDevice{yk: yk, managementKey: govpiv.DefaultManagementKey}, nil
		}
		yk.Close()
	}

	return nil, fmt.Errorf("piv: no card found with serial %s", serial)
}

// hardwareDevice adapts a go-piv YubiKey to the Device interface. It
// tracks the management key across calls within one Bind: SetManagementKey
// changes it from the factory default before GenerateKey needs it again.
type hardwareDevice struct {
	yk            *govpiv.YubiKey
	managementKey [24]byte
}

func (d *hardwareDevice) Serial() (uint32, error) { return d.yk.Serial() }

func (d *hardwareDevice) GenerateKey(slot Slot, alg Algorithm) (crypto.PublicKey, error) {
	pivSlot, err := toGoPivSlot(slot)
	if err != nil {
		return nil, err
	}
	pivAlg, err := toGoPivAlgorithm(alg)
	if err != nil {
		return nil, err
	}
	return d.yk.GenerateKey(d.managementKey, pivSlot, govpiv.Key{
		Algorithm:   pivAlg,
		PINPolicy:   govpiv.PINPolicyOnce,
		TouchPolicy: govpiv.TouchPolicyAlways,
	})
}

func (d *hardwareDevice) SetManagementKey(newKey [24]byte) error {
	if err := d.yk.SetManagementKey(d.managementKey, newKey); err != nil {
		return err
	}
	d.managementKey = newKey
	return nil
}

func (d *hardwareDevice) SetPIN(newPIN string) error {
	return d.yk.SetPIN(govpiv.DefaultPIN, newPIN)
}

func (d *hardwareDevice) SetPUK(newPUK string) error {
	return d.yk.SetPUK(govpiv.DefaultPUK, newPUK)
}

func (d *hardwareDevice) Close() error { return d.yk.Close() }

func toGoPivSlot(s Slot) (govpiv.Slot, error) {
	switch s {
	case SlotAuthentication:
		return govpiv.SlotAuthentication, nil
	case SlotSignature:
		return govpiv.SlotSignature, nil
	case SlotKeyManagement:
		return govpiv.SlotKeyManagement, nil
	case SlotCardAuth:
		return govpiv.SlotCardAuthentication, nil
	default:
		return govpiv.Slot{}, fmt.Errorf("piv: unknown slot %q", s)
	}
}

func toGoPivAlgorithm(a Algorithm) (govpiv.Algorithm, error) {
	switch a {
	case AlgorithmECP256:
		return govpiv.AlgorithmEC256, nil
	case AlgorithmECP384:
		return govpiv.AlgorithmEC384, nil
	default:
		return 0, fmt.Errorf("piv: unknown algorithm %q", a)
	}
}
