/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package workflow_test

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cim-labs/keyforge/internal/piv"
	"github.com/cim-labs/keyforge/internal/workflow"
)

type ginkgoFakeDevice struct{ serial uint32 }

func (d *ginkgoFakeDevice) Serial() (uint32, error) { return d.serial, nil }

func (d *ginkgoFakeDevice) GenerateKey(slot piv.Slot, alg piv.Algorithm) (crypto.PublicKey, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &priv.PublicKey, nil
}

func (d *ginkgoFakeDevice) SetManagementKey(newKey [24]byte) error { return nil }
func (d *ginkgoFakeDevice) SetPIN(newPIN string) error             { return nil }
func (d *ginkgoFakeDevice) SetPUK(newPUK string) error             { return nil }
func (d *ginkgoFakeDevice) Close() error                           { return nil }

type ginkgoFakeDiscoverer struct{ fail bool }

func (f *ginkgoFakeDiscoverer) Discover(serial string) (piv.Device, error) {
	if f.fail {
		return nil, &piv.Error{Op: "discover", Reason: "no device present"}
	}
	return &ginkgoFakeDevice{serial: 87654321}, nil
}

func ginkgoTopology() workflow.Topology {
	return workflow.Topology{
		Organization: "Acme Corp",
		People: []workflow.PersonSpec{
			{ID: uuid.New(), Name: "Alice", Role: "security-admin", YubiKeySerial: "87654321"},
			{ID: uuid.New(), Name: "Bob", Role: "developer"},
		},
		NatsAccounts: []workflow.NatsAccountSpec{
			{Name: "platform", Users: []string{"alice", "bob"}},
		},
	}
}

var _ = Describe("Run's hardware phase", func() {
	var topology workflow.Topology

	BeforeEach(func() {
		topology = ginkgoTopology()
	})

	When("a device responds to discovery", func() {
		It("surfaces the bound device's generated secrets and excludes the unassigned person", func() {
			result, err := workflow.Run([]byte("passphrase-material-000000000000"), []byte("acme"), topology, &ginkgoFakeDiscoverer{}, logr.Discard())
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Secrets).To(HaveKey("87654321"))
			Expect(result.Secrets["87654321"].PIN).NotTo(BeEmpty())
			Expect(result.Secrets).To(HaveLen(1))
		})
	})

	When("discovery fails to find the device", func() {
		It("records a skipped binding and surfaces no secrets for it", func() {
			result, err := workflow.Run([]byte("passphrase-material-000000000000"), []byte("acme"), topology, &ginkgoFakeDiscoverer{fail: true}, logr.Discard())
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Bindings).To(HaveLen(1))
			Expect(result.Bindings[0].Skipped).To(BeTrue())
			Expect(result.Secrets).To(BeEmpty())
		})
	})
})
