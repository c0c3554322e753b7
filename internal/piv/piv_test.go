package piv

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeDevice struct {
	serial  uint32
	mgmtSet bool
	pinSet  bool
	pukSet  bool
}

func (d *fakeDevice) Serial() (uint32, error) { return d.serial, nil }

func (d *fakeDevice) GenerateKey(slot Slot, alg Algorithm) (crypto.PublicKey, error) {
	curve := elliptic.P256()
	if alg == AlgorithmECP384 {
		curve = elliptic.P384()
	}
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &priv.PublicKey, nil
}

func (d *fakeDevice) SetManagementKey(newKey [24]byte) error { d.mgmtSet = true; return nil }
func (d *fakeDevice) SetPIN(newPIN string) error              { d.pinSet = true; return nil }
func (d *fakeDevice) SetPUK(newPUK string) error              { d.pukSet = true; return nil }
func (d *fakeDevice) Close() error                            { return nil }

type fakeDiscoverer struct {
	device Device
	err    error
}

func (f *fakeDiscoverer) Discover(serial string) (Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.device, nil
}

func TestPlanForRoleAssignsSlotsBySeparationOfDuties(t *testing.T) {
	root := PlanForRole("root-authority")
	if root.Skip || len(root.Slots) != 1 || root.Slots[0] != SlotSignature {
		t.Fatalf("unexpected root-authority plan: %+v", root)
	}

	backup := PlanForRole("backup-holder")
	if !backup.Skip {
		t.Fatal("expected backup-holder to be skipped for hardware binding")
	}

	unknown := PlanForRole("nonexistent-role")
	if !unknown.Skip {
		t.Fatal("expected unknown role to default to skipped")
	}
}

func TestBindSkipsRoleWithNoSlotAllocation(t *testing.T) {
	secrets, err := GenerateSecrets()
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}

	binding, event, err := Bind(&fakeDiscoverer{}, "0", PlanForRole("backup-holder"), secrets, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if !binding.Skipped {
		t.Fatal("expected skipped binding for backup-holder")
	}
	if event.Kind != "YubiKeyBindingSkipped" {
		t.Fatalf("unexpected event kind %q", event.Kind)
	}
}

func TestBindSkipsOnDiscoveryFailure(t *testing.T) {
	secrets, _ := GenerateSecrets()
	discoverer := &fakeDiscoverer{err: errors.New("no device found")}

	binding, event, err := Bind(discoverer, "12345678", PlanForRole("developer"), secrets, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if !binding.Skipped {
		t.Fatal("expected skipped binding on discovery failure")
	}
	if event.Kind != "YubiKeyDiscoverySkipped" {
		t.Fatalf("unexpected event kind %q", event.Kind)
	}
}

func TestBindGeneratesKeysInPlannedSlots(t *testing.T) {
	secrets, _ := GenerateSecrets()
	device := &fakeDevice{serial: 12345678}
	discoverer := &fakeDiscoverer{device: device}

	binding, event, err := Bind(discoverer, "12345678", PlanForRole("security-admin"), secrets, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if binding.Skipped {
		t.Fatal("expected a non-skipped binding")
	}
	if len(binding.Slots) != 2 || len(binding.PublicKeys) != 2 {
		t.Fatalf("expected two slots populated, got %+v", binding)
	}
	if !device.mgmtSet || !device.pinSet || !device.pukSet {
		t.Fatal("expected management key, PIN, and PUK to be rotated before key generation")
	}
	if event.Kind != "YubiKeyBindingEstablished" {
		t.Fatalf("unexpected event kind %q", event.Kind)
	}
}

func TestGenerateSecretsProducesDistinctValues(t *testing.T) {
	a, err := GenerateSecrets()
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}
	b, err := GenerateSecrets()
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}
	if a.PIN == b.PIN && a.PUK == b.PUK {
		t.Fatal("expected distinct secrets across calls")
	}
	if len(a.PIN) != 6 {
		t.Fatalf("expected 6-digit PIN, got %q", a.PIN)
	}
	if len(a.PUK) != 8 {
		t.Fatalf("expected 8-digit PUK, got %q", a.PUK)
	}
}
