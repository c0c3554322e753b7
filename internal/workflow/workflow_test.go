package workflow

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/piv"
)

type fakeDevice struct{ serial uint32 }

func (d *fakeDevice) Serial() (uint32, error) { return d.serial, nil }

func (d *fakeDevice) GenerateKey(slot piv.Slot, alg piv.Algorithm) (crypto.PublicKey, error) {
	curve := elliptic.P256()
	if alg == piv.AlgorithmECP384 {
		curve = elliptic.P384()
	}
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &priv.PublicKey, nil
}

func (d *fakeDevice) SetManagementKey(newKey [24]byte) error { return nil }
func (d *fakeDevice) SetPIN(newPIN string) error              { return nil }
func (d *fakeDevice) SetPUK(newPUK string) error              { return nil }
func (d *fakeDevice) Close() error                            { return nil }

type fakeDiscoverer struct{ fail bool }

func (f *fakeDiscoverer) Discover(serial string) (piv.Device, error) {
	if f.fail {
		return nil, errNoDevice
	}
	return &fakeDevice{serial: 12345678}, nil
}

var errNoDevice = &piv.Error{Op: "discover", Reason: "no device present"}

func testTopology() Topology {
	return Topology{
		Organization: "Acme Corp",
		Units: []UnitSpec{
			{
				ID:   uuid.New(),
				Name: "Platform Engineering",
				Endpoints: []ServiceEndpointSpec{
					{CommonName: "api.acme.internal", SANEntries: []string{"api.acme.internal", "10.0.0.5"}},
				},
			},
		},
		People: []PersonSpec{
			{ID: uuid.New(), Name: "Alice", Role: "security-admin", YubiKeySerial: "12345678"},
			{ID: uuid.New(), Name: "Bob", Role: "developer"},
		},
		NatsAccounts: []NatsAccountSpec{
			{Name: "platform", Users: []string{"alice", "bob"}},
		},
	}
}

func TestRunProducesFullBootstrapResult(t *testing.T) {
	topology := testTopology()
	result, err := Run([]byte("passphrase-material-000000000000"), []byte("acme"), topology, &fakeDiscoverer{}, logr.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Root.Subject == "" {
		t.Fatal("expected a root certificate")
	}
	if result.Operator.PublicKey == "" {
		t.Fatal("expected a NATS operator")
	}
	if _, ok := result.Accounts["platform"]; !ok {
		t.Fatal("expected platform account to be generated")
	}
	if len(result.Users) != 2 {
		t.Fatalf("expected 2 NATS users, got %d", len(result.Users))
	}
	if len(result.Bindings) != 1 {
		t.Fatalf("expected 1 PIV binding (only alice has a serial), got %d", len(result.Bindings))
	}
	if result.Graph.NodeCount() == 0 {
		t.Fatal("expected the graph to be populated during the run")
	}
	if result.Chain.Len() == 0 {
		t.Fatal("expected causal events to be recorded")
	}
	if _, valid := result.Chain.TopologicalOrder(); !valid {
		t.Fatal("expected the recorded chain to be internally valid")
	}
	if _, ok := result.Intermediates["Platform Engineering"]; !ok {
		t.Fatal("expected an intermediate CA for the declared unit")
	}
	if _, ok := result.ServerCerts["api.acme.internal"]; !ok {
		t.Fatal("expected a leaf certificate for the declared service endpoint")
	}
	alice := personByName(topology, "Alice")
	if got := result.PersonKeys[alice.ID].NatsUser; got != "alice" {
		t.Fatalf("expected Alice's person key to link to NATS user alice, got %q", got)
	}
	if _, ok := result.Secrets["12345678"]; !ok {
		t.Fatal("expected the bound device's generated PIN/PUK/management key to be surfaced on the result")
	}
}

func personByName(topology Topology, name string) PersonSpec {
	for _, p := range topology.People {
		if p.Name == name {
			return p
		}
	}
	return PersonSpec{}
}

func TestRunSkipsHardwareBindingOnDiscoveryFailure(t *testing.T) {
	result, err := Run([]byte("passphrase-material-000000000000"), []byte("acme"), testTopology(), &fakeDiscoverer{fail: true}, logr.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Bindings) != 1 {
		t.Fatalf("expected the skipped binding to still be recorded, got %d", len(result.Bindings))
	}
	if !result.Bindings[0].Skipped {
		t.Fatal("expected binding to be marked skipped")
	}
}

func TestRunIsDeterministicGivenSameSeedMaterial(t *testing.T) {
	topology := testTopology()
	r1, err := Run([]byte("passphrase-material-000000000000"), []byte("acme"), topology, &fakeDiscoverer{}, logr.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r2, err := Run([]byte("passphrase-material-000000000000"), []byte("acme"), topology, &fakeDiscoverer{}, logr.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r1.Root.Key.D.Cmp(r2.Root.Key.D) != 0 {
		t.Fatal("expected identical seed material to derive an identical root private scalar")
	}
}
