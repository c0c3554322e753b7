package store

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/piv"
	"github.com/cim-labs/keyforge/internal/workflow"
)

type fakeDevice struct{}

func (d *fakeDevice) Serial() (uint32, error) { return 12345678, nil }
func (d *fakeDevice) GenerateKey(slot piv.Slot, alg piv.Algorithm) (crypto.PublicKey, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &priv.PublicKey, nil
}
func (d *fakeDevice) SetManagementKey(newKey [24]byte) error { return nil }
func (d *fakeDevice) SetPIN(newPIN string) error              { return nil }
func (d *fakeDevice) SetPUK(newPUK string) error              { return nil }
func (d *fakeDevice) Close() error                            { return nil }

type fakeDiscoverer struct{}

func (f *fakeDiscoverer) Discover(serial string) (piv.Device, error) { return &fakeDevice{}, nil }

func runTestWorkflow(t *testing.T) workflow.Result {
	t.Helper()
	topology := workflow.Topology{
		Organization: "Acme Corp",
		People: []workflow.PersonSpec{
			{ID: uuid.New(), Name: "alice", Role: "security-admin", YubiKeySerial: "12345678"},
		},
		NatsAccounts: []workflow.NatsAccountSpec{
			{Name: "platform", Users: []string{"alice"}},
		},
	}
	result, err := workflow.Run([]byte("passphrase-material-000000000000"), []byte("acme"), topology, &fakeDiscoverer{}, logr.Discard())
	if err != nil {
		t.Fatalf("workflow.Run: %v", err)
	}
	return result
}

func TestWriteProducesFullOutputLayout(t *testing.T) {
	result := runTestWorkflow(t)
	dir := t.TempDir()
	secrets := map[string]piv.Secrets{}

	if err := Write(dir, uuid.New(), "Acme Corp", result, secrets, "bootstrap-cli"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	expect := []string{
		"manifest.json",
		"bootstrap_output.json",
		filepath.Join("certificates", "root-ca", "root-ca.pem"),
		filepath.Join("certificates", "root-ca", "root-ca-key.pem"),
		filepath.Join("certificates", "chain.pem"),
		filepath.Join("nats", "operator", "operator.jwt"),
		filepath.Join("nats", "accounts", "platform.jwt"),
		filepath.Join("nats", "users", "alice.creds"),
		filepath.Join("keys", "key_map.json"),
		filepath.Join("events", "audit_trail.json"),
		filepath.Join("graph", "projection.json"),
		"SECRETS.json",
	}
	for _, rel := range expect {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("expected artifact %s: %v", rel, err)
		}
	}
}

func TestWriteManifestContainsOrganizationName(t *testing.T) {
	result := runTestWorkflow(t)
	dir := t.TempDir()

	if err := Write(dir, uuid.New(), "Acme Corp", result, nil, "bootstrap-cli"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if manifest.OrganizationName != "Acme Corp" {
		t.Fatalf("unexpected organization name %q", manifest.OrganizationName)
	}
}

func TestLoadGraphRoundTripsWrittenSnapshot(t *testing.T) {
	result := runTestWorkflow(t)
	dir := t.TempDir()

	if err := Write(dir, uuid.New(), "Acme Corp", result, nil, "bootstrap-cli"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := LoadGraph(dir)
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if loaded.NodeCount() != result.Graph.NodeCount() {
		t.Fatalf("expected %d nodes, got %d", result.Graph.NodeCount(), loaded.NodeCount())
	}
	if loaded.EdgeCount() != result.Graph.EdgeCount() {
		t.Fatalf("expected %d edges, got %d", result.Graph.EdgeCount(), loaded.EdgeCount())
	}
}

func TestWriteKeyMapLinksDeviceKeys(t *testing.T) {
	result := runTestWorkflow(t)
	dir := t.TempDir()

	if err := Write(dir, uuid.New(), "Acme Corp", result, nil, "bootstrap-cli"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "keys", "key_map.json"))
	if err != nil {
		t.Fatalf("read key_map: %v", err)
	}
	var keyMap KeyMap
	if err := json.Unmarshal(raw, &keyMap); err != nil {
		t.Fatalf("unmarshal key_map: %v", err)
	}
	if len(keyMap.YubikeyKeys["12345678"]) == 0 {
		t.Fatal("expected yubikey_keys entry for the bound serial")
	}
}
