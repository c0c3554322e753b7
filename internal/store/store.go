/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package store writes a completed bootstrap Result to disk in the
// fixed output layout: a manifest, PEM certificate tree, NATS JWT/creds
// tree, key map, audit trail, and a separately-written secrets file.
// The core prescribes the content of each artifact, not its form; JSON
// and PEM are this package's chosen serialization, not the domain's.
package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/graph"
	"github.com/cim-labs/keyforge/internal/natsauth"
	"github.com/cim-labs/keyforge/internal/piv"
	"github.com/cim-labs/keyforge/internal/pki"
	"github.com/cim-labs/keyforge/internal/workflow"
)

// GraphSnapshot is the serialized form of a DomainGraph: every node and
// edge the run projected, persisted so `keyforgectl graph` can query a
// completed run's projection without re-running the bootstrap.
type GraphSnapshot struct {
	Nodes []graph.DomainObject       `json:"nodes"`
	Edges []graph.DomainRelationship `json:"edges"`
}

// Manifest is the top-level manifest.json record.
type Manifest struct {
	Version          string    `json:"version"`
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedBy        string    `json:"created_by"`
}

// KeyInfo is one entry in key_map.json's keys mapping.
type KeyInfo struct {
	ID   uuid.UUID `json:"id"`
	Kind string    `json:"kind"`
	Name string    `json:"name"`
}

// KeyMap is the content of keys/key_map.json.
type KeyMap struct {
	Keys         map[uuid.UUID]KeyInfo `json:"keys"`
	PersonKeys   map[string][]uuid.UUID `json:"person_keys"`
	YubikeyKeys  map[string][]uuid.UUID `json:"yubikey_keys"`
}

// SecretsFile is the content of SECRETS.json.
type SecretsFile struct {
	YubikeyPins []SecretsPinEntry `json:"yubikey_pins"`
	CreatedAt   time.Time         `json:"created_at"`
	Warning     string            `json:"warning"`
}

// SecretsPinEntry is one device's randomly-generated PIN/PUK/mgmt-key
// triple, the only copy of which is written here.
type SecretsPinEntry struct {
	Serial        string `json:"serial"`
	PIN           string `json:"pin"`
	PUK           string `json:"puk"`
	ManagementKey string `json:"management_key"`
	AssignedTo    string `json:"assigned_to"`
	Role          string `json:"role"`
}

// AuditEvent is one entry in events/audit_trail.json: the wire form of
// a causal event, tagged by event_type per spec's event log format.
type AuditEvent struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	EntityID  uuid.UUID `json:"entity_id"`
	Phase     string    `json:"phase"`
}

// CertificateSummary is one certificate's identifying fields as they
// appear in bootstrap_output.json, without key material.
type CertificateSummary struct {
	ID          uuid.UUID `json:"id"`
	Subject     string    `json:"subject"`
	Issuer      string    `json:"issuer"`
	Fingerprint string    `json:"fingerprint"`
	IsCA        bool      `json:"is_ca"`
}

// NatsSummary reports how many entities the NATS phase produced,
// without exposing key or JWT material.
type NatsSummary struct {
	OperatorName string   `json:"operator_name"`
	Accounts     []string `json:"accounts"`
	Users        []string `json:"users"`
}

// GraphSummary reports the projected graph's size.
type GraphSummary struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// BootstrapOutput is the run-level summary written to
// bootstrap_output.json: every entity a run produced, referenced by id
// rather than by key material, so it is safe to share without the
// SECRETS.json/creds caveats the rest of the output tree carries.
type BootstrapOutput struct {
	CorrelationID   uuid.UUID            `json:"correlation_id"`
	OrganizationID  uuid.UUID            `json:"organization_id"`
	RootCA          CertificateSummary   `json:"root_ca"`
	Intermediates   []CertificateSummary `json:"intermediates"`
	ServerCerts     []CertificateSummary `json:"server_certificates"`
	Nats            NatsSummary          `json:"nats"`
	BindingCount    int                  `json:"piv_binding_count"`
	SkippedBindings int                  `json:"piv_skipped_count"`
	Graph           GraphSummary         `json:"graph"`
}

var unsafeSubjectChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

func sanitize(subject string) string {
	return unsafeSubjectChars.ReplaceAllString(subject, "_")
}

// Write renders result into the fixed output layout under dir.
func Write(dir string, organizationID uuid.UUID, organizationName string, result workflow.Result, secrets map[string]piv.Secrets, createdBy string) error {
	dirs := []string{
		dir,
		filepath.Join(dir, "certificates", "root-ca"),
		filepath.Join(dir, "certificates", "intermediate"),
		filepath.Join(dir, "certificates", "server"),
		filepath.Join(dir, "nats", "operator"),
		filepath.Join(dir, "nats", "accounts"),
		filepath.Join(dir, "nats", "users"),
		filepath.Join(dir, "keys"),
		filepath.Join(dir, "events"),
		filepath.Join(dir, "graph"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return fmt.Errorf("store: mkdir %s: %w", d, err)
		}
	}

	if err := writeJSON(filepath.Join(dir, "manifest.json"), Manifest{
		Version:          "1",
		OrganizationID:   organizationID,
		OrganizationName: organizationName,
		CreatedAt:        timeNow(),
		CreatedBy:        createdBy,
	}); err != nil {
		return err
	}

	if err := writeCertificates(dir, result); err != nil {
		return err
	}
	if err := writeNats(dir, result); err != nil {
		return err
	}
	if err := writeKeyMap(dir, result); err != nil {
		return err
	}
	if err := writeAuditTrail(dir, result); err != nil {
		return err
	}
	if err := writeSecrets(dir, result, secrets); err != nil {
		return err
	}
	if err := writeBootstrapOutput(dir, organizationID, result); err != nil {
		return err
	}
	if err := writeGraphSnapshot(dir, result); err != nil {
		return err
	}
	return nil
}

func writeGraphSnapshot(dir string, result workflow.Result) error {
	snapshot := GraphSnapshot{
		Nodes: result.Graph.Nodes(),
		Edges: result.Graph.Edges(),
	}
	return writeJSON(filepath.Join(dir, "graph", "projection.json"), snapshot)
}

// LoadGraph reads a previously-written graph/projection.json and
// rebuilds the in-memory DomainGraph it describes.
func LoadGraph(dir string) (graph.DomainGraph, error) {
	path := filepath.Join(dir, "graph", "projection.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return graph.DomainGraph{}, fmt.Errorf("store: read %s: %w", path, err)
	}
	var snapshot GraphSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return graph.DomainGraph{}, fmt.Errorf("store: parse %s: %w", path, err)
	}

	g := graph.New()
	for _, node := range snapshot.Nodes {
		g = g.AddNode(node)
	}
	for _, edge := range snapshot.Edges {
		g = g.AddEdge(edge)
	}
	return g, nil
}

// SaveGraph overwrites a previously-written graph/projection.json with g,
// letting a later command (e.g. an account lifecycle transition) persist
// a change to the projection without re-running the bootstrap.
func SaveGraph(dir string, g graph.DomainGraph) error {
	snapshot := GraphSnapshot{Nodes: g.Nodes(), Edges: g.Edges()}
	return writeJSON(filepath.Join(dir, "graph", "projection.json"), snapshot)
}

func certSummary(c pki.Certificate) CertificateSummary {
	return CertificateSummary{ID: c.ID, Subject: c.Subject, Issuer: c.Issuer, Fingerprint: c.Fingerprint, IsCA: c.IsCA}
}

func writeBootstrapOutput(dir string, organizationID uuid.UUID, result workflow.Result) error {
	output := BootstrapOutput{
		CorrelationID:  result.CorrelationID,
		OrganizationID: organizationID,
		RootCA:         certSummary(result.Root),
		Nats: NatsSummary{
			OperatorName: result.Operator.Name,
		},
		Graph: GraphSummary{NodeCount: result.Graph.NodeCount(), EdgeCount: result.Graph.EdgeCount()},
	}

	for _, intermediate := range result.Intermediates {
		output.Intermediates = append(output.Intermediates, certSummary(intermediate))
	}
	for _, leaf := range result.ServerCerts {
		output.ServerCerts = append(output.ServerCerts, certSummary(leaf))
	}
	for name := range result.Accounts {
		output.Nats.Accounts = append(output.Nats.Accounts, name)
	}
	for name := range result.Users {
		output.Nats.Users = append(output.Nats.Users, name)
	}
	for _, binding := range result.Bindings {
		if binding.Skipped {
			output.SkippedBindings++
			continue
		}
		output.BindingCount++
	}

	return writeJSON(filepath.Join(dir, "bootstrap_output.json"), output)
}

func writeCertificates(dir string, result workflow.Result) error {
	rootPath := filepath.Join(dir, "certificates", "root-ca", "root-ca.pem")
	if err := os.WriteFile(rootPath, result.Root.PEM, 0o640); err != nil {
		return fmt.Errorf("store: write root cert: %w", err)
	}

	rootKey, err := pki.KeyPEM(result.Root)
	if err != nil {
		return fmt.Errorf("store: encode root key: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "certificates", "root-ca", "root-ca-key.pem"), rootKey, 0o600); err != nil {
		return fmt.Errorf("store: write root key: %w", err)
	}

	chain := pki.ChainPEM(result.Root)
	intermediates := make([]pki.Certificate, 0, len(result.Intermediates))
	for name, intermediate := range result.Intermediates {
		path := filepath.Join(dir, "certificates", "intermediate", sanitize(intermediate.Subject)+".pem")
		if err := os.WriteFile(path, intermediate.PEM, 0o640); err != nil {
			return fmt.Errorf("store: write intermediate cert %s: %w", name, err)
		}
		intermediates = append(intermediates, intermediate)
	}
	chain = append(chain, pki.ChainPEM(intermediates...)...)
	if err := os.WriteFile(filepath.Join(dir, "certificates", "chain.pem"), chain, 0o640); err != nil {
		return fmt.Errorf("store: write chain: %w", err)
	}

	for name, leaf := range result.ServerCerts {
		path := filepath.Join(dir, "certificates", "server", sanitize(name)+".pem")
		if err := os.WriteFile(path, leaf.PEM, 0o640); err != nil {
			return fmt.Errorf("store: write server cert %s: %w", name, err)
		}
	}
	return nil
}

func writeNats(dir string, result workflow.Result) error {
	if result.Operator.JWT != "" {
		if err := os.WriteFile(filepath.Join(dir, "nats", "operator", "operator.jwt"), []byte(result.Operator.JWT), 0o640); err != nil {
			return fmt.Errorf("store: write operator jwt: %w", err)
		}
	}

	for name, account := range result.Accounts {
		path := filepath.Join(dir, "nats", "accounts", sanitize(name)+".jwt")
		if err := os.WriteFile(path, []byte(account.JWT), 0o640); err != nil {
			return fmt.Errorf("store: write account jwt %s: %w", name, err)
		}
	}

	for name, user := range result.Users {
		creds, err := natsauth.CredsFile(user)
		if err != nil {
			return fmt.Errorf("store: render creds for %s: %w", name, err)
		}
		path := filepath.Join(dir, "nats", "users", sanitize(name)+".creds")
		if err := os.WriteFile(path, creds, 0o600); err != nil {
			return fmt.Errorf("store: write creds %s: %w", name, err)
		}
	}
	return nil
}

func writeKeyMap(dir string, result workflow.Result) error {
	keyMap := KeyMap{
		Keys:        make(map[uuid.UUID]KeyInfo),
		PersonKeys:  make(map[string][]uuid.UUID),
		YubikeyKeys: make(map[string][]uuid.UUID),
	}

	keyMap.Keys[result.Root.ID] = KeyInfo{ID: result.Root.ID, Kind: "certificate", Name: result.Root.Subject}
	keyMap.Keys[result.Operator.ID] = KeyInfo{ID: result.Operator.ID, Kind: "nats_operator", Name: result.Operator.Name}
	for _, account := range result.Accounts {
		keyMap.Keys[account.ID] = KeyInfo{ID: account.ID, Kind: "nats_account", Name: account.Name}
	}
	for _, user := range result.Users {
		keyMap.Keys[user.ID] = KeyInfo{ID: user.ID, Kind: "nats_user", Name: user.Name}
	}

	for personID, personKey := range result.PersonKeys {
		if personKey.NatsUser != "" {
			if user, ok := result.Users[personKey.NatsUser]; ok {
				keyMap.PersonKeys[personID.String()] = append(keyMap.PersonKeys[personID.String()], user.ID)
			}
		}
	}

	for serial, bindings := range result.DeviceKeys {
		for _, binding := range bindings {
			keyMap.YubikeyKeys[serial] = append(keyMap.YubikeyKeys[serial], binding.ID)
		}
	}

	return writeJSON(filepath.Join(dir, "keys", "key_map.json"), keyMap)
}

func writeAuditTrail(dir string, result workflow.Result) error {
	var events []AuditEvent
	for _, e := range result.Chain.Events() {
		data := e.Data()
		events = append(events, AuditEvent{
			EventType: data.Kind,
			Timestamp: timeNow(),
			EntityID:  data.EntityID,
			Phase:     string(data.Phase),
		})
	}
	return writeJSON(filepath.Join(dir, "events", "audit_trail.json"), events)
}

func writeSecrets(dir string, result workflow.Result, secrets map[string]piv.Secrets) error {
	file := SecretsFile{
		CreatedAt: timeNow(),
		Warning:   "This file contains the only copy of each device's PIN/PUK/management key. The master passphrase is never written anywhere.",
	}

	for serial, bindings := range result.DeviceKeys {
		sec, ok := secrets[serial]
		if !ok || len(bindings) == 0 {
			continue
		}
		binding := bindings[0]
		file.YubikeyPins = append(file.YubikeyPins, SecretsPinEntry{
			Serial:        serial,
			PIN:           sec.PIN,
			PUK:           sec.PUK,
			ManagementKey: base64.StdEncoding.EncodeToString(sec.ManagementKey[:]),
			AssignedTo:    binding.Role,
			Role:          binding.Role,
		})
	}

	return writeJSON(filepath.Join(dir, "SECRETS.json"), file)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", path, err)
	}
	mode := os.FileMode(0o640)
	if filepath.Base(path) == "SECRETS.json" {
		mode = 0o600
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

// timeNow is a seam so tests can observe a fixed manifest timestamp
// without the store package depending on a clock abstraction elsewhere.
var timeNow = time.Now
