/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package workflow composes the credential, PKI, hardware, NATS, and
// graph-projection builders into the single linear bootstrap pipeline
// that turns an organization description into a fully provisioned
// identity hierarchy.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/causality"
	"github.com/cim-labs/keyforge/internal/graph"
	"github.com/cim-labs/keyforge/internal/keys"
	"github.com/cim-labs/keyforge/internal/natsauth"
	"github.com/cim-labs/keyforge/internal/piv"
	"github.com/cim-labs/keyforge/internal/pki"
	"github.com/cim-labs/keyforge/internal/statemachine"
)

// Phase names the five stages of the bootstrap pipeline, in run order.
type Phase string

const (
	PhaseCredentials Phase = "credentials"
	PhasePKI         Phase = "pki"
	PhaseHardware    Phase = "hardware"
	PhaseNATS        Phase = "nats"
	PhaseProjection  Phase = "projection"
)

// PersonSpec describes one person in the organization and, optionally,
// the YubiKey serial their role should be bound to.
type PersonSpec struct {
	ID            uuid.UUID
	Name          string
	Role          string
	YubiKeySerial string
}

// NatsAccountSpec describes one NATS account and the users it owns.
type NatsAccountSpec struct {
	Name  string
	Users []string
}

// UnitSpec describes one organizational unit: it receives its own
// intermediate CA, signed by the organization's root, and owns zero or
// more service endpoints.
type UnitSpec struct {
	ID        uuid.UUID
	Name      string
	Endpoints []ServiceEndpointSpec
}

// ServiceEndpointSpec describes one pre-declared service endpoint that
// receives a leaf server certificate signed by its unit's intermediate.
type ServiceEndpointSpec struct {
	CommonName string
	SANEntries []string
}

// Topology is the organization description the pipeline bootstraps
// from: the entity the root CA is issued for, its units (each with an
// intermediate CA and service endpoints), its people (each carrying a
// role and optional hardware assignment), and its NATS account/user
// layout.
type Topology struct {
	Organization string
	Units        []UnitSpec
	People       []PersonSpec
	NatsAccounts []NatsAccountSpec
}

// Envelope is the payload every causal event in a bootstrap run
// carries: which phase produced it, a stable kind string from the
// producing builder, and that builder's entity id.
type Envelope struct {
	Phase    Phase
	Kind     string
	EntityID uuid.UUID
}

// Result accumulates everything a bootstrap run produces. Because the
// pipeline fails forward, a Result returned alongside a non-nil error
// still holds every phase that completed before the failure — nothing
// already emitted is rolled back.
type Result struct {
	CorrelationID uuid.UUID
	Root          pki.Certificate
	Intermediates map[string]pki.Certificate
	ServerCerts   map[string]pki.Certificate
	Operator      natsauth.Identity
	Accounts      map[string]natsauth.Identity
	Users         map[string]natsauth.Identity
	Bindings      []piv.Binding
	Secrets       map[string]piv.Secrets
	Graph         graph.DomainGraph
	Chain         causality.CausalChain[Envelope]
	PersonKeys    map[uuid.UUID]PersonKey
	DeviceKeys    map[string][]piv.Binding
}

// PersonKey is the KeyMap entry for one person: every cryptographic
// surface provisioned on their behalf.
type PersonKey struct {
	PersonID  uuid.UUID
	NatsUser  string
	PivBound  bool
	PivSerial string
}

// Error reports a failure in one phase of the pipeline. The phase that
// failed is named so the caller can decide whether a partial Result is
// usable.
type Error struct {
	Phase  Phase
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("workflow: phase %q: %s", e.Phase, e.Reason) }

// Run executes the full bootstrap pipeline once, deriving all key
// material from passphrase+salt, and returns the accumulated Result.
// A single correlation id is shared across every emitted event for the
// run; each event's causation id points at its logical predecessor.
func Run(passphrase, salt []byte, topology Topology, discoverer piv.Discoverer, log logr.Logger) (Result, error) {
	defer keys.Zero(passphrase)

	correlationID := uuid.New()
	result := Result{
		CorrelationID: correlationID,
		Intermediates: make(map[string]pki.Certificate),
		ServerCerts:   make(map[string]pki.Certificate),
		Accounts:      make(map[string]natsauth.Identity),
		Users:         make(map[string]natsauth.Identity),
		PersonKeys:    make(map[uuid.UUID]PersonKey),
		DeviceKeys:    make(map[string][]piv.Binding),
		Secrets:       make(map[string]piv.Secrets),
		Graph:         graph.New(),
		Chain:         causality.NewChain[Envelope](),
	}

	log = log.WithValues("correlationID", correlationID)

	// Phase 1: credentials — derive the master seed. Nothing downstream
	// can start without it, so a failure here aborts immediately with an
	// empty Result.
	masterSeed, err := runPhase(log, PhaseCredentials, func() (keys.MasterSeed, causality.CausalEvent[Envelope], error) {
		seed := keys.DeriveMasterSeed(passphrase, salt)
		event := causality.NewEvent(Envelope{Phase: PhaseCredentials, Kind: "MasterSeedDerived", EntityID: correlationID})
		return seed, event, nil
	})
	if err != nil {
		return result, err
	}
	defer masterSeed.value.Zero()
	result.Chain, err = appendEvent(result.Chain, masterSeed.event)
	if err != nil {
		return result, &Error{Phase: PhaseCredentials, Reason: err.Error()}
	}
	rootEventID := masterSeed.event.ID()

	// Phase 2: PKI — one root CA for the organization.
	rootResult, err := runPhase(log, PhasePKI, func() (pki.Certificate, causality.CausalEvent[Envelope], error) {
		root, pkiEvent, err := pki.GenerateRootCA(masterSeed.value, pki.RootParams{
			Organization:  topology.Organization,
			CommonName:    topology.Organization + " Root CA",
			ValidityYears: 20,
			PathLen:       2,
		}, correlationID)
		if err != nil {
			return pki.Certificate{}, causality.CausalEvent[Envelope]{}, err
		}
		event := causality.CausedBy(Envelope{Phase: PhasePKI, Kind: pkiEvent.Kind, EntityID: root.ID}, rootEventID)
		return root, event, nil
	})
	if err != nil {
		return result, err
	}
	result.Root = rootResult.value
	result.Chain, err = appendEvent(result.Chain, rootResult.event)
	if err != nil {
		return result, &Error{Phase: PhasePKI, Reason: err.Error()}
	}
	result.Graph = result.Graph.AddNode(graph.DomainObject{
		ID: graph.NodeID(result.Root.ID.String()), AggregateType: "Certificate",
		Properties: map[string]string{"subject": result.Root.Subject, "is_ca": "true"},
	})
	pkiEventID := rootResult.event.ID()

	// Each declared unit gets its own intermediate CA signed by the root,
	// and each of that unit's pre-declared service endpoints gets a leaf
	// certificate signed by the unit's intermediate.
	for _, unit := range topology.Units {
		intermediate, intEvent, err := pki.GenerateIntermediateCA(masterSeed.value, pki.IntermediateParams{
			Organization:  topology.Organization,
			CommonName:    unit.Name,
			ValidityYears: 10,
			PathLen:       0,
		}, result.Root, correlationID, &pkiEventID)
		if err != nil {
			return result, &Error{Phase: PhasePKI, Reason: err.Error()}
		}
		result.Intermediates[unit.Name] = intermediate

		event := causality.CausedBy(Envelope{Phase: PhasePKI, Kind: intEvent.Kind, EntityID: intermediate.ID}, pkiEventID)
		result.Chain, err = appendEvent(result.Chain, event)
		if err != nil {
			return result, &Error{Phase: PhasePKI, Reason: err.Error()}
		}
		result.Graph = result.Graph.AddNode(graph.DomainObject{
			ID: graph.NodeID(intermediate.ID.String()), AggregateType: "Certificate",
			Properties: map[string]string{"subject": intermediate.Subject, "is_ca": "true", "unit": unit.Name},
		})
		result.Graph = result.Graph.AddEdge(graph.DomainRelationship{
			SourceID: graph.NodeID(result.Root.ID.String()), TargetID: graph.NodeID(intermediate.ID.String()), Type: "signs",
		})
		intermediateEventID := event.ID()

		for _, endpoint := range unit.Endpoints {
			leaf, leafEvent, err := pki.GenerateServerCertificate(masterSeed.value, pki.ServerParams{
				CommonName:   endpoint.CommonName,
				SANEntries:   endpoint.SANEntries,
				Organization: topology.Organization,
				OU:           unit.Name,
				ValidityDays: 397,
			}, intermediate, correlationID, &intermediateEventID)
			if err != nil {
				return result, &Error{Phase: PhasePKI, Reason: err.Error()}
			}
			result.ServerCerts[endpoint.CommonName] = leaf

			leafChainEvent := causality.CausedBy(Envelope{Phase: PhasePKI, Kind: leafEvent.Kind, EntityID: leaf.ID}, intermediateEventID)
			result.Chain, err = appendEvent(result.Chain, leafChainEvent)
			if err != nil {
				return result, &Error{Phase: PhasePKI, Reason: err.Error()}
			}
			result.Graph = result.Graph.AddNode(graph.DomainObject{
				ID: graph.NodeID(leaf.ID.String()), AggregateType: "Certificate",
				Properties: map[string]string{"subject": leaf.Subject, "is_ca": "false", "unit": unit.Name},
			})
			result.Graph = result.Graph.AddEdge(graph.DomainRelationship{
				SourceID: graph.NodeID(intermediate.ID.String()), TargetID: graph.NodeID(leaf.ID.String()), Type: "signs",
			})
		}
	}

	// Phase 3: hardware — bind a PIV slot per person with a YubiKey
	// assignment. Per-person failures are logged and skipped rather
	// than aborting the whole run (discovery failure is itself a
	// recorded Skipped binding, not an error).
	for _, person := range topology.People {
		if person.YubiKeySerial == "" {
			continue
		}
		plan := piv.PlanForRole(person.Role)
		secrets, err := piv.GenerateSecrets()
		if err != nil {
			return result, &Error{Phase: PhaseHardware, Reason: err.Error()}
		}

		binding, pivEvent, err := piv.Bind(discoverer, person.YubiKeySerial, plan, secrets, correlationID, nil)
		if err != nil {
			log.Error(err, "piv binding failed", "person", person.Name)
			continue
		}
		result.Bindings = append(result.Bindings, binding)
		result.DeviceKeys[person.YubiKeySerial] = append(result.DeviceKeys[person.YubiKeySerial], binding)
		if binding.Skipped {
			log.Info("piv binding skipped", "person", person.Name, "serial", person.YubiKeySerial, "reason", binding.SkipReason)
		}
		if !binding.Skipped {
			result.Secrets[person.YubiKeySerial] = secrets
		}

		event := causality.CausedBy(Envelope{Phase: PhaseHardware, Kind: pivEvent.Kind, EntityID: binding.ID}, pkiEventID)
		result.Chain, err = appendEvent(result.Chain, event)
		if err != nil {
			return result, &Error{Phase: PhaseHardware, Reason: err.Error()}
		}

		key := result.PersonKeys[person.ID]
		key.PersonID = person.ID
		key.PivBound = !binding.Skipped
		key.PivSerial = person.YubiKeySerial
		result.PersonKeys[person.ID] = key
	}
	PhasesTotal.WithLabelValues(string(PhaseHardware), "ok").Inc()

	// Phase 4: NATS — one operator for the organization, one account
	// per declared account, one user per declared user.
	natsResult, err := runPhase(log, PhaseNATS, func() (natsauth.Identity, causality.CausalEvent[Envelope], error) {
		op, opEvent, err := natsauth.GenerateOperator(topology.Organization, correlationID)
		if err != nil {
			return natsauth.Identity{}, causality.CausalEvent[Envelope]{}, err
		}
		event := causality.CausedBy(Envelope{Phase: PhaseNATS, Kind: opEvent.Kind, EntityID: op.ID}, pkiEventID)
		return op, event, nil
	})
	if err != nil {
		return result, err
	}
	result.Operator = natsResult.value
	result.Chain, err = appendEvent(result.Chain, natsResult.event)
	if err != nil {
		return result, &Error{Phase: PhaseNATS, Reason: err.Error()}
	}
	result.Graph = result.Graph.AddNode(graph.DomainObject{
		ID: graph.NodeID(result.Operator.ID.String()), AggregateType: "NatsOperator",
		Properties: map[string]string{"name": topology.Organization},
	})
	operatorEventID := natsResult.event.ID()

	for _, accountSpec := range topology.NatsAccounts {
		account, acctEvent, err := natsauth.GenerateAccount(result.Operator, accountSpec.Name, correlationID, nil)
		if err != nil {
			return result, &Error{Phase: PhaseNATS, Reason: err.Error()}
		}
		result.Accounts[accountSpec.Name] = account

		// Every account enters the lifecycle machine in Created and is
		// driven straight to Active: the bootstrap pipeline provisions
		// accounts ready for immediate use, never pre-suspended. Its
		// state name rides along on the graph node so a later suspend,
		// reactivate, or delete has a starting state to transition from.
		accountMachine := statemachine.NewNatsAccount(correlationID, result.Operator.ID)
		accountMachine, err = accountMachine.Activate(statemachine.NatsAccountPermissions{}, time.Now())
		if err != nil {
			return result, &Error{Phase: PhaseNATS, Reason: err.Error()}
		}

		event := causality.CausedBy(Envelope{Phase: PhaseNATS, Kind: acctEvent.Kind, EntityID: account.ID}, operatorEventID)
		result.Chain, err = appendEvent(result.Chain, event)
		if err != nil {
			return result, &Error{Phase: PhaseNATS, Reason: err.Error()}
		}
		result.Graph = result.Graph.AddNode(graph.DomainObject{
			ID: graph.NodeID(account.ID.String()), AggregateType: "NatsAccount",
			Properties: map[string]string{"name": accountSpec.Name, "state": accountMachine.Description()},
		})
		result.Graph = result.Graph.AddEdge(graph.DomainRelationship{
			SourceID: graph.NodeID(result.Operator.ID.String()), TargetID: graph.NodeID(account.ID.String()), Type: "manages_account",
		})

		for _, userName := range accountSpec.Users {
			user, userEvent, err := natsauth.GenerateUser(account, userName, natsauth.UserPermissions{}, correlationID, nil)
			if err != nil {
				return result, &Error{Phase: PhaseNATS, Reason: err.Error()}
			}
			result.Users[userName] = user

			userChainEvent := causality.CausedBy(Envelope{Phase: PhaseNATS, Kind: userEvent.Kind, EntityID: user.ID}, event.ID())
			result.Chain, err = appendEvent(result.Chain, userChainEvent)
			if err != nil {
				return result, &Error{Phase: PhaseNATS, Reason: err.Error()}
			}
			result.Graph = result.Graph.AddNode(graph.DomainObject{
				ID: graph.NodeID(user.ID.String()), AggregateType: "NatsUser",
				Properties: map[string]string{"name": userName},
			})
			result.Graph = result.Graph.AddEdge(graph.DomainRelationship{
				SourceID: graph.NodeID(account.ID.String()), TargetID: graph.NodeID(user.ID.String()), Type: "owns_user",
			})
		}
	}

	for _, person := range topology.People {
		var matched string
		for userName := range result.Users {
			if strings.EqualFold(userName, person.Name) {
				matched = userName
				break
			}
		}
		if matched == "" {
			continue
		}
		key := result.PersonKeys[person.ID]
		key.PersonID = person.ID
		key.NatsUser = matched
		result.PersonKeys[person.ID] = key
	}

	// Phase 5: projection is implicit above — every prior phase already
	// wrote its entities into result.Graph as it went, so replay and
	// live projection never diverge. This phase only records its own
	// completion event for the audit trail.
	projection, err := runPhase(log, PhaseProjection, func() (int, causality.CausalEvent[Envelope], error) {
		event := causality.CausedBy(Envelope{Phase: PhaseProjection, Kind: "GraphProjectionComplete", EntityID: correlationID}, operatorEventID)
		return result.Graph.NodeCount(), event, nil
	})
	if err != nil {
		return result, err
	}
	result.Chain, err = appendEvent(result.Chain, projection.event)
	if err != nil {
		return result, &Error{Phase: PhaseProjection, Reason: err.Error()}
	}

	return result, nil
}

type phaseOutcome[T any] struct {
	value T
	event causality.CausalEvent[Envelope]
}

func runPhase[T any](log logr.Logger, phase Phase, fn func() (T, causality.CausalEvent[Envelope], error)) (phaseOutcome[T], error) {
	start := time.Now()
	value, event, err := fn()
	duration := time.Since(start)
	PhaseDurationSeconds.WithLabelValues(string(phase)).Observe(duration.Seconds())

	if err != nil {
		PhasesTotal.WithLabelValues(string(phase), "error").Inc()
		log.Error(err, "bootstrap phase failed", "phase", phase)
		return phaseOutcome[T]{}, &Error{Phase: phase, Reason: err.Error()}
	}

	PhasesTotal.WithLabelValues(string(phase), "ok").Inc()
	log.Info("bootstrap phase complete", "phase", phase, "durationMs", duration.Milliseconds())
	return phaseOutcome[T]{value: value, event: event}, nil
}

func appendEvent(chain causality.CausalChain[Envelope], event causality.CausalEvent[Envelope]) (causality.CausalChain[Envelope], error) {
	return chain.Add(event)
}
