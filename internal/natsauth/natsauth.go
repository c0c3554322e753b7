/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package natsauth builds the NATS operator -> account -> user JWT
// hierarchy and assembles the two-block .creds artifact used by NATS
// clients, mirroring the way the operator/account/user trust chain is
// minted in a self-hosted NATS deployment.
package natsauth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/jwt/v2"
	"github.com/nats-io/nkeys"
)

// Error reports a failure minting or encoding an entity in the hierarchy.
type Error struct {
	Op     string
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("natsauth: %s: %s", e.Op, e.Reason) }

// Identity is a minted nkey/JWT pair for one level of the hierarchy.
type Identity struct {
	ID        uuid.UUID
	Name      string
	PublicKey string
	Seed      []byte
	JWT       string
}

// Event is the causal event payload emitted by a minting operation.
type Event struct {
	Kind          string
	EntityID      uuid.UUID
	ParentID      uuid.UUID
	CorrelationID uuid.UUID
	CausationID   *uuid.UUID
}

func newKeyPair(prefix nkeys.PrefixByte) (nkeys.KeyPair, string, []byte, error) {
	var kp nkeys.KeyPair
	var err error
	switch prefix {
	case nkeys.PrefixByteOperator:
		kp, err = nkeys.CreateOperator()
	case nkeys.PrefixByteAccount:
		kp, err = nkeys.CreateAccount()
	case nkeys.PrefixByteUser:
		kp, err = nkeys.CreateUser()
	default:
		return nil, "", nil, fmt.Errorf("unsupported nkey prefix %v", prefix)
	}
	if err != nil {
		return nil, "", nil, err
	}

	pub, err := kp.PublicKey()
	if err != nil {
		return nil, "", nil, err
	}
	seed, err := kp.Seed()
	if err != nil {
		return nil, "", nil, err
	}
	return kp, pub, seed, nil
}

// GenerateOperator mints a new operator identity and its self-issued
// operator JWT, the root of trust for the deployment's NATS hierarchy.
func GenerateOperator(name string, correlationID uuid.UUID) (Identity, Event, error) {
	kp, pub, seed, err := newKeyPair(nkeys.PrefixByteOperator)
	if err != nil {
		return Identity{}, Event{}, &Error{Op: "generate_operator", Reason: err.Error()}
	}

	claims := jwt.NewOperatorClaims(pub)
	claims.Name = name
	claims.IssuedAt = time.Now().Unix()

	encoded, err := claims.Encode(kp)
	if err != nil {
		return Identity{}, Event{}, &Error{Op: "generate_operator", Reason: err.Error()}
	}

	identity := Identity{ID: uuid.New(), Name: name, PublicKey: pub, Seed: seed, JWT: encoded}
	event := Event{Kind: "NatsOperatorGenerated", EntityID: identity.ID, CorrelationID: correlationID}
	return identity, event, nil
}

// GenerateAccount mints an account identity signed by the operator.
func GenerateAccount(operator Identity, name string, correlationID uuid.UUID, causationID *uuid.UUID) (Identity, Event, error) {
	opKP, err := nkeys.FromSeed(operator.Seed)
	if err != nil {
		return Identity{}, Event{}, &Error{Op: "generate_account", Reason: err.Error()}
	}

	_, pub, seed, err := newKeyPair(nkeys.PrefixByteAccount)
	if err != nil {
		return Identity{}, Event{}, &Error{Op: "generate_account", Reason: err.Error()}
	}

	claims := jwt.NewAccountClaims(pub)
	claims.Name = name
	claims.Issuer = operator.PublicKey
	claims.IssuedAt = time.Now().Unix()

	encoded, err := claims.Encode(opKP)
	if err != nil {
		return Identity{}, Event{}, &Error{Op: "generate_account", Reason: err.Error()}
	}

	identity := Identity{ID: uuid.New(), Name: name, PublicKey: pub, Seed: seed, JWT: encoded}
	event := Event{Kind: "NatsAccountGenerated", EntityID: identity.ID, ParentID: operator.ID, CorrelationID: correlationID, CausationID: causationID}
	return identity, event, nil
}

// UserPermissions mirrors the publish/subscribe allow-lists granted to a
// minted user.
type UserPermissions struct {
	PublishAllow   []string
	SubscribeAllow []string
}

// GenerateUser mints a user identity signed by its account.
func GenerateUser(account Identity, name string, perms UserPermissions, correlationID uuid.UUID, causationID *uuid.UUID) (Identity, Event, error) {
	acctKP, err := nkeys.FromSeed(account.Seed)
	if err != nil {
		return Identity{}, Event{}, &Error{Op: "generate_user", Reason: err.Error()}
	}

	_, pub, seed, err := newKeyPair(nkeys.PrefixByteUser)
	if err != nil {
		return Identity{}, Event{}, &Error{Op: "generate_user", Reason: err.Error()}
	}

	claims := jwt.NewUserClaims(pub)
	claims.Name = name
	claims.Issuer = account.PublicKey
	claims.IssuedAt = time.Now().Unix()
	claims.Pub.Allow = perms.PublishAllow
	claims.Sub.Allow = perms.SubscribeAllow

	encoded, err := claims.Encode(acctKP)
	if err != nil {
		return Identity{}, Event{}, &Error{Op: "generate_user", Reason: err.Error()}
	}

	identity := Identity{ID: uuid.New(), Name: name, PublicKey: pub, Seed: seed, JWT: encoded}
	event := Event{Kind: "NatsUserGenerated", EntityID: identity.ID, ParentID: account.ID, CorrelationID: correlationID, CausationID: causationID}
	return identity, event, nil
}

// CredsFile renders the two-block .creds artifact NATS clients load at
// connect time, pairing a user's JWT with its nkey seed.
func CredsFile(user Identity) ([]byte, error) {
	return jwt.FormatUserConfig(user.JWT, user.Seed)
}
