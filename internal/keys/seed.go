/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package keys implements the deterministic key hierarchy: a memory-hard
// derivation of a master seed from an ephemeral passphrase, and a
// hash-based, label-separated derivation of child seeds beneath it.
package keys

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	// Argon2id parameters sized for an interactive, one-time bootstrap
	// derivation rather than a per-request authentication check.
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	seedLength   = 32
)

// MasterSeed is the root of the deterministic key hierarchy. It is
// produced once per organization and never persisted; only its derived
// children are retained.
type MasterSeed struct {
	bytes [seedLength]byte
}

// DeriveMasterSeed applies Argon2id to passphrase and salt. The same
// (passphrase, salt) pair always yields the same seed; passphrase must
// be discarded by the caller immediately after this call.
func DeriveMasterSeed(passphrase, salt []byte) MasterSeed {
	var seed MasterSeed
	derived := argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, seedLength)
	copy(seed.bytes[:], derived)
	Zero(derived)
	return seed
}

// Zero overwrites b's contents with zeros in place. It is the caller's
// wipe primitive for any secret-carrying buffer (a passphrase, a derived
// seed's scratch output) once the buffer has served its purpose.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Zero overwrites the master seed's bytes in place. Callers must invoke
// it once every derivation drawing from this seed has completed.
func (m *MasterSeed) Zero() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}

// Zero overwrites the child seed's bytes in place. Callers must invoke
// it once the key material derived from this seed has been produced.
func (c *ChildSeed) Zero() {
	for i := range c.bytes {
		c.bytes[i] = 0
	}
}

// ChildSeed is a deterministic descendant of a MasterSeed or another
// ChildSeed, separated by label.
type ChildSeed struct {
	bytes [seedLength]byte
}

// DeriveChild derives a labeled child of the master seed via HKDF-SHA256.
// The same seed and label always produce the same child; distinct labels
// produce independent children (label-injective with overwhelming
// probability).
func (m MasterSeed) DeriveChild(label string) ChildSeed {
	return deriveChild(m.bytes[:], label)
}

// DeriveChild derives a labeled grandchild of c, extending the
// hierarchical path (e.g. root.DeriveChild("a").DeriveChild("b")).
func (c ChildSeed) DeriveChild(label string) ChildSeed {
	return deriveChild(c.bytes[:], label)
}

// Bytes returns the raw seed material. Callers feeding this into a key
// generator own the resulting slice; the ChildSeed itself remains
// immutable.
func (c ChildSeed) Bytes() [seedLength]byte { return c.bytes }

func deriveChild(parent []byte, label string) ChildSeed {
	var child ChildSeed
	reader := hkdf.New(sha256.New, parent, nil, []byte(label))
	if _, err := io.ReadFull(reader, child.bytes[:]); err != nil {
		// hkdf.New with a valid hash and output length within the
		// hash's expansion limit cannot fail; a failure here indicates
		// a corrupted build, not a runtime condition to recover from.
		panic(fmt.Sprintf("keys: hkdf expansion failed: %v", err))
	}
	return child
}
