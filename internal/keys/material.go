/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"math/big"
)

// Ed25519FromSeed deterministically derives an Ed25519 key pair from a
// child seed, for NATS nkey and code-signing material.
func Ed25519FromSeed(c ChildSeed) ed25519.PrivateKey {
	seed := c.Bytes()
	defer Zero(seed[:])
	return ed25519.NewKeyFromSeed(seed[:])
}

// ECDSAFromSeed deterministically derives an ECDSA key pair on the given
// curve from a child seed, for PKI leaf and CA material. The seed is
// read as a big-endian integer and reduced modulo the curve order (a
// zero result becomes 1), so the result is a valid private scalar for
// any NIST curve.
func ECDSAFromSeed(c ChildSeed, curve elliptic.Curve) (*ecdsa.PrivateKey, error) {
	seed := c.Bytes()
	defer Zero(seed[:])
	d := new(big.Int).SetBytes(seed[:])
	order := curve.Params().N
	d.Mod(d, order)
	if d.Sign() == 0 {
		d.SetInt64(1)
	}

	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = curve
	priv.D = d
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(d.Bytes())
	return priv, nil
}
