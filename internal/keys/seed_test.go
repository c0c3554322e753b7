package keys

import (
	"crypto/elliptic"
	"testing"
)

func TestDeriveMasterSeedIsDeterministic(t *testing.T) {
	pass := []byte("correct horse battery staple, but much longer and random")
	salt := []byte("acme-corp")

	a := DeriveMasterSeed(pass, salt)
	b := DeriveMasterSeed(pass, salt)
	if a.bytes != b.bytes {
		t.Fatal("expected identical master seed for identical inputs")
	}
}

func TestDeriveMasterSeedVariesWithSalt(t *testing.T) {
	pass := []byte("correct horse battery staple, but much longer and random")
	a := DeriveMasterSeed(pass, []byte("org-a"))
	b := DeriveMasterSeed(pass, []byte("org-b"))
	if a.bytes == b.bytes {
		t.Fatal("expected different salts to produce different master seeds")
	}
}

func TestDeriveChildIsDeterministicAndLabelSeparated(t *testing.T) {
	master := DeriveMasterSeed([]byte("passphrase-material-000000000000"), []byte("acme"))

	a1 := master.DeriveChild("pki.root")
	a2 := master.DeriveChild("pki.root")
	if a1.bytes != a2.bytes {
		t.Fatal("expected same label to derive the same child")
	}

	b := master.DeriveChild("pki.intermediate")
	if a1.bytes == b.bytes {
		t.Fatal("expected different labels to derive different children")
	}
}

func TestHierarchicalPathDerivation(t *testing.T) {
	master := DeriveMasterSeed([]byte("passphrase-material-000000000000"), []byte("acme"))

	path1 := master.DeriveChild("a").DeriveChild("b").DeriveChild("c")
	path2 := master.DeriveChild("a").DeriveChild("b").DeriveChild("c")
	if path1.bytes != path2.bytes {
		t.Fatal("expected identical hierarchical paths to derive identically")
	}

	differentOrder := master.DeriveChild("a").DeriveChild("c")
	if path1.bytes == differentOrder.bytes {
		t.Fatal("expected different paths to diverge")
	}
}

func TestEd25519FromSeedIsDeterministic(t *testing.T) {
	master := DeriveMasterSeed([]byte("passphrase-material-000000000000"), []byte("acme"))
	child := master.DeriveChild("nats.operator")

	k1 := Ed25519FromSeed(child)
	k2 := Ed25519FromSeed(child)
	if string(k1) != string(k2) {
		t.Fatal("expected deterministic Ed25519 derivation")
	}
}

func TestECDSAFromSeedProducesValidKey(t *testing.T) {
	master := DeriveMasterSeed([]byte("passphrase-material-000000000000"), []byte("acme"))
	child := master.DeriveChild("pki.root")

	priv, err := ECDSAFromSeed(child, elliptic.P384())
	if err != nil {
		t.Fatal(err)
	}
	if !priv.Curve.IsOnCurve(priv.X, priv.Y) {
		t.Fatal("derived public point is not on the curve")
	}

	priv2, err := ECDSAFromSeed(child, elliptic.P384())
	if err != nil {
		t.Fatal(err)
	}
	if priv.D.Cmp(priv2.D) != 0 {
		t.Fatal("expected deterministic ECDSA derivation")
	}
}
