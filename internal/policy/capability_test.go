package policy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/claims"
	"github.com/cim-labs/keyforge/internal/roles"
	"github.com/cim-labs/keyforge/internal/subject"
)

func baseCapability(t *testing.T) Capability {
	t.Helper()
	role, err := roles.New("base", roles.Purpose{}, claims.NewSet(
		claims.Of(claims.ReadUser), claims.Of(claims.CreateUser), claims.Of(claims.DeleteUser),
	), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	return Capability{Role: role, Subject: subject.MustParse("app.>")}
}

func TestFoldWithNoPoliciesIsIdentity(t *testing.T) {
	cap := baseCapability(t)
	result := Fold(nil, cap, Restrict)
	if result.Role.Claims.Len() != cap.Role.Claims.Len() {
		t.Fatal("folding over no policies should leave the capability unchanged")
	}
}

func TestFoldNeverAddsPermissions(t *testing.T) {
	cap := baseCapability(t)
	restrictive := New("reader-only", claims.NewSet(claims.Of(claims.ReadUser)), nil, 0)

	result := Fold([]Policy{restrictive}, cap, Restrict)

	if !result.Role.Claims.Subset(cap.Role.Claims) {
		t.Fatal("policy application must never grant a claim absent from the base capability")
	}
	if result.Role.Claims.Len() != 1 || !result.Role.Claims.Contains(claims.Of(claims.ReadUser)) {
		t.Fatal("expected capability narrowed to exactly ReadUser")
	}
}

func TestFoldAppliesOutermostPolicyLast(t *testing.T) {
	cap := baseCapability(t)
	// innermost: keeps Read+Create; outermost: keeps Read only.
	// Since outermost applies last, the final result must respect the
	// outermost policy's restriction applied on top of the innermost's.
	innerKeepsReadCreate := New("inner", claims.NewSet(claims.Of(claims.ReadUser), claims.Of(claims.CreateUser)), nil, 0)
	outerKeepsReadOnly := New("outer", claims.NewSet(claims.Of(claims.ReadUser)), nil, 0)

	var applied []string
	recordingRestrict := func(c Capability, p Policy) Capability {
		applied = append(applied, p.Name)
		return Restrict(c, p)
	}
	result := Fold([]Policy{outerKeepsReadOnly, innerKeepsReadCreate}, cap, recordingRestrict)

	if len(applied) != 2 || applied[0] != "inner" || applied[1] != "outer" {
		t.Fatalf("expected application order [inner outer], got %v", applied)
	}
	if result.Role.Claims.Len() != 1 || !result.Role.Claims.Contains(claims.Of(claims.ReadUser)) {
		t.Fatal("outermost (first-listed) policy should apply last, yielding the most restrictive result")
	}
}
