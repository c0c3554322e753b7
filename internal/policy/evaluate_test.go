package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/claims"
)

// Scenario C from the spec: a policy requiring Secret clearance, MFA, and
// a YubiKey present, evaluated against three contexts.
func TestScenarioC_MFAYubiKeyClearancePolicy(t *testing.T) {
	principal := uuid.New()
	p := New("infrastructure-change", claims.NewSet(claims.Of(claims.CanModifyInfrastructure)),
		[]Condition{
			MinimumSecurityClearance(Secret),
			MFAEnabled(true),
			YubiKeyRequired(true),
		}, 0)
	bindings := []Binding{NewBinding(p.ID, principal, PrincipalPerson)}
	policies := []Policy{p}

	cases := []struct {
		name       string
		ctx        Context
		wantActive bool
	}{
		{"confidential clearance insufficient", Context{Clearance: Confidential, MFAVerified: true, YubiKeyPresent: true}, false},
		{"missing yubikey", Context{Clearance: Secret, MFAVerified: true, YubiKeyPresent: false}, false},
		{"all conditions met", Context{Clearance: Secret, MFAVerified: true, YubiKeyPresent: true}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eval := Evaluate(policies, bindings, principal, PrincipalPerson, c.ctx)
			if c.wantActive {
				if len(eval.ActivePolicies) != 1 {
					t.Fatalf("expected policy active, got %d active", len(eval.ActivePolicies))
				}
				if eval.GrantedClaims.Len() != 1 || !eval.GrantedClaims.Contains(claims.Of(claims.CanModifyInfrastructure)) {
					t.Fatalf("expected granted claims to be exactly CanModifyInfrastructure")
				}
			} else {
				if len(eval.ActivePolicies) != 0 {
					t.Fatalf("expected policy inactive, got %d active", len(eval.ActivePolicies))
				}
				if eval.GrantedClaims.Len() != 0 {
					t.Fatalf("expected no granted claims, got %d", eval.GrantedClaims.Len())
				}
			}
		})
	}
}

// Scenario E from the spec: two unconditional policies bound to the same
// principal compose by claim union, ordered by descending priority.
func TestScenarioE_TwoPoliciesComposeByUnion(t *testing.T) {
	principal := uuid.New()
	policyA := New("dev-access", claims.NewSet(claims.Of(claims.CanAccessDevelopment), claims.Of(claims.CanSignCode)), nil, 100)
	policyB := New("prod-access", claims.NewSet(claims.Of(claims.CanAccessProduction), claims.Of(claims.CanSignCode)), nil, 200)

	policies := []Policy{policyA, policyB}
	bindings := []Binding{
		NewBinding(policyA.ID, principal, PrincipalPerson),
		NewBinding(policyB.ID, principal, PrincipalPerson),
	}

	eval := Evaluate(policies, bindings, principal, PrincipalPerson, Context{})

	if len(eval.ActivePolicies) != 2 {
		t.Fatalf("expected both policies active, got %d", len(eval.ActivePolicies))
	}
	if eval.ActivePolicies[0].Name != "prod-access" || eval.ActivePolicies[1].Name != "dev-access" {
		t.Fatalf("expected priority-descending order [prod-access, dev-access], got [%s, %s]",
			eval.ActivePolicies[0].Name, eval.ActivePolicies[1].Name)
	}
	if eval.GrantedClaims.Len() != 3 {
		t.Fatalf("expected 3 distinct granted claims, got %d", eval.GrantedClaims.Len())
	}
	for _, want := range []claims.Claim{
		claims.Of(claims.CanAccessDevelopment),
		claims.Of(claims.CanAccessProduction),
		claims.Of(claims.CanSignCode),
	} {
		if !eval.GrantedClaims.Contains(want) {
			t.Fatalf("missing expected granted claim %s", want)
		}
	}
}

func TestEvaluateIgnoresInactiveBindings(t *testing.T) {
	principal := uuid.New()
	p := New("x", claims.NewSet(claims.Of(claims.ReadUser)), nil, 0)
	b := NewBinding(p.ID, principal, PrincipalPerson)
	b.Active = false

	eval := Evaluate([]Policy{p}, []Binding{b}, principal, PrincipalPerson, Context{})
	if len(eval.ActivePolicies) != 0 || len(eval.InactivePolicies) != 0 {
		t.Fatal("inactive binding should be filtered before condition evaluation")
	}
}

func TestEvaluateIgnoresDisabledPolicies(t *testing.T) {
	principal := uuid.New()
	p := New("x", claims.NewSet(claims.Of(claims.ReadUser)), nil, 0)
	p.Enabled = false
	b := NewBinding(p.ID, principal, PrincipalPerson)

	eval := Evaluate([]Policy{p}, []Binding{b}, principal, PrincipalPerson, Context{})
	if len(eval.ActivePolicies) != 0 {
		t.Fatal("disabled policy should never become active")
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	principal := uuid.New()
	p := New("x", claims.NewSet(claims.Of(claims.ReadUser)), nil, 0)
	b := NewBinding(p.ID, principal, PrincipalPerson)
	ctx := Context{}

	first := Evaluate([]Policy{p}, []Binding{b}, principal, PrincipalPerson, ctx)
	second := Evaluate([]Policy{p}, []Binding{b}, principal, PrincipalPerson, ctx)

	if len(first.ActivePolicies) != len(second.ActivePolicies) || first.GrantedClaims.Len() != second.GrantedClaims.Len() {
		t.Fatal("evaluation should be deterministic for identical inputs")
	}
}

func TestWitnessCondition(t *testing.T) {
	secret := Secret
	cond := RequiresWitness(2, &secret)

	enough := Context{Witnesses: []Witness{
		{SubjectID: "a", Clearance: Secret},
		{SubjectID: "b", Clearance: Confidential},
		{SubjectID: "c", Clearance: TopSecret},
	}}
	if !cond.Holds(enough) {
		t.Fatal("expected 2 witnesses (a, c) meeting Secret clearance to satisfy the condition")
	}

	notEnough := Context{Witnesses: []Witness{
		{SubjectID: "a", Clearance: Secret},
		{SubjectID: "b", Clearance: Confidential},
	}}
	if cond.Holds(notEnough) {
		t.Fatal("expected only 1 witness meeting clearance floor to fail the condition")
	}
}

func TestTimeWindowCondition(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	cond := TimeWindow(start, end)

	inside := Context{EvaluatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	outside := Context{EvaluatedAt: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)}

	if !cond.Holds(inside) {
		t.Fatal("expected time inside window to hold")
	}
	if cond.Holds(outside) {
		t.Fatal("expected time outside window to fail")
	}
}
