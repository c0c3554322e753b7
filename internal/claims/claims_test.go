package claims

import "testing"

func TestIsReadOnly(t *testing.T) {
	if !Of(ReadUser).IsReadOnly() {
		t.Fatal("ReadUser should be read-only")
	}
	if !Of(ViewLogs).IsReadOnly() {
		t.Fatal("ViewLogs should be read-only")
	}
	if !Of(SuperRead).IsReadOnly() {
		t.Fatal("SuperRead should be read-only")
	}
	if Of(CreateUser).IsReadOnly() {
		t.Fatal("CreateUser should not be read-only")
	}
	if Of(DeleteUser).IsReadOnly() {
		t.Fatal("DeleteUser should not be read-only")
	}
}

func TestIsDestructive(t *testing.T) {
	if !Of(DeleteUser).IsDestructive() {
		t.Fatal("DeleteUser should be destructive")
	}
	if !Of(RevokeKey).IsDestructive() {
		t.Fatal("RevokeKey should be destructive")
	}
	if !Of(SuperAdmin).IsDestructive() {
		t.Fatal("SuperAdmin should be destructive")
	}
	if Of(ReadUser).IsDestructive() {
		t.Fatal("ReadUser should not be destructive")
	}
	if Of(CreateUser).IsDestructive() {
		t.Fatal("CreateUser should not be destructive")
	}
}

func TestRequiresElevation(t *testing.T) {
	if !Of(ImpersonateUser).RequiresElevation() {
		t.Fatal("ImpersonateUser should require elevation")
	}
	if !Of(DeployToProduction).RequiresElevation() {
		t.Fatal("DeployToProduction should require elevation")
	}
	if !Of(ExportPrivateKey).RequiresElevation() {
		t.Fatal("ExportPrivateKey should require elevation")
	}
	if !Of(SuperAdmin).RequiresElevation() {
		t.Fatal("SuperAdmin should require elevation")
	}
	if Of(ReadUser).RequiresElevation() {
		t.Fatal("ReadUser should not require elevation")
	}
	if Of(CreateTask).RequiresElevation() {
		t.Fatal("CreateTask should not require elevation")
	}
}

func TestCustomClaimURI(t *testing.T) {
	c := NewCustom("acme", "widget", "rotate", "prod")
	if got, want := c.URI(), "claim:acme:widget:rotate:prod"; got != want {
		t.Fatalf("URI() = %q, want %q", got, want)
	}
	if !c.IsCustom() {
		t.Fatal("expected IsCustom true")
	}
	domain, resource, action, scope, ok := c.Custom()
	if !ok || domain != "acme" || resource != "widget" || action != "rotate" || scope != "prod" {
		t.Fatalf("unexpected custom fields: %q %q %q %q %v", domain, resource, action, scope, ok)
	}
}

func TestCustomClaimUnscopedURI(t *testing.T) {
	c := NewCustom("acme", "widget", "rotate", "")
	if got, want := c.URI(), "claim:acme:widget:rotate"; got != want {
		t.Fatalf("URI() = %q, want %q", got, want)
	}
}

func TestPredefinedClaimURI(t *testing.T) {
	if got, want := Of(ReadUser).URI(), "claim:cim:read_user"; got != want {
		t.Fatalf("URI() = %q, want %q", got, want)
	}
}

func TestCategoryAssignment(t *testing.T) {
	if Of(CreateUser).Category() != CategoryIdentity {
		t.Fatal("CreateUser should be Identity category")
	}
	if Of(CreateNATSOperator).Category() != CategoryNATS {
		t.Fatal("CreateNATSOperator should be NATS category")
	}
	if NewCustom("x", "y", "z", "").Category() != CategoryCustom {
		t.Fatal("custom claim should be Custom category")
	}
}

func TestSetUnionIsIdempotentAndCommutative(t *testing.T) {
	a := NewSet(Of(ReadUser), Of(CreateUser))
	b := NewSet(Of(CreateUser), Of(DeleteUser))

	ab := Union(a, b)
	ba := Union(b, a)

	if ab.Len() != ba.Len() {
		t.Fatalf("union not commutative in size: %d vs %d", ab.Len(), ba.Len())
	}
	if !ab.Contains(Of(ReadUser)) || !ab.Contains(Of(CreateUser)) || !ab.Contains(Of(DeleteUser)) {
		t.Fatal("union missing expected claims")
	}

	idempotent := Union(ab, ab)
	if idempotent.Len() != ab.Len() {
		t.Fatal("union should be idempotent")
	}
}

func TestSetSubset(t *testing.T) {
	small := NewSet(Of(ReadUser))
	big := NewSet(Of(ReadUser), Of(CreateUser))
	if !small.Subset(big) {
		t.Fatal("expected small to be a subset of big")
	}
	if big.Subset(small) {
		t.Fatal("expected big to not be a subset of small")
	}
}
