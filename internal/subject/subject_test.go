package subject

import "testing"

func TestParseRejectsEmptyToken(t *testing.T) {
	if _, err := Parse("a..b"); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestParseRejectsInvalidCharacter(t *testing.T) {
	if _, err := Parse("a.b!.c"); err == nil {
		t.Fatal("expected error for invalid character")
	}
}

func TestParseRejectsMultiWildcardNotLast(t *testing.T) {
	if _, err := Parse("a.>.b"); err == nil {
		t.Fatal("expected error for '>' not at end")
	}
}

func TestParseAcceptsWildcards(t *testing.T) {
	s, err := Parse("ui.organization.*")
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsPattern() {
		t.Fatal("expected pattern")
	}
}

func TestMonoidIdentity(t *testing.T) {
	s := MustParse("a.b.c")
	if !s.Concat(Empty).Equal(s) {
		t.Fatal("right identity failed")
	}
	if !Empty.Concat(s).Equal(s) {
		t.Fatal("left identity failed")
	}
}

func TestMonoidAssociativity(t *testing.T) {
	a := MustParse("a")
	b := MustParse("b.c")
	c := MustParse("d")

	left := a.Concat(b).Concat(c)
	right := a.Concat(b.Concat(c))

	if !left.Equal(right) {
		t.Fatalf("associativity failed: %q != %q", left, right)
	}
}

func TestParseRenderRoundtrip(t *testing.T) {
	inputs := []string{
		"ui.organization.selected",
		"ui.organization.*",
		"ui.>",
		"a",
		"",
	}
	for _, in := range inputs {
		s, err := Parse(in)
		if err != nil {
			t.Fatalf("parse(%q): %v", in, err)
		}
		reparsed, err := Parse(s.Render())
		if err != nil {
			t.Fatalf("reparse(%q): %v", s.Render(), err)
		}
		if !s.Equal(reparsed) {
			t.Fatalf("roundtrip mismatch for %q: got %q", in, reparsed)
		}
	}
}

// Scenario B from the spec: specificity ordering over exact/single/multi
// wildcard patterns.
func TestSpecificityOrdering(t *testing.T) {
	exact := MustParse("ui.organization.selected")
	single := MustParse("ui.organization.*")
	multi := MustParse("ui.>")

	if !(exact.Specificity() > single.Specificity()) {
		t.Fatal("exact should be more specific than single wildcard")
	}
	if !(single.Specificity() > multi.Specificity()) {
		t.Fatal("single wildcard should be more specific than multi wildcard")
	}
}

func TestMatchesLiteral(t *testing.T) {
	pattern := MustParse("ui.organization.selected")
	subj := MustParse("ui.organization.selected")
	if !pattern.Matches(subj) {
		t.Fatal("expected exact match")
	}
	if pattern.Matches(MustParse("ui.organization.created")) {
		t.Fatal("expected no match on differing literal")
	}
}

func TestMatchesSingleWildcard(t *testing.T) {
	pattern := MustParse("ui.organization.*")
	if !pattern.Matches(MustParse("ui.organization.created")) {
		t.Fatal("expected single wildcard to match one token")
	}
	if pattern.Matches(MustParse("ui.organization.a.b")) {
		t.Fatal("single wildcard should not match multiple tokens")
	}
}

func TestMatchesMultiWildcardRequiresAtLeastOneToken(t *testing.T) {
	pattern := MustParse("ui.>")
	if pattern.Matches(MustParse("ui")) {
		t.Fatal("'>' should not match an empty remainder")
	}
	if !pattern.Matches(MustParse("ui.organization")) {
		t.Fatal("'>' should match one remaining token")
	}
	if !pattern.Matches(MustParse("ui.organization.created.now")) {
		t.Fatal("'>' should match several remaining tokens")
	}
}

func TestPropertySubjectRoundtripAndMonoid(t *testing.T) {
	candidates := []string{"a.b.c", "x", "service.events.created", "a.*.c", "a.>"}
	for _, raw := range candidates {
		s := MustParse(raw)
		if s.Render() != raw {
			t.Fatalf("render mismatch: %q -> %q", raw, s.Render())
		}
		if !s.Concat(Empty).Equal(s) || !Empty.Concat(s).Equal(s) {
			t.Fatalf("identity law failed for %q", raw)
		}
	}
}
