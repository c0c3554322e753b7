package statemachine

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRelationshipFullLifecycle(t *testing.T) {
	proposer := uuid.New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rel := NewRelationship(proposer, nil, now)

	rel, err := rel.Accept(now, nil, "reports_to", map[string]string{"team": "platform"})
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if !rel.IsActive() {
		t.Fatal("expected Active after accept")
	}

	rel, err = rel.Modify([]RelationshipChange{{Field: "team", OldValue: "platform", NewValue: "security"}}, now, proposer)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if rel.Description() != "Modified" {
		t.Fatal("expected Modified state")
	}

	rel, err = rel.ApplyModifications(now, nil)
	if err != nil {
		t.Fatalf("ApplyModifications: %v", err)
	}
	if !rel.IsActive() {
		t.Fatal("expected Active after applying modifications")
	}

	rel, err = rel.Suspend("investigation", now, proposer)
	if err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	rel, err = rel.Resume()
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if !rel.IsActive() {
		t.Fatal("expected Active after resume")
	}

	rel, err = rel.Terminate("offboarded", now, proposer)
	if err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	rel, err = rel.Archive(now)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if !rel.IsTerminal() {
		t.Fatal("expected terminal Archived state")
	}
}

func TestRelationshipRejectsEmptyModificationChangeList(t *testing.T) {
	now := time.Now()
	rel := NewRelationship(uuid.New(), nil, now)
	rel, _ = rel.Accept(now, nil, "reports_to", nil)

	if _, err := rel.Modify(nil, now, uuid.New()); err == nil {
		t.Fatal("expected ValidationFailed for empty change list")
	} else if _, ok := err.(*ValidationFailed); !ok {
		t.Fatalf("expected *ValidationFailed, got %T", err)
	}
}

func TestRelationshipRejectsInvertedTemporalBounds(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	rel := NewRelationship(uuid.New(), nil, now)

	if _, err := rel.Accept(now, &earlier, "reports_to", nil); err == nil {
		t.Fatal("expected ValidationFailed for valid_until before valid_from")
	} else if _, ok := err.(*ValidationFailed); !ok {
		t.Fatalf("expected *ValidationFailed, got %T", err)
	}
}

func TestRelationshipInvalidTransitionIsTypedError(t *testing.T) {
	now := time.Now()
	rel := NewRelationship(uuid.New(), nil, now)

	if _, err := rel.Terminate("x", now, uuid.New()); err == nil {
		t.Fatal("expected error terminating a Proposed relationship")
	} else if _, ok := err.(*InvalidTransition); !ok {
		t.Fatalf("expected *InvalidTransition, got %T", err)
	}
}

func TestRelationshipActiveWithinWindow(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	active := RelationshipActive{ValidFrom: start, ValidUntil: &end}

	if !active.WithinWindow(start.Add(24 * time.Hour)) {
		t.Fatal("expected time inside window")
	}
	if active.WithinWindow(end.Add(24 * time.Hour)) {
		t.Fatal("expected time outside window to fail")
	}
	if active.WithinWindow(start.Add(-time.Hour)) {
		t.Fatal("expected time before valid_from to fail")
	}
}
