package graph

import "testing"

func TestScenarioF_GraphReplayCascadesDelete(t *testing.T) {
	alice, bob, key := NodeID("alice"), NodeID("bob"), NodeID("key")

	events := []Event{
		{Kind: DomainObjectCreated, NodeID: alice, AggregateType: "Person", Properties: map[string]string{"name": "Alice"}},
		{Kind: DomainObjectCreated, NodeID: bob, AggregateType: "Person"},
		{Kind: DomainObjectCreated, NodeID: key, AggregateType: "Key"},
		{Kind: DomainObjectUpdated, NodeID: alice, Property: "name", Value: "Alice Smith"},
		{Kind: RelationshipEstablished, SourceID: bob, TargetID: alice, RelationType: "reports_to"},
		{Kind: RelationshipEstablished, SourceID: alice, TargetID: key, RelationType: "owns_key"},
		{Kind: DomainObjectDeleted, NodeID: alice},
	}

	g := Replay(New(), events)

	if g.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes after replay, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Fatalf("expected 0 edges after cascade delete, got %d", g.EdgeCount())
	}
	if _, ok := g.GetNode(alice); ok {
		t.Fatal("expected alice to be removed")
	}
	if _, ok := g.GetNode(bob); !ok {
		t.Fatal("expected bob to survive replay")
	}
	if _, ok := g.GetNode(key); !ok {
		t.Fatal("expected key to survive replay")
	}
}

func TestApplyEventUpdateIncrementsVersion(t *testing.T) {
	alice := NodeID("alice")
	g := New().AddNode(DomainObject{ID: alice, AggregateType: "Person", Properties: map[string]string{"name": "Alice"}})

	g = ApplyEvent(g, Event{Kind: DomainObjectUpdated, NodeID: alice, Property: "name", Value: "Alice Smith"})
	obj, ok := g.GetNode(alice)
	if !ok {
		t.Fatal("expected node to still exist")
	}
	if obj.Version != 1 {
		t.Fatalf("expected version 1 after one update, got %d", obj.Version)
	}
	if obj.Properties["name"] != "Alice Smith" {
		t.Fatalf("expected overwritten property, got %q", obj.Properties["name"])
	}
}

func TestApplyEventUpdateOnMissingNodeIsNoOp(t *testing.T) {
	g := New()
	g2 := ApplyEvent(g, Event{Kind: DomainObjectUpdated, NodeID: "ghost", Property: "x", Value: "y"})
	if g2.NodeCount() != 0 {
		t.Fatal("expected update on a missing node to be a no-op")
	}
}

func TestRelationshipRemovedComparesExactTriple(t *testing.T) {
	a, b := NodeID("a"), NodeID("b")
	g := New().
		AddNode(DomainObject{ID: a, AggregateType: "Person"}).
		AddNode(DomainObject{ID: b, AggregateType: "Person"}).
		AddEdge(DomainRelationship{SourceID: a, TargetID: b, Type: "reports_to"}).
		AddEdge(DomainRelationship{SourceID: a, TargetID: b, Type: "owns_key"})

	g = ApplyEvent(g, Event{Kind: RelationshipRemoved, SourceID: a, TargetID: b, RelationType: "reports_to"})
	if g.EdgeCount() != 1 {
		t.Fatalf("expected one edge remaining, got %d", g.EdgeCount())
	}
	remaining := g.Edges()[0]
	if remaining.Type != "owns_key" {
		t.Fatalf("expected owns_key edge to remain, got %q", remaining.Type)
	}
}

func TestAddNodeDoesNotMutatePriorGraphValue(t *testing.T) {
	g1 := New()
	g2 := g1.AddNode(DomainObject{ID: "a", AggregateType: "Person"})
	if g1.NodeCount() != 0 {
		t.Fatal("expected original graph value to remain unmodified")
	}
	if g2.NodeCount() != 1 {
		t.Fatal("expected new graph value to contain the added node")
	}
}

func TestNodesByTypeAndTraverseEdges(t *testing.T) {
	alice, bob, key := NodeID("alice"), NodeID("bob"), NodeID("key")
	g := New().
		AddNode(DomainObject{ID: alice, AggregateType: "Person"}).
		AddNode(DomainObject{ID: bob, AggregateType: "Person"}).
		AddNode(DomainObject{ID: key, AggregateType: "Key"}).
		AddEdge(DomainRelationship{SourceID: bob, TargetID: alice, Type: "reports_to"}).
		AddEdge(DomainRelationship{SourceID: alice, TargetID: key, Type: "owns_key"})

	people := g.NodesByType("Person")
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}

	owned := g.TraverseEdges(alice, "owns_key", "Key")
	if len(owned) != 1 || owned[0].ID != key {
		t.Fatalf("expected alice to traverse to key, got %+v", owned)
	}
}
