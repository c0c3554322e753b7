package graph

import "testing"

func TestReachableFindsTransitiveSuccessors(t *testing.T) {
	adj := AdjacencyList{
		"a": {{To: "b", Weight: 1}},
		"b": {{To: "c", Weight: 1}},
		"c": {},
	}
	reach := Reachable(adj, "a")
	if len(reach) != 2 || reach[0] != "b" || reach[1] != "c" {
		t.Fatalf("unexpected reachable set: %v", reach)
	}
}

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	adj := AdjacencyList{
		"a": {{To: "b", Weight: 1}},
		"b": {{To: "c", Weight: 1}},
	}
	order, ok := TopologicalSort(adj)
	if !ok {
		t.Fatal("expected a valid topological order")
	}
	pos := map[NodeID]int{}
	for i, n := range order {
		pos[n] = i
	}
	if pos["a"] > pos["b"] || pos["b"] > pos["c"] {
		t.Fatalf("expected a before b before c, got %v", order)
	}
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	adj := AdjacencyList{
		"a": {{To: "b", Weight: 1}},
		"b": {{To: "a", Weight: 1}},
	}
	_, ok := TopologicalSort(adj)
	if ok {
		t.Fatal("expected cyclic graph to fail topological sort")
	}
}

func TestHasCycleDetectsAndRejectsFalsePositives(t *testing.T) {
	acyclic := AdjacencyList{"a": {{To: "b", Weight: 1}}, "b": {{To: "c", Weight: 1}}}
	if HasCycle(acyclic) {
		t.Fatal("expected acyclic graph to report no cycle")
	}

	cyclic := AdjacencyList{"a": {{To: "b", Weight: 1}}, "b": {{To: "a", Weight: 1}}}
	if !HasCycle(cyclic) {
		t.Fatal("expected cyclic graph to report a cycle")
	}
}

func TestStronglyConnectedComponentsGroupsCycle(t *testing.T) {
	adj := AdjacencyList{
		"a": {{To: "b", Weight: 1}},
		"b": {{To: "c", Weight: 1}},
		"c": {{To: "a", Weight: 1}},
		"d": {},
	}
	components := StronglyConnectedComponents(adj)

	var cycleComponent, singleton []NodeID
	for _, c := range components {
		if len(c) == 3 {
			cycleComponent = c
		}
		if len(c) == 1 {
			singleton = c
		}
	}
	if len(cycleComponent) != 3 {
		t.Fatalf("expected a 3-node component for the a-b-c cycle, got %v", components)
	}
	if len(singleton) != 1 || singleton[0] != "d" {
		t.Fatalf("expected a singleton component for d, got %v", components)
	}
}

func TestShortestPathFindsMinimumWeightRoute(t *testing.T) {
	adj := AdjacencyList{
		"a": {{To: "b", Weight: 5}, {To: "c", Weight: 1}},
		"c": {{To: "b", Weight: 1}},
		"b": {},
	}
	path, dist, ok := ShortestPath(adj, "a", "b")
	if !ok {
		t.Fatal("expected a path to exist")
	}
	if dist != 2 {
		t.Fatalf("expected shortest distance 2 via a->c->b, got %v", dist)
	}
	if len(path) != 3 || path[0] != "a" || path[1] != "c" || path[2] != "b" {
		t.Fatalf("unexpected path: %v", path)
	}
}

func TestShortestPathUnreachableTargetFails(t *testing.T) {
	adj := AdjacencyList{"a": {{To: "b", Weight: 1}}, "c": {}}
	_, _, ok := ShortestPath(adj, "a", "c")
	if ok {
		t.Fatal("expected unreachable target to fail")
	}
}

func TestGraphAdjacencyReflectsEdges(t *testing.T) {
	g := New().
		AddNode(DomainObject{ID: "a", AggregateType: "Person"}).
		AddNode(DomainObject{ID: "b", AggregateType: "Person"}).
		AddEdge(DomainRelationship{SourceID: "a", TargetID: "b", Type: "reports_to"})

	adj := g.Adjacency()
	if len(adj["a"]) != 1 || adj["a"][0].To != "b" {
		t.Fatalf("unexpected adjacency for a: %v", adj["a"])
	}
}
