/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package graph

// EventKind is the fixed taxonomy of events the graph can replay.
type EventKind int

const (
	DomainObjectCreated EventKind = iota
	DomainObjectUpdated
	DomainObjectDeleted
	RelationshipEstablished
	RelationshipRemoved
)

// Event is one entry in the causal event stream, restricted to the
// fields the graph projection needs; the causal substrate carries the
// rest (id, timestamp, dependencies) alongside this payload.
type Event struct {
	Kind          EventKind
	NodeID        NodeID
	AggregateType string
	Properties    map[string]string
	Property      string
	Value         string
	SourceID      NodeID
	TargetID      NodeID
	RelationType  string
}

// ApplyEvent is pure: folding it over a graph produces a new graph,
// never mutating the input. Replaying the full event log left-to-right
// reproduces the final graph, because the fixed taxonomy below is
// order-independent for any topologically consistent ordering:
// Deleted cascades to edges, Updated increments version and overwrites
// the named property, and RelationshipRemoved compares
// (source, target, type) for exact equality.
func ApplyEvent(g DomainGraph, e Event) DomainGraph {
	switch e.Kind {
	case DomainObjectCreated:
		return g.AddNode(DomainObject{ID: e.NodeID, AggregateType: e.AggregateType, Properties: e.Properties})
	case DomainObjectUpdated:
		return g.UpdateNode(e.NodeID, e.Property, e.Value)
	case DomainObjectDeleted:
		return g.RemoveNode(e.NodeID)
	case RelationshipEstablished:
		return g.AddEdge(DomainRelationship{SourceID: e.SourceID, TargetID: e.TargetID, Type: e.RelationType})
	case RelationshipRemoved:
		return g.RemoveEdge(DomainRelationship{SourceID: e.SourceID, TargetID: e.TargetID, Type: e.RelationType})
	default:
		return g
	}
}

// Replay folds a sequence of events over an initial graph, in order.
func Replay(initial DomainGraph, events []Event) DomainGraph {
	g := initial
	for _, e := range events {
		g = ApplyEvent(g, e)
	}
	return g
}
