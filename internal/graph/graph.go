/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package graph is the queryable projection of the causal event stream:
// typed nodes and edges rebuilt by replaying DomainObject/Relationship
// events, plus a set of id-only graph algorithms layered on top.
package graph

// NodeID identifies a DomainObject. The graph algorithms in algorithms.go
// operate exclusively on this type; they never see node properties.
type NodeID string

// DomainObject is one node in the graph.
type DomainObject struct {
	ID            NodeID
	AggregateType string
	Properties    map[string]string
	Version       int
}

func (o DomainObject) clone() DomainObject {
	props := make(map[string]string, len(o.Properties))
	for k, v := range o.Properties {
		props[k] = v
	}
	return DomainObject{ID: o.ID, AggregateType: o.AggregateType, Properties: props, Version: o.Version}
}

// DomainRelationship is one directed, typed edge between two nodes.
type DomainRelationship struct {
	SourceID NodeID
	TargetID NodeID
	Type     string
}

// DomainGraph owns its nodes; edges are weak references to node ids,
// validated at cascade.
type DomainGraph struct {
	nodes map[NodeID]DomainObject
	edges []DomainRelationship
}

// New returns an empty graph.
func New() DomainGraph {
	return DomainGraph{nodes: make(map[NodeID]DomainObject)}
}

// AddNode inserts or replaces a node, returning the updated graph.
func (g DomainGraph) AddNode(obj DomainObject) DomainGraph {
	next := g.cloneShallow()
	next.nodes[obj.ID] = obj.clone()
	return next
}

// UpdateNode overwrites the named property on an existing node and
// increments its version. A reference to a missing node is a no-op,
// matching replay's tolerance of events for nodes already removed.
func (g DomainGraph) UpdateNode(id NodeID, property, value string) DomainGraph {
	existing, ok := g.nodes[id]
	if !ok {
		return g
	}
	updated := existing.clone()
	updated.Properties[property] = value
	updated.Version++

	next := g.cloneShallow()
	next.nodes[id] = updated
	return next
}

// AddEdge appends a relationship. Edges are ordered by insertion.
func (g DomainGraph) AddEdge(rel DomainRelationship) DomainGraph {
	next := g.cloneShallow()
	next.edges = append(append([]DomainRelationship{}, g.edges...), rel)
	return next
}

// RemoveNode deletes a node and cascades: every edge touching it is
// atomically removed, so no orphan edge can survive.
func (g DomainGraph) RemoveNode(id NodeID) DomainGraph {
	next := g.cloneShallow()
	delete(next.nodes, id)

	remaining := make([]DomainRelationship, 0, len(g.edges))
	for _, e := range g.edges {
		if e.SourceID == id || e.TargetID == id {
			continue
		}
		remaining = append(remaining, e)
	}
	next.edges = remaining
	return next
}

// RemoveEdge removes the first edge matching (source, target, type) by
// exact equality.
func (g DomainGraph) RemoveEdge(rel DomainRelationship) DomainGraph {
	next := g.cloneShallow()
	remaining := make([]DomainRelationship, 0, len(g.edges))
	removed := false
	for _, e := range g.edges {
		if !removed && e == rel {
			removed = true
			continue
		}
		remaining = append(remaining, e)
	}
	next.edges = remaining
	return next
}

// GetNode returns the node with the given id, if present.
func (g DomainGraph) GetNode(id NodeID) (DomainObject, bool) {
	obj, ok := g.nodes[id]
	return obj, ok
}

// NodesByType returns every node of the given aggregate type, ordered by
// id for deterministic output.
func (g DomainGraph) NodesByType(aggregateType string) []DomainObject {
	var out []DomainObject
	for _, obj := range g.nodes {
		if obj.AggregateType == aggregateType {
			out = append(out, obj)
		}
	}
	sortObjectsByID(out)
	return out
}

// TraverseEdges returns the target nodes reachable from source via an
// edge of relType whose target node's aggregate type is targetType.
func (g DomainGraph) TraverseEdges(source NodeID, relType, targetType string) []DomainObject {
	var out []DomainObject
	for _, e := range g.edges {
		if e.SourceID != source || e.Type != relType {
			continue
		}
		if target, ok := g.nodes[e.TargetID]; ok && target.AggregateType == targetType {
			out = append(out, target)
		}
	}
	sortObjectsByID(out)
	return out
}

// NodeCount and EdgeCount support the scenario-level replay assertions
// (nodes.size(), edges.size()) without exposing internal maps.
func (g DomainGraph) NodeCount() int { return len(g.nodes) }
func (g DomainGraph) EdgeCount() int { return len(g.edges) }

// Nodes returns every node in the graph, ordered by id for
// deterministic serialization.
func (g DomainGraph) Nodes() []DomainObject {
	out := make([]DomainObject, 0, len(g.nodes))
	for _, obj := range g.nodes {
		out = append(out, obj)
	}
	sortObjectsByID(out)
	return out
}

// Edges returns a copy of the graph's edges in insertion order.
func (g DomainGraph) Edges() []DomainRelationship {
	out := make([]DomainRelationship, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g DomainGraph) cloneShallow() DomainGraph {
	nodes := make(map[NodeID]DomainObject, len(g.nodes))
	for k, v := range g.nodes {
		nodes[k] = v
	}
	edges := make([]DomainRelationship, len(g.edges))
	copy(edges, g.edges)
	return DomainGraph{nodes: nodes, edges: edges}
}

func sortObjectsByID(objs []DomainObject) {
	for i := 1; i < len(objs); i++ {
		for j := i; j > 0 && objs[j].ID < objs[j-1].ID; j-- {
			objs[j], objs[j-1] = objs[j-1], objs[j]
		}
	}
}
