/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package graph

import "sort"

// AdjacencyList is the abstraction every algorithm in this file
// operates on: node ids and their outgoing weighted edges, nothing
// else. Implementations must not consult node properties; a separate
// lifting layer decorates results with domain types at the boundary
// between this package and its callers.
type AdjacencyList map[NodeID][]WeightedEdge

// WeightedEdge is an outgoing edge from the implicit source node.
type WeightedEdge struct {
	To     NodeID
	Weight float64
}

// Adjacency builds an unweighted AdjacencyList from the graph's edges:
// one entry of weight 1 per edge, so parallel edges of different types
// between the same two nodes appear as repeated entries.
func (g DomainGraph) Adjacency() AdjacencyList {
	adj := make(AdjacencyList)
	for _, e := range g.edges {
		adj[e.SourceID] = append(adj[e.SourceID], WeightedEdge{To: e.TargetID, Weight: 1})
	}
	return adj
}

// Reachable returns every node id reachable from start via a BFS over
// adj, not including start itself.
func Reachable(adj AdjacencyList, start NodeID) []NodeID {
	visited := map[NodeID]bool{start: true}
	queue := []NodeID{start}
	var out []NodeID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, edge := range adj[cur] {
			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			out = append(out, edge.To)
			queue = append(queue, edge.To)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TopologicalSort returns a topological ordering of every id appearing
// in adj (as a source or target), or ok=false if adj contains a cycle.
func TopologicalSort(adj AdjacencyList) (order []NodeID, ok bool) {
	inDegree := map[NodeID]int{}
	allNodes := map[NodeID]bool{}
	for from, edges := range adj {
		allNodes[from] = true
		for _, e := range edges {
			allNodes[e.To] = true
			inDegree[e.To]++
		}
	}

	var queue []NodeID
	for n := range allNodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })

	var sorted []NodeID
	for len(queue) > 0 {
		sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })
		cur := queue[0]
		queue = queue[1:]
		sorted = append(sorted, cur)

		for _, e := range adj[cur] {
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	if len(sorted) != len(allNodes) {
		return nil, false
	}
	return sorted, true
}

// HasCycle reports whether adj contains a directed cycle, via DFS with
// a three-color (white/gray/black) visitation state.
func HasCycle(adj AdjacencyList) bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[NodeID]int{}

	var visit func(NodeID) bool
	visit = func(n NodeID) bool {
		color[n] = gray
		for _, e := range adj[n] {
			switch color[e.To] {
			case gray:
				return true
			case white:
				if visit(e.To) {
					return true
				}
			}
		}
		color[n] = black
		return false
	}

	allNodes := map[NodeID]bool{}
	for from, edges := range adj {
		allNodes[from] = true
		for _, e := range edges {
			allNodes[e.To] = true
		}
	}
	var ids []NodeID
	for n := range allNodes {
		ids = append(ids, n)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, n := range ids {
		if color[n] == white {
			if visit(n) {
				return true
			}
		}
	}
	return false
}

// StronglyConnectedComponents partitions adj's nodes into strongly
// connected components via Tarjan's algorithm. Each component is
// returned in discovery order; singleton components (a node with no
// cycle through itself) are included.
func StronglyConnectedComponents(adj AdjacencyList) [][]NodeID {
	allNodes := map[NodeID]bool{}
	for from, edges := range adj {
		allNodes[from] = true
		for _, e := range edges {
			allNodes[e.To] = true
		}
	}
	var ids []NodeID
	for n := range allNodes {
		ids = append(ids, n)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	index := map[NodeID]int{}
	lowlink := map[NodeID]int{}
	onStack := map[NodeID]bool{}
	var stack []NodeID
	counter := 0
	var components [][]NodeID

	var strongconnect func(NodeID)
	strongconnect = func(v NodeID) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range adj[v] {
			w := e.To
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var component []NodeID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			components = append(components, component)
		}
	}

	for _, n := range ids {
		if _, seen := index[n]; !seen {
			strongconnect(n)
		}
	}
	return components
}

// ShortestPath computes the minimum-weight path from start to end over
// adj via Dijkstra's algorithm, returning the path (inclusive of both
// endpoints) and its total weight, or ok=false if end is unreachable.
// Edge weights must be non-negative.
func ShortestPath(adj AdjacencyList, start, end NodeID) (path []NodeID, distance float64, ok bool) {
	const infinity = 1<<63 - 1

	dist := map[NodeID]float64{start: 0}
	prev := map[NodeID]NodeID{}
	visited := map[NodeID]bool{}

	allNodes := map[NodeID]bool{start: true}
	for from, edges := range adj {
		allNodes[from] = true
		for _, e := range edges {
			allNodes[e.To] = true
		}
	}

	for len(visited) < len(allNodes) {
		var cur NodeID
		best := float64(infinity)
		found := false
		for n := range allNodes {
			if visited[n] {
				continue
			}
			d, known := dist[n]
			if !known {
				continue
			}
			if d < best {
				best = d
				cur = n
				found = true
			}
		}
		if !found {
			break
		}
		visited[cur] = true
		if cur == end {
			break
		}

		for _, e := range adj[cur] {
			alt := dist[cur] + e.Weight
			if d, known := dist[e.To]; !known || alt < d {
				dist[e.To] = alt
				prev[e.To] = cur
			}
		}
	}

	finalDist, known := dist[end]
	if !known {
		return nil, 0, false
	}

	var reversed []NodeID
	cur := end
	for {
		reversed = append(reversed, cur)
		if cur == start {
			break
		}
		p, ok := prev[cur]
		if !ok {
			return nil, 0, false
		}
		cur = p
	}

	path = make([]NodeID, len(reversed))
	for i, n := range reversed {
		path[len(reversed)-1-i] = n
	}
	return path, finalDist, true
}
