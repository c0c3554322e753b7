/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cim-labs/keyforge/internal/graph"
	"github.com/cim-labs/keyforge/internal/store"
)

var graphDir string

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Query a completed run's graph projection",
	Long: `graph loads a completed run's graph/projection.json and runs one
of the id-only algorithms in internal/graph's algorithm set against it.`,
}

var graphReachableCmd = &cobra.Command{
	Use:   "reachable <node-id>",
	Short: "List every node reachable from the given node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adj, err := loadAdjacency()
		if err != nil {
			return err
		}
		nodes := graph.Reachable(adj, graph.NodeID(args[0]))
		return printNodeIDs(cmd, nodes)
	},
}

var graphTopoCmd = &cobra.Command{
	Use:   "topo-sort",
	Short: "Print a topological ordering of the graph's nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		adj, err := loadAdjacency()
		if err != nil {
			return err
		}
		order, ok := graph.TopologicalSort(adj)
		if !ok {
			return fmt.Errorf("graph: cycle detected, no topological order exists")
		}
		return printNodeIDs(cmd, order)
	},
}

var graphCycleCmd = &cobra.Command{
	Use:   "has-cycle",
	Short: "Report whether the graph contains a cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		adj, err := loadAdjacency()
		if err != nil {
			return err
		}
		hasCycle := graph.HasCycle(adj)
		if flagJSON {
			return PrintJSON(cmd.OutOrStdout(), map[string]bool{"has_cycle": hasCycle})
		}
		fmt.Fprintln(cmd.OutOrStdout(), hasCycle)
		return nil
	},
}

var graphSCCCmd = &cobra.Command{
	Use:   "scc",
	Short: "List the graph's strongly connected components",
	RunE: func(cmd *cobra.Command, args []string) error {
		adj, err := loadAdjacency()
		if err != nil {
			return err
		}
		components := graph.StronglyConnectedComponents(adj)
		if flagJSON {
			return PrintJSON(cmd.OutOrStdout(), components)
		}
		for i, component := range components {
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %v\n", i, component)
		}
		return nil
	},
}

var graphPathCmd = &cobra.Command{
	Use:   "shortest-path <start-node-id> <end-node-id>",
	Short: "Find the shortest path between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		adj, err := loadAdjacency()
		if err != nil {
			return err
		}
		path, distance, ok := graph.ShortestPath(adj, graph.NodeID(args[0]), graph.NodeID(args[1]))
		if !ok {
			return fmt.Errorf("graph: no path from %s to %s", args[0], args[1])
		}
		if flagJSON {
			return PrintJSON(cmd.OutOrStdout(), map[string]any{"path": path, "distance": distance})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "path: %v (distance %.0f)\n", path, distance)
		return nil
	},
}

func init() {
	graphCmd.PersistentFlags().StringVar(&graphDir, "dir", "", "bootstrap output directory holding graph/projection.json (required)")
	_ = graphCmd.MarkPersistentFlagRequired("dir")

	graphCmd.AddCommand(graphReachableCmd)
	graphCmd.AddCommand(graphTopoCmd)
	graphCmd.AddCommand(graphCycleCmd)
	graphCmd.AddCommand(graphSCCCmd)
	graphCmd.AddCommand(graphPathCmd)
}

func loadAdjacency() (graph.AdjacencyList, error) {
	g, err := store.LoadGraph(graphDir)
	if err != nil {
		return nil, fmt.Errorf("graph: load projection: %w", err)
	}
	return g.Adjacency(), nil
}

func printNodeIDs(cmd *cobra.Command, nodes []graph.NodeID) error {
	if flagJSON {
		return PrintJSON(cmd.OutOrStdout(), nodes)
	}
	for _, n := range nodes {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
