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
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cim-labs/keyforge/internal/graph"
	"github.com/cim-labs/keyforge/internal/statemachine"
	"github.com/cim-labs/keyforge/internal/store"
)

var (
	accountDir    string
	accountReason string
	accountBy     string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Inspect or transition a NATS account's lifecycle state in a completed run",
	Long: `account drives a completed run's NatsAccount lifecycle machine: it
reads the account's current state off its graph node, checks the requested
transition against the machine's guards, and writes the resulting state back
to graph/projection.json.`,
}

var accountSuspendCmd = &cobra.Command{
	Use:   "suspend <account-node-id>",
	Short: "Transition an Active account to Suspended",
	Args:  cobra.ExactArgs(1),
	RunE: runAccountTransition(func(m statemachine.NatsAccount, by uuid.UUID, at time.Time, reason string) (statemachine.NatsAccount, error) {
		return m.Suspend(reason, at, by)
	}),
}

var accountReactivateCmd = &cobra.Command{
	Use:   "reactivate <account-node-id>",
	Short: "Transition a Suspended account to Reactivated",
	Args:  cobra.ExactArgs(1),
	RunE: runAccountTransition(func(m statemachine.NatsAccount, by uuid.UUID, at time.Time, reason string) (statemachine.NatsAccount, error) {
		return m.Reactivate(statemachine.NatsAccountPermissions{}, at, by)
	}),
}

var accountResumeCmd = &cobra.Command{
	Use:   "resume <account-node-id>",
	Short: "Transition a Reactivated account back to Active",
	Args:  cobra.ExactArgs(1),
	RunE: runAccountTransition(func(m statemachine.NatsAccount, by uuid.UUID, at time.Time, reason string) (statemachine.NatsAccount, error) {
		return m.Resume(at)
	}),
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <account-node-id>",
	Short: "Transition an Active, Suspended, or Reactivated account to Deleted",
	Args:  cobra.ExactArgs(1),
	RunE: runAccountTransition(func(m statemachine.NatsAccount, by uuid.UUID, at time.Time, reason string) (statemachine.NatsAccount, error) {
		return m.Delete(reason, at, by)
	}),
}

func init() {
	accountCmd.PersistentFlags().StringVar(&accountDir, "dir", "", "bootstrap output directory holding graph/projection.json (required)")
	accountCmd.PersistentFlags().StringVar(&accountReason, "reason", "", "reason recorded on the transition, where the machine accepts one")
	accountCmd.PersistentFlags().StringVar(&accountBy, "by", "", "person id performing the transition (required)")
	_ = accountCmd.MarkPersistentFlagRequired("dir")
	_ = accountCmd.MarkPersistentFlagRequired("by")

	accountCmd.AddCommand(accountSuspendCmd)
	accountCmd.AddCommand(accountReactivateCmd)
	accountCmd.AddCommand(accountResumeCmd)
	accountCmd.AddCommand(accountDeleteCmd)
}

// runAccountTransition builds the RunE for one lifecycle transition: load
// the projection, locate the named NatsAccount node, reconstruct a machine
// positioned in its recorded state, run the transition, and persist the
// resulting state name back onto the node.
func runAccountTransition(transition func(statemachine.NatsAccount, uuid.UUID, time.Time, string) (statemachine.NatsAccount, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		by, err := uuid.Parse(accountBy)
		if err != nil {
			return fmt.Errorf("account: --by: %w", err)
		}

		nodeID := graph.NodeID(args[0])
		g, err := store.LoadGraph(accountDir)
		if err != nil {
			return fmt.Errorf("account: load projection: %w", err)
		}

		node, ok := g.GetNode(nodeID)
		if !ok {
			return fmt.Errorf("account: no node %s in the projection", nodeID)
		}
		if node.AggregateType != "NatsAccount" {
			return fmt.Errorf("account: node %s is a %s, not a NatsAccount", nodeID, node.AggregateType)
		}

		machine, err := statemachine.NatsAccountFromDescription(node.Properties["state"])
		if err != nil {
			return fmt.Errorf("account: %w", err)
		}

		next, err := transition(machine, by, time.Now(), accountReason)
		if err != nil {
			return fmt.Errorf("account: %w", err)
		}

		g = g.UpdateNode(nodeID, "state", next.Description())
		if err := store.SaveGraph(accountDir, g); err != nil {
			return fmt.Errorf("account: save projection: %w", err)
		}

		if flagJSON {
			return PrintJSON(cmd.OutOrStdout(), map[string]string{
				"node_id":    string(nodeID),
				"from_state": node.Properties["state"],
				"to_state":   next.Description(),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", nodeID, node.Properties["state"], next.Description())
		return nil
	}
}
