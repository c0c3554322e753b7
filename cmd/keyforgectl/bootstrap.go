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
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cim-labs/keyforge/internal/config"
	"github.com/cim-labs/keyforge/internal/piv"
	"github.com/cim-labs/keyforge/internal/store"
	"github.com/cim-labs/keyforge/internal/workflow"
)

var (
	bootstrapInput         string
	bootstrapOutput        string
	bootstrapSalt          string
	bootstrapPassphraseEnv string
	bootstrapCreatedBy     string
	bootstrapUseHardware   bool
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Run the bootstrap pipeline against an organization description",
	Long: `bootstrap reads a §6-shaped organization description, derives the
master seed from a passphrase and salt, and runs the credentials -> pki ->
hardware -> nats -> projection pipeline, writing the fixed output layout
to the given directory.`,
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().StringVar(&bootstrapInput, "input", "", "path to the bootstrap input JSON file (required)")
	bootstrapCmd.Flags().StringVar(&bootstrapOutput, "output", "", "directory to write the bootstrap output layout into (required)")
	bootstrapCmd.Flags().StringVar(&bootstrapSalt, "salt", "", "salt mixed with the passphrase to derive the master seed (required)")
	bootstrapCmd.Flags().StringVar(&bootstrapPassphraseEnv, "passphrase-env", "KEYFORGE_PASSPHRASE", "environment variable holding the bootstrap passphrase")
	bootstrapCmd.Flags().StringVar(&bootstrapCreatedBy, "created-by", "keyforgectl", "identity recorded as the manifest's creator")
	bootstrapCmd.Flags().BoolVar(&bootstrapUseHardware, "use-hardware", false, "bind YubiKey assignments to physical devices over PC/SC instead of skipping them")
	_ = bootstrapCmd.MarkFlagRequired("input")
	_ = bootstrapCmd.MarkFlagRequired("output")
	_ = bootstrapCmd.MarkFlagRequired("salt")
}

// noHardwareDiscoverer reports every serial absent, so a bootstrap run
// with no reader attached still completes: the hardware phase records
// each assignment as a skipped binding instead of aborting the run.
type noHardwareDiscoverer struct{}

func (noHardwareDiscoverer) Discover(serial string) (piv.Device, error) {
	return nil, fmt.Errorf("no hardware discoverer configured (pass --use-hardware to bind real devices)")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	log, flush := newLogger("bootstrap")
	defer flush()

	// Go strings are immutable, so the os.Getenv result itself can never
	// be zeroed; workflow.Run wipes the []byte copy made here on every
	// exit path once the master seed derivation has consumed it.
	passphrase := os.Getenv(bootstrapPassphraseEnv)
	if passphrase == "" {
		return fmt.Errorf("bootstrap: environment variable %s is empty; it must hold the bootstrap passphrase", bootstrapPassphraseEnv)
	}

	input, err := config.LoadBootstrapConfig(bootstrapInput)
	if err != nil {
		return err
	}
	topology := config.ToTopology(input)

	var discoverer piv.Discoverer = noHardwareDiscoverer{}
	if bootstrapUseHardware {
		discoverer = piv.HardwareDiscoverer{}
	}

	result, err := workflow.Run([]byte(passphrase), []byte(bootstrapSalt), topology, discoverer, log)
	if err != nil {
		return err
	}

	organizationID := input.Organization.ID
	if organizationID == uuid.Nil {
		organizationID = uuid.New()
	}

	if err := store.Write(bootstrapOutput, organizationID, input.Organization.Name, result, result.Secrets, bootstrapCreatedBy); err != nil {
		return fmt.Errorf("bootstrap: write output: %w", err)
	}

	if flagJSON {
		return PrintJSON(cmd.OutOrStdout(), map[string]any{
			"correlation_id":  result.CorrelationID,
			"organization_id": organizationID,
			"output":          bootstrapOutput,
			"nodes":           result.Graph.NodeCount(),
			"edges":           result.Graph.EdgeCount(),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Bootstrap complete: correlation=%s organization=%s\n", result.CorrelationID, organizationID)
	fmt.Fprintf(cmd.OutOrStdout(), "Root CA: %s\n", result.Root.Subject)
	fmt.Fprintf(cmd.OutOrStdout(), "Intermediates: %d, server certificates: %d\n", len(result.Intermediates), len(result.ServerCerts))
	fmt.Fprintf(cmd.OutOrStdout(), "NATS accounts: %d, users: %d\n", len(result.Accounts), len(result.Users))
	fmt.Fprintf(cmd.OutOrStdout(), "PIV bindings: %d (graph: %d nodes, %d edges)\n", len(result.Bindings), result.Graph.NodeCount(), result.Graph.EdgeCount())
	fmt.Fprintf(cmd.OutOrStdout(), "Output written to %s\n", bootstrapOutput)
	return nil
}
