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

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/cim-labs/keyforge/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagJSON    bool
	flagVerbose int
)

var rootCmd = &cobra.Command{
	Use:   "keyforgectl",
	Short: "Bootstrap and inspect a keyforge identity deployment",
	Long: `keyforgectl drives the five-phase bootstrap pipeline that derives an
organization's PKI hierarchy, NATS operator/account/user trust chain, and
PIV hardware bindings from a single organization description, and inspects
a completed run's output directory: certificates, graph projection, and
policy bindings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit machine-readable JSON instead of tables")
	rootCmd.PersistentFlags().IntVarP(&flagVerbose, "verbose", "v", 0, "structured log verbosity (0 disables debug logging)")

	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(subjectCmd)
	rootCmd.AddCommand(accountCmd)
}

// Execute runs the CLI, printing any returned error and exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a structured logger for one subcommand invocation,
// falling back to a discard logger if zap construction itself fails —
// a CLI run must never abort because its own logging couldn't start.
func newLogger(name string) (logr.Logger, func()) {
	log, flush, err := telemetry.NewLevelLogger(name, flagVerbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logger init failed: %v\n", err)
		return logr.Discard(), func() {}
	}
	return log, flush
}
