/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package main

import "os"

// Config holds control plane configuration, sourced entirely from the
// environment: this binary has no flags, since it is meant to run under
// a supervisor that sets its environment rather than a human invoking it
// directly.
type Config struct {
	ListenAddr  string
	PolicyInput string
	OutputDir   string
	CreatedBy   string
}

func loadConfig() (*Config, error) {
	addr := os.Getenv("KEYFORGE_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	policyInput := os.Getenv("KEYFORGE_POLICY_INPUT")
	if policyInput == "" {
		policyInput = "/etc/keyforge/policy.json"
	}
	outputDir := os.Getenv("KEYFORGE_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "/var/lib/keyforge/output"
	}
	createdBy := os.Getenv("KEYFORGE_CREATED_BY")
	if createdBy == "" {
		createdBy = "keyforge-controlplane"
	}
	return &Config{
		ListenAddr:  addr,
		PolicyInput: policyInput,
		OutputDir:   outputDir,
		CreatedBy:   createdBy,
	}, nil
}
