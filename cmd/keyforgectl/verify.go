/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package main

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nats-io/jwt/v2"
	"github.com/spf13/cobra"

	"github.com/cim-labs/keyforge/internal/store"
)

var verifyDir string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a completed bootstrap output directory for internal consistency",
	Long: `verify parses every certificate in the output layout's
certificates/ tree, confirms each intermediate is signed by the root CA
and each server certificate by one of the intermediates, parses every
NATS JWT, and checks that the persisted graph projection loads and is
non-empty.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyDir, "dir", "", "bootstrap output directory to verify (required)")
	_ = verifyCmd.MarkFlagRequired("dir")
}

type verifyFinding struct {
	Check  string `json:"check"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	var findings []verifyFinding

	root, err := loadCertificate(filepath.Join(verifyDir, "certificates", "root-ca", "root-ca.pem"))
	if err != nil {
		findings = append(findings, verifyFinding{Check: "root-ca parses", OK: false, Detail: err.Error()})
	} else {
		findings = append(findings, verifyFinding{Check: "root-ca parses", OK: true})
		findings = append(findings, verifySelfSigned(root))
	}

	intermediates, err := loadCertificatesFrom(filepath.Join(verifyDir, "certificates", "intermediate"))
	if err != nil {
		findings = append(findings, verifyFinding{Check: "intermediate certificates parse", OK: false, Detail: err.Error()})
	} else if root != nil {
		for name, cert := range intermediates {
			findings = append(findings, verifySignedBy(fmt.Sprintf("intermediate %s signed by root", name), cert, root))
		}
	}

	servers, err := loadCertificatesFrom(filepath.Join(verifyDir, "certificates", "server"))
	if err != nil {
		findings = append(findings, verifyFinding{Check: "server certificates parse", OK: false, Detail: err.Error()})
	} else {
		for name, cert := range servers {
			signed := false
			for _, intermediate := range intermediates {
				if cert.CheckSignatureFrom(intermediate) == nil {
					signed = true
					break
				}
			}
			findings = append(findings, verifyFinding{Check: fmt.Sprintf("server %s signed by a known intermediate", name), OK: signed})
		}
	}

	findings = append(findings, verifyNatsJWTs(verifyDir)...)
	findings = append(findings, verifyGraphMatchesOutput(verifyDir))

	ok := true
	for _, f := range findings {
		if !f.OK {
			ok = false
		}
	}

	if flagJSON {
		if err := PrintJSON(cmd.OutOrStdout(), findings); err != nil {
			return err
		}
	} else {
		headers := []string{"CHECK", "OK", "DETAIL"}
		rows := make([][]string, 0, len(findings))
		for _, f := range findings {
			status := "pass"
			if !f.OK {
				status = "FAIL"
			}
			rows = append(rows, []string{f.Check, status, f.Detail})
		}
		RenderTable(cmd.OutOrStdout(), headers, rows)
	}

	if !ok {
		return fmt.Errorf("verify: one or more checks failed")
	}
	return nil
}

func loadCertificate(path string) (*x509.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM block found", path)
	}
	return x509.ParseCertificate(block.Bytes)
}

func loadCertificatesFrom(dir string) (map[string]*x509.Certificate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*x509.Certificate{}, nil
		}
		return nil, err
	}
	out := make(map[string]*x509.Certificate, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		cert, err := loadCertificate(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		out[entry.Name()] = cert
	}
	return out, nil
}

func verifySelfSigned(cert *x509.Certificate) verifyFinding {
	if err := cert.CheckSignatureFrom(cert); err != nil {
		return verifyFinding{Check: "root-ca is self-signed", OK: false, Detail: err.Error()}
	}
	return verifyFinding{Check: "root-ca is self-signed", OK: true}
}

func verifySignedBy(check string, cert, issuer *x509.Certificate) verifyFinding {
	if err := cert.CheckSignatureFrom(issuer); err != nil {
		return verifyFinding{Check: check, OK: false, Detail: err.Error()}
	}
	return verifyFinding{Check: check, OK: true}
}

func verifyNatsJWTs(dir string) []verifyFinding {
	var findings []verifyFinding

	checkOne := func(label, path string) {
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return
			}
			findings = append(findings, verifyFinding{Check: label, OK: false, Detail: err.Error()})
			return
		}
		if _, err := jwt.DecodeGeneric(string(raw)); err != nil {
			findings = append(findings, verifyFinding{Check: label, OK: false, Detail: err.Error()})
			return
		}
		findings = append(findings, verifyFinding{Check: label, OK: true})
	}

	checkOne("operator jwt decodes", filepath.Join(dir, "nats", "operator", "operator.jwt"))

	for _, sub := range []string{"accounts", "users"} {
		entries, err := os.ReadDir(filepath.Join(dir, "nats", sub))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			checkOne(fmt.Sprintf("%s/%s decodes", sub, entry.Name()), filepath.Join(dir, "nats", sub, entry.Name()))
		}
	}
	return findings
}

func verifyGraphMatchesOutput(dir string) verifyFinding {
	graph, err := store.LoadGraph(dir)
	if err != nil {
		return verifyFinding{Check: "graph projection loads", OK: false, Detail: err.Error()}
	}
	if graph.NodeCount() == 0 {
		return verifyFinding{Check: "graph projection loads", OK: false, Detail: "projection has no nodes"}
	}
	return verifyFinding{Check: "graph projection loads", OK: true}
}
