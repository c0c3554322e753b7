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

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cim-labs/keyforge/internal/config"
	"github.com/cim-labs/keyforge/internal/roles"
)

var policyInput string

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Resolve a policy bootstrap document's role assignments and report violations",
	Long: `policy loads a §6 policy bootstrap document, instantiates its
standard role assignments, and reports every separation-of-duties rule a
person's combined roles would violate. A role name absent from the
closed standard-role vocabulary is logged and skipped rather than
rejected.`,
	RunE: runPolicy,
}

func init() {
	policyCmd.Flags().StringVar(&policyInput, "input", "", "path to the policy bootstrap input JSON file (required)")
	_ = policyCmd.MarkFlagRequired("input")
}

type personRoles struct {
	PersonID   uuid.UUID `json:"person_id"`
	RoleNames  []string  `json:"role_names"`
	Claims     []string  `json:"claims"`
	Violations []string  `json:"violations,omitempty"`
}

func runPolicy(cmd *cobra.Command, args []string) error {
	log, flush := newLogger("policy")
	defer flush()

	input, err := config.LoadPolicyFile(policyInput)
	if err != nil {
		return err
	}

	assignmentsByPerson := make(map[uuid.UUID][]string)
	for _, assignment := range input.RoleAssignments {
		if _, ok := roles.ByName(assignment.RoleName); !ok {
			log.Info("unknown standard role name, skipping", "role", assignment.RoleName, "person_id", assignment.PersonID)
			continue
		}
		assignmentsByPerson[assignment.PersonID] = append(assignmentsByPerson[assignment.PersonID], assignment.RoleName)
	}

	results := make([]personRoles, 0, len(assignmentsByPerson))
	for personID, roleNames := range assignmentsByPerson {
		pr := personRoles{PersonID: personID, RoleNames: roleNames}

		var instantiated []roles.Role
		for _, name := range roleNames {
			template, _ := roles.ByName(name)
			role, err := template.ToRole(personID)
			if err != nil {
				return fmt.Errorf("policy: instantiate %q for %s: %w", name, personID, err)
			}
			instantiated = append(instantiated, role)
		}

		for i := 0; i < len(instantiated); i++ {
			for j := i + 1; j < len(instantiated); j++ {
				a, b := instantiated[i], instantiated[j]
				if a.IsIncompatibleWith(b.Name) || b.IsIncompatibleWith(a.Name) {
					pr.Violations = append(pr.Violations, fmt.Sprintf("%s is incompatible with %s", a.Name, b.Name))
				}
			}
		}

		claimSet := make(map[string]struct{})
		for _, role := range instantiated {
			for _, c := range role.Claims.ToSlice() {
				claimSet[c.String()] = struct{}{}
			}
		}
		for c := range claimSet {
			pr.Claims = append(pr.Claims, c)
		}

		results = append(results, pr)
	}

	if flagJSON {
		return PrintJSON(cmd.OutOrStdout(), results)
	}

	headers := []string{"PERSON", "ROLES", "VIOLATIONS"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		violations := "-"
		if len(r.Violations) > 0 {
			violations = Truncate(fmt.Sprint(r.Violations), 60)
		}
		rows = append(rows, []string{r.PersonID.String(), fmt.Sprint(r.RoleNames), violations})
	}
	RenderTable(cmd.OutOrStdout(), headers, rows)
	return nil
}
