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

	"github.com/cim-labs/keyforge/internal/subject"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Parse and test NATS subject patterns against the token algebra",
}

var subjectParseCmd = &cobra.Command{
	Use:   "parse <subject>",
	Short: "Parse a subject and print its tokens and specificity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := subject.Parse(args[0])
		if err != nil {
			return fmt.Errorf("subject: %w", err)
		}
		if flagJSON {
			return PrintJSON(cmd.OutOrStdout(), map[string]any{
				"subject":     s.String(),
				"tokens":      tokenStrings(s),
				"is_pattern":  s.IsPattern(),
				"specificity": s.Specificity(),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "subject:     %s\n", s.String())
		fmt.Fprintf(cmd.OutOrStdout(), "tokens:      %v\n", tokenStrings(s))
		fmt.Fprintf(cmd.OutOrStdout(), "is pattern:  %v\n", s.IsPattern())
		fmt.Fprintf(cmd.OutOrStdout(), "specificity: %d\n", s.Specificity())
		return nil
	},
}

var subjectMatchCmd = &cobra.Command{
	Use:   "match <pattern> <subject>",
	Short: "Report whether a subject matches a pattern",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern, err := subject.Parse(args[0])
		if err != nil {
			return fmt.Errorf("subject: pattern: %w", err)
		}
		candidate, err := subject.Parse(args[1])
		if err != nil {
			return fmt.Errorf("subject: subject: %w", err)
		}
		matches := pattern.Matches(candidate)
		if flagJSON {
			return PrintJSON(cmd.OutOrStdout(), map[string]bool{"matches": matches})
		}
		fmt.Fprintln(cmd.OutOrStdout(), matches)
		return nil
	},
}

func init() {
	subjectCmd.AddCommand(subjectParseCmd)
	subjectCmd.AddCommand(subjectMatchCmd)
}

func tokenStrings(s subject.Subject) []string {
	tokens := s.Tokens()
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}
