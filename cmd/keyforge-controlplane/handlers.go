/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/graph"
	"github.com/cim-labs/keyforge/internal/policy"
	"github.com/cim-labs/keyforge/internal/store"
)

type witnessRequest struct {
	SubjectID string `json:"subject_id"`
	Clearance int    `json:"clearance"`
}

type evaluateRequest struct {
	PersonID       uuid.UUID        `json:"person_id"`
	Clearance      int              `json:"clearance"`
	MFAVerified    bool             `json:"mfa_verified"`
	YubiKeyPresent bool             `json:"yubikey_present"`
	Witnesses      []witnessRequest `json:"witnesses,omitempty"`
	EvaluatedAt    time.Time        `json:"evaluated_at,omitempty"`
}

type evaluateResponse struct {
	PersonID         uuid.UUID `json:"person_id"`
	ActivePolicies   []string  `json:"active_policies"`
	InactivePolicies []string  `json:"inactive_policies"`
	GrantedClaims    []string  `json:"granted_claims"`
}

func handleEvaluate(s *policyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req evaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}

		evaluatedAt := req.EvaluatedAt
		if evaluatedAt.IsZero() {
			evaluatedAt = time.Now()
		}

		witnesses := make([]policy.Witness, 0, len(req.Witnesses))
		for _, w := range req.Witnesses {
			witnesses = append(witnesses, policy.Witness{SubjectID: w.SubjectID, Clearance: policy.ClearanceLevel(w.Clearance)})
		}

		ctx := policy.Context{
			Clearance:      policy.ClearanceLevel(req.Clearance),
			MFAVerified:    req.MFAVerified,
			YubiKeyPresent: req.YubiKeyPresent,
			Witnesses:      witnesses,
			EvaluatedAt:    evaluatedAt,
		}

		eval := s.evaluate(req.PersonID, ctx)

		resp := evaluateResponse{PersonID: req.PersonID}
		for _, p := range eval.ActivePolicies {
			resp.ActivePolicies = append(resp.ActivePolicies, p.Name)
		}
		for _, p := range eval.InactivePolicies {
			resp.InactivePolicies = append(resp.InactivePolicies, p.Name)
		}
		for _, c := range eval.GrantedClaims.ToSlice() {
			resp.GrantedClaims = append(resp.GrantedClaims, c.String())
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleRolesFor(s *policyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, err := uuid.Parse(chi.URLParam(r, "personID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid person id: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"person_id": personID, "roles": s.rolesFor(personID)})
	}
}

func loadAdjacencyForRequest(cfg *Config) (graph.AdjacencyList, error) {
	g, err := store.LoadGraph(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("load graph projection: %w", err)
	}
	return g.Adjacency(), nil
}

func handleGraphReachable(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adj, err := loadAdjacencyForRequest(cfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		nodes := graph.Reachable(adj, graph.NodeID(chi.URLParam(r, "nodeID")))
		writeJSON(w, http.StatusOK, map[string]any{"reachable": nodes})
	}
}

func handleGraphTopoSort(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adj, err := loadAdjacencyForRequest(cfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		order, ok := graph.TopologicalSort(adj)
		if !ok {
			writeError(w, http.StatusConflict, fmt.Errorf("graph contains a cycle, no topological order exists"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": order})
	}
}

func handleGraphHasCycle(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adj, err := loadAdjacencyForRequest(cfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"has_cycle": graph.HasCycle(adj)})
	}
}
