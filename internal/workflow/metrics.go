/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package workflow

import "github.com/prometheus/client_golang/prometheus"

var (
	// PhasesTotal counts bootstrap phase completions by phase and outcome.
	PhasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyforge_bootstrap_phases_total",
			Help: "Total bootstrap phase completions by phase and outcome.",
		},
		[]string{"phase", "outcome"},
	)

	// PhaseDurationSeconds is a histogram of phase duration.
	PhaseDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keyforge_bootstrap_phase_duration_seconds",
			Help:    "Duration of bootstrap phases in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		},
		[]string{"phase"},
	)
)

func init() {
	prometheus.MustRegister(PhasesTotal, PhaseDurationSeconds)
}
