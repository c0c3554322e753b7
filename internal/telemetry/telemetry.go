/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package telemetry wires the structured logger every I/O-bound or
// orchestrating component in this module takes, and exposes the
// Prometheus metrics registered by internal/workflow over HTTP.
package telemetry

import (
	"fmt"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide logr.Logger: zap underneath,
// development encoding (console, caller, stacktraces on warn+) when
// development is true, production JSON encoding otherwise. The
// returned flush function must run before process exit so buffered
// log lines aren't lost.
func NewLogger(name string, development bool) (logr.Logger, func(), error) {
	var zapLog *zap.Logger
	var err error
	if development {
		zapLog, err = zap.NewDevelopment()
	} else {
		zapLog, err = zap.NewProduction()
	}
	if err != nil {
		return logr.Logger{}, func() {}, fmt.Errorf("telemetry: build zap logger: %w", err)
	}

	log := zapr.NewLogger(zapLog).WithName(name)
	return log, func() { _ = zapLog.Sync() }, nil
}

// NewLevelLogger builds a logger whose minimum level is set explicitly
// (0 = info, 1 = debug, matching logr's V-level convention), for
// callers driven by a --verbose flag rather than a dev/prod switch.
func NewLevelLogger(name string, level int) (logr.Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	if level > 0 {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapLog, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, func() {}, fmt.Errorf("telemetry: build zap logger: %w", err)
	}

	log := zapr.NewLogger(zapLog).WithName(name)
	return log, func() { _ = zapLog.Sync() }, nil
}

// MetricsHandler exposes every process-registered Prometheus collector
// (internal/workflow's phase counters/durations, and anything else
// registered via the default registerer) at the conventional path.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
