/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Command keyforge-controlplane serves policy evaluation and graph
// query endpoints over HTTP against a completed bootstrap run: it loads
// a policy bootstrap document at startup and reloads it from disk every
// five minutes, and reads the run's graph projection from the output
// directory on each graph request.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	store, err := newPolicyStore(cfg.PolicyInput, cfg.CreatedBy)
	if err != nil {
		logger.Fatal("failed to load policy bootstrap document", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reloader := cron.New()
	if _, err := reloader.AddFunc("@every 5m", func() {
		if err := store.reload(); err != nil {
			logger.Error("policy document reload failed, keeping previous document", zap.Error(err))
			return
		}
		logger.Info("reloaded policy bootstrap document", zap.Int("person_count", store.personCount()))
	}); err != nil {
		logger.Fatal("failed to schedule policy reload", zap.Error(err))
	}
	reloader.Start()
	defer reloader.Stop()

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      newRouter(cfg, store, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("starting keyforge control plane",
		zap.String("addr", cfg.ListenAddr),
		zap.String("version", version),
		zap.Int("person_count", store.personCount()),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
