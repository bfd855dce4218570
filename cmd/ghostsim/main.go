// Package main is the entry point for the ghost preview simulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostbrush/internal/config"
	"github.com/Faultbox/ghostbrush/internal/logger"
)

var flagRealtime = flag.Bool("realtime", false, "Drive the preview from the wall clock instead of simulated time")

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== ghostbrush preview simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	s, err := newSim(cfg, logger.Named("sim"))
	if err != nil {
		logger.Error("failed to set up simulation", zap.Error(err))
		os.Exit(1)
	}
	defer s.Close()

	if *flagRealtime {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = s.RunRealtime(ctx)
	} else {
		err = s.RunSimulated()
	}
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("simulation finished", zap.Int("evaluations", s.session.Evaluations()))
}
