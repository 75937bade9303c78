// Package config provides centralized configuration management for the
// artifact removal pipeline. It loads thresholds, directory layout, raw
// recording schema, execution mode and server settings from multiple sources
// and validates the result before any stage runs.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file (-config flag, or sma.yaml in the working directory)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SMA_<SECTION>_<KEY>:
//
//	SMA_PIPELINE_SPIKE_Z_SCORE=4
//	SMA_PIPELINE_SPIKE_POLICY=abs
//	SMA_PIPELINE_DEAD_CHANNELS=A023,B016
//	SMA_PATHS_ROOT_DIR=/data/session-12
//	SMA_EXECUTION_MODE=parallel
//	SMA_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load(*configPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, dir := range cfg.Paths.OutputDirectories() {
//	    ...
//	}
//	cleaned := cfg.Paths.Cleaned()
package config
