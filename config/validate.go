// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/libreferral-go/commission"
	"github.com/bitfsorg/libreferral-go/directory"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.Store != StoreBolt && cfg.Store != StoreFile && cfg.Store != StoreMemory {
		return ErrInvalidStore
	}

	if cfg.DataDir == "" && cfg.Store != StoreMemory {
		return ErrEmptyDataDir
	}

	if _, err := directory.ParseSponsorMode(cfg.SponsorMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSponsorMode, err)
	}

	if _, err := commission.ParseRatePolicy(cfg.RatePolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRatePolicy, err)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
