// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/fracvault-go/identity"
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
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Store != StoreBolt && cfg.Store != StoreMemory {
		return ErrInvalidStore
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.CustodyFeeBps != DefaultCustodyFeeBps {
		return ErrInvalidFeeBps
	}

	if cfg.FeeDestination != "" {
		if _, err := identity.Parse(cfg.FeeDestination); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFeeDestination, err)
		}
	}

	return nil
}

// FeeDestinationIdentity parses FeeDestination. It returns ErrNoFeeDestination
// while the operator has not set one.
func (c Config) FeeDestinationIdentity() (identity.Identity, error) {
	if c.FeeDestination == "" {
		return identity.Identity{}, ErrNoFeeDestination
	}
	id, err := identity.Parse(c.FeeDestination)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %w", ErrInvalidFeeDestination, err)
	}
	return id, nil
}
