// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidStore indicates the store backend name is not recognized.
	ErrInvalidStore = errors.New("config: invalid store (must be \"bolt\" or \"memory\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidFeeBps indicates an unsupported custody fee rate.
	ErrInvalidFeeBps = errors.New("config: custody fee must be 100 bps")

	// ErrInvalidFeeDestination indicates the fee destination is not a hex identity.
	ErrInvalidFeeDestination = errors.New("config: invalid fee destination")

	// ErrNoFeeDestination indicates the fee destination has not been set.
	ErrNoFeeDestination = errors.New("config: fee destination not set")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
