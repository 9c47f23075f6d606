// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidStore indicates the store back end is not recognized.
	ErrInvalidStore = errors.New("config: invalid store (must be \"bolt\", \"file\", or \"memory\")")

	// ErrInvalidSponsorMode indicates the sponsor mode is not recognized.
	ErrInvalidSponsorMode = errors.New("config: invalid sponsor mode")

	// ErrInvalidRatePolicy indicates the rate policy is not recognized.
	ErrInvalidRatePolicy = errors.New("config: invalid rate policy")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
