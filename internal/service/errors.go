// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

var (
	// ErrNotFound means no resolution rule matched the requested path.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable means the database could not serve a lookup.
	// Surfaced to visitors as a 503, never retried here.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
