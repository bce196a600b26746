// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the portal's templates.
package web

import "embed"

//go:embed all:templates
var Templates embed.FS
