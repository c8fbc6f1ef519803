// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report renders IRV rounds as text for terminals and as
// models.TallyResponse for JSON clients.
package report
