// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events lists events and keeps a user's registrations in sync
// with a submitted selection.
package events
