// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides database fixtures, fakes and HTTP assertions
// shared by package tests.
package testutil
