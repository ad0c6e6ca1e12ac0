// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally computes read-only aggregates over recorded votes: counts per
// date option, the voters behind one option, and a ranking with shared ranks
// for ties.
package tally
