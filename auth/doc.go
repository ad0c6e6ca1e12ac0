// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and ID generation utilities.

# Passwords

Meeting passwords and participant vote passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password, cfg.PasswordCost)
	err = auth.CheckPassword(hash, attempt) // auth.ErrWrongPassword on mismatch

A cost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
Tests pass bcrypt.MinCost to keep hashing fast.

# ID Generation

Meetings are addressed by UUID because the id ends up in share links:

	id := auth.NewMeetingID()

Date options and participants use random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Rate-limit keys never contain a raw address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
