// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package meetings implements the meeting lifecycle.

Create validates and normalizes input (dates are truncated to the second,
deduplicated and sorted), hashes the owner password and stores the meeting
with its date options. Update checks the owner password and applies partial
edits in one transaction. Replacing the date list keeps the id and votes of
every date that survives, drops removed dates with their selections, and
adds new ones.

Expiry is never stored: a meeting is expired once the clock is past its
deadline.
*/
package meetings
