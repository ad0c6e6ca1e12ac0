// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit guards password-bearing endpoints with Redis counters.

Keys are "rl:<scope>:<hashed client ip>" and expire one window after the first
hit. When REDIS_ADDR is empty the router is given a nil *Limiter, which lets
every request through. Redis errors also let requests through.
*/
package ratelimit
