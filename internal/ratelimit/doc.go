// Package ratelimit provides per-IP token bucket rate limiting with
// background eviction of idle entries.
//
// This is a single-instance, in-memory limiter intended for basic abuse
// prevention in front of the blog API, which fans each request out to an
// upstream content service with its own quota. It does not protect against
// distributed attacks or traffic that stays under the rate limit; put a WAF
// or CDN-level limiter in front for those.
package ratelimit
