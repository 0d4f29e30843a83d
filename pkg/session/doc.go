// Package session owns the lifecycle of short-lived, cache-backed
// browser sessions: creation, fingerprinted validation, sliding
// expiration, eviction and bulk expiry sweeping.
//
// # Model
//
// A Session binds an authenticated identity to the request traits
// captured at creation (client IP, User-Agent, device fingerprint) plus
// a per-session CSRF token. Records are stored under "session:<id>" in
// the cache with a TTL; an index set "user_sessions:<user_id>" supports
// the per-user session cap and bulk revocation. A record is either fully
// present and unexpired or treated as non-existent; corrupt records are
// purged rather than surfaced.
//
// # Security properties
//
// Validation recomputes the fingerprint and compares the client address
// on every request. Any load-bearing mismatch is treated as a hijack:
// the session is destroyed outright, not merely rejected for that one
// request. Store connectivity failures fail closed. Session identifiers
// carry 256 bits of entropy and are rotated at privilege-elevation
// points via Manager.Rotate.
//
// When a user reaches MaxSessionsPerUser, the session with the oldest
// creation time is evicted. The count check and eviction run under a
// per-user critical section so concurrent logins cannot exceed the cap.
//
// # Storage
//
// Store is the pluggable cache adapter. RedisStore is the production
// implementation; MemoryStore serves tests and single-instance use. No
// multi-key transactions are assumed: record and index are kept in step
// best-effort and repaired by the idempotent CleanupExpired sweep.
//
//	store := session.NewRedisStore(client)
//	mgr := session.NewManager(store, cookieMgr,
//	    session.WithConfig(cfg),
//	    session.WithReporter(mon),
//	)
package session
