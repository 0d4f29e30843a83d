// Package monitor tracks the security and performance of the auth
// subsystem: authentication flow state machines, per-method completion
// rates, bounded rolling windows of operation durations, typed
// security violations, threshold alerts with cooldown, and a derived
// health status.
//
// Recording never blocks and never influences an auth decision: every
// producer call is an enqueue into a buffered channel, dropped and
// counted when the buffer is full. Run drains the queue and drives the
// periodic alert evaluation and health recomputation. Handler exposes
// the snapshots over HTTP for operational tooling.
package monitor
