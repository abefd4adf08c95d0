// Package events reconciles a locally cached event collection against
// server-side mutations.
//
// A [Controller] owns one collection for the lifetime of the view that
// requested it. Fetches are guarded by a monotonically increasing sequence
// number so a stale in-flight fetch never overwrites a newer result
// (last fetch wins). Mutation outcomes (create, update, delete, join) are
// patched into the cache in place using the server's returned values.
//
// A per-event pending set (joining | deleting) rejects duplicate submissions
// locally, with no network call, and drives per-item loading indicators.
// Entries leave the set unconditionally when their request settles.
//
// Local validation (ValidateDraft, ValidatePatch) runs before any create or
// update reaches the network; server-side validation stays authoritative and
// its messages are surfaced verbatim.
package events
