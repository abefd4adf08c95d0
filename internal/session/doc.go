// Package session owns the client's authentication state.
//
// [Store] is the single process-wide credential store: an opaque token plus
// the cached profile it was issued for, persisted in SQLite so a login
// survives process restarts. It is written only by [Manager] and by the HTTP
// gateway's unauthorized handler; everything else reads.
//
// [Manager] exposes the Anonymous/Authenticated state machine
// (register, login, logout) and pure reads (CurrentUser, IsAuthenticated).
//
// [Guard] gates protected commands and TUI views on Manager state.
package session
