// Package services is the client for the remote event-management API.
//
// # Gateway
//
// [Gateway] is the single pipeline every request passes through. Outbound, it
// attaches the stored bearer token (when one exists) and an X-Request-ID.
// Inbound, a 401 from any endpoint clears the credential store, notifies
// session-invalidated subscribers, and propagates the original failure; it is
// the one place that decides "the session is no longer valid". All other
// non-2xx responses become [APIError] values carrying the server's verbatim
// message for the calling component to interpret.
//
// # Endpoint clients
//
// [AuthAPI] covers /user/signup, /user/login, and /user/profile.
// [EventsAPI] covers the /events endpoints: list with search/time-window
// filters, my-events, create, join, update, delete.
//
// # Error Handling
//
// APIError maps status codes onto the sentinels in internal/shared via
// errors.Is: 401 → ErrUnauthorized, 404 → ErrNotFound, 409 → ErrAlreadyJoined.
// Transport failures and non-JSON bodies wrap shared.ErrAPIRequest.
package services
