// Package models defines the data model for the evently client.
//
// Types mirror the event-management service's wire format:
//   - [Profile] : the authenticated user's server-side record
//   - [Session] : the client's belief about which user is authenticated
//   - [Event] : one event document, including its attendee set
//   - [EventDraft] : payload for creating an event
//   - [EventPatch] : the only fields editable after creation
//   - [Filters] / [TimeWindow] : listing filters passed through to the server
//
// The client never recomputes server-maintained values such as
// Event.AttendeeCount; it stores whatever the server last returned.
package models
