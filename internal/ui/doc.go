// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and managing events:
//  1. [LoginView] / [RegisterView] : Sign in or create an account
//  2. [EventListView] : Browse all upcoming events and join them
//  3. [MyEventsView] : Review events the signed-in user created
//  4. [CreateView] : Fill out and submit a new event
//  5. [EditView] : Change the details of an owned event
//  6. [ConfirmDeleteView] : Confirm removal of an owned event
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Protected views never mount without a valid session: the model checks the
// access guard before switching and falls back to [LoginView], and a
// [SessionInvalidMsg] (sent when the server rejects a stored token) forces the
// same fallback mid-session.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
