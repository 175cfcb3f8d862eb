package ui

import (
	"sigpesq/internal/api"
)

// LoadFailedMsg reports a failed page load. The footer shows the mapped
// user message; the raw error only goes to the logs.
type LoadFailedMsg struct {
	Err error
}

// Message returns the user-facing text for the failure.
func (m LoadFailedMsg) Message() string { return api.Message(m.Err) }

// MutationDoneMsg reports a successful create, update or delete. Verb is
// the past-tense notice shown in the footer ("Participante criado").
type MutationDoneMsg struct {
	Verb string
}

// MutationFailedMsg reports a failed mutation; the hosting form stays open
// showing the mapped message.
type MutationFailedMsg struct {
	Err error
}

// Message returns the user-facing text for the failure.
func (m MutationFailedMsg) Message() string { return api.Message(m.Err) }

// SessionExpiredMsg is injected into the program when the HTTP client's
// one-shot unauthorized policy fires. The app drops to the login page.
type SessionExpiredMsg struct{}
