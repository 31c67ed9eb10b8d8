package apiclient

import "github.com/rs/zerolog"

// Notifier receives the user-facing error notifications the client emits —
// the toast analogue for a non-browser runtime.
type Notifier interface {
	Error(msg string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Error(string) {}

// LogNotifier writes notifications through zerolog.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Error(msg string) {
	n.Log.Error().Msg(msg)
}
