// Package notify defines the notification delivery boundary. The core
// only depends on the Notifier interface; OS-level integration is an
// external collaborator.
package notify

import "github.com/rs/zerolog"

// Permission is the state of the notification capability.
type Permission string

const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)

// Notifier delivers user-visible notifications. Deliver is only called
// when CheckPermission reports granted.
type Notifier interface {
	CheckPermission() Permission
	RequestPermission() Permission
	// Deliver shows a notification. tag deduplicates replacements at the
	// delivery layer; delivery failure is reported so the caller can keep
	// the triggering state eligible.
	Deliver(title, body, tag string) error
}

// ConsoleNotifier writes notifications to the log. It stands in for an
// OS notification service in terminal sessions and always has permission.
type ConsoleNotifier struct {
	log zerolog.Logger
}

// NewConsoleNotifier creates a ConsoleNotifier writing through log.
func NewConsoleNotifier(log zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log.With().Str("component", "notifier").Logger()}
}

func (n *ConsoleNotifier) CheckPermission() Permission   { return PermissionGranted }
func (n *ConsoleNotifier) RequestPermission() Permission { return PermissionGranted }

func (n *ConsoleNotifier) Deliver(title, body, tag string) error {
	n.log.Info().Str("title", title).Str("tag", tag).Msg(body)
	return nil
}
