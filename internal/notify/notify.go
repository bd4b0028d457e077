// Package notify delivers internal operational notifications to the
// configured channels. Channels are best-effort: a failing channel is
// logged and does not block the others.
package notify

import (
	"context"
	"errors"

	"doorcraft_backend/platform/logger"
)

// Notification is a channel-agnostic internal message.
type Notification struct {
	Heading   string   `json:"heading"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	ActionURL string   `json:"actionUrl,omitempty"`
}

// Channel delivers a notification to a single destination.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// Dispatcher fans a notification out to all registered channels.
type Dispatcher struct {
	channels []Channel
	log      *logger.Logger
}

func NewDispatcher(log *logger.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, log: log}
}

// Dispatch sends the notification to every channel. All channels are
// attempted; the joined error covers the ones that failed.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	var errs []error
	for _, ch := range d.channels {
		if err := ch.Send(ctx, n); err != nil {
			d.log.Warn("notification channel failed", "channel", ch.Name(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HasChannels reports whether any channel is configured.
func (d *Dispatcher) HasChannels() bool {
	return d != nil && len(d.channels) > 0
}
