package services

import (
	"context"

	"github.com/getwebfast/site-backend/errs"
	"github.com/rs/zerolog/log"
)

// Notification is one message to the site owner. Channels pick the body
// they can render.
type Notification struct {
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

type Channel interface {
	Name() string
	Notify(ctx context.Context, n Notification) error
}

// Notifier fans a notification out to every enabled channel.
type Notifier struct {
	channels []Channel
}

func NewNotifier(channels ...Channel) *Notifier {
	n := &Notifier{}
	for _, ch := range channels {
		if ch != nil {
			n.channels = append(n.channels, ch)
		}
	}
	return n
}

// NewNotifierFromConfig enables the email and SMS channels whose keys are set.
func NewNotifierFromConfig(c map[string]string) *Notifier {
	var channels []Channel
	if email := NewEmailChannel(c); email != nil {
		channels = append(channels, email)
	}
	if sms := NewSMSChannel(c); sms != nil {
		channels = append(channels, sms)
	}
	n := NewNotifier(channels...)
	log.Info().Strs("channels", n.Channels()).Msg("Notifications configured")
	return n
}

// Channels lists the enabled channel names.
func (n *Notifier) Channels() []string {
	names := make([]string, 0, len(n.channels))
	for _, ch := range n.channels {
		names = append(names, ch.Name())
	}
	return names
}

// NotifyEverywhere tries every channel even when some fail, and reports
// the failed ones together.
func (n *Notifier) NotifyEverywhere(ctx context.Context, msg Notification) error {
	var failed []string
	var successes []string

	for _, ch := range n.channels {
		if err := ch.Notify(ctx, msg); err != nil {
			nerr := errs.NewNotificationError(ch.Name(), err)
			log.Error().Err(err).Str("channel", ch.Name()).Msg("Failed to send notification")
			failed = append(failed, nerr.GetFullError())
			continue
		}
		successes = append(successes, ch.Name())
	}

	if len(successes) > 0 {
		log.Info().Strs("channels", successes).Msg("Sent notification")
	}
	if len(failed) > 0 {
		return errs.NewPartialFailureError("notify", failed)
	}
	return nil
}
