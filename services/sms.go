package services

import (
	"context"
	"fmt"

	"github.com/getwebfast/site-backend/config"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// maxSMSLength keeps a notification within a few SMS segments.
const maxSMSLength = 480

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSChannel texts notifications to the owner through Twilio.
type SMSChannel struct {
	api  messageCreator
	from string
	to   []string
}

// NewSMSChannel returns nil unless TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN,
// TWILIO_FROM_NUMBER and NOTIFY_PHONE are all set.
func NewSMSChannel(c map[string]string) *SMSChannel {
	sid := config.GetString(c, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(c, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(c, "TWILIO_FROM_NUMBER", "")
	to := config.GetStrings(c, "NOTIFY_PHONE")
	if sid == "" || token == "" || from == "" || len(to) == 0 {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return newSMSChannel(client.Api, from, to)
}

func newSMSChannel(api messageCreator, from string, to []string) *SMSChannel {
	return &SMSChannel{api: api, from: from, to: to}
}

func (s *SMSChannel) Name() string { return "sms" }

// Notify texts every configured number and stops at the first failure.
// The Twilio client does not take a context.
func (s *SMSChannel) Notify(_ context.Context, n Notification) error {
	body := n.Text
	if runes := []rune(body); len(runes) > maxSMSLength {
		body = string(runes[:maxSMSLength-1]) + "…"
	}

	for _, to := range s.to {
		params := &openapi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(s.from)
		params.SetBody(body)

		resp, err := s.api.CreateMessage(params)
		if err != nil {
			return fmt.Errorf("failed to send SMS to %s: %w", to, err)
		}
		if resp != nil && resp.Sid != nil {
			log.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
		}
	}
	return nil
}
