package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type recordingChannel struct {
	name string
	err  error
	sent []Notification
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Notify(_ context.Context, n Notification) error {
	c.sent = append(c.sent, n)
	return c.err
}

type fakeTwilio struct {
	params []*openapi.CreateMessageParams
	err    error
}

func (f *fakeTwilio) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func newTestDatabase(t *testing.T) database.Database {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	d := database.New(db)
	require.NoError(t, d.Migrate())
	return d
}

func TestNotifyEverywhereTriesEveryChannel(t *testing.T) {
	broken := &recordingChannel{name: "email", err: errors.New("rate limited")}
	working := &recordingChannel{name: "sms"}
	n := NewNotifier(broken, nil, working)

	assert.Equal(t, []string{"email", "sms"}, n.Channels())

	err := n.NotifyEverywhere(context.Background(), Notification{Subject: "hi", Text: "hi"})
	require.Error(t, err)
	assert.True(t, errs.IsPartialFailureError(err))
	assert.Contains(t, err.Error(), "rate limited")
	assert.Contains(t, err.Error(), "Failed to send email notification")
	assert.Len(t, broken.sent, 1)
	assert.Len(t, working.sent, 1)

	assert.NoError(t, NewNotifier().NotifyEverywhere(context.Background(), Notification{}))
}

func TestNotifierFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]string
		want []string
	}{
		{"nothing configured", map[string]string{}, []string{}},
		{"email only", map[string]string{
			"RESEND_API_KEY":    "re_123",
			"RESEND_FROM_EMAIL": "Site <site@getwebfast.com>",
			"NOTIFY_EMAIL":      "owner@getwebfast.com",
		}, []string{"email"}},
		{"email without recipient", map[string]string{
			"RESEND_API_KEY":    "re_123",
			"RESEND_FROM_EMAIL": "Site <site@getwebfast.com>",
		}, []string{}},
		{"both", map[string]string{
			"RESEND_API_KEY":     "re_123",
			"RESEND_FROM_EMAIL":  "Site <site@getwebfast.com>",
			"NOTIFY_EMAIL":       "owner@getwebfast.com",
			"TWILIO_ACCOUNT_SID": "AC123",
			"TWILIO_AUTH_TOKEN":  "secret",
			"TWILIO_FROM_NUMBER": "+15550000000",
			"NOTIFY_PHONE":       "+15551111111",
		}, []string{"email", "sms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewNotifierFromConfig(tt.cfg).Channels())
		})
	}
}

func TestEmailChannelSend(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer server.Close()

	ch := NewEmailChannel(map[string]string{
		"RESEND_API_KEY":    "re_123",
		"RESEND_FROM_EMAIL": "Site <site@getwebfast.com>",
		"NOTIFY_EMAIL":      "owner@getwebfast.com, partner@getwebfast.com",
		"RESEND_ENDPOINT":   server.URL,
	})
	require.NotNil(t, ch)

	err := ch.Notify(context.Background(), Notification{Subject: "New inquiry", HTML: "<p>hi</p>", Text: "hi", ReplyTo: "dana@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer re_123", auth)
	assert.Equal(t, []string{"owner@getwebfast.com", "partner@getwebfast.com"}, got.To)
	assert.Equal(t, "New inquiry", got.Subject)
	assert.Equal(t, "dana@acme.test", got.ReplyTo)
}

func TestEmailChannelSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid from address"}`))
	}))
	defer server.Close()

	ch := NewEmailChannel(map[string]string{
		"RESEND_API_KEY":    "re_123",
		"RESEND_FROM_EMAIL": "bad",
		"NOTIFY_EMAIL":      "owner@getwebfast.com",
		"RESEND_ENDPOINT":   server.URL,
	})
	err := ch.Notify(context.Background(), Notification{Subject: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid from address")
	assert.Contains(t, err.Error(), "422")
}

func TestSMSChannel(t *testing.T) {
	api := &fakeTwilio{}
	ch := newSMSChannel(api, "+15550000000", []string{"+15551111111", "+15552222222"})

	long := strings.Repeat("a", maxSMSLength+50)
	require.NoError(t, ch.Notify(context.Background(), Notification{Text: long}))
	require.Len(t, api.params, 2)
	assert.Equal(t, "+15551111111", *api.params[0].To)
	assert.Equal(t, "+15550000000", *api.params[0].From)
	assert.Equal(t, maxSMSLength, len([]rune(*api.params[0].Body)))

	api.err = errors.New("unverified number")
	err := ch.Notify(context.Background(), Notification{Text: "hi"})
	assert.ErrorContains(t, err, "unverified number")
}

func TestInquirySubmit(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	channel := &recordingChannel{name: "email"}
	svc := NewInquiryService(db, NewNotifier(channel), map[string]string{"BASE_URL": "https://getwebfast.com/"})

	inquiry, err := svc.Submit(ctx, ContactInput{
		Name:    " Dana <b>Lee</b> ",
		Email:   "Dana@Acme.test",
		Service: "Growth",
		Message: "We need a new site & a blog.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana Lee", inquiry.Name)
	assert.Equal(t, "dana@acme.test", inquiry.Email)
	assert.Equal(t, "We need a new site & a blog.", inquiry.Message)

	require.Len(t, channel.sent, 1)
	sent := channel.sent[0]
	assert.Equal(t, "New inquiry from Dana Lee about Growth", sent.Subject)
	assert.Equal(t, "dana@acme.test", sent.ReplyTo)
	assert.Contains(t, sent.HTML, "new site &amp; a blog")
	assert.Contains(t, sent.Text, "https://getwebfast.com/admin/inquiries")

	stored, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, inquiry.ID, stored[0].ID)
}

func TestInquirySubmitSurvivesNotificationFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	svc := NewInquiryService(db, NewNotifier(&recordingChannel{name: "sms", err: errors.New("down")}), nil)

	_, err := svc.Submit(ctx, ContactInput{Name: "Dana", Email: "dana@acme.test", Message: "Hello"})
	require.NoError(t, err)

	stored, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestInquiryValidation(t *testing.T) {
	svc := NewInquiryService(newTestDatabase(t), nil, nil)

	tests := []struct {
		name  string
		input ContactInput
		check func(error) bool
	}{
		{"missing name", ContactInput{Email: "a@b.test", Message: "hi"}, errs.IsMissingRequiredFieldError},
		{"missing email", ContactInput{Name: "A", Message: "hi"}, errs.IsMissingRequiredFieldError},
		{"bad email", ContactInput{Name: "A", Email: "not-an-email", Message: "hi"}, errs.IsInvalidFieldError},
		{"display name email", ContactInput{Name: "A", Email: "A <a@b.test>", Message: "hi"}, errs.IsInvalidFieldError},
		{"missing message", ContactInput{Name: "A", Email: "a@b.test", Message: "<p> </p>"}, errs.IsMissingRequiredFieldError},
		{"message too long", ContactInput{Name: "A", Email: "a@b.test", Message: strings.Repeat("x", maxInquiryMessageLength+1)}, errs.IsInvalidFieldError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}
