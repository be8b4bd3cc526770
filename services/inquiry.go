package services

import (
	"context"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/getwebfast/site-backend/config"
	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/htmlsanitize"
	"github.com/getwebfast/site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxInquiryMessageLength = 5000

// ContactInput is what the contact form posts.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
}

type InquiryService struct {
	db       database.Database
	notifier *Notifier
	baseURL  string
	logger   zerolog.Logger
}

func NewInquiryService(db database.Database, notifier *Notifier, c map[string]string) *InquiryService {
	if notifier == nil {
		notifier = NewNotifier()
	}
	return &InquiryService{
		db:       db,
		notifier: notifier,
		baseURL:  strings.TrimSuffix(config.GetString(c, "BASE_URL", ""), "/"),
		logger:   log.With().Str("component", "inquiries").Logger(),
	}
}

func validateContact(in ContactInput) (ContactInput, error) {
	out := ContactInput{
		Name:    strings.TrimSpace(htmlsanitize.StripTags(in.Name)),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Service: strings.TrimSpace(htmlsanitize.StripTags(in.Service)),
		Message: strings.TrimSpace(htmlsanitize.StripTags(in.Message)),
	}
	if out.Name == "" {
		return out, errs.NewMissingRequiredFieldError("name")
	}
	if out.Email == "" {
		return out, errs.NewMissingRequiredFieldError("email")
	}
	addr, err := mail.ParseAddress(out.Email)
	if err != nil || addr.Name != "" {
		return out, errs.NewInvalidFieldError("email", "must be an email address")
	}
	out.Email = database.NormalizeEmail(addr.Address)
	if out.Message == "" {
		return out, errs.NewMissingRequiredFieldError("message")
	}
	if utf8.RuneCountInString(out.Message) > maxInquiryMessageLength {
		return out, errs.NewInvalidFieldError("message", fmt.Sprintf("must be at most %d characters", maxInquiryMessageLength))
	}
	return out, nil
}

// Submit stores the inquiry and then tells the owner about it. Once the
// row is stored the inquiry counts as received, so notification failures
// are only logged.
func (s *InquiryService) Submit(ctx context.Context, in ContactInput) (*models.Inquiry, error) {
	clean, err := validateContact(in)
	if err != nil {
		return nil, err
	}

	inquiry := &models.Inquiry{
		Name:    clean.Name,
		Email:   clean.Email,
		Phone:   clean.Phone,
		Service: clean.Service,
		Message: clean.Message,
	}
	if err := s.db.InquiryRepo().Add(ctx, inquiry); err != nil {
		return nil, errs.NewDatabaseError("create", "inquiry", err)
	}
	s.logger.Info().Str("inquiryId", inquiry.ID.String()).Str("service", inquiry.Service).Msg("Received contact inquiry")

	if err := s.notifier.NotifyEverywhere(ctx, s.notification(inquiry)); err != nil {
		s.logger.Warn().Err(err).Str("inquiryId", inquiry.ID.String()).Msg("Inquiry stored but owner notification failed")
	}
	return inquiry, nil
}

func (s *InquiryService) List(ctx context.Context) ([]*models.Inquiry, error) {
	inquiries, err := s.db.InquiryRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "inquiry", err)
	}
	return inquiries, nil
}

func (s *InquiryService) notification(i *models.Inquiry) Notification {
	subject := "New inquiry from " + i.Name
	if i.Service != "" {
		subject += " about " + i.Service
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s <%s>", i.Name, i.Email)
	if i.Phone != "" {
		fmt.Fprintf(&text, " %s", i.Phone)
	}
	fmt.Fprintf(&text, "\n%s", i.Message)
	link := ""
	if s.baseURL != "" {
		link = s.baseURL + "/admin/inquiries"
		fmt.Fprintf(&text, "\n%s", link)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<p><strong>%s</strong> &lt;%s&gt;</p>", html.EscapeString(i.Name), html.EscapeString(i.Email))
	if i.Phone != "" {
		fmt.Fprintf(&body, "<p>Phone: %s</p>", html.EscapeString(i.Phone))
	}
	if i.Service != "" {
		fmt.Fprintf(&body, "<p>Service: %s</p>", html.EscapeString(i.Service))
	}
	fmt.Fprintf(&body, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(i.Message), "\n", "<br>"))
	if link != "" {
		fmt.Fprintf(&body, `<p><a href="%s">Open in admin</a></p>`, html.EscapeString(link))
	}

	return Notification{
		Subject: subject,
		Text:    text.String(),
		HTML:    body.String(),
		ReplyTo: i.Email,
	}
}
