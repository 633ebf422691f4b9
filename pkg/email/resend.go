package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender is the part of the resend client the service uses.
type Sender interface {
	Send(params *resend.SendEmailRequest) (resend.SendEmailResponse, error)
}

type Config struct {
	APIKey      string
	FromAddress string
	FromName    string
	FrontendURL string
}

type EmailService struct {
	sender      Sender
	from        string
	frontendURL string
	logger      *zap.Logger
}

// NewEmailService returns a disabled service when cfg.APIKey is empty.
func NewEmailService(cfg Config, logger *zap.Logger) *EmailService {
	var sender Sender
	if cfg.APIKey != "" {
		sender = resend.NewClient(cfg.APIKey).Emails
	}
	return newEmailService(sender, cfg, logger)
}

func newEmailService(sender Sender, cfg Config, logger *zap.Logger) *EmailService {
	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = cfg.FromName + " <" + cfg.FromAddress + ">"
	}
	return &EmailService{
		sender:      sender,
		from:        from,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		logger:      logger.Named("email"),
	}
}

func (s *EmailService) Enabled() bool {
	return s.sender != nil
}

func (s *EmailService) SendWelcomeEmail(to, name string) error {
	return s.send(to, "¡Bienvenido a Eventos!", "welcome.html", map[string]interface{}{
		"Name":        name,
		"Email":       to,
		"FrontendURL": s.frontendURL,
		"Year":        time.Now().Year(),
	})
}

func (s *EmailService) SendAttendanceConfirmation(to, name, eventID, title, location string, date time.Time) error {
	return s.send(to, "Attendance confirmed: "+title, "attendance.html", map[string]interface{}{
		"Name":     name,
		"Title":    title,
		"Location": location,
		"Date":     date.Format("02/01/2006 15:04"),
		"Link":     s.frontendURL + "/eventos/" + eventID,
		"Year":     time.Now().Year(),
	})
}

func (s *EmailService) send(to, subject, templateName string, data interface{}) error {
	if !s.Enabled() {
		s.logger.Debug("email disabled, skipping", zap.String("template", templateName), zap.String("to", to))
		return nil
	}

	html, err := parseTemplate(templateName, data)
	if err != nil {
		s.logger.Error("failed to render email", zap.String("template", templateName), zap.Error(err))
		return err
	}

	resp, err := s.sender.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		s.logger.Warn("failed to send email", zap.String("template", templateName), zap.String("to", to), zap.Error(err))
		return fmt.Errorf("send %s: %w", templateName, err)
	}

	s.logger.Info("email sent", zap.String("template", templateName), zap.String("to", to), zap.String("id", resp.Id))
	return nil
}

func parseTemplate(templateName string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
