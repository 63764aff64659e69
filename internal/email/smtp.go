package email

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"text/template"

	"go.uber.org/zap"

	"taskmanager/internal/config"
	"taskmanager/pkg/metrics"
)

// SMTPDispatcher renders templates and sends them over SMTP. In demo
// mode it logs the rendered message instead of dialing out, so the whole
// pipeline works without a mail server.
type SMTPDispatcher struct {
	cfg    config.EmailConfig
	auth   smtp.Auth
	logger *zap.Logger
}

func NewSMTPDispatcher(cfg config.EmailConfig, logger *zap.Logger) *SMTPDispatcher {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPDispatcher{cfg: cfg, auth: auth, logger: logger}
}

func (d *SMTPDispatcher) SendAssigned(ctx context.Context, m AssignedEmail) error {
	return d.send(TemplateAssigned, assignedTemplate, m.To, m)
}

func (d *SMTPDispatcher) SendCompleted(ctx context.Context, m CompletedEmail) error {
	return d.send(TemplateCompleted, completedTemplate, m.To, m)
}

func (d *SMTPDispatcher) SendUpdated(ctx context.Context, m UpdatedEmail) error {
	return d.send(TemplateUpdated, updatedTemplate, m.To, m)
}

func (d *SMTPDispatcher) send(name string, tmpl emailTemplate, to string, data any) error {
	subject, err := render(tmpl.Subject, data)
	if err != nil {
		return fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err := render(tmpl.HTMLBody, data)
	if err != nil {
		return fmt.Errorf("render html body: %w", err)
	}
	textBody, err := render(tmpl.TextBody, data)
	if err != nil {
		return fmt.Errorf("render text body: %w", err)
	}

	if d.cfg.DemoMode {
		d.logger.Info("Email (demo mode, not sent)",
			zap.String("template", name),
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", textBody),
		)
		metrics.EmailsSent.WithLabelValues(name, "demo").Inc()
		return nil
	}

	message := buildMIMEMessage(d.cfg.FromEmail, d.cfg.FromName, to, subject, textBody, htmlBody)
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)

	if err := smtp.SendMail(addr, d.auth, d.cfg.FromEmail, []string{to}, message); err != nil {
		metrics.EmailsSent.WithLabelValues(name, "failed").Inc()
		return fmt.Errorf("send email: %w", err)
	}

	d.logger.Info("Email sent",
		zap.String("template", name),
		zap.String("to", to),
		zap.String("subject", subject),
	)
	metrics.EmailsSent.WithLabelValues(name, "sent").Inc()
	return nil
}

func render(templateStr string, data any) (string, error) {
	t, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func generateBoundary() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// buildMIMEMessage assembles a multipart/alternative message with text
// and HTML parts.
func buildMIMEMessage(from, fromName, to, subject, textBody, htmlBody string) []byte {
	boundary := generateBoundary()
	message := fmt.Sprintf(`From: %s <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="%s"

--%s
Content-Type: text/plain; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s
Content-Type: text/html; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s--
`, fromName, from, to, subject, boundary, boundary, textBody, boundary, htmlBody, boundary)

	return []byte(message)
}
