// Package gateway implements the three email-sending operations exposed
// as tools: single send, send with attachment, and bulk send. Every
// operation performs one blocking SMTP transaction and converts any
// failure into a human-readable result string for the calling agent.
package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sungwon/email-gateway/internal/config"
	"github.com/sungwon/email-gateway/internal/logger"
	"github.com/sungwon/email-gateway/internal/mail"
	"github.com/sungwon/email-gateway/internal/metrics"
	"github.com/sungwon/email-gateway/internal/smtpclient"
)

// Operation names used for logging and metrics labels.
const (
	opSendEmail      = "send_email"
	opSendAttachment = "send_email_with_attachment"
	opSendBulk       = "send_bulk_emails"
)

// Result strings are part of the tool contract: callers receive a string
// describing the outcome, never a structured error.
const (
	msgMissingConfigFull = "Error: Missing required email configuration. Please provide credentials or set environment variables."
	msgMissingConfig     = "Error: Missing required email configuration."
)

// Gateway sends email through a configured SMTP relay. It holds no mutable
// state: every operation re-checks the configuration and opens its own
// session, so concurrent invocations are independent.
type Gateway struct {
	cfg    config.EmailConfig
	dialer smtpclient.Dialer
	log    zerolog.Logger
}

// New creates a Gateway with the given configuration and transport.
func New(cfg config.EmailConfig, dialer smtpclient.Dialer, log zerolog.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		dialer: dialer,
		log:    log,
	}
}

// SendEmail sends a single message with a body of the given type ("plain"
// or "html"). The returned string names the recipient on success or
// describes the failure.
func (g *Gateway) SendEmail(ctx context.Context, to, subject, body string, useTLS bool, bodyType string) string {
	start := time.Now()
	defer func() {
		metrics.SendDuration.WithLabelValues(opSendEmail).Observe(time.Since(start).Seconds())
	}()

	log := g.opLog(ctx)
	if !g.cfg.Complete() {
		log.Warn().Err(ErrConfigIncomplete).Str("operation", opSendEmail).Msg("send refused")
		metrics.SendsTotal.WithLabelValues(opSendEmail, "error").Inc()
		return msgMissingConfigFull
	}

	msg := &mail.Message{
		From:     g.cfg.From,
		To:       to,
		Subject:  subject,
		Body:     body,
		BodyType: mail.ParseBodyType(bodyType),
	}

	if err := g.deliver(log, msg, useTLS); err != nil {
		log.Error().Err(err).Str("operation", opSendEmail).Str("to", to).Msg("send failed")
		metrics.SendsTotal.WithLabelValues(opSendEmail, "error").Inc()
		return fmt.Sprintf("Error sending email: %v", err)
	}

	log.Info().Str("operation", opSendEmail).Str("to", to).Msg("email sent")
	metrics.SendsTotal.WithLabelValues(opSendEmail, "success").Inc()
	return fmt.Sprintf("Email sent successfully to %s", to)
}

// SendEmailWithAttachment sends a single plain-text message with one file
// attached. The attachment must exist on the local filesystem; when it
// does not, no network connection is attempted. The body is always plain
// text in this operation.
func (g *Gateway) SendEmailWithAttachment(ctx context.Context, to, subject, body, attachmentPath string, useTLS bool) string {
	start := time.Now()
	defer func() {
		metrics.SendDuration.WithLabelValues(opSendAttachment).Observe(time.Since(start).Seconds())
	}()

	log := g.opLog(ctx)
	if !g.cfg.Complete() {
		log.Warn().Err(ErrConfigIncomplete).Str("operation", opSendAttachment).Msg("send refused")
		metrics.SendsTotal.WithLabelValues(opSendAttachment, "error").Inc()
		return msgMissingConfig
	}

	attachment, err := loadAttachment(attachmentPath)
	if err != nil {
		metrics.SendsTotal.WithLabelValues(opSendAttachment, "error").Inc()
		var notFound *AttachmentNotFoundError
		if errors.As(err, &notFound) {
			log.Warn().Str("operation", opSendAttachment).Str("path", attachmentPath).Msg("attachment not found")
			return fmt.Sprintf("Error: Attachment file not found: %s", attachmentPath)
		}
		log.Error().Err(err).Str("operation", opSendAttachment).Str("path", attachmentPath).Msg("attachment read failed")
		return fmt.Sprintf("Error sending email with attachment: %v", err)
	}

	msg := &mail.Message{
		From:       g.cfg.From,
		To:         to,
		Subject:    subject,
		Body:       body,
		BodyType:   mail.BodyPlain,
		Attachment: attachment,
	}

	if err := g.deliver(log, msg, useTLS); err != nil {
		log.Error().Err(err).Str("operation", opSendAttachment).Str("to", to).Msg("send failed")
		metrics.SendsTotal.WithLabelValues(opSendAttachment, "error").Inc()
		return fmt.Sprintf("Error sending email with attachment: %v", err)
	}

	log.Info().Str("operation", opSendAttachment).Str("to", to).Str("attachment", attachment.Filename).Msg("email sent")
	metrics.SendsTotal.WithLabelValues(opSendAttachment, "success").Inc()
	return fmt.Sprintf("Email with attachment sent successfully to %s", to)
}

// SendBulkEmails sends the same plain-text message to every recipient in
// a comma-separated list, reusing a single authenticated session for the
// whole batch. Each recipient's send is attempted independently; one
// failure does not abort the loop. The result summarizes successes and
// names each failed recipient with its reason.
func (g *Gateway) SendBulkEmails(ctx context.Context, recipients, subject, body string, useTLS bool) string {
	start := time.Now()
	defer func() {
		metrics.SendDuration.WithLabelValues(opSendBulk).Observe(time.Since(start).Seconds())
	}()

	log := g.opLog(ctx)
	if !g.cfg.Complete() {
		log.Warn().Err(ErrConfigIncomplete).Str("operation", opSendBulk).Msg("send refused")
		metrics.SendsTotal.WithLabelValues(opSendBulk, "error").Inc()
		return msgMissingConfig
	}

	list := splitRecipients(recipients)

	// One session for the whole batch. A mid-loop failure never triggers
	// a reconnect; that trade-off keeps connection overhead at one
	// handshake per operation.
	sess, err := g.openSession(useTLS)
	if err != nil {
		log.Error().Err(err).Str("operation", opSendBulk).Msg("session setup failed")
		metrics.SendsTotal.WithLabelValues(opSendBulk, "error").Inc()
		return fmt.Sprintf("Error sending bulk emails: %v", err)
	}

	var sent []string
	var failed []string
	for _, rcpt := range list {
		msg := &mail.Message{
			From:     g.cfg.From,
			To:       rcpt,
			Subject:  subject,
			Body:     body,
			BodyType: mail.BodyPlain,
		}
		raw, err := msg.Bytes()
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", rcpt, err))
			metrics.BulkRecipientsTotal.WithLabelValues("failure").Inc()
			continue
		}
		if err := sess.Send(g.cfg.From, []string{rcpt}, raw); err != nil {
			log.Warn().Err(err).Str("operation", opSendBulk).Str("to", rcpt).Msg("recipient send failed")
			failed = append(failed, fmt.Sprintf("%s: %v", rcpt, err))
			metrics.BulkRecipientsTotal.WithLabelValues("failure").Inc()
			metrics.SMTPMessagesTotal.WithLabelValues("failed").Inc()
			continue
		}
		sent = append(sent, rcpt)
		metrics.BulkRecipientsTotal.WithLabelValues("success").Inc()
		metrics.SMTPMessagesTotal.WithLabelValues("sent").Inc()
	}

	if err := sess.Quit(); err != nil {
		log.Warn().Err(err).Str("operation", opSendBulk).Msg("smtp quit failed")
	}

	result := fmt.Sprintf("Successfully sent to %d recipients.", len(sent))
	if len(failed) > 0 {
		result += fmt.Sprintf("\nFailed for %d recipients: %s", len(failed), strings.Join(failed, ", "))
		metrics.SendsTotal.WithLabelValues(opSendBulk, "partial").Inc()
	} else {
		metrics.SendsTotal.WithLabelValues(opSendBulk, "success").Inc()
	}

	log.Info().
		Str("operation", opSendBulk).
		Int("sent", len(sent)).
		Int("failed", len(failed)).
		Msg("bulk send completed")

	return result
}

// deliver renders the message and runs one full SMTP transaction for it.
// Exactly one of Quit (success) or Close (failure) is called on the
// session, so the socket is released on every exit path.
func (g *Gateway) deliver(log zerolog.Logger, msg *mail.Message, useTLS bool) error {
	raw, err := msg.Bytes()
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	sess, err := g.openSession(useTLS)
	if err != nil {
		return err
	}

	if err := sess.Send(msg.From, []string{msg.To}, raw); err != nil {
		_ = sess.Close()
		metrics.SMTPMessagesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}
	metrics.SMTPMessagesTotal.WithLabelValues("sent").Inc()

	if err := sess.Quit(); err != nil {
		log.Warn().Err(err).Msg("smtp quit failed")
	}
	return nil
}

// opLog attaches the invocation's correlation ID, when present in the
// context, to the gateway logger.
func (g *Gateway) opLog(ctx context.Context) zerolog.Logger {
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		return g.log.With().Str("correlation_id", id).Logger()
	}
	return g.log
}

// openSession dials the configured relay and walks the session through
// optional STARTTLS and authentication. On any failure after the dial the
// connection is closed before returning.
func (g *Gateway) openSession(useTLS bool) (smtpclient.Session, error) {
	addr := fmt.Sprintf("%s:%d", g.cfg.Host, g.cfg.Port)

	sess, err := g.dialer.Dial(addr)
	if err != nil {
		metrics.SMTPSessionsTotal.WithLabelValues("connect_failed").Inc()
		return nil, fmt.Errorf("connect: %w", err)
	}

	if useTLS {
		if err := sess.StartTLS(&tls.Config{ServerName: g.cfg.Host}); err != nil {
			_ = sess.Close()
			metrics.SMTPSessionsTotal.WithLabelValues("tls_failed").Inc()
			return nil, fmt.Errorf("starttls: %w", err)
		}
	}

	if err := sess.Auth(g.cfg.Username, g.cfg.Password); err != nil {
		_ = sess.Close()
		metrics.SMTPSessionsTotal.WithLabelValues("auth_failed").Inc()
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	metrics.SMTPSessionsTotal.WithLabelValues("established").Inc()
	return sess, nil
}

// loadAttachment stats and fully reads the file at path. The filename of
// the returned attachment is the final path segment.
func loadAttachment(path string) (*mail.Attachment, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &AttachmentNotFoundError{Path: path}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return &mail.Attachment{
		Filename: filepath.Base(path),
		Content:  content,
	}, nil
}

// splitRecipients splits a comma-separated recipient list, trimming
// surrounding whitespace from each entry and dropping entries that are
// empty after the trim.
func splitRecipients(recipients string) []string {
	parts := strings.Split(recipients, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
