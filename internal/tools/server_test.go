package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sungwon/email-gateway/internal/logger"
)

// recordingSender captures tool handler arguments and returns a canned
// result string.
type recordingSender struct {
	result string

	to, subject, body string
	attachmentPath    string
	recipients        string
	useTLS            bool
	bodyType          string
	calls             int
}

func (r *recordingSender) SendEmail(ctx context.Context, to, subject, body string, useTLS bool, bodyType string) string {
	r.calls++
	r.to, r.subject, r.body = to, subject, body
	r.useTLS, r.bodyType = useTLS, bodyType
	return r.result
}

func (r *recordingSender) SendEmailWithAttachment(ctx context.Context, to, subject, body, attachmentPath string, useTLS bool) string {
	r.calls++
	r.to, r.subject, r.body = to, subject, body
	r.attachmentPath = attachmentPath
	r.useTLS = useTLS
	return r.result
}

func (r *recordingSender) SendBulkEmails(ctx context.Context, recipients, subject, body string, useTLS bool) string {
	r.calls++
	r.recipients, r.subject, r.body = recipients, subject, body
	r.useTLS = useTLS
	return r.result
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textResult(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected single content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestSendEmailHandler_PassesArguments(t *testing.T) {
	sender := &recordingSender{result: "Email sent successfully to rcpt@example.com"}
	handler := sendEmailHandler(sender, logger.New("disabled"))

	res, err := handler(context.Background(), callRequest("send_email", map[string]any{
		"to_email":  "rcpt@example.com",
		"subject":   "Hi",
		"body":      "<b>hello</b>",
		"use_tls":   false,
		"body_type": "html",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := textResult(t, res); got != "Email sent successfully to rcpt@example.com" {
		t.Errorf("unexpected result text: %q", got)
	}
	if sender.to != "rcpt@example.com" || sender.subject != "Hi" || sender.body != "<b>hello</b>" {
		t.Errorf("unexpected arguments: %+v", sender)
	}
	if sender.useTLS {
		t.Error("expected use_tls=false to be passed through")
	}
	if sender.bodyType != "html" {
		t.Errorf("expected body_type html, got %s", sender.bodyType)
	}
}

func TestSendEmailHandler_Defaults(t *testing.T) {
	sender := &recordingSender{result: "ok"}
	handler := sendEmailHandler(sender, logger.New("disabled"))

	_, err := handler(context.Background(), callRequest("send_email", map[string]any{
		"to_email": "rcpt@example.com",
		"subject":  "Hi",
		"body":     "hello",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !sender.useTLS {
		t.Error("expected use_tls to default to true")
	}
	if sender.bodyType != "plain" {
		t.Errorf("expected body_type to default to plain, got %s", sender.bodyType)
	}
}

func TestSendEmailHandler_MissingRequiredArgument(t *testing.T) {
	sender := &recordingSender{result: "ok"}
	handler := sendEmailHandler(sender, logger.New("disabled"))

	res, err := handler(context.Background(), callRequest("send_email", map[string]any{
		"subject": "Hi",
		"body":    "hello",
	}))
	if err != nil {
		t.Fatalf("expected no protocol error, got %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for missing to_email")
	}
	if sender.calls != 0 {
		t.Error("expected no send attempt for invalid arguments")
	}
}

func TestSendEmailHandler_GatewayErrorStringIsNotToolError(t *testing.T) {
	sender := &recordingSender{result: "Error sending email: connect: connection refused"}
	handler := sendEmailHandler(sender, logger.New("disabled"))

	res, err := handler(context.Background(), callRequest("send_email", map[string]any{
		"to_email": "rcpt@example.com",
		"subject":  "Hi",
		"body":     "hello",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Send failures are part of the result contract, not tool errors.
	if res.IsError {
		t.Error("expected plain text result for a send failure")
	}
	if got := textResult(t, res); got != sender.result {
		t.Errorf("expected gateway string passed through, got %q", got)
	}
}

func TestSendEmailWithAttachmentHandler_PassesArguments(t *testing.T) {
	sender := &recordingSender{result: "ok"}
	handler := sendEmailWithAttachmentHandler(sender, logger.New("disabled"))

	_, err := handler(context.Background(), callRequest("send_email_with_attachment", map[string]any{
		"to_email":        "rcpt@example.com",
		"subject":         "Hi",
		"body":            "see attached",
		"attachment_path": "/tmp/report.pdf",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sender.attachmentPath != "/tmp/report.pdf" {
		t.Errorf("expected attachment path passed through, got %s", sender.attachmentPath)
	}
	if !sender.useTLS {
		t.Error("expected use_tls to default to true")
	}
}

func TestSendEmailWithAttachmentHandler_MissingPath(t *testing.T) {
	sender := &recordingSender{result: "ok"}
	handler := sendEmailWithAttachmentHandler(sender, logger.New("disabled"))

	res, err := handler(context.Background(), callRequest("send_email_with_attachment", map[string]any{
		"to_email": "rcpt@example.com",
		"subject":  "Hi",
		"body":     "see attached",
	}))
	if err != nil {
		t.Fatalf("expected no protocol error, got %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for missing attachment_path")
	}
	if sender.calls != 0 {
		t.Error("expected no send attempt")
	}
}

func TestSendBulkEmailsHandler_PassesArguments(t *testing.T) {
	sender := &recordingSender{result: "Successfully sent to 2 recipients."}
	handler := sendBulkEmailsHandler(sender, logger.New("disabled"))

	res, err := handler(context.Background(), callRequest("send_bulk_emails", map[string]any{
		"recipients": "a@x.com, b@x.com",
		"subject":    "Hi",
		"body":       "hello",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sender.recipients != "a@x.com, b@x.com" {
		t.Errorf("expected raw recipient string passed through, got %q", sender.recipients)
	}
	if got := textResult(t, res); got != "Successfully sent to 2 recipients." {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestNewServer_RegistersWithoutPanic(t *testing.T) {
	s := NewServer(&recordingSender{result: "ok"}, logger.New("disabled"))
	if s == nil {
		t.Fatal("expected MCP server")
	}
}
