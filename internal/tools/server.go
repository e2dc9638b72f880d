// Package tools wires the gateway's send operations into MCP tools served
// over the streamable HTTP transport.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/sungwon/email-gateway/internal/logger"
)

// ServerName and ServerVersion identify this MCP server to clients.
const (
	ServerName    = "Email Server"
	ServerVersion = "1.0.0"
)

// Sender is the gateway surface the tools need. Every operation returns a
// human-readable outcome string; failures never surface as tool errors.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string, useTLS bool, bodyType string) string
	SendEmailWithAttachment(ctx context.Context, to, subject, body, attachmentPath string, useTLS bool) string
	SendBulkEmails(ctx context.Context, recipients, subject, body string, useTLS bool) string
}

// NewServer creates the MCP server with the three email tools registered.
func NewServer(sender Sender, log zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(sendEmailTool(), sendEmailHandler(sender, log))
	s.AddTool(sendEmailWithAttachmentTool(), sendEmailWithAttachmentHandler(sender, log))
	s.AddTool(sendBulkEmailsTool(), sendBulkEmailsHandler(sender, log))

	return s
}

func sendEmailTool() mcp.Tool {
	return mcp.NewTool("send_email",
		mcp.WithDescription("Send an email through SMTP server."),
		mcp.WithString("to_email",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content"),
		),
		mcp.WithBoolean("use_tls",
			mcp.Description("Whether to use TLS encryption"),
			mcp.DefaultBool(true),
		),
		mcp.WithString("body_type",
			mcp.Description("Email body type - 'plain' or 'html'"),
			mcp.DefaultString("plain"),
			mcp.Enum("plain", "html"),
		),
	)
}

func sendEmailWithAttachmentTool() mcp.Tool {
	return mcp.NewTool("send_email_with_attachment",
		mcp.WithDescription("Send an email with an attachment through SMTP server."),
		mcp.WithString("to_email",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content"),
		),
		mcp.WithString("attachment_path",
			mcp.Required(),
			mcp.Description("Path to file to attach"),
		),
		mcp.WithBoolean("use_tls",
			mcp.Description("Whether to use TLS encryption"),
			mcp.DefaultBool(true),
		),
	)
}

func sendBulkEmailsTool() mcp.Tool {
	return mcp.NewTool("send_bulk_emails",
		mcp.WithDescription("Send the same email to multiple recipients."),
		mcp.WithString("recipients",
			mcp.Required(),
			mcp.Description("Comma-separated list of email addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content"),
		),
		mcp.WithBoolean("use_tls",
			mcp.Description("Whether to use TLS encryption"),
			mcp.DefaultBool(true),
		),
	)
}

func sendEmailHandler(sender Sender, log zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		to, err := request.RequireString("to_email")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subject, err := request.RequireString("subject")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body, err := request.RequireString("body")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		useTLS := request.GetBool("use_tls", true)
		bodyType := request.GetString("body_type", "plain")

		ctx = withCorrelation(ctx, log)
		result := sender.SendEmail(ctx, to, subject, body, useTLS, bodyType)
		return mcp.NewToolResultText(result), nil
	}
}

func sendEmailWithAttachmentHandler(sender Sender, log zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		to, err := request.RequireString("to_email")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subject, err := request.RequireString("subject")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body, err := request.RequireString("body")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		attachmentPath, err := request.RequireString("attachment_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		useTLS := request.GetBool("use_tls", true)

		ctx = withCorrelation(ctx, log)
		result := sender.SendEmailWithAttachment(ctx, to, subject, body, attachmentPath, useTLS)
		return mcp.NewToolResultText(result), nil
	}
}

func sendBulkEmailsHandler(sender Sender, log zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		recipients, err := request.RequireString("recipients")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subject, err := request.RequireString("subject")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body, err := request.RequireString("body")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		useTLS := request.GetBool("use_tls", true)

		ctx = withCorrelation(ctx, log)
		result := sender.SendBulkEmails(ctx, recipients, subject, body, useTLS)
		return mcp.NewToolResultText(result), nil
	}
}

// withCorrelation tags the invocation with a fresh correlation ID and a
// context logger so gateway log lines can be tied to one tool call.
func withCorrelation(ctx context.Context, log zerolog.Logger) context.Context {
	id := logger.NewCorrelationID()
	ctx = logger.WithCorrelationID(ctx, id)
	return logger.WithLogger(ctx, log.With().Str("correlation_id", id).Logger())
}
