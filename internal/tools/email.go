package tools

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/rahul/sahayak/internal/task"
	"github.com/rahul/sahayak/pkg/config"
	mail "github.com/wneessen/go-mail"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>]+`)

// EmailTool sends the run's result by SMTP. Without SMTP configuration it
// dry-runs: the outgoing message is written to the execution log instead.
type EmailTool struct {
	SMTP config.SMTPConfig
}

func NewEmailTool(cfg config.SMTPConfig) *EmailTool {
	return &EmailTool{SMTP: cfg}
}

func (e *EmailTool) Name() string {
	return "email"
}

func (e *EmailTool) Description() string {
	return "Send results by email. Args: to (string), subject (string), body (string, optional; defaults to the gathered summary or results)."
}

func (e *EmailTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient address",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Email subject",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Email body; omit to use the summary or results from earlier steps",
			},
		},
		"required": []string{"to"},
	}
}

func (e *EmailTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	to := args.String("to")
	subject := args.String("subject")
	if subject == "" {
		subject = "Agent result"
	}

	body := args.String("body")
	if body == "" {
		body = composeBody(tc)
	}
	if body == "" {
		body = "(no content available)"
	}

	if to == "" {
		return nil, task.Toolf(e.Name(), "missing recipient")
	}

	if !e.SMTP.Configured() {
		return &Result{
			Logs: []string{
				fmt.Sprintf("SMTP not configured - would send email to %s with subject %q", to, subject),
				"Email body:\n" + body,
			},
			Output: map[string]any{"email_sent": false, "to": to, "subject": subject},
		}, nil
	}

	if err := e.send(ctx, to, subject, body); err != nil {
		return nil, &task.ToolError{Tool: e.Name(), Err: err}
	}

	return &Result{
		Logs:   []string{fmt.Sprintf("Email sent to %s", to)},
		Output: map[string]any{"email_sent": true, "to": to, "subject": subject},
	}, nil
}

func (e *EmailTool) send(ctx context.Context, to, subject, body string) error {
	from := e.SMTP.From
	if from == "" {
		from = e.SMTP.User
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody(body))

	client, err := mail.NewClient(e.SMTP.Host,
		mail.WithPort(e.SMTP.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(e.SMTP.User),
		mail.WithPassword(e.SMTP.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// composeBody assembles an email body from the execution context: the
// summary when one exists, else search results and scraped content.
func composeBody(tc *task.Context) string {
	if summary := tc.Summary(); summary != "" {
		return summary
	}

	var parts []string
	if results := tc.SearchResults(); len(results) > 0 {
		parts = append(parts, "Search Results:\n"+strings.Repeat("=", 50))
		for i, r := range results {
			if i >= 10 {
				break
			}
			parts = append(parts, fmt.Sprintf("\n%d. %s", i+1, r.Title))
			parts = append(parts, "   "+r.Snippet)
			if r.URL != "" {
				parts = append(parts, "   "+r.URL+"\n")
			}
		}
	}
	if pages := tc.Pages(); len(parts) == 0 && len(pages) > 0 {
		parts = append(parts, "Scraped Content:\n"+strings.Repeat("=", 50))
		for i, p := range pages {
			if i >= 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("\n%s\n%s...\n", p.URL, truncate(p.Text, 500)))
		}
	}
	return strings.Join(parts, "\n")
}

// htmlBody renders a plain-text body as simple HTML with clickable links.
func htmlBody(body string) string {
	escaped := html.EscapeString(body)
	linked := urlPattern.ReplaceAllString(escaped, `<a href="$0">$0</a>`)
	linked = strings.ReplaceAll(linked, "\n", "<br>\n")
	return fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; line-height: 1.6;"><div style="max-width: 800px; margin: 0 auto; padding: 20px;">%s</div></body></html>`, linked)
}
