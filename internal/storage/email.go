package storage

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"time"

	"github.com/ryosukesatoh/tech-curator/internal/article"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

// EmailDigest sends the digest as a multipart plain+HTML email via SMTP.
type EmailDigest struct {
	host     string
	port     int
	from     string
	password string
	log      *logger.Logger

	// send is swapped out in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailDigest(host string, port int, from, password string, log *logger.Logger) *EmailDigest {
	return &EmailDigest{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		log:      log.With("component", "email"),
		send:     smtp.SendMail,
	}
}

// SendDigest mails the digest to the recipients.
func (e *EmailDigest) SendDigest(to []string, entries []article.Entry) error {
	if len(entries) == 0 {
		e.log.Warn("no entries provided to send")
		return nil
	}

	subject := fmt.Sprintf("Daily Tech News Digest - %s", time.Now().Format("January 2, 2006"))
	msg := buildMessage(e.from, to, subject, PlainBody(entries), HTMLBody(entries))

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.from, e.password, e.host)

	if err := e.send(addr, auth, e.from, to, msg); err != nil {
		return fmt.Errorf("email: failed to send digest: %w", err)
	}

	e.log.Info("digest sent", "recipients", len(to), "entries", len(entries))
	return nil
}

const mimeBoundary = "tech-curator-digest"

func buildMessage(from string, to []string, subject, plain, htmlBody string) []byte {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ",")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(plain)
	sb.WriteString("\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", mimeBoundary))

	return []byte(sb.String())
}

// PlainBody renders the plain text alternative of the digest email.
func PlainBody(entries []article.Entry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Daily Tech News Digest - %s\n\n", time.Now().Format("January 2, 2006")))

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("**%s**\n", orDefault(e.Title, "No Title")))
		sb.WriteString(fmt.Sprintf("Source: %s\n", orDefault(e.Source, "Unknown Source")))
		sb.WriteString(fmt.Sprintf("Link: %s\n", orDefault(e.Link, "No link available")))
		sb.WriteString(e.Summary)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// HTMLBody renders the HTML alternative of the digest email.
func HTMLBody(entries []article.Entry) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><style>
body { font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333; background-color: #f4f4f4; }
h1 { color: #1a1a2e; border-bottom: 2px solid #e94560; padding-bottom: 10px; }
.article { background: #ffffff; border: 1px solid #dddddd; border-radius: 8px; padding: 15px; margin-bottom: 15px; }
.article h3 { margin-top: 0; color: #0f3460; }
.meta { color: #666; font-size: 0.9em; margin-bottom: 10px; }
</style></head><body>`)

	sb.WriteString(fmt.Sprintf("<h1>Daily Tech News Digest</h1><p><em>%s</em></p>", time.Now().Format("January 2, 2006")))

	for _, e := range entries {
		title := html.EscapeString(orDefault(e.Title, "No Title"))
		sb.WriteString(`<div class="article">`)
		if e.Link != "" {
			sb.WriteString(fmt.Sprintf(`<h3><a href="%s">%s</a></h3>`, e.Link, title))
		} else {
			sb.WriteString(fmt.Sprintf("<h3>%s</h3>", title))
		}
		meta := html.EscapeString(orDefault(e.Source, "Unknown Source"))
		if e.Date != "" {
			meta += " | " + html.EscapeString(e.Date)
		}
		sb.WriteString(fmt.Sprintf(`<div class="meta">%s</div>`, meta))
		sb.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(e.Summary)))
		sb.WriteString("</div>")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}
