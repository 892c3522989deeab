package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"wedplan/internal/config"
)

const smtpDialTimeout = 10 * time.Second

type IMailService interface {
	SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error
	SendMailToResetPassword(email, code string) error
	SendMoodboardShare(to, coupleNames, shareID string) error
}

// mailContent is rendered into both the HTML and the plain-text part.
type mailContent struct {
	Subject   string
	Heading   string
	Lines     []string
	Code      string
	ActionURL string
	Action    string
	AppName   string
	Year      int
}

type smtpMailService struct {
	cfg  config.MailConfig
	html *template.Template
	text *texttemplate.Template
	now  func() time.Time
}

func NewSMTPMailService(cfg config.MailConfig) IMailService {
	return &smtpMailService{
		cfg:  cfg,
		html: template.Must(template.New("html").Parse(mailHTML)),
		text: texttemplate.Must(texttemplate.New("text").Parse(mailText)),
		now:  time.Now,
	}
}

func (s *smtpMailService) SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error {
	return s.deliver(to, mailContent{
		Subject:   subject,
		Heading:   subject,
		Lines:     []string{body},
		ActionURL: ctaURL,
		Action:    ctaText,
	})
}

func (s *smtpMailService) SendMailToResetPassword(to, code string) error {
	q := url.Values{"email": {to}, "token": {code}}
	return s.deliver(to, mailContent{
		Subject: "Your password reset code",
		Heading: "Reset your password",
		Lines: []string{
			"Use this code to choose a new password. It works once and expires soon.",
			"If you did not ask for a reset, ignore this message.",
		},
		Code:      code,
		ActionURL: s.link("/reset-password", q),
		Action:    "Choose a new password",
	})
}

func (s *smtpMailService) SendMoodboardShare(to, coupleNames, shareID string) error {
	who := coupleNames
	if who == "" {
		who = "A couple planning their wedding"
	}
	return s.deliver(to, mailContent{
		Subject:   who + " shared their wedding moodboard",
		Heading:   "A moodboard for you",
		Lines:     []string{who + " would love to hear what you think of their wedding moodboard."},
		ActionURL: s.link("/moodboard/shared", url.Values{"shareId": {shareID}}),
		Action:    "Open the moodboard",
	})
}

func (s *smtpMailService) link(path string, q url.Values) string {
	return strings.TrimRight(s.cfg.AppBaseURL, "/") + path + "?" + q.Encode()
}

func (s *smtpMailService) deliver(to string, content mailContent) error {
	msg, err := s.compose(to, content)
	if err != nil {
		return fmt.Errorf("render mail: %w", err)
	}

	c, err := s.dial()
	if err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	defer c.Close()

	if err := s.transmit(c, to, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return c.Quit()
}

// compose renders a multipart/alternative message with quoted-printable parts.
func (s *smtpMailService) compose(to string, content mailContent) ([]byte, error) {
	content.AppName = s.cfg.AppName
	content.Year = s.now().Year()

	var html, text bytes.Buffer
	if err := s.html.Execute(&html, content); err != nil {
		return nil, err
	}
	if err := s.text.Execute(&text, content); err != nil {
		return nil, err
	}

	boundary := fmt.Sprintf("wedplan-%d", s.now().UnixNano())
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.fromHeader())
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", content.Subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	for _, part := range []struct {
		contentType string
		body        []byte
	}{
		{"text/plain", text.Bytes()},
		{"text/html", html.Bytes()},
	} {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		fmt.Fprintf(&msg, "Content-Type: %s; charset=UTF-8\r\n", part.contentType)
		msg.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		qp := quotedprintable.NewWriter(&msg)
		if _, err := qp.Write(part.body); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		msg.WriteString("\r\n")
	}
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)
	return msg.Bytes(), nil
}

// dial connects with implicit TLS when UseSSL is set (port 465), otherwise
// in plain text upgraded with STARTTLS (port 587).
func (s *smtpMailService) dial() (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: smtpDialTimeout}

	if s.cfg.UseSSL {
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, s.cfg.Host)
	}

	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(tlsCfg); err != nil {
			c.Close()
			return nil, err
		}
	} else if s.cfg.RequireTLS {
		c.Close()
		return nil, fmt.Errorf("%s does not offer STARTTLS", s.cfg.Host)
	}
	return c, nil
}

func (s *smtpMailService) transmit(c *smtp.Client, to string, msg []byte) error {
	if s.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) fromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		name = s.cfg.AppName
	}
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), s.cfg.From)
}

const mailHTML = `<!doctype html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background:#faf6f2;font-family:Georgia,'Times New Roman',serif;color:#3d2f2a;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="padding:32px 12px;">
<tr><td align="center">
<table role="presentation" width="560" cellpadding="0" cellspacing="0" style="max-width:560px;background:#ffffff;border:1px solid #ead9cf;border-radius:12px;">
<tr><td style="padding:28px 32px 8px;text-align:center;border-bottom:1px solid #f3e6dd;">
<div style="font-size:13px;letter-spacing:3px;text-transform:uppercase;color:#b08968;">{{.AppName}}</div>
<h1 style="margin:12px 0 16px;font-weight:normal;font-size:26px;color:#7a4e3b;">{{.Heading}}</h1>
</td></tr>
<tr><td style="padding:24px 32px;font-size:16px;line-height:1.6;">
{{range .Lines}}<p style="margin:0 0 14px;">{{.}}</p>
{{end}}{{if .Code}}<p style="margin:20px 0;text-align:center;">
<span style="display:inline-block;padding:12px 24px;border:1px dashed #c9a27e;border-radius:8px;font-family:'Courier New',monospace;font-size:28px;letter-spacing:6px;color:#7a4e3b;">{{.Code}}</span>
</p>
{{end}}{{if .ActionURL}}<p style="margin:24px 0 8px;text-align:center;">
<a href="{{.ActionURL}}" style="display:inline-block;padding:12px 28px;background:#c98b8b;color:#ffffff;text-decoration:none;border-radius:24px;font-size:15px;">{{.Action}}</a>
</p>
{{end}}</td></tr>
<tr><td style="padding:16px 32px 24px;text-align:center;font-size:12px;color:#a38f85;">&copy; {{.Year}} {{.AppName}}</td></tr>
</table>
</td></tr>
</table>
</body>
</html>
`

const mailText = `{{.Heading}}

{{range .Lines}}{{.}}
{{end}}{{if .Code}}
Code: {{.Code}}
{{end}}{{if .ActionURL}}
{{.Action}}: {{.ActionURL}}
{{end}}
{{.AppName}} {{.Year}}
`
