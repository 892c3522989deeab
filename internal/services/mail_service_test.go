package services

import (
	"io"
	"mime/quotedprintable"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedplan/internal/config"
)

func newTestMailer() *smtpMailService {
	svc := NewSMTPMailService(config.MailConfig{
		From:       "hello@wedplan.test",
		FromName:   "Wedplan",
		AppName:    "Wedplan",
		AppBaseURL: "https://wedplan.test/",
	}).(*smtpMailService)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func decodeBody(t *testing.T, raw []byte) string {
	t.Helper()
	parts := strings.Split(string(raw), "Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	require.Len(t, parts, 3)

	var out strings.Builder
	for _, part := range parts[1:] {
		body, _, _ := strings.Cut(part, "\r\n--")
		decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
		require.NoError(t, err)
		out.Write(decoded)
	}
	return out.String()
}

func TestResetMailCarriesCodeAndLink(t *testing.T) {
	svc := newTestMailer()

	msg, err := svc.compose("sam@example.com", mailContent{
		Subject:   "Your password reset code",
		Heading:   "Reset your password",
		Code:      "123456",
		ActionURL: svc.link("/reset-password", map[string][]string{"email": {"sam@example.com"}, "token": {"123456"}}),
		Action:    "Choose a new password",
	})
	require.NoError(t, err)

	head := string(msg)
	assert.Contains(t, head, "From: Wedplan <hello@wedplan.test>\r\n")
	assert.Contains(t, head, "To: sam@example.com\r\n")
	assert.Contains(t, head, "multipart/alternative")

	body := decodeBody(t, msg)
	assert.Contains(t, body, "Code: 123456")
	assert.Contains(t, body, "https://wedplan.test/reset-password?email=sam%40example.com&token=123456")
	assert.Contains(t, body, "&copy; 2026 Wedplan")
}

func TestShareLinkEscapesID(t *testing.T) {
	svc := newTestMailer()
	assert.Equal(t,
		"https://wedplan.test/moodboard/shared?shareId=a%2Bb",
		svc.link("/moodboard/shared", map[string][]string{"shareId": {"a+b"}}))
}

func TestFromHeaderFallsBackToAddress(t *testing.T) {
	svc := newTestMailer()
	svc.cfg.FromName = ""
	svc.cfg.AppName = ""
	assert.Equal(t, "hello@wedplan.test", svc.fromHeader())
}
