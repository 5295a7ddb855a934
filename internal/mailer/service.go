package mailer

import (
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpAddr = "smtp.gmail.com:587"
)

type MailService struct {
	gmailUser    string
	gmailAppPass string
	mailFrom     string
	mailFromName string
	resetBaseURL string
}

func NewMailService(
	gmailUser string,
	gmailAppPass string,
	mailFrom string,
	mailFromName string,
	resetBaseURL string,
) *MailService {
	return &MailService{
		gmailUser:    gmailUser,
		gmailAppPass: gmailAppPass,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		resetBaseURL: resetBaseURL,
	}
}

// Send renders the named template and mails it to each recipient.
func (s *MailService) Send(subject string, recipients []string, tmpl string, ctx map[string]string) error {
	if tmpl == TemplateReset {
		// The reset link lives in the mail layer so the API never has
		// to know where the frontend mounts the form.
		ctx["link"] = fmt.Sprintf("%s?email=%s&token=%s",
			s.resetBaseURL,
			url.QueryEscape(ctx["email"]),
			url.QueryEscape(ctx["token"]),
		)
	}

	htmlBody, err := Render(tmpl, ctx)
	if err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)

	for _, to := range recipients {
		msg := strings.Join([]string{
			fmt.Sprintf("From: %s", fromHeader),
			fmt.Sprintf("To: %s", to),
			fmt.Sprintf("Subject: %s", subject),
			"MIME-Version: 1.0",
			`Content-Type: text/html; charset="UTF-8"`,
			"",
			htmlBody,
		}, "\r\n")

		log.Printf("[MAIL] smtp sending to=%s via=%s", to, smtpAddr)

		if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
			return err
		}

		log.Printf("[MAIL] sent to=%s", to)
	}
	return nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", smtpAddr, 8*time.Second)
	if err != nil {
		return err
	}
	// Deadline covers the whole SMTP conversation.
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", s.gmailUser, s.gmailAppPass, smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(s.mailFrom); err != nil {
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
		_ = w.Close()
		return err
	}
	return w.Close()
}
