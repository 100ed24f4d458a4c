// Package mailer dispatches transactional mail. Delivery is out-of-band:
// callers log failures but never fail the request over them.
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/diewo77/talent-app/internal/config"
)

// Invitation is the payload of an invite mail. Link carries the raw token;
// it must never be persisted.
type Invitation struct {
	To         string
	AgencyName string
	Role       string
	Link       string
}

type Mailer interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

// New returns an SMTP mailer when a host is configured, otherwise a mailer
// that writes to the log (dev/test).
func New(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer sends mail through a plain SMTP relay.
// No mail provider SDK is involved; credentials come from the environment.
type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) SendInvitation(_ context.Context, inv Invitation) error {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Invitation — %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n"+
		"Bonjour,\r\n\r\n"+
		"Vous avez été invité(e) à rejoindre l'agence %s en tant que %s.\r\n"+
		"Pour accepter l'invitation, suivez ce lien (valable 7 jours) :\r\n\r\n%s\r\n",
		m.cfg.From, inv.To, inv.AgencyName, inv.AgencyName, inv.Role, inv.Link)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var a smtp.Auth
	if m.cfg.User != "" {
		a = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	return smtp.SendMail(addr, a, m.cfg.From, []string{inv.To}, []byte(body))
}

// LogMailer writes the invitation to the log instead of sending it.
type LogMailer struct {
	// Sent keeps the dispatched invitations for test assertions.
	Sent []Invitation
}

func (m *LogMailer) SendInvitation(_ context.Context, inv Invitation) error {
	m.Sent = append(m.Sent, inv)
	log.Printf("mail (dev): invitation %s -> %s (%s)", inv.AgencyName, inv.To, inv.Link)
	return nil
}
