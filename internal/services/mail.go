package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"tinta/internal/config"

	"github.com/rs/zerolog"
)

// MailService sends plain notification emails. Disabled (and silent) unless
// every SMTP variable is configured.
type MailService struct {
	host    string
	port    string
	user    string
	pass    string
	from    string
	siteURL string
	log     zerolog.Logger

	Enabled bool
}

func NewMailService(cfg config.SMTP, siteURL string, log zerolog.Logger) *MailService {
	enabled := cfg.Host != "" && cfg.Port != "" && cfg.User != "" && cfg.Pass != "" && cfg.From != ""
	if !enabled {
		log.Warn().Msg("mail service disabled: missing SMTP environment variables")
	}
	return &MailService{
		host:    cfg.Host,
		port:    cfg.Port,
		user:    cfg.User,
		pass:    cfg.Pass,
		from:    cfg.From,
		siteURL: siteURL,
		log:     log,
		Enabled: enabled,
	}
}

// SendNotification sends asynchronously; failures are logged only.
func (s *MailService) SendNotification(to, subject, body, link string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.user, s.pass, s.host)
		addr := fmt.Sprintf("%s:%s", s.host, s.port)

		text := body
		if link != "" {
			text += "\r\n\r\n" + strings.TrimSuffix(s.siteURL, "/") + link
		}
		msg := []byte(fmt.Sprintf("To: %s\r\nFrom: Tinta <%s>\r\nSubject: %s\r\n\r\n%s",
			to, s.from, subject, text))

		if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
			s.log.Error().Err(err).Str("to", to).Msg("failed to send email")
			return
		}
		s.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	}()
}
