package notify

import (
	"context"
	"time"

	"github.com/diewo77/seeker/internal/config"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/wneessen/go-mail"
)

const smtpTimeout = 15 * time.Second

// SMTPGateway sends mail over implicit TLS with PLAIN auth.
type SMTPGateway struct {
	host     string
	port     int
	user     string
	password string
	fromName string
	log      logging.Logger
}

func NewSMTPGateway(cfg config.MailConfig, log logging.Logger) *SMTPGateway {
	return &SMTPGateway{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		fromName: "Seeker",
		log:      log.With("component", "mail", "driver", "smtp"),
	}
}

// Configured reports whether credentials are present.
func (g *SMTPGateway) Configured() bool {
	return g.user != "" && g.password != ""
}

func (g *SMTPGateway) Send(ctx context.Context, to, subject, htmlBody string) bool {
	if !g.Configured() {
		g.log.Warn(ctx, "smtp credentials missing, mail skipped", "to", to, "subject", subject)
		return false
	}
	msg, err := g.message(to, subject, htmlBody)
	if err != nil {
		g.log.Warn(ctx, "build mail", "to", to, "error", err)
		return false
	}
	client, err := mail.NewClient(g.host,
		mail.WithPort(g.port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(g.user),
		mail.WithPassword(g.password),
		mail.WithTimeout(smtpTimeout),
	)
	if err != nil {
		g.log.Warn(ctx, "smtp client", "error", err)
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, smtpTimeout)
	defer cancel()
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		g.log.Warn(ctx, "smtp send failed", "to", to, "subject", subject, "error", err)
		return false
	}
	return true
}

func (g *SMTPGateway) message(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(g.fromName, g.user); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}
