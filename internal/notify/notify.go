// Package notify delivers outbound messages. Delivery is best effort: a
// Gateway reports failure as false and never returns an error to the caller.
package notify

import (
	"context"

	"github.com/diewo77/seeker/internal/config"
	"github.com/diewo77/seeker/internal/logging"
)

// Gateway sends an HTML message to a single recipient.
type Gateway interface {
	Send(ctx context.Context, to, subject, htmlBody string) bool
}

// LogGateway writes messages to the log instead of sending them.
// It is meant for local development where no SMTP account exists.
type LogGateway struct {
	log logging.Logger
}

func NewLogGateway(log logging.Logger) *LogGateway {
	return &LogGateway{log: log.With("component", "mail", "driver", "log")}
}

func (g *LogGateway) Send(ctx context.Context, to, subject, htmlBody string) bool {
	g.log.Info(ctx, "mail not sent (log driver)", "to", to, "subject", subject, "bytes", len(htmlBody))
	return true
}

// NewGateway picks the gateway named by cfg.Driver.
func NewGateway(cfg config.MailConfig, log logging.Logger) Gateway {
	if cfg.Driver == "log" {
		return NewLogGateway(log)
	}
	return NewSMTPGateway(cfg, log)
}
