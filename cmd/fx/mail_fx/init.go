package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wedplan/internal/config"
	"wedplan/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) services.IMailService {
	if cfg.Mail.Password == "" {
		log.Warn("SMTP_PASSWORD is empty; outgoing mail will likely be rejected", zap.String("host", cfg.Mail.Host))
	}
	return services.NewSMTPMailService(cfg.Mail)
}
