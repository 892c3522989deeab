package logger_fx

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"wedplan/internal/config"
	"wedplan/internal/infra"
)

var Module = fx.Options(
	fx.Provide(provideLogger),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := infra.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)

	lc.Append(fx.StopHook(func() {
		_ = log.Sync()
	}))
	return log, nil
}
