package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wedplan/cmd/fx/account_fx"
	"wedplan/cmd/fx/community_fx"
	"wedplan/cmd/fx/config_fx"
	"wedplan/cmd/fx/controllers_fx"
	"wedplan/cmd/fx/dashboard"
	"wedplan/cmd/fx/db_fx"
	"wedplan/cmd/fx/items_fx"
	"wedplan/cmd/fx/logger_fx"
	"wedplan/cmd/fx/mail_fx"
	"wedplan/cmd/fx/memcache_fx"
	"wedplan/cmd/fx/onboarding_fx"
	"wedplan/cmd/fx/prompt_fx"
	"wedplan/cmd/fx/storage_fx"
	"wedplan/internal/config"
)

func main() {
	fx.New(appOptions()).Run()
}

func appOptions() fx.Option {
	return fx.Options(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		storage_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		items_fx.Module,
		onboarding_fx.Module,
		prompt_fx.Module,
		community_fx.Module,
		dashboard.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
	)
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, cfg.GetShutdownTimeout())
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
