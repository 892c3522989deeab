package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedplan/internal/api/controllers"
	"wedplan/internal/config"
	"wedplan/internal/repositories"
	"wedplan/internal/services"
	mem "wedplan/pkg/memcache"
	"wedplan/pkg/utils"
)

var Module = fx.Provide(
	provideAccountRepo,
	provideWorkspaceRepo,
	provideTokenIssuer,
	provideAccountService,
	controllers.NewAccountController)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideWorkspaceRepo(db *gorm.DB) repositories.WorkspaceRepository {
	return repositories.NewWorkspaceRepository(db)
}

func provideTokenIssuer(cfg *config.Config, log *zap.Logger) *utils.TokenIssuer {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		log.Warn("JWT_SECRET is empty; using an insecure development secret")
		secret = "wedplan-dev-secret"
	}
	return utils.NewTokenIssuer(secret, cfg.GetTokenTTL())
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	workspaceRepo repositories.WorkspaceRepository,
	tokens *utils.TokenIssuer,
	resetTokens mem.ResetTokenStore,
	mailService services.IMailService,
	cfg *config.Config,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, workspaceRepo, tokens, resetTokens, mailService, cfg, log)
}
