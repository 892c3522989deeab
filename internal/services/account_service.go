package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedplan/internal/config"
	"wedplan/internal/models/db_models"
	"wedplan/internal/models/request_models"
	"wedplan/internal/models/response_models"
	"wedplan/internal/repositories"
	mem "wedplan/pkg/memcache"
	"wedplan/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	// CreateAccount registers the account together with its workspace.
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountLoginResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, request request_models.ForgotPasswordRequest) error
	Me(ctx context.Context, userID uuid.UUID) (*response_models.AccountResponse, error)
}

type AccountService struct {
	accountRepo   repositories.AccountRepository
	workspaceRepo repositories.WorkspaceRepository
	tokens        *utils.TokenIssuer
	resetTokens   mem.ResetTokenStore
	mailService   IMailService
	resetTTL      time.Duration
	log           *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	workspaceRepo repositories.WorkspaceRepository,
	tokens *utils.TokenIssuer,
	resetTokens mem.ResetTokenStore,
	mailService IMailService,
	cfg *config.Config,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo:   accountRepo,
		workspaceRepo: workspaceRepo,
		tokens:        tokens,
		resetTokens:   resetTokens,
		mailService:   mailService,
		resetTTL:      cfg.GetResetTokenTTL(),
		log:           log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	workspace, err := a.workspaceRepo.FindByAccountID(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if workspace == nil {
		return nil, utils.ErrWorkspaceNotFound
	}

	return a.issue(account, workspace)
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountLoginResponse, error) {
	email := normalizeEmail(request.Email)

	existing, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &db_models.Account{
		Name:         strings.TrimSpace(request.DisplayName),
		Email:        email,
		PasswordHash: hashed,
		Role:         "user",
	}
	workspace := &db_models.Workspace{
		Name: fmt.Sprintf("%s's wedding", account.Name),
	}

	if err := a.accountRepo.CreateWithWorkspace(ctx, account, workspace); err != nil {
		// Lost a race with a concurrent sign-up for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	a.log.Info("account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("workspace_id", workspace.ID.String()))

	return a.issue(account, workspace)
}

func (a *AccountService) issue(account *db_models.Account, workspace *db_models.Workspace) (*response_models.AccountLoginResponse, error) {
	token, err := a.tokens.CreateToken(account.ID, workspace.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return &response_models.AccountLoginResponse{
		Token:               token,
		WorkspaceID:         workspace.ID.String(),
		OnboardingCompleted: workspace.IsOnboardingComplete(),
	}, nil
}

// RequestPasswordReset mails a one-time code when the account exists. It
// reports success either way so the endpoint does not reveal registered
// addresses.
func (a *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil
	}

	code, err := utils.GenerateOtpCode(6)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	a.resetTokens.Set(code, account.Email, a.resetTTL)

	if err := a.mailService.SendMailToResetPassword(account.Email, code); err != nil {
		a.log.Warn("failed to send reset mail", zap.String("account_id", account.ID.String()), zap.Error(err))
	}
	return nil
}

func (a *AccountService) ResetPassword(ctx context.Context, request request_models.ForgotPasswordRequest) error {
	email := normalizeEmail(request.Email)

	owner, ok := a.resetTokens.Peek(request.Token)
	if !ok || owner != email {
		return utils.ErrInvalidToken
	}
	if a.resetTokens.Consume(request.Token) == "" {
		return utils.ErrInvalidToken
	}

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	hashed, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := a.accountRepo.UpdatePassword(ctx, account.ID.String(), hashed); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindById(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	workspace, err := a.workspaceRepo.FindByAccountID(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if workspace == nil {
		return nil, utils.ErrWorkspaceNotFound
	}

	return &response_models.AccountResponse{
		ID:        account.ID.String(),
		Name:      account.Name,
		Email:     account.Email,
		Role:      account.Role,
		Workspace: toWorkspaceResponse(workspace),
	}, nil
}

func toWorkspaceResponse(w *db_models.Workspace) response_models.WorkspaceResponse {
	return response_models.WorkspaceResponse{
		ID:                    w.ID.String(),
		Name:                  w.Name,
		OnboardingCompleted:   w.IsOnboardingComplete(),
		OnboardingCompletedAt: utils.FromUnixSecondsPtr(w.OnboardingCompletedAt),
	}
}
