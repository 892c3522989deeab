package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"wedplan/internal/models/db_models"
)

type AccountRepository interface {
	// CreateWithWorkspace inserts the account and its workspace atomically.
	// workspace.AccountID is filled in from the new account. A taken email
	// fails with gorm.ErrDuplicatedKey.
	CreateWithWorkspace(ctx context.Context, account *db_models.Account, workspace *db_models.Workspace) error
	FindById(ctx context.Context, id string) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) CreateWithWorkspace(ctx context.Context, account *db_models.Account, workspace *db_models.Workspace) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return duplicateKey(err)
		}
		workspace.AccountID = account.ID
		return tx.Create(workspace).Error
	})
}

// duplicateKey normalizes unique-constraint failures to gorm.ErrDuplicatedKey
// for dialects whose error translation misses them.
func duplicateKey(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		return errors.Join(gorm.ErrDuplicatedKey, err)
	}
	return err
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindById(ctx context.Context, id string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
