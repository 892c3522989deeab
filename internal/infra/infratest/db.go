// Package infratest provides throwaway databases for package tests.
package infratest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedplan/internal/config"
	"wedplan/internal/infra"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	log := zap.NewNop()

	db, err := infra.OpenDatabase(cfg, log)
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(context.Background(), db, log))

	t.Cleanup(func() { infra.CloseDatabase(db, log) })
	return db
}
