package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"wedplan/internal/models/db_models"
	"wedplan/internal/onboarding"
	"wedplan/internal/repositories"
	"wedplan/pkg/utils"
)

func requireWorkspace(ctx context.Context, repo repositories.WorkspaceRepository, id uuid.UUID) (*db_models.Workspace, error) {
	ws, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if ws == nil {
		return nil, utils.ErrWorkspaceNotFound
	}
	return ws, nil
}

// encodeJSON marshals v for a JSON column; nil maps become "{}".
func encodeJSON(v any) ([]byte, error) {
	switch m := v.(type) {
	case nil:
		return []byte("{}"), nil
	case map[string]any:
		if m == nil {
			return []byte("{}"), nil
		}
	case onboarding.Record:
		if m == nil {
			return []byte("{}"), nil
		}
	}
	return json.Marshal(v)
}
