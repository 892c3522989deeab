package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wedplan/internal/models/db_models"
	"wedplan/internal/models/response_models"
	"wedplan/internal/repositories"
	"wedplan/pkg/utils"
)

const (
	maxCommunityPageSize = 100
	maxSimilarResults    = 24
	// similarCandidatePool bounds how many public shares a similarity
	// search ranks.
	similarCandidatePool = 500
)

type CommunityServiceInterface interface {
	ListPublic(ctx context.Context, page, pageSize int) (*response_models.CommunityPage, error)
	Similar(ctx context.Context, shareID string, limit int) ([]response_models.SimilarMoodboard, error)
}

type CommunityService struct {
	itemRepo      repositories.ItemRepository
	embeddingRepo repositories.MoodboardEmbeddingRepository
	now           func() time.Time
	log           *zap.Logger
}

func NewCommunityService(
	itemRepo repositories.ItemRepository,
	embeddingRepo repositories.MoodboardEmbeddingRepository,
	log *zap.Logger,
) CommunityServiceInterface {
	return &CommunityService{
		itemRepo:      itemRepo,
		embeddingRepo: embeddingRepo,
		now:           time.Now,
		log:           log,
	}
}

func (s *CommunityService) ListPublic(ctx context.Context, page, pageSize int) (*response_models.CommunityPage, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxCommunityPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	items, total, err := s.itemRepo.ListPublicShares(ctx, s.now().Unix(), (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	resp := &response_models.CommunityPage{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  int64(page*pageSize) < total,
	}
	for _, item := range items {
		share, err := decodeShare(item)
		if err != nil {
			s.log.Warn("skipping unreadable share", zap.String("item_id", item.ID.String()), zap.Error(err))
			continue
		}
		resp.Items = append(resp.Items, share)
	}
	return resp, nil
}

// Similar ranks the public moodboards of other workspaces by style
// similarity to the moodboard behind shareID.
func (s *CommunityService) Similar(ctx context.Context, shareID string, limit int) ([]response_models.SimilarMoodboard, error) {
	if limit <= 0 {
		limit = 6
	}
	if limit > maxSimilarResults {
		limit = maxSimilarResults
	}

	source, err := s.itemRepo.FindByKey(ctx, shareID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if source == nil || source.Type != db_models.ItemTypeMoodboardShare || source.Status != db_models.ItemStatusPublic {
		return nil, utils.ErrShareNotFound
	}
	sourceShare, err := decodeShare(*source)
	if err != nil {
		return nil, err
	}
	if sourceShare.Expired(s.now()) {
		return nil, utils.ErrShareExpired
	}

	embedding, err := s.embeddingRepo.FindByWorkspace(ctx, source.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if embedding == nil {
		return []response_models.SimilarMoodboard{}, nil
	}

	pool, _, err := s.itemRepo.ListPublicShares(ctx, s.now().Unix(), 0, similarCandidatePool)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	// Newest public share per workspace.
	byWorkspace := make(map[uuid.UUID]response_models.SimilarMoodboard)
	var candidates []uuid.UUID
	for _, item := range pool {
		if item.WorkspaceID == source.WorkspaceID {
			continue
		}
		if _, seen := byWorkspace[item.WorkspaceID]; seen {
			continue
		}
		share, err := decodeShare(item)
		if err != nil {
			continue
		}
		byWorkspace[item.WorkspaceID] = response_models.SimilarMoodboard{Share: share}
		candidates = append(candidates, item.WorkspaceID)
	}

	ranked, err := s.embeddingRepo.Similar(ctx, embedding.Embedding, candidates, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.SimilarMoodboard, 0, len(ranked))
	for _, r := range ranked {
		match, ok := byWorkspace[r.WorkspaceID]
		if !ok {
			continue
		}
		match.Similarity = r.Similarity
		out = append(out, match)
	}
	return out, nil
}
