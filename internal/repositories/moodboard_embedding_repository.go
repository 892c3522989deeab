package repositories

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wedplan/internal/models/db_models"
)

type SimilarMoodboard struct {
	db_models.MoodboardEmbedding
	Similarity float64 `gorm:"column:similarity" json:"similarity"`
}

type MoodboardEmbeddingRepository interface {
	Upsert(ctx context.Context, e *db_models.MoodboardEmbedding) error
	FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*db_models.MoodboardEmbedding, error)
	// Similar ranks the embeddings of candidates by cosine similarity to vector.
	Similar(ctx context.Context, vector pgvector.Vector, candidates []uuid.UUID, limit int) ([]SimilarMoodboard, error)
}

type moodboardEmbeddingRepository struct {
	db *gorm.DB
}

func NewMoodboardEmbeddingRepository(db *gorm.DB) MoodboardEmbeddingRepository {
	return &moodboardEmbeddingRepository{db: db}
}

func (r *moodboardEmbeddingRepository) Upsert(ctx context.Context, e *db_models.MoodboardEmbedding) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"moodboard_id", "summary", "keywords", "themes", "embedding", "updated_at"}),
	}).Create(e).Error
}

func (r *moodboardEmbeddingRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*db_models.MoodboardEmbedding, error) {
	var e db_models.MoodboardEmbedding
	if err := r.db.WithContext(ctx).First(&e, "workspace_id = ?", workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *moodboardEmbeddingRepository) Similar(ctx context.Context, vector pgvector.Vector, candidates []uuid.UUID, limit int) ([]SimilarMoodboard, error) {
	if len(candidates) == 0 || limit <= 0 {
		return nil, nil
	}

	if r.db.Dialector.Name() == "postgres" {
		var results []SimilarMoodboard
		err := r.db.WithContext(ctx).Raw(`
        SELECT *, (1 - (embedding <=> ?)) AS similarity
        FROM moodboard_embeddings
        WHERE workspace_id IN ?
        ORDER BY embedding <=> ?  -- cosine distance, closer to 0 is better
        LIMIT ?
    `, vector, candidates, vector, limit).Scan(&results).Error
		return results, err
	}

	// Without pgvector the ranking happens here.
	var rows []db_models.MoodboardEmbedding
	if err := r.db.WithContext(ctx).Where("workspace_id IN ?", candidates).Find(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]SimilarMoodboard, 0, len(rows))
	for _, row := range rows {
		results = append(results, SimilarMoodboard{
			MoodboardEmbedding: row,
			Similarity:         cosine(vector.Slice(), row.Embedding.Slice()),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
