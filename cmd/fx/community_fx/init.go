package community_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"wedplan/internal/api/controllers"
	"wedplan/internal/repositories"
	"wedplan/internal/services"
)

var Module = fx.Provide(
	provideEmbeddingRepo,
	services.NewShareService,
	services.NewCommunityService,
	controllers.NewCommunityController)

func provideEmbeddingRepo(db *gorm.DB) repositories.MoodboardEmbeddingRepository {
	return repositories.NewMoodboardEmbeddingRepository(db)
}
