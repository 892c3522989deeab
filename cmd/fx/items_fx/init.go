package items_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"wedplan/internal/api/controllers"
	"wedplan/internal/realtime"
	"wedplan/internal/repositories"
	"wedplan/internal/services"
)

// hubBuffer is the number of events a slow stream subscriber may lag behind.
const hubBuffer = 32

var Module = fx.Provide(
	provideItemRepo,
	provideHub,
	services.NewActivityService,
	services.NewItemService,
	controllers.NewItemsController)

func provideItemRepo(db *gorm.DB) repositories.ItemRepository {
	return repositories.NewItemRepository(db)
}

func provideHub() *realtime.Hub {
	return realtime.NewHub(hubBuffer)
}
