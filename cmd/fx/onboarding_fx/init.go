package onboarding_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"wedplan/internal/api/controllers"
	"wedplan/internal/repositories"
	"wedplan/internal/services"
)

var Module = fx.Provide(
	provideStepRepo,
	services.NewOnboardingService,
	controllers.NewOnboardingController)

func provideStepRepo(db *gorm.DB) repositories.OnboardingStepRepository {
	return repositories.NewOnboardingStepRepository(db)
}
