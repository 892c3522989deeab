package dashboard

import (
	"go.uber.org/fx"

	"wedplan/internal/api/controllers"
	"wedplan/internal/services"
)

var Module = fx.Provide(
	services.NewDashboardService,
	controllers.NewDashboardController,
)
