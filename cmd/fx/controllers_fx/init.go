package controllers_fx

import (
	"go.uber.org/fx"

	"wedplan/internal/api"
	"wedplan/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewMediaController),
	fx.Provide(api.NewRouter))
