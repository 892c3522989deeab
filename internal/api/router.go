package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wedplan/internal/api/controllers"
	"wedplan/internal/config"
	"wedplan/pkg/middleware"
	"wedplan/pkg/utils"
)

// Controllers groups every HTTP controller the router mounts.
type Controllers struct {
	fx.In

	Account    *controllers.AccountController
	Onboarding *controllers.OnboardingController
	Moodboard  *controllers.MoodboardController
	Community  *controllers.CommunityController
	Items      *controllers.ItemsController
	Dashboard  *controllers.DashboardController
	Media      *controllers.MediaController
}

func NewRouter(cfg *config.Config, log *zap.Logger, tokens *utils.TokenIssuer, ctrl Controllers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.ZapLogger(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	}))
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	RegisterRoutes(r, middleware.JWTAuthMiddleware(tokens), ctrl)
	return r
}

func RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, ctrl Controllers) {
	r.GET("/healthz", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "ok")
	})
	r.GET("/media/*path", ctrl.Media.Serve)

	api := r.Group("/api")

	accounts := api.Group("/accounts")
	accounts.POST("/register", ctrl.Account.Register)
	accounts.POST("/login", ctrl.Account.Login)
	accounts.POST("/forgot-password", ctrl.Account.ForgotPassword)
	accounts.POST("/reset-password", ctrl.Account.ResetPassword)
	accounts.GET("/me", auth, ctrl.Account.Me)

	community := api.Group("/community")
	community.GET("", ctrl.Community.ListPublic)
	community.GET("/:shareId/similar", ctrl.Community.Similar)

	onboarding := api.Group("/onboarding", auth)
	onboarding.GET("/steps", ctrl.Onboarding.ListSteps)
	onboarding.GET("/steps/:step", ctrl.Onboarding.GetStep)
	onboarding.PUT("/steps/:step", ctrl.Onboarding.SaveStep)
	onboarding.GET("/summary", ctrl.Onboarding.Summary)
	onboarding.POST("/moodboard", ctrl.Onboarding.GenerateMoodboard)
	onboarding.POST("/complete", ctrl.Onboarding.Complete)

	moodboard := api.Group("/moodboard", auth)
	moodboard.GET("", ctrl.Moodboard.Current)
	moodboard.GET("/regenerate", ctrl.Moodboard.RegenerateInfo)
	moodboard.POST("/regenerate", ctrl.Moodboard.Regenerate)
	moodboard.POST("/regenerate-section", ctrl.Moodboard.RegenerateSection)
	moodboard.POST("/debug-regen", ctrl.Moodboard.DebugRegen)
	moodboard.GET("/reveal", ctrl.Moodboard.Reveal)
	moodboard.GET("/reveal/stream", ctrl.Moodboard.RevealStream)
	moodboard.POST("/share", ctrl.Moodboard.CreateShare)
	moodboard.GET("/share", ctrl.Moodboard.GetShare)
	moodboard.DELETE("/share", ctrl.Moodboard.RevokeShare)
	moodboard.GET("/shares", ctrl.Moodboard.ListShares)

	items := api.Group("/items", auth)
	items.GET("", ctrl.Items.List)
	items.POST("", ctrl.Items.Create)
	items.GET("/stream", ctrl.Items.Stream)
	items.GET("/:id", ctrl.Items.Get)
	items.PATCH("/:id", ctrl.Items.Update)
	items.DELETE("/:id", ctrl.Items.Delete)

	api.GET("/budget/stats", auth, ctrl.Items.BudgetStats)
	api.GET("/dashboard", auth, ctrl.Dashboard.GetDashboard)
}
