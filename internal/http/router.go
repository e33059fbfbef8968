package api

import (
	stdhttp "net/http"

	intconfig "speed-backend/internal/config"
	"speed-backend/internal/domain"
	h "speed-backend/internal/http/handlers"
	"speed-backend/internal/http/middleware"
	"speed-backend/internal/services"
	"speed-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, deps h.Dependencies) *gin.Engine {
	deps.Env = env
	h.SetDependencies(deps)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.L().Warnw("failed to set trusted proxies", "error", err)
	}
	if env.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = env.MaxUploadBytes
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	requireAuth := middleware.RequireAuth(services.AuthService{Secret: []byte(env.JWTSecret)})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)

		// Current user
		me := api.Group("/me", requireAuth)
		me.GET("", h.Me)
		me.PUT("/user-type", h.UpdateUserType)

		// Driver verification wizard
		driver := api.Group("/driver", requireAuth, middleware.RequireUserType(domain.UserTypeDriver))
		verification := driver.Group("/verification")
		verification.GET("", h.GetVerification)
		verification.GET("/steps", h.GetVerificationSteps)
		verification.PATCH("/fields", h.PatchVerificationFields)
		verification.PUT("/documents/:slot", h.PutVerificationDocument)
		verification.DELETE("/documents/:slot", h.DeleteVerificationDocument)
		verification.POST("/next", h.PostVerificationNext)
		verification.POST("/previous", h.PostVerificationPrevious)
		verification.POST("/submit", h.PostVerificationSubmit)
		verification.GET("/status", h.GetVerificationStatus)
		verification.GET("/review.pdf", h.GetVerificationReviewPDF)

		// Availability
		driver.POST("/online", h.PostDriverOnline)
		driver.POST("/offline", h.PostDriverOffline)
		api.GET("/drivers/online", requireAuth, h.GetOnlineDrivers)

		// Notifications
		notifications := api.Group("/notifications", requireAuth)
		notifications.GET("", h.GetNotifications)
		notifications.DELETE("/:id", h.DeleteNotification)
	}

	h.SetRouter(r)
	return r
}
