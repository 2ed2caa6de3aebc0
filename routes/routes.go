package routes

import (
	"net/http"
	"time"

	"santai/handlers"
	"santai/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCommissionRoutes registers the commission lifecycle endpoints.
// The track hook and the verification endpoints are admin-scoped: tracking
// is an internal backend-to-backend call, verification is an operator
// decision. The proof and history endpoints belong to the provider.
func RegisterCommissionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/commissions")
	{
		admin := api.Group("")
		admin.Use(middleware.JWTAuthAdminMiddleware())
		admin.POST("/track", hb.Acceptance.TrackHandler)
		admin.GET("/awaiting-verification", hb.Commission.AwaitingVerificationHandler)
		admin.POST("/:id/verify", hb.Commission.VerifyHandler)
		admin.GET("/:id/proof-url", hb.Commission.ProofURLHandler)
		admin.GET("/:id/audit", hb.Admin.CommissionAuditHandler)

		provider := api.Group("")
		provider.Use(middleware.JWTAuthProviderMiddleware())
		provider.POST("/:id/proof", hb.Commission.SubmitProofHandler)
		provider.GET("/provider/:providerId", hb.Commission.ListByProviderHandler)
		provider.GET("/provider/:providerId/unpaid", hb.Acceptance.UnpaidStatusHandler)
	}
}

// RegisterAdminRoutes sets up the operator dashboard endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/notifications", hb.Admin.ListNotificationsHandler)
		adminGroup.PATCH("/notifications/:id/read", hb.Admin.MarkNotificationReadHandler)
		adminGroup.GET("/audit", hb.Admin.ListAuditHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Santai"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterCommissionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
