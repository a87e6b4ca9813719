package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrisense/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(
	app *fiber.App,
	advisorySvc *service.AdvisoryService,
	dashboardSvc *service.DashboardService,
	authSvc *service.AuthService,
	posts service.PostRepository,
	uploadDir string,
) {
	handler := NewHandler(advisorySvc, dashboardSvc, authSvc, posts, uploadDir)

	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/uploads", uploadDir)

	api := app.Group("/api/v1")
	{
		// Fusion engine endpoints
		fusion := api.Group("/fusion")
		fusion.Get("/dashboard", handler.GetDashboard)
		fusion.Get("/advisory/:crop", handler.GetAdvisory)

		// Provider snapshots
		api.Get("/weather", handler.GetWeather)
		api.Get("/market/:crop", handler.GetMarket)
		api.Get("/ndvi", handler.GetNDVI)
		api.Get("/alerts", handler.GetAlerts)

		// Auth
		auth := api.Group("/auth")
		auth.Post("/signup", handler.Signup)
		auth.Post("/login", handler.Login)
		auth.Get("/me", handler.RequireAuth, handler.Me)

		// Community (all routes require auth, matching the original API)
		community := api.Group("/community", handler.RequireAuth)
		community.Get("/posts", handler.GetPosts)
		community.Post("/posts", handler.CreatePost)
		community.Delete("/posts/:id", handler.DeletePost)
		community.Post("/posts/:id/like", handler.LikePost)
		community.Get("/posts/:id/comments", handler.GetComments)
		community.Post("/posts/:id/comments", handler.CreateComment)
		community.Post("/upload-image", handler.UploadImage)
	}
}
