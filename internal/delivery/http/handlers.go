package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrisense/backend/internal/domain"
	"github.com/agrisense/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	advisorySvc  *service.AdvisoryService
	dashboardSvc *service.DashboardService
	authSvc      *service.AuthService
	posts        service.PostRepository
	uploadDir    string
}

// NewHandler creates a new handler
func NewHandler(
	advisorySvc *service.AdvisoryService,
	dashboardSvc *service.DashboardService,
	authSvc *service.AuthService,
	posts service.PostRepository,
	uploadDir string,
) *Handler {
	return &Handler{
		advisorySvc:  advisorySvc,
		dashboardSvc: dashboardSvc,
		authSvc:      authSvc,
		posts:        posts,
		uploadDir:    uploadDir,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "agrisense-backend",
		"version": "1.0.0",
	})
}

// GetAdvisory computes and returns the advisory for one crop
func (h *Handler) GetAdvisory(c *fiber.Ctx) error {
	crop := c.Params("crop")
	if crop == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Crop is required")
	}

	req := domain.AdvisoryRequest{
		Crop:     crop,
		District: c.Query("district"),
	}
	if lat := c.QueryFloat("lat"); lat != 0 {
		lon := c.QueryFloat("lon")
		req.Latitude = &lat
		req.Longitude = &lon
	}

	advisory, err := h.advisorySvc.GetAdvisory(c.Context(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate advisory")
	}

	return c.JSON(advisory)
}

// GetDashboard returns the aggregated monitoring snapshot
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardSvc.GetDashboardData(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// GetWeather returns current weather data
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	weather, err := h.dashboardSvc.GetWeather(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch weather data")
	}

	return c.JSON(domain.WeatherResponse{
		Data:    weather,
		Success: true,
	})
}

// GetMarket returns the latest mandi price for a crop
func (h *Handler) GetMarket(c *fiber.Ctx) error {
	crop := c.Params("crop")
	if crop == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Crop is required")
	}

	price, err := h.dashboardSvc.GetMarket(c.Context(), crop)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch market data")
	}

	return c.JSON(domain.MarketResponse{
		Data:    price,
		Success: true,
	})
}

// GetNDVI returns the NDVI snapshot for a field
func (h *Handler) GetNDVI(c *fiber.Ctx) error {
	lat := c.QueryFloat("lat", service.DefaultLatitude)
	lon := c.QueryFloat("lon", service.DefaultLongitude)
	crop := c.Query("crop", "cotton")

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.dashboardSvc.GetNDVI(lat, lon, crop),
	})
}

// GetAlerts returns merged government alerts
func (h *Handler) GetAlerts(c *fiber.Ctx) error {
	alerts := h.dashboardSvc.GetAlerts(c.Context(), c.Query("state"), c.Query("district"))
	return c.JSON(fiber.Map{
		"success": true,
		"data":    alerts,
		"count":   len(alerts),
	})
}
