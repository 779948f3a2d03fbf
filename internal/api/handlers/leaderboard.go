package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/service"
	"github.com/Kvuthe/ITO/internal/websocket"
)

// LeaderboardHandler handles HTTP requests for the leaderboard read side
type LeaderboardHandler struct {
	service *service.LeaderboardService
	hub     *websocket.Hub
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service *service.LeaderboardService, hub *websocket.Hub) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		hub:     hub,
	}
}

// ChapterBoard handles GET /api/leaderboard/:category/:chapter/:sub_chapter
func (h *LeaderboardHandler) ChapterBoard(c *fiber.Ctx) error {
	category := c.Params("category")
	chapter := c.Params("chapter")
	subChapter := c.Params("sub_chapter")
	if category == "" || chapter == "" || subChapter == "" {
		return respondError(c, apperr.Validation("category, chapter and sub_chapter are required"))
	}

	entries, err := h.service.ChapterBoard(c.Context(), category, chapter, subChapter)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "chapter leaderboard", entries)
}

// Recent handles GET /api/leaderboard/recent
func (h *LeaderboardHandler) Recent(c *fiber.Ctx) error {
	entries, err := h.service.RecentRuns(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "recent runs", entries)
}

// Highlighted handles GET /api/leaderboard/highlighted
func (h *LeaderboardHandler) Highlighted(c *fiber.Ctx) error {
	entries, err := h.service.Highlights(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "highlighted runs", entries)
}

// UserBoard handles GET /api/leaderboard/users/:category/:time_frame
func (h *LeaderboardHandler) UserBoard(c *fiber.Ctx) error {
	category := c.Params("category")
	timeFrame := c.Params("time_frame")

	entries, err := h.service.UserBoard(c.Context(), category, timeFrame)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "user leaderboard", entries)
}

// TotalBoard handles GET /api/leaderboard/total
func (h *LeaderboardHandler) TotalBoard(c *fiber.Ctx) error {
	entries, err := h.service.TotalBoard(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "total leaderboard", entries)
}

// Version handles GET /api/leaderboard/version
func (h *LeaderboardHandler) Version(c *fiber.Ctx) error {
	version, err := h.service.Version(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "leaderboard version", fiber.Map{
		"version": version,
	})
}

// HealthCheck handles GET /api/health
func (h *LeaderboardHandler) HealthCheck(c *fiber.Ctx) error {
	if err := h.service.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unhealthy",
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":            "healthy",
		"websocket_clients": h.hub.ClientCount(),
	})
}
