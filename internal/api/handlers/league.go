package handlers

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/service"
)

var digitPattern = regexp.MustCompile(`\d+`)

// LeagueHandler handles HTTP requests for the weekly league
type LeagueHandler struct {
	service   *service.LeagueService
	validator *validator.Validate
}

// NewLeagueHandler creates a new league handler
func NewLeagueHandler(service *service.LeagueService) *LeagueHandler {
	return &LeagueHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /api/league/submission/create
func (h *LeagueHandler) Create(c *fiber.Ctx) error {
	var req models.CreateLeagueRunRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	run, err := h.service.Create(c.Context(), currentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusCreated, "league run created", models.NewLeagueRunEntry(run))
}

// WeekBoard handles GET /api/league/:week/:level. Week accepts either a bare
// number or a "week_3" style segment.
func (h *LeagueHandler) WeekBoard(c *fiber.Ctx) error {
	week, ok := parseNumberSegment(c.Params("week"))
	if !ok {
		return respondError(c, apperr.Validation("invalid week"))
	}
	level, ok := parseNumberSegment(c.Params("level"))
	if !ok {
		return respondError(c, apperr.Validation("invalid level"))
	}

	runs, err := h.service.WeekBoard(c.Context(), week, level)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "league leaderboard", models.NewLeagueRunEntries(runs))
}

// SeasonTotals handles GET /api/league/season
func (h *LeagueHandler) SeasonTotals(c *fiber.Ctx) error {
	totals, err := h.service.SeasonTotals(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "season totals", totals)
}

// parseNumberSegment extracts the numeric part of a path segment.
func parseNumberSegment(segment string) (int, bool) {
	match := digitPattern.FindString(segment)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
