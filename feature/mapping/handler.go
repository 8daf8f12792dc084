package mapping

import (
	"errors"
	"net/url"
	"strings"

	"inventory-sync/core/logger"
	"inventory-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for mappings.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the mapping routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/mappings")
	group.Get("/similarity", h.HandleSimilarity)
	group.Post("/match", h.HandleMatch)
	group.Get("/:domain", h.HandleList)
	group.Get("/:domain/:model", h.HandleGet)
}

// HandleList returns every entry of a mapping store.
// @Summary List Mappings
// @Description Get every observed-model mapping of a domain.
// @Tags mappings
// @Produce json
// @Param domain path string true "Mapping domain (wireless or generic)"
// @Success 200 {array} mapping.Entry "Mapping entries"
// @Failure 404 {object} map[string]string "Unknown domain"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mappings/{domain} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	entries, err := h.service.List(c.Context(), c.Params("domain"))
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(entries)
}

// HandleGet returns one mapping entry.
// @Summary Get Mapping
// @Description Get the mapping of one observed model.
// @Tags mappings
// @Produce json
// @Param domain path string true "Mapping domain (wireless or generic)"
// @Param model path string true "Observed model (URL encoded)"
// @Success 200 {object} mapping.Entry "Mapping entry"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mappings/{domain}/{model} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	model, err := url.PathUnescape(c.Params("model"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid model"})
	}

	entry, err := h.service.Get(c.Context(), c.Params("domain"), model)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(entry)
}

// HandleMatch ranks catalog device types against a model.
// @Summary Match Model
// @Description Rank the device-type catalog against an observed model.
// @Tags mappings
// @Accept json
// @Produce json
// @Param request body MatchRequest true "Model to match"
// @Success 200 {object} MatchResponse "Ranked candidates"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mappings/match [post]
func (h *Handler) HandleMatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Model) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "model is required"})
	}

	resp, err := h.service.Match(c.Context(), req)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(resp)
}

// HandleSimilarity scores two strings.
// @Summary Similarity
// @Description Partial similarity score (0-100) of two strings.
// @Tags mappings
// @Produce json
// @Param a query string true "First string"
// @Param b query string true "Second string"
// @Success 200 {object} map[string]int "Score"
// @Router /mappings/similarity [get]
func (h *Handler) HandleSimilarity(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"score": h.service.Similarity(c.Query("a"), c.Query("b"))})
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	switch {
	case errors.Is(err, ErrUnknownDomain), errors.Is(err, ErrEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, reconcile.ErrUnknownField):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	l.Error("Mapping request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
