package integrity

import (
	"errors"

	"inventory-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/mappings/:domain", h.HandleMappingCheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Description Checks every mapping store against the catalog, plus the mapping table and bucket when configured.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	mappings := make(map[string]interface{})
	for _, domain := range h.service.Domains() {
		if r, err := h.service.CheckMappings(ctx, domain); err != nil {
			mappings[domain] = map[string]interface{}{"status": "error", "error": err.Error()}
		} else {
			mappings[domain] = r
		}
	}
	report["mappings"] = mappings

	if h.service.db != nil {
		if r, err := h.service.CheckSchema(); err != nil {
			report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
		} else {
			report["schema"] = r
		}
	}

	if h.service.client != nil {
		if ok, err := h.service.CheckBucket(ctx); err != nil {
			report["bucket"] = map[string]interface{}{"status": "error", "error": err.Error()}
		} else {
			report["bucket"] = map[string]interface{}{"status": "ok", "exists": ok, "name": h.service.bucket}
		}
	}

	return c.JSON(report)
}

// HandleMappingCheck checks one mapping store.
// @Summary Check Mappings
// @Description Reports mapping entries whose device type no longer exists or was renamed.
// @Tags integrity
// @Produce json
// @Param domain path string true "Mapping domain (wireless or generic)"
// @Success 200 {object} checks.MappingReport "Mapping Report"
// @Failure 404 {object} map[string]string "Unknown domain"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/mappings/{domain} [get]
func (h *Handler) HandleMappingCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	domain := c.Params("domain")

	report, err := h.service.CheckMappings(c.Context(), domain)
	if errors.Is(err, ErrUnknownDomain) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Mapping check failed", zap.String("domain", domain), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Matched {
		l.Warn("Mapping issues detected",
			zap.String("domain", domain),
			zap.Int("stale", len(report.Stale)),
			zap.Int("renamed", len(report.Renamed)))
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the mapping table schema.
// @Summary Check Mapping Schema
// @Description Checks that the mapping table has every expected column.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
