package mapping

import (
	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new mapping feature.
func NewFeature(stores map[mapping.Domain]*mapping.Store, catalog *reconcile.CatalogCache, cfg reconcile.Config, logger *zap.Logger) *Feature {
	svc := NewService(stores, catalog, cfg, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "mapping"
}

// IsEnabled reports whether any store is configured.
func (f *Feature) IsEnabled() bool {
	return len(f.service.stores) > 0
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
