package cmd

import (
	"fmt"

	"inventory-sync/core/loader"
	"inventory-sync/core/logger"
	"inventory-sync/core/middleware/auth"
	"inventory-sync/core/middleware/rayid"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/storage"
	"inventory-sync/feature/integrity"
	mappingFeature "inventory-sync/feature/mapping"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "inventory-sync/docs/swagger"
)

// @title Inventory Sync API
// @version 1.0
// @description Read-only API over the device model mapping stores.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the mapping API server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE:  runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. Configuration, logger and mapping backend
	a, err := newApp()
	if err != nil {
		return err
	}
	logg := a.logger
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	if !a.cfg.Server.IsValidPort() {
		return fmt.Errorf("invalid server port %q", a.cfg.Server.Port)
	}
	if err := a.cfg.Reconcile.Validate(); err != nil {
		return err
	}

	// 2. Storage is optional for the file backend; integrity reports on it when present
	if a.storage == nil {
		if client, err := storage.NewClient(a.cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else {
			a.storage = client
		}
	}

	// 3. Mapping stores and catalog snapshot
	domains, err := parseDomains(a.cfg.Server.ServedDomains())
	if err != nil {
		return err
	}
	stores, err := a.stores(ctx, domains)
	if err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}
	catalog := reconcile.NewCatalogCache(reg.Catalog, a.catalogTTL())

	// 4. Initialize Fiber App
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We will log our own startup message
	})

	// 5. Initialize Feature Loader
	mgr := loader.NewManager(logg)
	mgr.Register(mappingFeature.NewFeature(stores, catalog, a.cfg.Reconcile, logg.Named("mapping")))
	mgr.Register(integrity.NewFeature(stores, catalog.Get, a.storage, a.cfg.Storage.Bucket, a.db, logg.Named("integrity")))

	// Middleware Registration
	// 1. RayID (Must be first to trace everything)
	app.Use(rayid.New())

	// 2. Logging Middleware (Zap + RayID)
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// 3. Swagger Documentation (Public)
	app.Get("/swagger/*", swagger.HandlerDefault)

	// 4. Auth (Protect API)
	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))
	if a.cfg.Server.ApiKey == "" {
		logg.Warn("SERVER_API_KEY is empty, the API is not protected")
	}

	// 6. Load Features
	if err := mgr.LoadAll(app); err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}

	// 7. Start Server
	errs := make(chan error, 1)
	go func() {
		logg.Info("Starting server",
			zap.String("port", a.cfg.Server.Port),
			zap.String("mapping_backend", a.cfg.Mapping.Backend),
			zap.Strings("domains", a.cfg.Server.ServedDomains()),
		)
		errs <- app.Listen(":" + a.cfg.Server.Port)
	}()

	// 8. Graceful Shutdown
	select {
	case err := <-errs:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logg.Info("Shutting down server...")
	return app.Shutdown()
}
