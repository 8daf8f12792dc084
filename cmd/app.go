package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/inventory"
	"inventory-sync/core/logger"
	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/registry"
	"inventory-sync/core/storage"
	"inventory-sync/feature/catalyst"
	"inventory-sync/feature/spreadsheet"
	"inventory-sync/feature/wireless"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the clients shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage storage.Client
	db      *gorm.DB
}

// newApp loads configuration and connects the backend the mapping stores
// are configured to use.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: l}

	if cfg.Mapping.Backend == mapping.BackendObject {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		a.storage = client
	}

	if cfg.Mapping.Backend == mapping.BackendDatabase {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
	}

	return a, nil
}

// parseDomains validates domain names.
func parseDomains(names []string) ([]mapping.Domain, error) {
	out := make([]mapping.Domain, 0, len(names))
	for _, n := range names {
		d := mapping.Domain(n)
		if !d.IsValid() {
			return nil, fmt.Errorf("unknown mapping domain %q", n)
		}
		out = append(out, d)
	}
	return out, nil
}

func (a *app) deps() mapping.Deps {
	return mapping.Deps{Storage: a.storage, Bucket: a.cfg.Storage.Bucket, DB: a.db}
}

// store opens the mapping store of domain.
func (a *app) store(ctx context.Context, domain mapping.Domain) (*mapping.Store, error) {
	store, err := mapping.Open(ctx, a.cfg.Mapping, domain, a.deps())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s mapping store: %w", domain, err)
	}
	a.logger.Debug("Mapping store loaded",
		zap.String("domain", string(domain)),
		zap.String("backend", store.Backend().Describe()),
		zap.Int("entries", store.Len()),
	)
	return store, nil
}

// stores opens the mapping stores of domains.
func (a *app) stores(ctx context.Context, domains []mapping.Domain) (map[mapping.Domain]*mapping.Store, error) {
	out := map[mapping.Domain]*mapping.Store{}
	for _, d := range domains {
		s, err := a.store(ctx, d)
		if err != nil {
			return nil, err
		}
		out[d] = s
	}
	return out, nil
}

func (a *app) registry() (*registry.Client, error) {
	client, err := registry.New(a.cfg.Registry, a.logger.Named("registry"))
	if err != nil {
		return nil, fmt.Errorf("failed to create registry client: %w", err)
	}
	return client, nil
}

// reconcilerOptions controls how undecided models are resolved.
type reconcilerOptions struct {
	Domain         mapping.Domain
	Field          string
	DecisionsPath  string
	NonInteractive bool
}

// reconciler builds a Reconciler over store. Decisions come from the template
// at DecisionsPath when given, then from the console prompt unless the run is
// non-interactive.
func (a *app) reconciler(store *mapping.Store, creator reconcile.DeviceTypeCreator, opts reconcilerOptions) (*reconcile.Reconciler, error) {
	fieldName := a.cfg.Reconcile.Field
	if opts.Domain == mapping.DomainGeneric && a.cfg.Reconcile.GenericField != "" {
		fieldName = a.cfg.Reconcile.GenericField
	}
	if opts.Field != "" {
		fieldName = opts.Field
	}
	field, err := reconcile.ParseField(fieldName)
	if err != nil {
		return nil, err
	}

	var decider reconcile.DecisionProvider = reconcile.RefuseDecider{}
	if a.cfg.Reconcile.Interactive && !opts.NonInteractive {
		decider = reconcile.NewConsolePrompt(os.Stdin, os.Stdout)
	}

	if opts.DecisionsPath != "" {
		f, err := os.Open(opts.DecisionsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open decisions: %w", err)
		}
		values, err := reconcile.ParseTemplate(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		decider = &reconcile.TemplateDecider{Values: values, Fallback: decider}
	}

	return reconcile.New(store, reconcile.Options{
		Field:   field,
		TopN:    a.cfg.Reconcile.TopN,
		Decider: decider,
		Creator: creator,
		Logger:  a.logger.Named("reconcile"),
	}), nil
}

// Source names accepted by --source and the import subcommands.
const (
	sourceWireless = wireless.SourceName
	sourceCSV      = spreadsheet.SourceName
	sourceCatalyst = catalyst.SourceName
)

// sourceOptions are the per-source flags.
type sourceOptions struct {
	File string
	Role string
}

// source builds the device source called name and returns the mapping domain
// its models belong to.
func (a *app) source(name string, opts sourceOptions) (inventory.Source, mapping.Domain, error) {
	switch name {
	case sourceWireless:
		return wireless.NewSource(a.cfg.Wireless, nil, a.logger.Named("wireless")), mapping.DomainWireless, nil
	case sourceCSV:
		if opts.File == "" {
			return nil, "", fmt.Errorf("--file is required for the %s source", name)
		}
		if opts.Role != "" && !spreadsheet.ValidRole(opts.Role) {
			return nil, "", fmt.Errorf("invalid role %q, expected one of %v", opts.Role, spreadsheet.Roles)
		}
		return spreadsheet.NewSource(opts.File, opts.Role), mapping.DomainGeneric, nil
	case sourceCatalyst:
		client, err := catalyst.NewClient(a.cfg.Catalyst, a.logger.Named("catalyst"))
		if err != nil {
			return nil, "", err
		}
		return catalyst.NewSource(client, a.cfg.Catalyst.Family, a.logger.Named("catalyst")), mapping.DomainGeneric, nil
	default:
		return nil, "", fmt.Errorf("unknown source %q, expected %s, %s or %s", name, sourceWireless, sourceCSV, sourceCatalyst)
	}
}

// catalogTTL is used by long-running commands.
func (a *app) catalogTTL() time.Duration {
	return a.cfg.Reconcile.CatalogTTL()
}
