package cmd

import (
	"errors"
	"fmt"

	"inventory-sync/core/reconcile"
	"inventory-sync/feature/importer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importFile   string
	importRole   string
	importDryRun bool
	importYes    bool
)

// importCmd is the parent command for all imports.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import devices from a source into the registry",
	Long: `Plans an import (model mapping, sites and locations), shows the plan, asks
for confirmation and creates what is missing in the registry.

Examples:
  # Show what would be created
  inventory-sync import wireless --dry-run

  # Import a spreadsheet as access switches without asking
  inventory-sync import csv --file access.csv --role Access --yes`,
}

func newImportCmd(source, short string) *cobra.Command {
	return &cobra.Command{
		Use:   source,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, source)
		},
	}
}

func init() {
	importCmd.PersistentFlags().StringVar(&importFile, "file", "", "Inventory file (csv)")
	importCmd.PersistentFlags().StringVar(&importRole, "role", "", "Role override (csv): IDF or Access")
	importCmd.PersistentFlags().BoolVar(&importDryRun, "dry-run", false, "Plan and print without changing the registry")
	importCmd.PersistentFlags().BoolVar(&importYes, "yes", false, "Apply without asking for confirmation")

	importCmd.AddCommand(
		newImportCmd(sourceWireless, "Import access points from the wireless controllers"),
		newImportCmd(sourceCSV, "Import devices from a CSV inventory file"),
		newImportCmd(sourceCatalyst, "Import devices from Catalyst Center"),
	)

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, source string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	src, domain, err := a.source(source, sourceOptions{File: importFile, Role: importRole})
	if err != nil {
		return err
	}
	store, err := a.store(ctx, domain)
	if err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}
	rec, err := a.reconciler(store, reg, reconcilerOptions{Domain: domain, NonInteractive: importYes})
	if err != nil {
		return err
	}

	var prompter importer.Prompter
	if a.cfg.Reconcile.Interactive && !importYes {
		prompter = importer.NewSurveyPrompter()
	}

	orch := importer.New(reg, rec, reconcile.CatalogLoader(reg.Catalog), importer.Options{
		Config:   a.cfg.Import,
		Prompter: prompter,
		Logger:   a.logger.Named("import"),
		Out:      cmd.OutOrStdout(),
	})

	report, err := orch.Run(ctx, src, importer.RunOptions{DryRun: importDryRun, AssumeYes: importYes})
	if errors.Is(err, importer.ErrAborted) {
		a.logger.Info("Import aborted, nothing was changed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s import failed: %w", source, err)
	}

	a.logger.Info("Import complete",
		zap.String("run_id", report.RunID),
		zap.String("source", report.Source),
		zap.Bool("dry_run", report.DryRun),
		zap.Int("devices_created", report.DevicesCreated),
		zap.Int("devices_existing", report.DevicesExisting),
		zap.Int("sites", report.SitesEnsured),
		zap.Int("locations", report.LocationsEnsured),
		zap.Int("ip_addresses", report.IPAddresses),
		zap.Int("skipped", len(report.Skipped)),
	)
	return nil
}
