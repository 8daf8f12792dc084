package cmd

import (
	"fmt"

	"inventory-sync/core/inventory"
	"inventory-sync/core/reconcile"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileSource  string
	reconcileFile    string
	reconcileRole    string
	reconcileField   string
	reconcileDecided string
	reconcileBatch   bool
)

// reconcileCmd maps the models of a source without importing anything.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Map the device models of a source to registry device types",
	Long: `Reads the devices of a source and makes sure every observed model has a
mapping entry. Models already in the mapping store are reused; the rest are
matched against the registry catalog, automatically on a perfect score and by
asking otherwise.

Examples:
  # Interactive
  inventory-sync reconcile --source wireless

  # Answer from an edited template, fail on anything it does not cover
  inventory-sync reconcile --source csv --file idf.csv --decisions answers.yaml --non-interactive`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileSource, "source", sourceWireless, "Device source: wireless, csv or catalyst")
	reconcileCmd.Flags().StringVar(&reconcileFile, "file", "", "Inventory file for the csv source")
	reconcileCmd.Flags().StringVar(&reconcileRole, "role", "", "Role override for the csv source (IDF or Access)")
	reconcileCmd.Flags().StringVar(&reconcileField, "field", "", "Catalog field to match: display_name or part_number")
	reconcileCmd.Flags().StringVar(&reconcileDecided, "decisions", "", "Decision template written by 'mapping template'")
	reconcileCmd.Flags().BoolVar(&reconcileBatch, "non-interactive", false, "Fail instead of prompting when a model needs a decision")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	src, domain, err := a.source(reconcileSource, sourceOptions{File: reconcileFile, Role: reconcileRole})
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
	rec, err := a.reconciler(store, reg, reconcilerOptions{
		Domain:         domain,
		Field:          reconcileField,
		DecisionsPath:  reconcileDecided,
		NonInteractive: reconcileBatch,
	})
	if err != nil {
		return err
	}

	devices, err := src.Devices(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s devices: %w", src.Name(), err)
	}
	withModel, blank := inventory.Partition(devices)
	for _, d := range blank {
		a.logger.Warn("Device has no model, skipping", zap.String("device", d.Name))
	}
	models := inventory.Models(withModel)

	a.logger.Info("Reconciling models",
		zap.String("source", src.Name()),
		zap.Int("devices", len(devices)),
		zap.Int("models", len(models)),
	)

	var catalog []reconcile.Candidate
	missing, err := rec.Missing(ctx, models)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		if catalog, err = reg.Catalog(ctx); err != nil {
			return fmt.Errorf("failed to load device type catalog: %w", err)
		}
	}

	entries, err := rec.Reconcile(ctx, models, catalog)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	r := lipgloss.NewRenderer(out)
	model := r.NewStyle().Width(32)
	arrow := r.NewStyle().Faint(true)
	for _, e := range entries {
		fmt.Fprintf(out, "%s %s %s (%s)\n", model.Render(e.ObservedModel), arrow.Render("->"), e.CanonicalName, e.CanonicalID)
	}

	a.logger.Info("Reconciliation complete",
		zap.Int("models", len(entries)),
		zap.Int("new", len(missing)),
		zap.Int("store_entries", store.Len()),
	)
	return nil
}
