package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"inventory-sync/core/inventory"
	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/feature/importer"
	"inventory-sync/feature/integrity"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mappingDomain   string
	mappingJSON     bool
	templateSource  string
	templateFile    string
	templateRole    string
	templateOut     string
	verifyPrune     bool
	verifyAssumeYes bool
)

// mappingCmd is the parent command for mapping store maintenance.
var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Inspect and maintain the model mapping stores",
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mapping entries",
	RunE:  runMappingList,
}

var mappingTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a decision template for models that need a decision",
	Long: `Lists every model of a source that has no mapping entry and no exact match in
the catalog, together with its ranked candidates. Edit the file and pass it to
'reconcile --decisions' or 'import' runs to answer without prompting.`,
	RunE: runMappingTemplate,
}

var mappingVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check mapping entries against the registry catalog",
	Long: `Reports entries whose device type no longer exists or was renamed.
With --prune, stale entries are dropped and renamed ones updated.`,
	RunE: runMappingVerify,
}

func init() {
	mappingListCmd.Flags().StringVar(&mappingDomain, "domain", "", "Only list this domain (wireless or generic)")
	mappingListCmd.Flags().BoolVar(&mappingJSON, "json", false, "Print JSON")

	mappingTemplateCmd.Flags().StringVar(&templateSource, "source", sourceWireless, "Device source: wireless, csv or catalyst")
	mappingTemplateCmd.Flags().StringVar(&templateFile, "file", "", "Inventory file for the csv source")
	mappingTemplateCmd.Flags().StringVar(&templateRole, "role", "", "Role override for the csv source")
	mappingTemplateCmd.Flags().StringVarP(&templateOut, "output", "o", "", "Write the template to this file instead of stdout")

	mappingVerifyCmd.Flags().StringVar(&mappingDomain, "domain", "", "Only verify this domain (wireless or generic)")
	mappingVerifyCmd.Flags().BoolVar(&verifyPrune, "prune", false, "Drop stale entries and update renamed ones")
	mappingVerifyCmd.Flags().BoolVar(&verifyAssumeYes, "yes", false, "Prune without asking for confirmation")

	mappingCmd.AddCommand(mappingListCmd, mappingTemplateCmd, mappingVerifyCmd)
	RootCmd.AddCommand(mappingCmd)
}

// selectDomains returns the domains named by --domain, or all of them.
func selectDomains() ([]mapping.Domain, error) {
	if mappingDomain == "" {
		return []mapping.Domain{mapping.DomainWireless, mapping.DomainGeneric}, nil
	}
	return parseDomains([]string{mappingDomain})
}

func runMappingList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	domains, err := selectDomains()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	listing := map[mapping.Domain][]mapping.Entry{}
	for _, d := range domains {
		store, err := a.store(ctx, d)
		if err != nil {
			return err
		}
		listing[d] = store.Entries()
	}

	if mappingJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}

	r := lipgloss.NewRenderer(out)
	title := r.NewStyle().Bold(true)
	model := r.NewStyle().Width(32)
	for _, d := range domains {
		fmt.Fprintln(out, title.Render(fmt.Sprintf("%s (%d)", d, len(listing[d]))))
		for _, e := range listing[d] {
			fmt.Fprintf(out, "  %s %s (%s)\n", model.Render(e.ObservedModel), e.CanonicalName, e.CanonicalID)
		}
	}
	return nil
}

func runMappingTemplate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	src, domain, err := a.source(templateSource, sourceOptions{File: templateFile, Role: templateRole})
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
	rec, err := a.reconciler(store, nil, reconcilerOptions{Domain: domain, NonInteractive: true})
	if err != nil {
		return err
	}

	devices, err := src.Devices(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s devices: %w", src.Name(), err)
	}
	models := inventory.Models(devices)

	var catalog []reconcile.Candidate
	if missing, err := rec.Missing(ctx, models); err != nil {
		return err
	} else if len(missing) > 0 {
		if catalog, err = reg.Catalog(ctx); err != nil {
			return fmt.Errorf("failed to load device type catalog: %w", err)
		}
	}

	prompts, err := rec.Pending(ctx, models, catalog)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if templateOut != "" {
		f, err := os.Create(templateOut)
		if err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := reconcile.WriteTemplate(w, prompts); err != nil {
		return err
	}

	a.logger.Info("Decision template written",
		zap.String("source", src.Name()),
		zap.Int("models", len(models)),
		zap.Int("pending", len(prompts)),
	)
	return nil
}

func runMappingVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	domains, err := selectDomains()
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

	svc := integrity.NewService(stores, reg.Catalog, nil, "", nil, a.logger.Named("integrity"))

	out := cmd.OutOrStdout()
	for _, d := range domains {
		report, err := svc.CheckMappings(ctx, string(d))
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s: %d entries, %d valid, %d stale, %d renamed\n",
			d, report.Total, report.Valid, len(report.Stale), len(report.Renamed))
		for _, issue := range report.Stale {
			fmt.Fprintf(out, "  stale    %s -> %s (%s): %s\n", issue.Entry.ObservedModel, issue.Entry.CanonicalName, issue.Entry.CanonicalID, issue.Reason)
		}
		for _, issue := range report.Renamed {
			fmt.Fprintf(out, "  renamed  %s -> %s, now %s\n", issue.Entry.ObservedModel, issue.Entry.CanonicalName, issue.Current)
		}

		if !verifyPrune || report.Matched {
			continue
		}
		if !verifyAssumeYes {
			ok, err := importer.NewSurveyPrompter().Confirm(ctx, fmt.Sprintf("Rewrite the %s mapping store?", d))
			if err != nil {
				return err
			}
			if !ok {
				a.logger.Info("Prune skipped", zap.String("domain", string(d)))
				continue
			}
		}
		if _, err := svc.RepairMappings(ctx, string(d)); err != nil {
			return err
		}
	}
	return nil
}
