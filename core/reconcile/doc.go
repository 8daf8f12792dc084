// Package reconcile maps free-text device models, as reported by controllers,
// spreadsheets and management platforms, to device types in the registry
// catalog.
//
// # Flow
//
// For every distinct observed model, in sorted order:
//
//  1. A model already present in the mapping store is used as it is. No
//     scoring happens and nobody is asked.
//  2. Otherwise every catalog entry is scored with similarity.PartialRatio
//     against the configured MatchField. A perfect score (100) is accepted
//     automatically. When several candidates score 100 the first one in
//     catalog order wins and a warning is logged.
//  3. Otherwise the top candidates (15 by default) are handed to a
//     DecisionProvider, which picks one of them or asks for a new device type
//     (menu number 99). New device types are created by a DeviceTypeCreator.
//
// Decisions from one run are written to the store once, after every model has
// been resolved. A run that fails or is interrupted writes nothing.
//
// # Decision providers
//
//   - ConsolePrompt: numbered menu on a terminal, repeats until the answer is
//     one of the listed numbers.
//   - TemplateDecider: answers taken from a YAML file produced by
//     WriteTemplate and edited by hand.
//   - ScriptedDecider: fixed answers, for tests and automation.
//   - RefuseDecider: fails with ErrDecisionRequired.
//
// # Usage
//
//	r := reconcile.New(store, reconcile.Options{
//	    Field:   reconcile.FieldPartNumber,
//	    Decider: reconcile.NewConsolePrompt(os.Stdin, os.Stdout),
//	    Creator: registryClient,
//	    Logger:  log,
//	})
//	entries, err := r.Reconcile(ctx, models, catalog)
//
// CatalogCache keeps a catalog snapshot for the HTTP server so that match
// previews do not hit the registry on every request.
package reconcile
