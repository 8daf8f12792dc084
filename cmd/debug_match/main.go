package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"inventory-sync/core/config"
	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/registry"
	"inventory-sync/core/similarity"
)

func main() {
	field := flag.String("field", "display_name", "catalog field: display_name or part_number")
	limit := flag.Int("n", 10, "candidates to print per model")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: debug_match [-field f] [-n 10] MODEL...")
		os.Exit(2)
	}

	matchField, err := reconcile.ParseField(*field)
	if err != nil {
		log.Fatal(err)
	}

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	reg, err := registry.New(cfg.Registry, nil)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	catalog, err := reg.Catalog(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Catalog: %d device types\n", len(catalog))

	// Mapping stores from local files only
	stores := map[mapping.Domain]*mapping.Store{}
	for _, d := range []mapping.Domain{mapping.DomainWireless, mapping.DomainGeneric} {
		s := mapping.NewStore(mapping.NewFileBackend(cfg.Mapping.PathFor(d)))
		if _, err := s.Load(ctx); err != nil {
			fmt.Printf("WARN: %s store not readable: %v\n", d, err)
			continue
		}
		stores[d] = s
	}

	for _, model := range flag.Args() {
		fmt.Printf("\n=== %s ===\n", model)
		for d, s := range stores {
			if e, ok := s.Lookup(model); ok {
				fmt.Printf("cached in %s: %s (%s)\n", d, e.CanonicalName, e.CanonicalID)
			}
		}

		ranked := reconcile.Rank(model, catalog, matchField)
		if len(ranked) > *limit {
			ranked = ranked[:*limit]
		}
		for i, s := range ranked {
			exact := ""
			if reconcile.IsExact(s) {
				exact = " EXACT"
			}
			fmt.Printf("%2d. [%3d] id=%-6s %s (full ratio %d)%s\n",
				i, s.Score, s.ID, s.Value(matchField), similarity.Ratio(model, s.Value(matchField)), exact)
		}
	}
}
