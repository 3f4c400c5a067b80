package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"telegram-aroma-oracle/internal/config"
	catalogload "telegram-aroma-oracle/internal/infra/catalog"
	pg "telegram-aroma-oracle/internal/infra/db/postgres"
)

// Seed prepares a fresh deployment: it ensures the database schema exists
// and validates the catalog file the bot will serve from.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema: ok")

	catalog, err := catalogload.LoadFile(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	fmt.Printf("catalog: %d oils loaded from %s\n", catalog.Len(), cfg.Catalog.Path)

	for i := 0; i < catalog.Len(); i++ {
		oil, ok := catalog.Lookup(i)
		if !ok {
			log.Fatalf("catalog: id %d missing after load", i)
		}
		fmt.Printf("  %2d  %s %s\n", oil.ID, oil.Emoji, oil.Name)
	}
	fmt.Println("seed: done")
}
