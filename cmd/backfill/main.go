// Command backfill copies a holdings JSON document into the SQL store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"cryptofolio/internal/config"
	"cryptofolio/internal/database"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	src := flag.String("from", cfg.HoldingsPath, "holdings JSON document to import")
	driver := flag.String("driver", defaultDriver(cfg.Store), "sql driver: postgres or sqlite")
	dsn := flag.String("dsn", cfg.DatabaseURL, "database URL")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("DATABASE_URL (or -dsn) is required")
	}

	logger := logrus.New()
	ctx := context.Background()

	holdings, err := database.NewFileRegistry(*src, logger).Load(ctx)
	if err != nil {
		log.Fatalf("load %s: %v", *src, err)
	}

	db, err := sqlx.Connect(*driver, *dsn)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	repo := database.New(db, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	imported := 0
	for _, sym := range holdings.Symbols() {
		if err := repo.Upsert(ctx, holdings[sym]); err != nil {
			fmt.Printf("Warning: could not import %s: %v\n", sym, err)
			continue
		}
		imported++
	}
	fmt.Printf("Imported %d/%d holdings from %s\n", imported, len(holdings), *src)
}

// defaultDriver follows the configured store when it is a SQL one.
func defaultDriver(store string) string {
	if store == config.StoreSQLite {
		return config.StoreSQLite
	}
	return config.StorePostgres
}
