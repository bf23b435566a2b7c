package main

import (
	"context"
	"fmt"
	"time"

	"cryptofolio/internal/config"
	"cryptofolio/internal/database"
	"cryptofolio/internal/handlers"
	"cryptofolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	registry, closeStore, err := openRegistry(cfg, logger)
	if err != nil {
		logger.Fatalf("open %s store failed: %v", cfg.Store, err)
	}
	defer closeStore()

	// A missing or malformed holdings document is fatal at startup.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	holdings, err := registry.Load(ctx)
	cancel()
	if err != nil {
		logger.Fatalf("load holdings failed: %v", err)
	}
	logger.Infof("tracking %d holdings from %s store", len(holdings), cfg.Store)

	priceSvc := service.NewCoinGeckoPriceService(cfg.PriceAPI.URL, cfg.PriceAPI.Key, cfg.PriceAPI.GetTimeout(), logger)
	tracker := service.NewTracker(registry, priceSvc, logger)
	h := handlers.NewHandler(tracker, logger)

	gin.SetMode(cfg.GinMode)
	rg := gin.Default()
	h.Register(rg)

	logger.Infof("server starting on :%s", cfg.Port)
	if err := rg.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}

func openRegistry(cfg config.Config, logger *logrus.Logger) (database.Registry, func(), error) {
	switch cfg.Store {
	case config.StorePostgres, config.StoreSQLite:
		db, err := initDB(cfg.Store, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		r := database.New(db, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return r, func() { db.Close() }, nil
	default:
		return database.NewFileRegistry(cfg.HoldingsPath, logger), func() {}, nil
	}
}

func initDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if driver == config.StoreSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	return db, nil
}
