package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/config"
	httpapi "github.com/denisok6893-rgb/wholesale-deal-engine/internal/http"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/matching"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/pipeline"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/storage"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/usecase"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("skip .env (reason: %v)", err)
	}
	cfg := config.Load()
	ctx := context.Background()

	if cfg.DBDriver == storage.DriverSQLite {
		if dir := filepath.Dir(cfg.DBDSN); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	store, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	if cfg.SeedPath != "" {
		data, err := storage.LoadSeedFromFile(cfg.SeedPath)
		if err != nil {
			log.Fatalf("load seed: %v", err)
		}
		if err := store.Seed(ctx, data); err != nil {
			log.Fatalf("seed store: %v", err)
		}
		log.Printf("seeded %d properties, %d comparables, %d buyers", len(data.Properties), len(data.Comparables), len(data.Buyers))
	}

	p, err := policy.LoadPolicyFromFile(cfg.PolicyPath)
	if err != nil {
		log.Printf("use default policy (reason: %v)", err)
		p = policy.DefaultPolicy()
	}

	engine := matching.NewEngine(p.Match, cfg.Matching())
	desk := usecase.NewDealDesk(store, pipeline.NewEvaluator(p), engine)
	srv := httpapi.NewServer(desk)

	log.Printf("API listening on %s (db=%s)", cfg.Address, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.Address, srv.Routes()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
