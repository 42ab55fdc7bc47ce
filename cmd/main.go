package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/senyabanana/tender-engine/internal/db"
	"github.com/senyabanana/tender-engine/internal/handlers"
	"github.com/senyabanana/tender-engine/internal/job"
	"github.com/senyabanana/tender-engine/internal/repository"
	"github.com/senyabanana/tender-engine/internal/router"
	"github.com/senyabanana/tender-engine/internal/router/config"
	"github.com/senyabanana/tender-engine/internal/services"
	"github.com/senyabanana/tender-engine/internal/token"
	"github.com/senyabanana/tender-engine/internal/verification"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}
	if cfg.TokenSecret == "" {
		log.Fatal("TOKEN_SECRET must be set")
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	codec := token.NewHMACCodec(cfg.TokenSecret)
	verifier := verification.NewClient(cfg.VerificationURL)

	tenderRepo := repository.NewPostgresTenderRepository(dbPool)
	offerRepo := repository.NewPostgresOfferRepository(dbPool)
	precheckRepo := repository.NewPostgresPreCheckRepository(dbPool)

	tenderService := services.NewTenderService(tenderRepo, codec)
	offerService := services.NewOfferService(tenderRepo, offerRepo, codec)
	comparisonService := services.NewComparisonService(tenderRepo, offerRepo)
	precheckService := services.NewPreCheckService(verifier, precheckRepo)
	awardService := services.NewAwardService(tenderRepo, precheckService)

	timeout := 5 * time.Second
	tenderHandler := handlers.NewTenderHandler(tenderService, logger, timeout)
	offerHandler := handlers.NewOfferHandler(offerService, logger, timeout)
	comparisonHandler := handlers.NewComparisonHandler(comparisonService, logger, timeout)
	awardHandler := handlers.NewAwardHandler(awardService, precheckService, logger, timeout)

	if cfg.RecheckSchedule != "" {
		recheckJob, err := job.StartRecheckJob(cfg.RecheckSchedule, precheckService, precheckRepo, logger)
		if err != nil {
			log.Fatalf("failed to start recheck job: %v", err)
		}
		defer recheckJob.Stop()
	}

	routes := router.InitRoutes(tenderHandler, offerHandler, comparisonHandler, awardHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
