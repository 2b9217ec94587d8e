package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tenderdesk/ledgerhub/db"
	"github.com/tenderdesk/ledgerhub/lib/logging"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

// script to reconcile stored account balances against the entry history
func main() {

	fix := flag.Bool("fix", false, "rewrite drifted balances to the recomputed value")
	flag.Parse()

	c := &service.Config{}

	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := logging.Logger(c.LogFilePath)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	svc := &service.LedgerService{
		Config:      c,
		DB:          dbConn,
		Logger:      logger,
		EntryPubSub: service.NewPubsub(),
	}

	drifts, err := svc.ReconcileBalances(context.Background(), *fix)
	if err != nil {
		logger.Fatalf("Error reconciling balances: %v", err)
	}
	if len(drifts) == 0 {
		logger.Info("All account balances match the entry history")
		return
	}
	for _, drift := range drifts {
		logger.Infof("Account %d drifted: stored %d, computed %d", drift.AccountID, drift.Stored, drift.Computed)
	}
	if *fix {
		logger.Infof("Rewrote %d drifted balances", len(drifts))
	}
}
