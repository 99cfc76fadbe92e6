package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spaops/ledgersync/internal/cache"
	"github.com/spaops/ledgersync/internal/infra/codat"
	"github.com/spaops/ledgersync/internal/infra/zenoti"
	"github.com/spaops/ledgersync/internal/logger"
	"github.com/spaops/ledgersync/internal/recon"
)

func main() {
	log := logger.New()

	apiKey := flag.String("api-key", "", "SOURCE platform API key (required)")
	companyName := flag.String("company", "", "LEDGER company name (required)")
	centerID := flag.String("center-id", "", "SOURCE center ID (required)")
	startDateStr := flag.String("start-date", "", "Start date in YYYY-MM-DD format (required)")
	endDateStr := flag.String("end-date", "", "End date in YYYY-MM-DD format (required)")
	currency := flag.String("currency", "USD", "Journal line currency")
	flag.Parse()

	if *apiKey == "" {
		log.Fatal().Msg("Error: --api-key is required")
	}
	if *companyName == "" {
		log.Fatal().Msg("Error: --company is required")
	}
	if *centerID == "" {
		log.Fatal().Msg("Error: --center-id is required")
	}
	if *startDateStr == "" {
		log.Fatal().Msg("Error: --start-date is required")
	}
	if *endDateStr == "" {
		log.Fatal().Msg("Error: --end-date is required")
	}

	startDate, err := time.Parse(time.DateOnly, *startDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("start_date", *startDateStr).Msg("Error: invalid start-date format, expected YYYY-MM-DD")
	}
	endDate, err := time.Parse(time.DateOnly, *endDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("end_date", *endDateStr).Msg("Error: invalid end-date format, expected YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		log.Fatal().
			Time("start_date", startDate).
			Time("end_date", endDate).
			Msg("Error: end-date must not be before start-date")
	}

	ledgerKey := os.Getenv("CODAT_API_KEY")
	if ledgerKey == "" {
		log.Fatal().Msg("Error: CODAT_API_KEY is not set")
	}

	// Timeout covers account-creation and journal polling for the whole run.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var sourceOpts []zenoti.Option
	if base := os.Getenv("ZENOTI_BASE_URL"); base != "" {
		sourceOpts = append(sourceOpts, zenoti.WithBaseURL(base))
	}
	var ledgerOpts []codat.Option
	if base := os.Getenv("CODAT_BASE_URL"); base != "" {
		ledgerOpts = append(ledgerOpts, codat.WithBaseURL(base))
	}

	orchestrator := recon.NewOrchestrator(
		zenoti.NewClient(*apiKey, sourceOpts...),
		codat.NewClient(ledgerKey, ledgerOpts...),
		cache.NewStore(),
		recon.Config{Currency: *currency},
	)

	results, err := orchestrator.Sync(ctx, recon.SyncParams{
		CompanyName: *companyName,
		CenterID:    *centerID,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	output, err := json.MarshalIndent(map[string]interface{}{"syncedDetails": results}, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode results")
	}
	fmt.Println(string(output))
}
