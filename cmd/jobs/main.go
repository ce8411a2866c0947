package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/atshybrid/kaburlu-billing/internal/cache"
	"github.com/atshybrid/kaburlu-billing/internal/config"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
	"github.com/atshybrid/kaburlu-billing/internal/repository"
	"github.com/atshybrid/kaburlu-billing/internal/service"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

const (
	jobMonthlyBilling = "monthly-billing"
	jobBalanceHealth  = "balance-health"
)

func init() {
	time.Local = time.UTC
}

// The jobs binary is a one-shot entry point driven by an external scheduler:
// monthly-billing on day 1 of each month, balance-health daily. It prints the
// run summary as JSON for the caller's monitoring.
func main() {
	jobName := flag.String("job", "", "job to run: monthly-billing or balance-health")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	db, err := postgres.NewDB(cfg, logg)
	if err != nil {
		logg.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	params := service.NewServiceParams(
		logg,
		cfg,
		db,
		cache.NewInMemoryCache(),
		repository.NewWalletRepository(db, logg),
		repository.NewPricingRepository(db, logg),
		repository.NewUsageRepository(db, logg),
		repository.NewInvoiceRepository(db, logg),
		repository.NewTenantRepository(db, logg),
	)
	runService := service.NewBillingRunService(params)

	ctx := context.Background()
	now := time.Now().UTC()

	var summary any
	switch *jobName {
	case jobMonthlyBilling:
		summary, err = runService.RunMonthlyBilling(ctx, types.PreviousMonthPeriod(now))
	case jobBalanceHealth:
		summary, err = runService.RunBalanceHealthScan(ctx, now)
	default:
		log.Fatalf("unknown job %q, expected %s or %s", *jobName, jobMonthlyBilling, jobBalanceHealth)
	}
	if err != nil {
		logg.Fatalw("job failed", "job", *jobName, "error", err)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logg.Fatalw("failed to render summary", "error", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
}
