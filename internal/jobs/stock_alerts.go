package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	infraRepo "github.com/rxledger/pharmacy-api/internal/infrastructure/repository"
)

// StockAlertJob logs low-stock and soon-to-expire lots for every approved
// pharmacy once a day. It is a log-based alert, not a notification system.
type StockAlertJob struct {
	pharmacyRepo     repository.PharmacyRepository
	medicineRepo     repository.MedicineRepository
	cronSpec         string
	expiryWindowDays int
	cron             *cron.Cron
}

// NewStockAlertJob creates a new stock alert job
func NewStockAlertJob(
	pharmacyRepo repository.PharmacyRepository,
	medicineRepo repository.MedicineRepository,
	cronSpec string,
	expiryWindowDays int,
) *StockAlertJob {
	if cronSpec == "" {
		cronSpec = "0 8 * * *"
	}
	if expiryWindowDays <= 0 {
		expiryWindowDays = 30
	}
	return &StockAlertJob{
		pharmacyRepo:     pharmacyRepo,
		medicineRepo:     medicineRepo,
		cronSpec:         cronSpec,
		expiryWindowDays: expiryWindowDays,
	}
}

// Start schedules the job. Returns an error if the cron spec is invalid.
func (j *StockAlertJob) Start() error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.cronSpec, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	log.Info().Str("spec", j.cronSpec).Msg("stock alert job scheduled")
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish
func (j *StockAlertJob) Stop() {
	if j.cron != nil {
		ctx := j.cron.Stop()
		<-ctx.Done()
	}
}

// Run executes one sweep over all approved pharmacies
func (j *StockAlertJob) Run() {
	ctx := context.Background()

	status := enum.PharmacyStatusApproved
	pharmacies, err := j.pharmacyRepo.List(ctx, &status)
	if err != nil {
		log.Error().Err(err).Msg("stock alert sweep failed to list pharmacies")
		return
	}

	cutoff := time.Now().AddDate(0, 0, j.expiryWindowDays)
	for _, pharmacy := range pharmacies {
		tenantCtx := infraRepo.WithTenant(ctx, pharmacy.ID)

		lowStock, err := j.medicineRepo.LowStock(tenantCtx)
		if err != nil {
			log.Error().Err(err).Str("pharmacy_id", pharmacy.ID.String()).Msg("low stock query failed")
			continue
		}
		for _, lot := range lowStock {
			log.Warn().
				Str("pharmacy_id", pharmacy.ID.String()).
				Str("medicine", lot.Name).
				Str("batch", lot.BatchNumber).
				Int("quantity", lot.Quantity).
				Int("min_stock_level", lot.MinStockLevel).
				Msg("low stock alert")
		}

		expiring, err := j.medicineRepo.ExpiringBefore(tenantCtx, cutoff)
		if err != nil {
			log.Error().Err(err).Str("pharmacy_id", pharmacy.ID.String()).Msg("expiry query failed")
			continue
		}
		for _, lot := range expiring {
			log.Warn().
				Str("pharmacy_id", pharmacy.ID.String()).
				Str("medicine", lot.Name).
				Str("batch", lot.BatchNumber).
				Time("expiry_date", lot.ExpiryDate).
				Msg("expiry alert")
		}
	}
}
