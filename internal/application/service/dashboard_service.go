package service

import (
	"context"
	"time"

	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	"github.com/rxledger/pharmacy-api/pkg/utils"
)

// DashboardService serves the aggregate counters for the landing screen
type DashboardService struct {
	analyticsRepo    repository.AnalyticsRepository
	expiryWindowDays int
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository, expiryWindowDays int) *DashboardService {
	if expiryWindowDays <= 0 {
		expiryWindowDays = 30
	}
	return &DashboardService{
		analyticsRepo:    analyticsRepo,
		expiryWindowDays: expiryWindowDays,
	}
}

// DashboardStats holds the day's headline numbers for one pharmacy
type DashboardStats struct {
	TodaySales        float64 `json:"today_sales"`
	TodayBillCount    int64   `json:"today_bill_count"`
	OutstandingDues   float64 `json:"outstanding_dues"`
	LowStockCount     int64   `json:"low_stock_count"`
	ExpiringSoonCount int64   `json:"expiring_soon_count"`
}

// GetStats collects today's sales, receivables and stock warnings
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	billCount, revenue, err := s.analyticsRepo.SalesSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	receivables, err := s.analyticsRepo.OutstandingReceivables(ctx)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.analyticsRepo.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := now.AddDate(0, 0, s.expiryWindowDays)
	expiring, err := s.analyticsRepo.ExpiringCount(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TodaySales:        utils.Decimal(revenue),
		TodayBillCount:    billCount,
		OutstandingDues:   utils.Decimal(receivables),
		LowStockCount:     lowStock,
		ExpiringSoonCount: expiring,
	}, nil
}
