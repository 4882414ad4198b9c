package services

import (
	"errors"
	"fmt"
	"time"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/repositories"
)

// Date range keys accepted by the sales report.
const (
	RangeToday   = "today"
	RangeWeek    = "week"
	RangeMonth   = "month"
	RangeQuarter = "quarter"
	RangeYear    = "year"
	RangeAll     = "all"
)

var ErrUnknownDateRange = errors.New("unknown date range")

// SalesReport bundles the aggregated stats with the sales that produced them,
// so dashboards can render totals and the underlying table from one response.
type SalesReport struct {
	Range string            `json:"range"`
	From  *time.Time        `json:"from,omitempty"`
	Stats models.SalesStats `json:"stats"`
	Sales []models.Sale     `json:"sales"`
}

// --- ReportService Interface ---
type ReportService interface {
	GetSalesReport(dateRange string, sellerID *string) (*SalesReport, error)
	GetDashboardStats() (*models.DashboardStats, error)
}

// --- reportService Implementation ---
type reportService struct {
	saleRepo    repositories.SaleRepository
	bikeRepo    repositories.BikeRepository
	userRepo    repositories.UserRepository
	requestRepo repositories.RequestRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	sr repositories.SaleRepository,
	br repositories.BikeRepository,
	ur repositories.UserRepository,
	rr repositories.RequestRepository,
) ReportService {
	return &reportService{
		saleRepo:    sr,
		bikeRepo:    br,
		userRepo:    ur,
		requestRepo: rr,
	}
}

// GetSalesReport loads the sales ledger (optionally one seller's slice),
// drops everything created before the range cutoff, and aggregates the rest
// in memory. Aggregation happens here rather than in SQL so the filtered rows
// can be returned alongside the stats without a second query.
func (s *reportService) GetSalesReport(dateRange string, sellerID *string) (*SalesReport, error) {
	if dateRange == "" {
		dateRange = RangeAll
	}
	cutoff, err := rangeCutoff(dateRange, time.Now())
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.GetAllSales(sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for report: %w", err)
	}
	if cutoff != nil {
		filtered := make([]models.Sale, 0, len(sales))
		for _, sale := range sales {
			if !sale.CreatedAt.Before(*cutoff) {
				filtered = append(filtered, sale)
			}
		}
		sales = filtered
	}

	return &SalesReport{
		Range: dateRange,
		From:  cutoff,
		Stats: AggregateSales(sales),
		Sales: sales,
	}, nil
}

// rangeCutoff maps a range key to its inclusive lower bound. "today" snaps to
// local midnight; the sliding ranges count back from now. "all" returns nil.
func rangeCutoff(dateRange string, now time.Time) (*time.Time, error) {
	var cutoff time.Time
	switch dateRange {
	case RangeToday:
		cutoff = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case RangeWeek:
		cutoff = now.AddDate(0, 0, -7)
	case RangeMonth:
		cutoff = now.AddDate(0, -1, 0)
	case RangeQuarter:
		cutoff = now.AddDate(0, -3, 0)
	case RangeYear:
		cutoff = now.AddDate(-1, 0, 0)
	case RangeAll:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDateRange, dateRange)
	}
	return &cutoff, nil
}

// AggregateSales computes summary stats over a slice of sales. TotalRevenue
// and the per-method/seller/bike breakdowns sum every sale regardless of
// status, while CompletedSales counts only completed ones; pending and
// refunded sales therefore still inflate revenue. Per-seller groups count
// sale records, per-bike groups count units sold. AverageOrderValue divides
// by the full sale count, zero when the slice is empty.
func AggregateSales(sales []models.Sale) models.SalesStats {
	stats := models.SalesStats{
		TotalSales:      len(sales),
		ByPaymentMethod: make(map[string]float64),
		BySeller:        make(map[string]models.SalesGroup),
		ByBike:          make(map[string]models.SalesGroup),
	}
	for _, sale := range sales {
		stats.TotalRevenue += sale.TotalPrice
		if sale.Status == models.SaleStatusCompleted {
			stats.CompletedSales++
		}
		stats.ByPaymentMethod[sale.PaymentMethod] += sale.TotalPrice

		seller := stats.BySeller[sale.SellerName]
		seller.Count++
		seller.Revenue += sale.TotalPrice
		stats.BySeller[sale.SellerName] = seller

		bike := stats.ByBike[sale.BikeName]
		bike.Count += sale.Quantity
		bike.Revenue += sale.TotalPrice
		stats.ByBike[sale.BikeName] = bike
	}
	if stats.TotalSales > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.TotalSales)
	}
	return stats
}

// GetDashboardStats assembles the admin landing-page counters. Each counter
// is an independent query; the numbers are not a consistent snapshot.
func (s *reportService) GetDashboardStats() (*models.DashboardStats, error) {
	totalBikes, err := s.bikeRepo.CountBikes()
	if err != nil {
		return nil, fmt.Errorf("failed to count bikes: %w", err)
	}
	totalSellers, err := s.userRepo.CountSellers()
	if err != nil {
		return nil, fmt.Errorf("failed to count sellers: %w", err)
	}
	pendingRequests, err := s.requestRepo.CountPendingRequests()
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}
	lowStockBikes, err := s.bikeRepo.CountLowStockBikes(DefaultLowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock bikes: %w", err)
	}
	sales, err := s.saleRepo.GetAllSales(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for dashboard: %w", err)
	}
	stats := AggregateSales(sales)

	return &models.DashboardStats{
		TotalBikes:      totalBikes,
		TotalSellers:    totalSellers,
		TotalSales:      stats.TotalSales,
		TotalRevenue:    stats.TotalRevenue,
		PendingRequests: pendingRequests,
		LowStockBikes:   lowStockBikes,
	}, nil
}
