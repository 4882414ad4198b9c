package models

// SalesGroup is a {count, revenue} bucket in a grouped sales breakdown.
// When grouping by bike the count is in units sold; when grouping by seller
// it is the number of sale records.
type SalesGroup struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// SalesStats is the aggregation over a set of sale records.
//
// TotalRevenue sums TotalPrice over every record regardless of status, while
// CompletedSales counts only completed ones. That asymmetry mirrors how the
// dashboards have always computed these numbers.
type SalesStats struct {
	TotalRevenue      float64               `json:"total_revenue"`
	TotalSales        int                   `json:"total_sales"`
	CompletedSales    int                   `json:"completed_sales"`
	AverageOrderValue float64               `json:"average_order_value"`
	ByPaymentMethod   map[string]float64    `json:"by_payment_method"`
	BySeller          map[string]SalesGroup `json:"by_seller"`
	ByBike            map[string]SalesGroup `json:"by_bike"`
}

// DashboardStats holds the key metrics shown on the admin dashboard.
type DashboardStats struct {
	TotalBikes      int     `json:"total_bikes"`
	TotalSellers    int     `json:"total_sellers"`
	TotalSales      int     `json:"total_sales"`
	TotalRevenue    float64 `json:"total_revenue"`
	PendingRequests int     `json:"pending_requests"`
	LowStockBikes   int     `json:"low_stock_bikes"`
}
