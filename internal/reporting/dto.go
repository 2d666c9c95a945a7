package reporting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyBucketDTO is one calendar-month revenue bucket.
type MonthlyBucketDTO struct {
	Month      string `json:"month"`
	TotalCents int    `json:"total_cents"`
}

// HourCountDTO is the order frequency for one hour of day.
type HourCountDTO struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

// ProductSalesDTO names a product and its quantity sold.
type ProductSalesDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	QtySold   int       `json:"qty_sold"`
}

// SalesReportDTO is the revenue and volume breakdown over Completed orders.
type SalesReportDTO struct {
	TotalRevenueCents int                `json:"total_revenue_cents"`
	TotalUnitsSold    int                `json:"total_units_sold"`
	MonthlySales      []MonthlyBucketDTO `json:"monthly_sales"`
	PeakHours         []HourCountDTO     `json:"peak_hours"`
	BestSelling       *ProductSalesDTO   `json:"best_selling,omitempty"`
	LeastSelling      *ProductSalesDTO   `json:"least_selling,omitempty"`
}

// CategorySalesDTO is quantity sold grouped by product category.
type CategorySalesDTO struct {
	Category string `json:"category"`
	QtySold  int    `json:"qty_sold"`
}

// ProductReturnsDTO names a product and its returned quantity.
type ProductReturnsDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
}

// ReturnsReportDTO groups returned quantities by product.
type ReturnsReportDTO struct {
	Items        []ProductReturnsDTO `json:"items"`
	MostReturned *ProductReturnsDTO  `json:"most_returned,omitempty"`
}

// LowStockDTO flags a product running under the stock threshold.
type LowStockDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	StockQty  int       `json:"stock_qty"`
}

// TopProductDTO is one row of the dashboard's best sellers table.
type TopProductDTO struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	QtySold    int       `json:"qty_sold"`
	OrderCount int       `json:"order_count"`
}

// DashboardDTO is the at-a-glance snapshot for the admin landing page.
type DashboardDTO struct {
	OrdersByStatus     map[string]int  `json:"orders_by_status"`
	LowStock           []LowStockDTO   `json:"low_stock"`
	TopProducts        []TopProductDTO `json:"top_products"`
	CurrentMonthCents  int             `json:"current_month_cents"`
	PreviousMonthCents int             `json:"previous_month_cents"`
	SalesChangePercent decimal.Decimal `json:"sales_change_percent"`
}

// DailyBucketDTO is one day's revenue in the weekly report.
type DailyBucketDTO struct {
	Day        string `json:"day"`
	TotalCents int    `json:"total_cents"`
}

// WeeklySalesDTO covers the trailing seven days of Completed revenue.
type WeeklySalesDTO struct {
	Days       []DailyBucketDTO `json:"days"`
	TotalCents int              `json:"total_cents"`
}
