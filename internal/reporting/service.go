package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
)

const (
	lowStockThreshold = 10
	topProductsLimit  = 5
	peakHoursLimit    = 3
	monthLabelLayout  = "Jan 2006"
	dayLabelLayout    = "2006-01-02"
)

type ordersReader interface {
	List(ctx context.Context) ([]models.Order, error)
}

type productsReader interface {
	List(ctx context.Context) ([]models.Product, error)
}

// Service computes sales, inventory and returns statistics from read
// snapshots of the ledger and the catalog. It never mutates state.
type Service interface {
	SalesReport(ctx context.Context) (*SalesReportDTO, error)
	CategorySales(ctx context.Context) ([]CategorySalesDTO, error)
	ReturnsReport(ctx context.Context) (*ReturnsReportDTO, error)
	Dashboard(ctx context.Context) (*DashboardDTO, error)
	WeeklySales(ctx context.Context) (*WeeklySalesDTO, error)
}

type service struct {
	orders   ordersReader
	products productsReader
	now      func() time.Time
}

// NewService constructs the reporting aggregator.
func NewService(orders ordersReader, products productsReader) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	if products == nil {
		return nil, fmt.Errorf("products reader required")
	}
	return &service{orders: orders, products: products, now: time.Now}, nil
}

func (s *service) snapshot(ctx context.Context) ([]models.Order, map[uuid.UUID]models.Product, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading order snapshot")
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading product snapshot")
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return orders, byID, nil
}

func (s *service) SalesReport(ctx context.Context) (*SalesReportDTO, error) {
	orders, products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	report := &SalesReportDTO{
		MonthlySales: []MonthlyBucketDTO{},
		PeakHours:    peakHours(orders),
	}

	completed := filterByStatus(orders, enums.OrderStatusCompleted)
	for _, order := range completed {
		report.TotalRevenueCents += order.TotalCents
		for _, line := range order.Lines {
			report.TotalUnitsSold += line.Qty
		}
	}
	report.MonthlySales = monthlyBuckets(completed)

	sold := qtyByProduct(completed)
	best, least := bestAndLeast(sold)
	report.BestSelling = productSales(best, sold, products)
	report.LeastSelling = productSales(least, sold, products)
	return report, nil
}

func (s *service) CategorySales(ctx context.Context) ([]CategorySalesDTO, error) {
	orders, products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]int{}
	for productID, qty := range qtyByProduct(filterByStatus(orders, enums.OrderStatusCompleted)) {
		product, ok := products[productID]
		if !ok {
			// Product removed from the catalog after the sale; nothing to
			// join its category against.
			continue
		}
		byCategory[product.Category] += qty
	}

	out := make([]CategorySalesDTO, 0, len(byCategory))
	for category, qty := range byCategory {
		out = append(out, CategorySalesDTO{Category: category, QtySold: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QtySold != out[j].QtySold {
			return out[i].QtySold > out[j].QtySold
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *service) ReturnsReport(ctx context.Context) (*ReturnsReportDTO, error) {
	orders, products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	returned := qtyByProduct(filterByStatus(orders, enums.OrderStatusReturned))

	report := &ReturnsReportDTO{Items: []ProductReturnsDTO{}}
	for productID, qty := range returned {
		item := ProductReturnsDTO{ProductID: productID, Qty: qty}
		if product, ok := products[productID]; ok {
			item.Name = product.Name
		}
		report.Items = append(report.Items, item)
	}
	sort.Slice(report.Items, func(i, j int) bool {
		if report.Items[i].Qty != report.Items[j].Qty {
			return report.Items[i].Qty > report.Items[j].Qty
		}
		return report.Items[i].ProductID.String() < report.Items[j].ProductID.String()
	})
	if len(report.Items) > 0 {
		most := report.Items[0]
		report.MostReturned = &most
	}
	return report, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	orders, products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	dto := &DashboardDTO{
		OrdersByStatus: map[string]int{},
		LowStock:       []LowStockDTO{},
		TopProducts:    []TopProductDTO{},
	}
	for _, order := range orders {
		dto.OrdersByStatus[order.Status.String()]++
	}

	for _, product := range products {
		if product.StockQty < lowStockThreshold {
			dto.LowStock = append(dto.LowStock, LowStockDTO{
				ProductID: product.ID,
				Name:      product.Name,
				StockQty:  product.StockQty,
			})
		}
	}
	sort.Slice(dto.LowStock, func(i, j int) bool {
		if dto.LowStock[i].StockQty != dto.LowStock[j].StockQty {
			return dto.LowStock[i].StockQty < dto.LowStock[j].StockQty
		}
		return dto.LowStock[i].ProductID.String() < dto.LowStock[j].ProductID.String()
	})

	completed := filterByStatus(orders, enums.OrderStatusCompleted)
	dto.TopProducts = topProducts(completed, products)

	now := s.now().UTC()
	currentYear, currentMonth, _ := now.Date()
	prev := now.AddDate(0, -1, -now.Day()+1)
	prevYear, prevMonth, _ := prev.Date()
	for _, order := range completed {
		year, month, _ := order.CreatedAt.UTC().Date()
		switch {
		case year == currentYear && month == currentMonth:
			dto.CurrentMonthCents += order.TotalCents
		case year == prevYear && month == prevMonth:
			dto.PreviousMonthCents += order.TotalCents
		}
	}
	dto.SalesChangePercent = salesChange(dto.CurrentMonthCents, dto.PreviousMonthCents)
	return dto, nil
}

func (s *service) WeeklySales(ctx context.Context) (*WeeklySalesDTO, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading order snapshot")
	}

	now := s.now().UTC()
	start := now.AddDate(0, 0, -6)
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	byDay := map[string]int{}
	for _, order := range filterByStatus(orders, enums.OrderStatusCompleted) {
		created := order.CreatedAt.UTC()
		if created.Before(startDay) {
			continue
		}
		byDay[created.Format(dayLabelLayout)] += order.TotalCents
	}

	dto := &WeeklySalesDTO{Days: make([]DailyBucketDTO, 0, 7)}
	for i := 0; i < 7; i++ {
		day := startDay.AddDate(0, 0, i).Format(dayLabelLayout)
		total := byDay[day]
		dto.Days = append(dto.Days, DailyBucketDTO{Day: day, TotalCents: total})
		dto.TotalCents += total
	}
	return dto, nil
}

func filterByStatus(orders []models.Order, status enums.OrderStatus) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out
}

func qtyByProduct(orders []models.Order) map[uuid.UUID]int {
	out := map[uuid.UUID]int{}
	for _, order := range orders {
		for _, line := range order.Lines {
			out[line.ProductID] += line.Qty
		}
	}
	return out
}

func monthlyBuckets(orders []models.Order) []MonthlyBucketDTO {
	type bucketKey struct {
		year  int
		month time.Month
	}
	totals := map[bucketKey]int{}
	for _, order := range orders {
		year, month, _ := order.CreatedAt.UTC().Date()
		totals[bucketKey{year, month}] += order.TotalCents
	}

	keys := make([]bucketKey, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	out := make([]MonthlyBucketDTO, 0, len(keys))
	for _, key := range keys {
		label := time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC).Format(monthLabelLayout)
		out = append(out, MonthlyBucketDTO{Month: label, TotalCents: totals[key]})
	}
	return out
}

// peakHours counts order creations per hour of day and returns the top
// three, ties broken by ascending hour so the result is deterministic.
func peakHours(orders []models.Order) []HourCountDTO {
	counts := [24]int{}
	for _, order := range orders {
		counts[order.CreatedAt.UTC().Hour()]++
	}

	hours := make([]HourCountDTO, 0, 24)
	for hour, n := range counts {
		if n > 0 {
			hours = append(hours, HourCountDTO{Hour: hour, Orders: n})
		}
	}
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].Orders != hours[j].Orders {
			return hours[i].Orders > hours[j].Orders
		}
		return hours[i].Hour < hours[j].Hour
	})
	if len(hours) > peakHoursLimit {
		hours = hours[:peakHoursLimit]
	}
	return hours
}

// bestAndLeast picks the max and min sellers, ties broken by lowest
// product identifier.
func bestAndLeast(sold map[uuid.UUID]int) (best, least uuid.UUID) {
	for productID, qty := range sold {
		if best == uuid.Nil || qty > sold[best] || (qty == sold[best] && productID.String() < best.String()) {
			best = productID
		}
		if least == uuid.Nil || qty < sold[least] || (qty == sold[least] && productID.String() < least.String()) {
			least = productID
		}
	}
	return best, least
}

func productSales(productID uuid.UUID, sold map[uuid.UUID]int, products map[uuid.UUID]models.Product) *ProductSalesDTO {
	if productID == uuid.Nil {
		return nil
	}
	dto := &ProductSalesDTO{ProductID: productID, QtySold: sold[productID]}
	if product, ok := products[productID]; ok {
		dto.Name = product.Name
	}
	return dto
}

func topProducts(completed []models.Order, products map[uuid.UUID]models.Product) []TopProductDTO {
	qty := map[uuid.UUID]int{}
	orderCounts := map[uuid.UUID]int{}
	for _, order := range completed {
		seen := map[uuid.UUID]bool{}
		for _, line := range order.Lines {
			qty[line.ProductID] += line.Qty
			if !seen[line.ProductID] {
				seen[line.ProductID] = true
				orderCounts[line.ProductID]++
			}
		}
	}

	out := make([]TopProductDTO, 0, len(qty))
	for productID, sold := range qty {
		row := TopProductDTO{ProductID: productID, QtySold: sold, OrderCount: orderCounts[productID]}
		if product, ok := products[productID]; ok {
			row.Name = product.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QtySold != out[j].QtySold {
			return out[i].QtySold > out[j].QtySold
		}
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	if len(out) > topProductsLimit {
		out = out[:topProductsLimit]
	}
	return out
}

// salesChange is the period-over-period percentage, 0 when the prior
// period had no sales.
func salesChange(current, previous int) decimal.Decimal {
	if previous == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(current - previous)).
		Div(decimal.NewFromInt(int64(previous))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
