package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records counters for the inventory and order pipeline.
type PipelineMetrics struct {
	ordersCreated     prometheus.Counter
	orderTransitions  *prometheus.CounterVec
	stockAdjustments  *prometheus.CounterVec
	insufficientStock prometheus.Counter
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders accepted into the ledger.",
	})
	orderTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order status transitions applied.",
	}, []string{"from", "to"})
	stockAdjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Stock adjustments applied to products.",
	}, []string{"direction"})
	insufficientStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "insufficient_stock_total",
		Help: "Operations rejected because stock would go negative.",
	})
	reg.MustRegister(ordersCreated, orderTransitions, stockAdjustments, insufficientStock)
	return &PipelineMetrics{
		ordersCreated:     ordersCreated,
		orderTransitions:  orderTransitions,
		stockAdjustments:  stockAdjustments,
		insufficientStock: insufficientStock,
	}
}

// IncOrderCreated increments the created order counter.
func (p *PipelineMetrics) IncOrderCreated() {
	if p == nil || p.ordersCreated == nil {
		return
	}
	p.ordersCreated.Inc()
}

// IncOrderTransition increments the transition counter for the given edge.
func (p *PipelineMetrics) IncOrderTransition(from, to string) {
	if p == nil || p.orderTransitions == nil {
		return
	}
	p.orderTransitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncStockAdjustment increments the adjustment counter for the given direction.
func (p *PipelineMetrics) IncStockAdjustment(delta int) {
	if p == nil || p.stockAdjustments == nil {
		return
	}
	direction := "increase"
	if delta < 0 {
		direction = "decrease"
	}
	p.stockAdjustments.WithLabelValues(direction).Inc()
}

// IncInsufficientStock increments the insufficient stock counter.
func (p *PipelineMetrics) IncInsufficientStock() {
	if p == nil || p.insufficientStock == nil {
		return
	}
	p.insufficientStock.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
