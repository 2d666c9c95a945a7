package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/metrics"
)

const defaultRecentLimit = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type stockReconciler interface {
	Deduct(ctx context.Context, tx *gorm.DB, lines []models.OrderLine) error
	Restore(ctx context.Context, tx *gorm.DB, lines []models.OrderLine) error
}

type activityRecorder interface {
	Record(ctx context.Context, action string)
}

// Service exposes the order ledger operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus enums.OrderStatus) (*OrderDTO, error)
	MarkReturned(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context) ([]OrderDTO, error)
	RecentOrders(ctx context.Context, limit int) ([]OrderDTO, error)
}

// service implements the order ledger.
type service struct {
	repo       Repository
	tx         txRunner
	catalog    catalogReader
	reconciler stockReconciler
	activity   activityRecorder
	metrics    *metrics.PipelineMetrics
}

// NewService constructs an order ledger service instance.
func NewService(repo Repository, tx txRunner, catalog catalogReader, reconciler stockReconciler, activity activityRecorder, pm *metrics.PipelineMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if reconciler == nil {
		return nil, fmt.Errorf("stock reconciler required")
	}
	if activity == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		catalog:    catalog,
		reconciler: reconciler,
		activity:   activity,
		metrics:    pm,
	}, nil
}

// CreateOrder checks availability, snapshots unit prices and persists a new
// Pending order. Stock is not reserved here; only the Completed transition
// deducts it, guarded against overselling at that point.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	}

	lines := make([]models.OrderLine, 0, len(input.Lines))
	total := 0
	for _, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line product id is required")
		}
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}

		product, err := s.catalog.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.StockQty < line.Qty {
			return nil, pkgerrors.InsufficientStock(product.ID.String(), line.Qty, product.StockQty)
		}

		lines = append(lines, models.OrderLine{
			ProductID:      product.ID,
			Qty:            line.Qty,
			UnitPriceCents: product.PriceCents,
		})
		total += line.Qty * product.PriceCents
	}

	order := &models.Order{
		Status:     enums.OrderStatusPending,
		TotalCents: total,
		Lines:      lines,
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	s.metrics.IncOrderCreated()
	s.activity.Record(ctx, fmt.Sprintf("Order %s placed (%d lines)", created.ID, len(created.Lines)))
	return NewOrderDTO(created), nil
}

// UpdateStatus applies the state machine. Completed deducts every line from
// stock atomically; a Canceled order only restores stock when a deduction
// was actually applied. Repeating the current status is an accepted no-op.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus enums.OrderStatus) (*OrderDTO, error) {
	if _, err := enums.ParseOrderStatus(newStatus.String()); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	var (
		result *models.Order
		from   enums.OrderStatus
		noop   bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		from = order.Status

		if order.Status == newStatus {
			result = order
			noop = true
			return nil
		}
		if order.Status.IsTerminal() || order.Status == enums.OrderStatusReturned {
			return pkgerrors.InvalidTransition(order.Status.String(), newStatus.String())
		}

		switch newStatus {
		case enums.OrderStatusCompleted:
			if err := s.reconciler.Deduct(ctx, tx, order.Lines); err != nil {
				if pkgerrors.Is(err, pkgerrors.CodeInsufficientStock) {
					s.metrics.IncInsufficientStock()
				}
				return err
			}
			if err := s.applyGuarded(ctx, repo, order, enums.OrderStatusCompleted, true); err != nil {
				return err
			}

		case enums.OrderStatusCanceled:
			if order.StockDeducted {
				if err := s.reconciler.Restore(ctx, tx, order.Lines); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restoring stock on cancel")
				}
			}
			if err := s.applyGuarded(ctx, repo, order, enums.OrderStatusCanceled, false); err != nil {
				return err
			}

		default:
			return pkgerrors.InvalidTransition(order.Status.String(), newStatus.String())
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !noop {
		s.metrics.IncOrderTransition(from.String(), newStatus.String())
		s.activity.Record(ctx, fmt.Sprintf("Order %s moved from %s to %s", orderID, from, newStatus))
	}
	return NewOrderDTO(result), nil
}

// applyGuarded flips the order status with the conditional UPDATE and keeps
// the in-memory copy in sync. A zero-row result means another transition won
// the race after our read.
func (s *service) applyGuarded(ctx context.Context, repo Repository, order *models.Order, to enums.OrderStatus, stockDeducted bool) error {
	ok, err := repo.UpdateStatusGuarded(ctx, order.ID, order.Status, to, stockDeducted)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order status changed concurrently")
	}
	order.Status = to
	order.StockDeducted = stockDeducted
	return nil
}

// MarkReturned stamps a Completed order as Returned. This is the manual
// correction path feeding the returns report; it moves no stock.
func (s *service) MarkReturned(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	var (
		result *models.Order
		noop   bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if order.Status == enums.OrderStatusReturned {
			result = order
			noop = true
			return nil
		}
		if order.Status != enums.OrderStatusCompleted {
			return pkgerrors.InvalidTransition(order.Status.String(), enums.OrderStatusReturned.String())
		}

		if err := s.applyGuarded(ctx, repo, order, enums.OrderStatusReturned, order.StockDeducted); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !noop {
		s.metrics.IncOrderTransition(enums.OrderStatusCompleted.String(), enums.OrderStatusReturned.String())
		s.activity.Record(ctx, fmt.Sprintf("Order %s marked returned", orderID))
	}
	return NewOrderDTO(result), nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context) ([]OrderDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toDTOs(list), nil
}

func (s *service) RecentOrders(ctx context.Context, limit int) ([]OrderDTO, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	list, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing recent orders")
	}
	return toDTOs(list), nil
}

func toDTOs(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, *NewOrderDTO(&list[i]))
	}
	return out
}
