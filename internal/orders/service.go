package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/joaoo737/deliveryfront/internal/checkout"
	"github.com/joaoo737/deliveryfront/pkg/db/models"
	"github.com/joaoo737/deliveryfront/pkg/enums"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// statusTransitions is keyed by current status; the value lists where the
// vendor may move it next.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:  {enums.OrderStatusPreparing, enums.OrderStatusCancelled},
	enums.OrderStatusPreparing:  {enums.OrderStatusDelivering},
	enums.OrderStatusDelivering: {enums.OrderStatusDelivered},
}

// Service exposes order creation and lifecycle operations.
type Service interface {
	CreateFromCheckout(ctx context.Context, payload checkout.OrderPayload) (*models.Order, error)
	GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]models.Order, error)
	AdvanceStatus(ctx context.Context, vendorID, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error)
	CancelForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	deliveryFee decimal.Decimal
}

// NewService builds an orders service with the configured delivery fee.
func NewService(repo Repository, tx txRunner, deliveryFee decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee must be non-negative")
	}
	return &service{repo: repo, tx: tx, deliveryFee: deliveryFee}, nil
}

// CreateFromCheckout persists the assembled payload as a pending order.
// The delivery fee enters here, never in the cart.
func (s *service) CreateFromCheckout(ctx context.Context, payload checkout.OrderPayload) (*models.Order, error) {
	if payload.CustomerID == uuid.Nil || payload.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer and vendor are required")
	}
	if len(payload.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	items := make([]models.OrderItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, models.OrderItem{
			ID:          uuid.New(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}

	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      payload.CustomerID,
		VendorID:        payload.VendorID,
		Status:          enums.OrderStatusPending,
		PaymentMethod:   payload.PaymentMethod,
		DeliveryAddress: payload.DeliveryAddress,
		Notes:           payload.Notes,
		Subtotal:        payload.Subtotal,
		DeliveryFee:     s.deliveryFee,
		Total:           payload.Subtotal.Add(s.deliveryFee),
		Items:           items,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return err
		}
		order = created
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	return order, nil
}

// GetForCustomer returns the order only when it belongs to the customer.
func (s *service) GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	orders, err := s.repo.ListByCustomer(ctx, customerID, clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) ListForVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	orders, err := s.repo.ListByVendor(ctx, vendorID, clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// AdvanceStatus moves the vendor's order along the fulfillment pipeline.
func (s *service) AdvanceStatus(ctx context.Context, vendorID, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !transitionAllowed(order.Status, next) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order status transition not allowed").
			WithDetails(map[string]any{"from": order.Status, "to": next})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, string(next)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = next
	return order, nil
}

// CancelForCustomer cancels the customer's own order while it is still
// pending.
func (s *service) CancelForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetForCustomer(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "only pending orders can be cancelled").
			WithDetails(map[string]any{"status": order.Status})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, string(enums.OrderStatusCancelled)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	order.Status = enums.OrderStatusCancelled
	return order, nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range statusTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
