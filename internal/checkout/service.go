package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joaoo737/deliveryfront/internal/cart"
	"github.com/joaoo737/deliveryfront/pkg/db/models"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
	"github.com/joaoo737/deliveryfront/pkg/logger"
	"github.com/joaoo737/deliveryfront/pkg/metrics"
)

// cartAccess is the slice of the cart service checkout needs.
type cartAccess interface {
	Get(ctx context.Context, customerID uuid.UUID) (cart.State, error)
	Clear(ctx context.Context, customerID uuid.UUID) (cart.State, error)
}

// orderCreator persists an assembled payload as an order.
type orderCreator interface {
	CreateFromCheckout(ctx context.Context, payload OrderPayload) (*models.Order, error)
}

// productChecker re-verifies catalog availability at submit time.
type productChecker interface {
	Snapshot(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error)
}

// Service submits the customer's cart as an order.
type Service interface {
	Submit(ctx context.Context, customerID uuid.UUID) (*models.Order, error)
}

type service struct {
	carts    cartAccess
	orders   orderCreator
	products productChecker
	metrics  *metrics.CartMetrics
	log      *logger.Logger
}

// NewService builds the checkout service. Metrics and logger are
// optional.
func NewService(carts cartAccess, orders orderCreator, products productChecker, cartMetrics *metrics.CartMetrics, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service required")
	}
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order creator required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product checker required")
	}
	return &service{
		carts:    carts,
		orders:   orders,
		products: products,
		metrics:  cartMetrics,
		log:      logg,
	}, nil
}

// Submit assembles the cart into an order, persists it and clears the
// cart. The cart is left untouched on any failure so the customer can
// fix it and retry.
func (s *service) Submit(ctx context.Context, customerID uuid.UUID) (*models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	started := time.Now()

	state, err := s.carts.Get(ctx, customerID)
	if err != nil {
		s.metrics.IncCheckoutFailure("cart_load")
		return nil, err
	}

	payload, err := BuildOrderPayload(customerID, state)
	if err != nil {
		s.metrics.IncCheckoutFailure("validation")
		return nil, err
	}

	if err := s.verifyAvailability(ctx, payload); err != nil {
		s.metrics.IncCheckoutFailure("availability")
		return nil, err
	}

	order, err := s.orders.CreateFromCheckout(ctx, payload)
	if err != nil {
		s.metrics.IncCheckoutFailure("persist")
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, customerID); err != nil {
		// The order exists; a stale cart is recoverable, a rolled-back
		// order is not.
		s.metrics.IncCheckoutFailure("cart_clear")
		if s.log != nil {
			logCtx := s.log.WithFields(ctx, map[string]any{
				"customer_id": customerID.String(),
				"order_id":    order.ID.String(),
			})
			s.log.Error(logCtx, "cart clear after checkout failed", err)
		}
	}

	s.metrics.ObserveCheckout(time.Since(started))
	return order, nil
}

// verifyAvailability confirms every cart line still maps to an active
// product of the cart's vendor.
func (s *service) verifyAvailability(ctx context.Context, payload OrderPayload) error {
	for _, item := range payload.Items {
		snapshot, err := s.products.Snapshot(ctx, item.ProductID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return pkgerrors.New(pkgerrors.CodeConflict, "product is no longer available").
					WithDetails(map[string]any{
						"product_id":   item.ProductID,
						"product_name": item.ProductName,
					})
			}
			return err
		}
		if snapshot.VendorID != payload.VendorID {
			return pkgerrors.New(pkgerrors.CodeConflict, "product moved to another vendor").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
	}
	return nil
}
