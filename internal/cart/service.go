package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/joaoo737/deliveryfront/pkg/enums"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
	"github.com/joaoo737/deliveryfront/pkg/metrics"
)

// productLoader resolves catalog snapshots for items being added.
type productLoader interface {
	Snapshot(ctx context.Context, productID uuid.UUID) (ProductSnapshot, error)
}

// Service exposes every cart operation for a single customer.
type Service interface {
	Get(ctx context.Context, customerID uuid.UUID) (State, error)
	AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int, replace bool) (State, error)
	UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (State, error)
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (State, error)
	Clear(ctx context.Context, customerID uuid.UUID) (State, error)
	SetDeliveryDetails(ctx context.Context, customerID uuid.UUID, input DeliveryDetailsInput) (State, error)
}

// DeliveryDetailsInput updates the checkout metadata on the cart. Nil
// fields are left untouched.
type DeliveryDetailsInput struct {
	DeliveryAddress *string
	PaymentMethod   *enums.PaymentMethod
	Notes           *string
}

type service struct {
	store    Store
	products productLoader
	metrics  *metrics.CartMetrics
}

// NewService builds a cart service backed by the provided stack.
func NewService(store Store, products productLoader, cartMetrics *metrics.CartMetrics) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product loader required")
	}
	return &service{
		store:    store,
		products: products,
		metrics:  cartMetrics,
	}, nil
}

// Get loads the customer's cart; a missing cart is an empty cart.
func (s *service) Get(ctx context.Context, customerID uuid.UUID) (State, error) {
	if customerID == uuid.Nil {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	return s.store.Load(ctx, customerID)
}

// AddItem adds a product to the cart. When the product belongs to a
// different vendor than the current cart, the call is rejected with a
// conflict carrying both vendors, unless replace is set, in which case
// the cart is swapped to the new vendor with only this item.
func (s *service) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int, replace bool) (State, error) {
	if customerID == uuid.Nil {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if productID == uuid.Nil {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	snapshot, err := s.products.Snapshot(ctx, productID)
	if err != nil {
		return Empty(), err
	}

	state, err := s.store.Load(ctx, customerID)
	if err != nil {
		return Empty(), err
	}

	var op Op = AddItem{Product: snapshot, Quantity: quantity}
	if replace && state.IsDifferentVendor(snapshot.VendorID) {
		op = ReplaceWithItem{Product: snapshot, Quantity: quantity}
	}

	next, err := Apply(state, op)
	if err != nil {
		if errors.Is(err, ErrVendorMismatch) {
			return state, pkgerrors.New(pkgerrors.CodeConflict, "cart holds items from another vendor").
				WithDetails(map[string]any{
					"current_vendor_id":   state.VendorID,
					"current_vendor_name": state.VendorName,
					"new_vendor_id":       snapshot.VendorID,
					"new_vendor_name":     snapshot.VendorName,
				})
		}
		return state, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "add item")
	}

	return s.persist(ctx, customerID, next, op.Name())
}

// UpdateQuantity sets the quantity for a product already in the cart.
// Zero or negative removes the item.
func (s *service) UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (State, error) {
	if customerID == uuid.Nil {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	state, err := s.store.Load(ctx, customerID)
	if err != nil {
		return Empty(), err
	}

	// Updating a product that is not in the cart is a no-op, mirroring
	// the transition function.
	op := UpdateQuantity{ProductID: productID, Quantity: quantity}
	next, err := Apply(state, op)
	if err != nil {
		return state, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "update quantity")
	}
	return s.persist(ctx, customerID, next, op.Name())
}

// RemoveItem deletes the product from the cart. Removing an absent
// product is a no-op.
func (s *service) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (State, error) {
	if customerID == uuid.Nil {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	state, err := s.store.Load(ctx, customerID)
	if err != nil {
		return Empty(), err
	}

	op := RemoveItem{ProductID: productID}
	next, err := Apply(state, op)
	if err != nil {
		return state, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "remove item")
	}
	return s.persist(ctx, customerID, next, op.Name())
}

// Clear empties the cart entirely.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) (State, error) {
	if customerID == uuid.Nil {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if err := s.store.Delete(ctx, customerID); err != nil {
		return Empty(), err
	}
	s.metrics.IncOperation(Clear{}.Name())
	return Empty(), nil
}

// SetDeliveryDetails applies the provided checkout metadata fields.
func (s *service) SetDeliveryDetails(ctx context.Context, customerID uuid.UUID, input DeliveryDetailsInput) (State, error) {
	if customerID == uuid.Nil {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.PaymentMethod != nil && *input.PaymentMethod != "" && !input.PaymentMethod.IsValid() {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	state, err := s.store.Load(ctx, customerID)
	if err != nil {
		return Empty(), err
	}

	ops := make([]Op, 0, 3)
	if input.DeliveryAddress != nil {
		ops = append(ops, SetDeliveryAddress{Address: *input.DeliveryAddress})
	}
	if input.PaymentMethod != nil {
		ops = append(ops, SetPaymentMethod{Method: *input.PaymentMethod})
	}
	if input.Notes != nil {
		ops = append(ops, SetNotes{Text: *input.Notes})
	}
	if len(ops) == 0 {
		return state, nil
	}

	next := state
	for _, op := range ops {
		next, err = Apply(next, op)
		if err != nil {
			return state, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "set delivery details")
		}
	}
	return s.persist(ctx, customerID, next, "set_delivery_details")
}

func (s *service) persist(ctx context.Context, customerID uuid.UUID, state State, operation string) (State, error) {
	if err := s.store.Save(ctx, customerID, state); err != nil {
		return state, err
	}
	s.metrics.IncOperation(operation)
	return state, nil
}
