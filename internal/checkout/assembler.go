package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joaoo737/deliveryfront/internal/cart"
	"github.com/joaoo737/deliveryfront/pkg/enums"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
)

// OrderPayload is the validated order request assembled from a cart.
// Total equals the item subtotal; the delivery fee is added when the
// order record is created.
type OrderPayload struct {
	CustomerID      uuid.UUID
	VendorID        uuid.UUID
	Items           []OrderItemPayload
	DeliveryAddress string
	PaymentMethod   enums.PaymentMethod
	Notes           string
	Subtotal        decimal.Decimal
	Total           decimal.Decimal
}

// OrderItemPayload is one order line with its captured price.
type OrderItemPayload struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
}

// BuildOrderPayload assembles an order request from the cart. It is pure:
// every precondition failure is reported as a field-keyed validation
// error and nothing is persisted.
func BuildOrderPayload(customerID uuid.UUID, state cart.State) (OrderPayload, error) {
	fields := map[string]string{}

	if state.IsEmpty() {
		fields[cart.FieldItems] = "cart has no items"
	}
	if state.VendorID == nil {
		fields[cart.FieldVendorID] = "cart has no vendor"
	}
	if strings.TrimSpace(state.DeliveryAddress) == "" {
		fields[cart.FieldDeliveryAddress] = "delivery address is required"
	}
	if state.PaymentMethod == "" {
		fields[cart.FieldPaymentMethod] = "payment method is required"
	} else if !state.PaymentMethod.IsValid() {
		fields[cart.FieldPaymentMethod] = "payment method is not supported"
	}
	if len(fields) > 0 {
		return OrderPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is not ready for checkout").
			WithDetails(map[string]any{"fields": fields})
	}
	if customerID == uuid.Nil {
		return OrderPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	items := make([]OrderItemPayload, 0, len(state.Items))
	subtotal := decimal.Zero
	for _, item := range state.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, OrderItemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	return OrderPayload{
		CustomerID:      customerID,
		VendorID:        *state.VendorID,
		Items:           items,
		DeliveryAddress: strings.TrimSpace(state.DeliveryAddress),
		PaymentMethod:   state.PaymentMethod,
		Notes:           strings.TrimSpace(state.Notes),
		Subtotal:        subtotal,
		Total:           subtotal,
	}, nil
}
