package cart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joaoo737/deliveryfront/pkg/enums"
)

// Apply-level sentinel errors. Callers translate these at the service
// boundary; the pure core stays free of transport concerns.
var (
	ErrVendorMismatch  = errors.New("product belongs to a different vendor")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("product snapshot is incomplete")
)

// Item is a product snapshot inside the cart. Name and price are captured
// at add time and never re-fetched.
type Item struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// ProductSnapshot carries the fields the cart needs from the catalog when
// an item is added. Validated once at the boundary.
type ProductSnapshot struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	VendorID    uuid.UUID
	VendorName  string
	ImageURL    *string
}

func (p ProductSnapshot) validate() error {
	if p.ProductID == uuid.Nil || p.VendorID == uuid.Nil {
		return ErrInvalidProduct
	}
	if p.ProductName == "" || p.VendorName == "" {
		return ErrInvalidProduct
	}
	if p.UnitPrice.IsNegative() {
		return ErrInvalidProduct
	}
	return nil
}

// State is the full cart: items from a single vendor plus delivery and
// payment metadata. Subtotal, Total and ItemCount are derived from Items
// and recomputed after every transition.
type State struct {
	Items           []Item              `json:"items"`
	VendorID        *uuid.UUID          `json:"vendor_id,omitempty"`
	VendorName      string              `json:"vendor_name,omitempty"`
	DeliveryAddress string              `json:"delivery_address"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method,omitempty"`
	Notes           string              `json:"notes"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Total           decimal.Decimal     `json:"total"`
	ItemCount       int                 `json:"item_count"`
}

// Empty returns the default cart shape.
func Empty() State {
	return State{
		Items:    []Item{},
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
	}
}

// Op is the closed set of cart transitions. Every mutation flows through
// Apply with exactly one of these.
type Op interface {
	Name() string
}

type AddItem struct {
	Product  ProductSnapshot
	Quantity int
}

type UpdateQuantity struct {
	ProductID uuid.UUID
	Quantity  int
}

type RemoveItem struct {
	ProductID uuid.UUID
}

// ReplaceWithItem clears the cart and seeds it with the given product.
// It is the explicit second step after an IsDifferentVendor check.
type ReplaceWithItem struct {
	Product  ProductSnapshot
	Quantity int
}

type Clear struct{}

type SetDeliveryAddress struct {
	Address string
}

type SetPaymentMethod struct {
	Method enums.PaymentMethod
}

type SetNotes struct {
	Text string
}

func (AddItem) Name() string            { return "add_item" }
func (UpdateQuantity) Name() string     { return "update_quantity" }
func (RemoveItem) Name() string         { return "remove_item" }
func (ReplaceWithItem) Name() string    { return "replace_with_item" }
func (Clear) Name() string              { return "clear" }
func (SetDeliveryAddress) Name() string { return "set_delivery_address" }
func (SetPaymentMethod) Name() string   { return "set_payment_method" }
func (SetNotes) Name() string           { return "set_notes" }

// Apply is the single pure transition function. It never mutates the
// input state; persistence happens outside.
func Apply(state State, op Op) (State, error) {
	next := clone(state)

	switch o := op.(type) {
	case AddItem:
		if err := o.Product.validate(); err != nil {
			return state, err
		}
		if o.Quantity < 1 {
			return state, ErrInvalidQuantity
		}
		if next.IsDifferentVendor(o.Product.VendorID) {
			return state, ErrVendorMismatch
		}
		addOrAccumulate(&next, o.Product, o.Quantity)

	case ReplaceWithItem:
		if err := o.Product.validate(); err != nil {
			return state, err
		}
		if o.Quantity < 1 {
			return state, ErrInvalidQuantity
		}
		next = Empty()
		next.DeliveryAddress = state.DeliveryAddress
		next.PaymentMethod = state.PaymentMethod
		next.Notes = state.Notes
		addOrAccumulate(&next, o.Product, o.Quantity)

	case UpdateQuantity:
		if o.Quantity <= 0 {
			removeByID(&next, o.ProductID)
			break
		}
		for i := range next.Items {
			if next.Items[i].ProductID == o.ProductID {
				next.Items[i].Quantity = o.Quantity
				break
			}
		}

	case RemoveItem:
		removeByID(&next, o.ProductID)

	case Clear:
		next = Empty()

	case SetDeliveryAddress:
		next.DeliveryAddress = o.Address

	case SetPaymentMethod:
		if o.Method != "" && !o.Method.IsValid() {
			return state, fmt.Errorf("invalid payment method %q", o.Method)
		}
		next.PaymentMethod = o.Method

	case SetNotes:
		next.Notes = o.Text

	default:
		return state, fmt.Errorf("unknown cart operation %T", op)
	}

	recompute(&next)
	return next, nil
}

func addOrAccumulate(state *State, product ProductSnapshot, quantity int) {
	for i := range state.Items {
		if state.Items[i].ProductID == product.ProductID {
			state.Items[i].Quantity += quantity
			return
		}
	}
	state.Items = append(state.Items, Item{
		ProductID:   product.ProductID,
		ProductName: product.ProductName,
		UnitPrice:   product.UnitPrice,
		Quantity:    quantity,
		ImageURL:    product.ImageURL,
	})
	if state.VendorID == nil {
		id := product.VendorID
		state.VendorID = &id
		state.VendorName = product.VendorName
	}
}

func removeByID(state *State, productID uuid.UUID) {
	kept := state.Items[:0]
	for _, item := range state.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	state.Items = kept
}

// recompute rebuilds the derived fields and clears the vendor once the
// cart empties.
func recompute(state *State) {
	subtotal := decimal.Zero
	count := 0
	for _, item := range state.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	state.Subtotal = subtotal
	// Delivery fee is applied downstream at order creation, never here.
	state.Total = subtotal
	state.ItemCount = count

	if len(state.Items) == 0 {
		state.VendorID = nil
		state.VendorName = ""
	}
}

func clone(state State) State {
	next := state
	next.Items = make([]Item, len(state.Items))
	copy(next.Items, state.Items)
	if state.VendorID != nil {
		id := *state.VendorID
		next.VendorID = &id
	}
	return next
}

// Normalize repairs a state loaded from persistence: items without a
// positive quantity are dropped and every derived field is rebuilt.
func Normalize(state State) State {
	next := clone(state)
	kept := next.Items[:0]
	for _, item := range next.Items {
		if item.Quantity >= 1 && item.ProductID != uuid.Nil {
			kept = append(kept, item)
		}
	}
	next.Items = kept
	if next.PaymentMethod != "" && !next.PaymentMethod.IsValid() {
		next.PaymentMethod = ""
	}
	recompute(&next)
	return next
}

// IsEmpty reports whether the cart has no items.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// IsInCart reports whether the product is present.
func (s State) IsInCart(productID uuid.UUID) bool {
	return s.ItemQuantity(productID) > 0
}

// ItemQuantity returns the quantity for the product, or 0 when absent.
func (s State) ItemQuantity(productID uuid.UUID) int {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// IsDifferentVendor reports whether adding a product from the candidate
// vendor would violate the single-vendor constraint. Always false for an
// empty cart.
func (s State) IsDifferentVendor(candidateVendorID uuid.UUID) bool {
	if s.IsEmpty() || s.VendorID == nil {
		return false
	}
	return *s.VendorID != candidateVendorID
}

// CanCheckout reports whether the cart is ready to be submitted.
func (s State) CanCheckout() bool {
	return len(s.MissingCheckoutFields()) == 0
}

// Checkout precondition field names, as surfaced in validation details.
const (
	FieldItems           = "items"
	FieldVendorID        = "vendor_id"
	FieldDeliveryAddress = "delivery_address"
	FieldPaymentMethod   = "payment_method"
)

// MissingCheckoutFields lists every unmet checkout precondition.
func (s State) MissingCheckoutFields() []string {
	var missing []string
	if s.IsEmpty() {
		missing = append(missing, FieldItems)
	}
	if s.VendorID == nil {
		missing = append(missing, FieldVendorID)
	}
	if isBlank(s.DeliveryAddress) {
		missing = append(missing, FieldDeliveryAddress)
	}
	if s.PaymentMethod == "" {
		missing = append(missing, FieldPaymentMethod)
	}
	return missing
}

func isBlank(value string) bool {
	for _, r := range value {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
