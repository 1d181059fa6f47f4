package cart

import (
	"github.com/google/uuid"

	cartsvc "github.com/joaoo737/deliveryfront/internal/cart"
	"github.com/joaoo737/deliveryfront/pkg/enums"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
)

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	// Replace authorizes dropping the current vendor's items when the
	// product belongs to another vendor.
	Replace bool `json:"replace"`
}

type updateQuantityRequest struct {
	// Zero and negative quantities remove the item.
	Quantity int `json:"quantity"`
}

type deliveryDetailsRequest struct {
	DeliveryAddress *string `json:"delivery_address,omitempty" validate:"omitempty,max=500"`
	PaymentMethod   *string `json:"payment_method,omitempty" validate:"omitempty,oneof=cash credit_card debit_card pix"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (d deliveryDetailsRequest) toInput() (cartsvc.DeliveryDetailsInput, error) {
	input := cartsvc.DeliveryDetailsInput{
		DeliveryAddress: d.DeliveryAddress,
		Notes:           d.Notes,
	}
	if d.PaymentMethod != nil {
		method, err := enums.ParsePaymentMethod(*d.PaymentMethod)
		if err != nil {
			return cartsvc.DeliveryDetailsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = &method
	}
	return input, nil
}
