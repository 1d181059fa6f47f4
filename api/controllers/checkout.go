package controllers

import (
	"net/http"

	ordercontrollers "github.com/joaoo737/deliveryfront/api/controllers/orders"
	"github.com/joaoo737/deliveryfront/api/middleware"
	"github.com/joaoo737/deliveryfront/api/responses"
	"github.com/joaoo737/deliveryfront/internal/checkout"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
	"github.com/joaoo737/deliveryfront/pkg/logger"
)

// Checkout submits the caller's cart as an order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		order, err := svc.Submit(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ordercontrollers.NewOrderResponse(*order))
	}
}
