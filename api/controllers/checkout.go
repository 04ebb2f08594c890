package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souqhub/storefront/api/middleware"
	"github.com/souqhub/storefront/api/responses"
	"github.com/souqhub/storefront/api/validators"
	cartsvc "github.com/souqhub/storefront/internal/cart"
	checkoutsvc "github.com/souqhub/storefront/internal/checkout"
	pkgerrors "github.com/souqhub/storefront/pkg/errors"
	"github.com/souqhub/storefront/pkg/logger"
	"github.com/souqhub/storefront/pkg/money"
)

type checkoutRequest struct {
	FullName      string `json:"full_name" validate:"required,min=2,max=120"`
	Phone         string `json:"phone" validate:"required,min=7,max=20"`
	Email         string `json:"email" validate:"omitempty,email"`
	City          string `json:"city" validate:"required,min=2,max=80"`
	Street        string `json:"street" validate:"required,min=3,max=200"`
	Notes         string `json:"notes" validate:"omitempty,max=500"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=card cod"`
}

// receiptView decorates the stored receipt with display-ready totals.
type receiptView struct {
	*checkoutsvc.Receipt
	SubtotalFormatted string `json:"subtotal"`
	ShippingFormatted string `json:"shipping_fee"`
	TotalFormatted    string `json:"total"`
}

func newReceiptView(receipt *checkoutsvc.Receipt) receiptView {
	return receiptView{
		Receipt:           receipt,
		SubtotalFormatted: money.FormatPrice(receipt.SubtotalCents, receipt.Currency),
		ShippingFormatted: money.FormatPrice(receipt.ShippingCents, receipt.Currency),
		TotalFormatted:    money.FormatPrice(receipt.TotalCents, receipt.Currency),
	}
}

// Checkout places an order for the session's cart.
func Checkout(svc checkoutsvc.Service, manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionID(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := manager.ForSession(r.Context(), sessionID)
		receipt, err := svc.PlaceOrder(r.Context(), store, checkoutsvc.PlaceOrderInput{
			Shipping: checkoutsvc.ShippingAddress{
				FullName: payload.FullName,
				Phone:    payload.Phone,
				Email:    payload.Email,
				City:     payload.City,
				Street:   payload.Street,
				Notes:    payload.Notes,
			},
			PaymentMethod: payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReceiptView(receipt))
	}
}

// OrderDetail returns a receipt placed by this session.
func OrderDetail(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionID(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		receipt, err := svc.GetOrder(r.Context(), sessionID, chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newReceiptView(receipt))
	}
}
