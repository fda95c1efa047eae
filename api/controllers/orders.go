package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/advanced-shipping/api/responses"
	"github.com/angelmondragon/advanced-shipping/api/validators"
	"github.com/angelmondragon/advanced-shipping/internal/orders"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
)

const maxOrderIDLength = 64

type orderShippingResponse struct {
	Dates  orders.ShippingDates `json:"dates"`
	Notice orders.Notice        `json:"notice"`
}

func orderIDParam(r *http.Request) (string, error) {
	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if orderID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if len(orderID) > maxOrderIDLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	return orderID, nil
}

// OrderStampShippingDates validates the selection and stores the promised
// dates against the order.
func OrderStampShippingDates(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dates, err := svc.StampOrder(r.Context(), orderID, payload.toSelection())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dates)
	}
}

// OrderShippingDates returns the stored dates and the customer notice.
func OrderShippingDates(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dates, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notice, err := svc.Notice(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderShippingResponse{Dates: dates, Notice: notice})
	}
}

type adminUpdateDatesRequest struct {
	ShipBy    *string `json:"ship_by_date" validate:"omitempty,max=32"`
	DeliverBy *string `json:"deliver_by_date" validate:"omitempty,max=32"`
}

// AdminUpdateOrderShippingDates lets staff correct the stored dates. Omitted
// fields are kept and empty strings clear the date.
func AdminUpdateOrderShippingDates(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminUpdateDatesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dates, err := svc.AdminUpdateDates(r.Context(), orderID, orders.UpdateDatesInput{
			ShipBy:    payload.ShipBy,
			DeliverBy: payload.DeliverBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dates)
	}
}
