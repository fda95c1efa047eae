package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/advanced-shipping/api/responses"
	"github.com/angelmondragon/advanced-shipping/api/validators"
	"github.com/angelmondragon/advanced-shipping/internal/checkout"
	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
)

type filterRatesRequest struct {
	Cart  cartRequest   `json:"cart"`
	Rates []rateRequest `json:"rates" validate:"max=100,dive"`
}

type hiddenRateResponse struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

type filterRatesResponse struct {
	Rates   []rateResponse       `json:"rates"`
	Hidden  []hiddenRateResponse `json:"hidden,omitempty"`
	Message string               `json:"message,omitempty"`
}

// ShippingRates drops the quoted rates the cart is not allowed to use.
func ShippingRates(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload filterRatesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkout.FilterInput{
			Cart:  payload.Cart.toCart(),
			Rates: make([]shipping.Rate, 0, len(payload.Rates)),
		}
		for _, rate := range payload.Rates {
			input.Rates = append(input.Rates, shipping.Rate{
				Key:   strings.TrimSpace(rate.Key),
				Label: validators.SanitizeString(rate.Label, maxLabelLength),
				Cost:  rate.Cost,
			})
		}

		out, err := svc.FilterRates(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := filterRatesResponse{
			Rates:   make([]rateResponse, 0, len(out.Rates)),
			Message: out.Message,
		}
		for _, rate := range out.Rates {
			resp.Rates = append(resp.Rates, newRateResponse(rate, out.Images[rate.Key]))
		}
		for _, hidden := range out.Hidden {
			resp.Hidden = append(resp.Hidden, hiddenRateResponse{Key: hidden.Rate.Key, Reason: string(hidden.Reason)})
		}
		responses.WriteSuccess(w, resp)
	}
}

type methodCartRequest struct {
	MethodKey string      `json:"method_key" validate:"required,max=128"`
	Cart      cartRequest `json:"cart"`
}

type dateOptionResponse struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

type deliveryOptionsResponse struct {
	MethodID        string               `json:"method_id"`
	RuleType        string               `json:"rule_type,omitempty"`
	Restricted      bool                 `json:"restricted"`
	DisplayLocation string               `json:"display_location"`
	Estimate        *estimateResponse    `json:"estimate,omitempty"`
	Line            string               `json:"line,omitempty"`
	Prompt          string               `json:"prompt,omitempty"`
	Dates           []dateOptionResponse `json:"dates,omitempty"`
	Message         string               `json:"message,omitempty"`
}

// ShippingOptions renders the date block for the selected method.
func ShippingOptions(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload methodCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		opts, err := svc.DeliveryOptions(r.Context(), strings.TrimSpace(payload.MethodKey), payload.Cart.toCart())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := deliveryOptionsResponse{
			MethodID:        string(opts.MethodID),
			RuleType:        string(opts.RuleType),
			Restricted:      opts.Restricted,
			DisplayLocation: string(opts.DisplayLocation),
			Estimate:        newEstimateResponse(opts.Estimate),
			Line:            opts.Line,
			Prompt:          opts.Prompt,
			Message:         opts.Message,
		}
		for _, d := range opts.Dates {
			resp.Dates = append(resp.Dates, dateOptionResponse{Date: d.Date, Label: d.Label})
		}
		responses.WriteSuccess(w, resp)
	}
}

type freeShippingResponse struct {
	Enabled   bool            `json:"enabled"`
	MethodID  string          `json:"method_id,omitempty"`
	Threshold decimal.Decimal `json:"threshold"`
	Remaining decimal.Decimal `json:"remaining"`
	Reached   bool            `json:"reached"`
	Percent   int             `json:"percent"`
}

// ShippingFreeShipping reports progress toward the free-shipping threshold.
func ShippingFreeShipping(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload methodCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.FreeShipping(r.Context(), strings.TrimSpace(payload.MethodKey), payload.Cart.toCart())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, freeShippingResponse{
			Enabled:   status.Enabled,
			MethodID:  string(status.MethodID),
			Threshold: status.Threshold,
			Remaining: status.Remaining,
			Reached:   status.Reached,
			Percent:   status.Percent,
		})
	}
}
