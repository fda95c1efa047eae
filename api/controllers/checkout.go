package controllers

import (
	"net/http"

	"github.com/angelmondragon/advanced-shipping/api/responses"
	"github.com/angelmondragon/advanced-shipping/api/validators"
	"github.com/angelmondragon/advanced-shipping/internal/checkout"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
)

type checkoutValidateResponse struct {
	MethodID   string            `json:"method_id"`
	RuleType   string            `json:"rule_type,omitempty"`
	Restricted bool              `json:"restricted"`
	Estimate   *estimateResponse `json:"estimate,omitempty"`
}

// CheckoutValidate checks the customer's shipping choice before the order is
// placed and returns the dates it would be promised.
func CheckoutValidate(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload selectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.ResolveShippingDates(r.Context(), payload.toSelection())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := checkoutValidateResponse{
			MethodID:   string(res.MethodID),
			RuleType:   string(res.RuleType),
			Restricted: res.Restricted,
		}
		if res.Restricted && !res.Estimate.DeliverBy.IsZero() {
			resp.Estimate = newEstimateResponse(&res.Estimate)
		}
		responses.WriteSuccess(w, resp)
	}
}
