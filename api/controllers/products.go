package controllers

import (
	"net/http"

	"github.com/angelmondragon/advanced-shipping/api/responses"
	"github.com/angelmondragon/advanced-shipping/api/validators"
	"github.com/angelmondragon/advanced-shipping/internal/products"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
)

type productShippingRequest struct {
	Categories []int64 `json:"categories" validate:"max=200,dive,gt=0"`
}

// ProductShippingInfo lists the methods a single product can ship with.
func ProductShippingInfo(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		var payload productShippingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := svc.ShippingInfo(r.Context(), payload.Categories)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

// ProductShippingInfoQuery is the GET form of ProductShippingInfo for
// cacheable product pages, e.g. ?categories=12,40.
func ProductShippingInfoQuery(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		categories, err := validators.ParseQueryIDs(r, "categories", 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := svc.ShippingInfo(r.Context(), categories)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}
