package controllers

import (
	"net/http"

	"github.com/angelmondragon/advanced-shipping/api/responses"
	"github.com/angelmondragon/advanced-shipping/api/validators"
	"github.com/angelmondragon/advanced-shipping/internal/settings"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

type adminRulesPayload struct {
	Rules map[string]types.RuleDocument `json:"rules" validate:"max=500"`
}

// AdminRules returns the stored rule per method.
func AdminRules(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		docs, err := svc.RuleDocuments(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, adminRulesPayload{Rules: docs})
	}
}

// AdminSaveRules replaces every stored rule with the submitted set.
func AdminSaveRules(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload adminRulesPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.SaveRules(r.Context(), payload.Rules)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, adminRulesPayload{Rules: saved})
	}
}

// AdminSettings returns the store settings and holiday list.
func AdminSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		view, err := svc.SettingsView(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminSaveSettings stores the settings and holidays in one transaction.
func AdminSaveSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload settings.View
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.SaveSettings(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}
