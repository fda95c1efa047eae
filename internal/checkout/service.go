package checkout

import (
	"context"
	"strings"

	"github.com/angelmondragon/advanced-shipping/internal/settings"
	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
	"github.com/angelmondragon/advanced-shipping/pkg/metrics"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

const (
	outcomeProduced = "produced"
	outcomeAbsent   = "absent"
	outcomeValid    = "valid"
	outcomeInvalid  = "invalid"
)

// SnapshotSource provides the current shipping configuration.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (settings.Snapshot, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Settings   SnapshotSource
	Calculator *shipping.Calculator
	Metrics    *metrics.ShippingMetrics
	Logger     *logger.Logger
}

// Service evaluates shipping for a cart during cart and checkout.
type Service interface {
	FilterRates(ctx context.Context, input FilterInput) (FilterOutput, error)
	DeliveryOptions(ctx context.Context, methodKey string, cart Cart) (DeliveryOptions, error)
	FreeShipping(ctx context.Context, methodKey string, cart Cart) (FreeShippingStatus, error)
	ValidateSelection(ctx context.Context, sel Selection) error
	ResolveShippingDates(ctx context.Context, sel Selection) (Resolution, error)
}

type service struct {
	settings   SnapshotSource
	calculator *shipping.Calculator
	metrics    *metrics.ShippingMetrics
	logg       *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Settings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings source is required")
	}
	calc := params.Calculator
	if calc == nil {
		calc = shipping.NewCalculator(nil, nil)
	}
	return &service{
		settings:   params.Settings,
		calculator: calc,
		metrics:    params.Metrics,
		logg:       params.Logger,
	}, nil
}

func (s *service) snapshot(ctx context.Context) (settings.Snapshot, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return settings.Snapshot{}, pkgerrors.Ensure(pkgerrors.CodeDependency, err, "load shipping settings")
	}
	return snap, nil
}

// FilterRates adds pickup location rates, applies free shipping and removes
// rates the cart cannot use.
func (s *service) FilterRates(ctx context.Context, input FilterInput) (FilterOutput, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return FilterOutput{}, err
	}

	rates := append(append([]shipping.Rate{}, input.Rates...), shipping.PickupRates(snap.Settings.PickupLocations, input.Rates)...)
	if snap.Settings.FreeShipping.Enabled {
		total := input.Cart.TotalFor(snap.Settings.FreeShipping.UsePreDiscountTotal)
		rates = shipping.ApplyFreeShipping(rates, snap.Settings.FreeShipping.Thresholds, total)
	}

	result := shipping.FilterRates(snap.Rules, rates, input.Cart.Categories(), s.calculator.Today())
	for _, rate := range rates {
		s.metrics.ObserveRate(shipping.MethodIDFromRateKey(rate.Key).String())
	}
	for _, hidden := range result.Hidden {
		s.metrics.IncHidden(shipping.MethodIDFromRateKey(hidden.Rate.Key).String(), hidden.Reason.String())
	}

	out := FilterOutput{Rates: result.Rates, Hidden: result.Hidden, Images: map[string]string{}}
	for _, rate := range result.Rates {
		if url, ok := snap.Settings.MethodImages.Lookup(rate.MethodID()); ok {
			out.Images[rate.Key] = url
		}
	}
	if result.RemovedAll {
		out.Message = snap.Settings.Translations.CartNoShipping
		if s.logg != nil {
			s.logg.Info(s.logg.WithField(ctx, "hidden", len(result.Hidden)), "checkout: every shipping rate withheld for cart")
		}
	}
	return out, nil
}

// DeliveryOptions describes the date block for the chosen method.
func (s *service) DeliveryOptions(ctx context.Context, methodKey string, cart Cart) (DeliveryOptions, error) {
	id := shipping.MethodID(strings.TrimSpace(methodKey))
	if id == "" {
		return DeliveryOptions{}, pkgerrors.New(pkgerrors.CodeValidation, "method key is required")
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return DeliveryOptions{}, err
	}

	tr := snap.Settings.Translations
	out := DeliveryOptions{MethodID: id, DisplayLocation: snap.Settings.DisplayLocation}
	rule, ok := snap.Rules.Lookup(id)
	if !ok {
		return out, nil
	}
	out.Restricted = true
	out.RuleType = rule.Type()
	categories := cart.Categories()

	switch r := rule.(type) {
	case shipping.ASAPRule:
		est, ok := s.calculator.ShipAndDeliverDates(r, snap.Holidays, categories)
		if !ok {
			s.metrics.IncEstimate(r.Type().String(), outcomeAbsent)
			s.warnNoEstimate(ctx, id)
			return out, nil
		}
		s.metrics.IncEstimate(r.Type().String(), outcomeProduced)
		out.Estimate = &est
		out.Line = shipping.FormatASAPLine(est, tr)
	case shipping.ByDateRule:
		dates := s.calculator.ReservationOptions(r, categories)
		if len(dates) == 0 {
			out.Message = tr.NoDatesAvailable
			return out, nil
		}
		out.Prompt = tr.ReservationPrompt
		for _, d := range dates {
			out.Dates = append(out.Dates, DateOption{Date: d.Date.String(), Label: d.DisplayLabel()})
		}
	}
	return out, nil
}

// FreeShipping reports the cart's progress toward the method's threshold.
func (s *service) FreeShipping(ctx context.Context, methodKey string, cart Cart) (FreeShippingStatus, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return FreeShippingStatus{}, err
	}
	id := shipping.MethodID(strings.TrimSpace(methodKey))
	out := FreeShippingStatus{MethodID: id}
	if !snap.Settings.FreeShipping.Enabled {
		return out, nil
	}
	threshold, ok := snap.Settings.FreeShipping.Thresholds.Lookup(id)
	if !ok {
		return out, nil
	}
	progress, ok := shipping.ProgressTowardFreeShipping(threshold, cart.TotalFor(snap.Settings.FreeShipping.UsePreDiscountTotal))
	if !ok {
		return out, nil
	}
	out.Enabled = true
	out.Threshold = progress.Threshold
	out.Remaining = progress.Remaining
	out.Reached = progress.Reached
	out.Percent = progress.Percent
	return out, nil
}

// ValidateSelection checks that the chosen method still fits the cart and,
// for reservation methods, that an offered date was picked.
func (s *service) ValidateSelection(ctx context.Context, sel Selection) error {
	_, err := s.ResolveShippingDates(ctx, sel)
	return err
}

// ResolveShippingDates validates the selection and returns the promised dates.
func (s *service) ResolveShippingDates(ctx context.Context, sel Selection) (Resolution, error) {
	id := shipping.MethodID(strings.TrimSpace(sel.MethodKey))
	if id == "" {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping method is required")
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Resolution{}, err
	}
	tr := snap.Settings.Translations
	categories := sel.Cart.Categories()
	today := s.calculator.Today()
	if s.logg != nil {
		ctx = s.logg.WithMethodID(ctx, id.String())
	}

	validation := shipping.ValidateRate(snap.Rules, shipping.Rate{Key: id.String(), Label: sel.MethodLabel}, categories, today)
	if !validation.Eligible {
		s.metrics.IncSelection(outcomeInvalid)
		label := strings.TrimSpace(sel.MethodLabel)
		if label == "" {
			label = snap.Settings.MethodName(id)
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "checkout: selected method no longer eligible")
		}
		return Resolution{}, pkgerrors.New(pkgerrors.CodeStateConflict, shipping.FormatMethodUnavailable(label, tr)).
			WithDetails(map[string]string{"method_id": id.String(), "reason": validation.Reason.String()})
	}

	out := Resolution{MethodID: id}
	rule, ok := snap.Rules.Lookup(id)
	if !ok {
		s.metrics.IncSelection(outcomeValid)
		return out, nil
	}
	out.Restricted = true
	out.RuleType = rule.Type()

	switch r := rule.(type) {
	case shipping.ASAPRule:
		est, ok := s.calculator.ShipAndDeliverDates(r, snap.Holidays, categories)
		if ok {
			out.Estimate = est
			s.metrics.IncEstimate(r.Type().String(), outcomeProduced)
		} else {
			s.metrics.IncEstimate(r.Type().String(), outcomeAbsent)
			s.warnNoEstimate(ctx, id)
		}
	case shipping.ByDateRule:
		raw := strings.TrimSpace(sel.ReservationDate)
		if raw == "" {
			s.metrics.IncSelection(outcomeInvalid)
			return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, tr.DateRequiredError).
				WithDetails(map[string]string{"field": "reservation_date"})
		}
		selected, err := types.ParseDate(raw)
		if err != nil {
			s.metrics.IncSelection(outcomeInvalid)
			return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, tr.DateInvalidError).
				WithDetails(map[string]string{"field": "reservation_date"})
		}
		est, ok := s.calculator.ForReservation(r, categories, selected)
		if !ok {
			s.metrics.IncSelection(outcomeInvalid)
			return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, tr.DateInvalidError).
				WithDetails(map[string]string{"field": "reservation_date"})
		}
		out.Estimate = est
		s.metrics.IncEstimate(enums.RuleTypeByDate.String(), outcomeProduced)
	}

	s.metrics.IncSelection(outcomeValid)
	return out, nil
}

// warnNoEstimate flags an ASAP rule whose sending days and priority days
// produce no ship date.
func (s *service) warnNoEstimate(ctx context.Context, id shipping.MethodID) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithMethodID(ctx, id.String()), "checkout: asap rule yields no ship date; check sending days and holidays")
}
