package products

import (
	"context"
	"sort"

	"github.com/angelmondragon/advanced-shipping/internal/settings"
	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
)

// SettingsSource provides the current shipping configuration.
type SettingsSource interface {
	Snapshot(ctx context.Context) (settings.Snapshot, error)
}

// MethodInfo describes one method a product can ship with.
type MethodInfo struct {
	MethodID  string   `json:"method_id"`
	Name      string   `json:"name"`
	RuleType  string   `json:"rule_type"`
	ShipBy    string   `json:"ship_by_date,omitempty"`
	DeliverBy string   `json:"deliver_by_date,omitempty"`
	Line      string   `json:"line,omitempty"`
	DateLabel string   `json:"date_label,omitempty"`
	Dates     []string `json:"dates,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
}

// ShippingInfo is the product page shipping block.
type ShippingInfo struct {
	Methods    []MethodInfo `json:"methods"`
	Disclaimer string       `json:"disclaimer,omitempty"`
	URL        string       `json:"disclaimer_url,omitempty"`
}

// Service answers shipping questions for a single product.
type Service interface {
	ShippingInfo(ctx context.Context, categories []int64) (ShippingInfo, error)
}

type service struct {
	settings   SettingsSource
	calculator *shipping.Calculator
}

// NewService builds the product shipping info service.
func NewService(src SettingsSource, calc *shipping.Calculator) (Service, error) {
	if src == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings source is required")
	}
	if calc == nil {
		calc = shipping.NewCalculator(nil, nil)
	}
	return &service{settings: src, calculator: calc}, nil
}

// ShippingInfo lists every configured method the product matches on its own.
// A product without categories matches nothing.
func (s *service) ShippingInfo(ctx context.Context, categories []int64) (ShippingInfo, error) {
	out := ShippingInfo{Methods: []MethodInfo{}}
	product := make(shipping.CategorySet, 0, len(categories))
	for _, id := range categories {
		product = append(product, shipping.CategoryID(id))
	}
	if len(product) == 0 {
		return out, nil
	}

	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return ShippingInfo{}, pkgerrors.Ensure(pkgerrors.CodeDependency, err, "load shipping settings")
	}

	ids := make([]shipping.MethodID, 0, len(snap.Rules))
	for id := range snap.Rules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	today := s.calculator.Today()
	tr := snap.Settings.Translations
	asCart := shipping.CartCategories{product}
	for _, id := range ids {
		rule := snap.Rules[id]
		if !shipping.ProductMatchesRule(rule, product, today) {
			continue
		}
		info := MethodInfo{
			MethodID: id.String(),
			Name:     snap.Settings.MethodName(id),
			RuleType: rule.Type().String(),
		}
		if url, ok := snap.Settings.MethodImages.Lookup(id); ok {
			info.ImageURL = url
		}
		switch r := rule.(type) {
		case shipping.ASAPRule:
			if est, ok := shipping.EstimateASAP(r, snap.Holidays, asCart, today); ok {
				info.ShipBy = est.ShipBy.String()
				info.DeliverBy = est.DeliverBy.String()
				info.Line = shipping.FormatASAPLine(est, tr)
			}
		case shipping.ByDateRule:
			info.DateLabel = tr.ProductInfoLabel
			for _, d := range r.Dates {
				if shipping.IsDateVisible(d, today) && product.Intersects(d.Categories) {
					info.Dates = append(info.Dates, d.DisplayLabel())
				}
			}
		}
		out.Methods = append(out.Methods, info)
	}

	if len(out.Methods) > 0 && snap.Settings.Disclaimer.Visible() {
		out.Disclaimer = snap.Settings.Disclaimer.Text
		out.URL = snap.Settings.Disclaimer.URL
	}
	return out, nil
}
