package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/advanced-shipping/internal/checkout"
	"github.com/angelmondragon/advanced-shipping/internal/settings"
	"github.com/angelmondragon/advanced-shipping/pkg/db/models"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// ShippingDates is the stored promise for an order.
type ShippingDates struct {
	OrderID   string `json:"order_id"`
	MethodID  string `json:"method_id"`
	RuleType  string `json:"rule_type"`
	ShipBy    string `json:"ship_by_date,omitempty"`
	DeliverBy string `json:"deliver_by_date,omitempty"`
	Stamped   bool   `json:"stamped"`
}

// Notice is the delivery line shown on order pages and emails.
type Notice struct {
	Text       string `json:"text,omitempty"`
	Disclaimer string `json:"disclaimer,omitempty"`
	LinkText   string `json:"disclaimer_link_text,omitempty"`
	URL        string `json:"disclaimer_url,omitempty"`
	// Email is the plain-text rendering used in order emails.
	Email string `json:"email_text,omitempty"`
}

// UpdateDatesInput carries admin edits. A nil field is left untouched and an
// empty string clears the stored date.
type UpdateDatesInput struct {
	ShipBy    *string
	DeliverBy *string
}

// SettingsSource provides the current store settings.
type SettingsSource interface {
	Snapshot(ctx context.Context) (settings.Snapshot, error)
}

type ServiceParams struct {
	Repo     *Repository
	Checkout checkout.Service
	Settings SettingsSource
	Logger   *logger.Logger
}

// Service stamps and edits the shipping dates of placed orders.
type Service interface {
	StampOrder(ctx context.Context, orderID string, sel checkout.Selection) (ShippingDates, error)
	Get(ctx context.Context, orderID string) (ShippingDates, error)
	Notice(ctx context.Context, orderID string) (Notice, error)
	AdminUpdateDates(ctx context.Context, orderID string, input UpdateDatesInput) (ShippingDates, error)
}

type service struct {
	repo     *Repository
	checkout checkout.Service
	settings SettingsSource
	logg     *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Checkout == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout service is required")
	}
	if params.Settings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings source is required")
	}
	return &service{
		repo:     params.Repo,
		checkout: params.Checkout,
		settings: params.Settings,
		logg:     params.Logger,
	}, nil
}

// StampOrder validates the selection and stores the resulting dates. Orders
// shipped with an unrestricted method, or whose rule yields no date, are not
// stamped.
func (s *service) StampOrder(ctx context.Context, orderID string, sel checkout.Selection) (ShippingDates, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ShippingDates{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, orderID)
	}

	res, err := s.checkout.ResolveShippingDates(ctx, sel)
	if err != nil {
		return ShippingDates{}, err
	}
	if !res.Restricted {
		return ShippingDates{OrderID: orderID, MethodID: res.MethodID.String()}, nil
	}
	if res.Estimate.ShipBy.IsZero() {
		if s.logg != nil {
			s.logg.Warn(ctx, "orders: no shipping date computed; order left unstamped")
		}
		return ShippingDates{OrderID: orderID, MethodID: res.MethodID.String(), RuleType: res.RuleType.String()}, nil
	}

	row := models.OrderShippingDates{
		OrderID:       orderID,
		MethodID:      res.MethodID.String(),
		RuleType:      res.RuleType,
		ShipByDate:    res.Estimate.ShipBy,
		DeliverByDate: res.Estimate.DeliverBy,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return ShippingDates{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store order shipping dates")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"ship_by":    row.ShipByDate.String(),
			"deliver_by": row.DeliverByDate.String(),
		}), "orders: shipping dates stamped")
	}
	return toShippingDates(row), nil
}

// Get returns the stamped dates for an order.
func (s *service) Get(ctx context.Context, orderID string) (ShippingDates, error) {
	row, err := s.load(ctx, orderID)
	if err != nil {
		return ShippingDates{}, err
	}
	return toShippingDates(row), nil
}

// Notice renders the customer-facing delivery text for an order.
func (s *service) Notice(ctx context.Context, orderID string) (Notice, error) {
	row, err := s.load(ctx, orderID)
	if err != nil {
		return Notice{}, err
	}
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return Notice{}, pkgerrors.Ensure(pkgerrors.CodeDependency, err, "load shipping settings")
	}

	var out Notice
	if row.DeliverByDate.IsZero() {
		return out, nil
	}
	out.Text = strings.TrimSpace(snap.Settings.Translations.DeliveryNoLaterThan + " " + row.DeliverByDate.String())
	if d := snap.Settings.Disclaimer; d.Visible() {
		out.Disclaimer = d.Text
		out.LinkText = d.LinkText
		out.URL = d.URL
	}
	out.Email = out.Text
	if plain := snap.Settings.Disclaimer.PlainText(); plain != "" {
		out.Email += "\n" + plain
	}
	return out, nil
}

// AdminUpdateDates applies an admin's manual correction.
func (s *service) AdminUpdateDates(ctx context.Context, orderID string, input UpdateDatesInput) (ShippingDates, error) {
	row, err := s.load(ctx, orderID)
	if err != nil {
		return ShippingDates{}, err
	}

	var problems []settings.FieldError
	apply := func(field string, value *string, dst *types.Date) {
		if value == nil {
			return
		}
		raw := strings.TrimSpace(*value)
		if raw == "" {
			*dst = types.Date{}
			return
		}
		d, err := types.ParseDate(raw)
		if err != nil {
			problems = append(problems, settings.FieldError{Field: field, Message: err.Error()})
			return
		}
		*dst = d
	}
	apply("ship_by_date", input.ShipBy, &row.ShipByDate)
	apply("deliver_by_date", input.DeliverBy, &row.DeliverByDate)
	if len(problems) > 0 {
		return ShippingDates{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping dates").WithDetails(problems)
	}

	if err := s.repo.UpdateDates(ctx, row); err != nil {
		return ShippingDates{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order shipping dates")
	}
	return toShippingDates(row), nil
}

func (s *service) load(ctx context.Context, orderID string) (models.OrderShippingDates, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return models.OrderShippingDates{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	row, err := s.repo.Get(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return models.OrderShippingDates{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order has no shipping dates")
	}
	if err != nil {
		return models.OrderShippingDates{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order shipping dates")
	}
	return row, nil
}

func toShippingDates(row models.OrderShippingDates) ShippingDates {
	return ShippingDates{
		OrderID:   row.OrderID,
		MethodID:  row.MethodID,
		RuleType:  row.RuleType.String(),
		ShipBy:    row.ShipByDate.String(),
		DeliverBy: row.DeliverByDate.String(),
		Stamped:   true,
	}
}
