package controllers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/advanced-shipping/api/validators"
	"github.com/angelmondragon/advanced-shipping/internal/checkout"
	"github.com/angelmondragon/advanced-shipping/internal/shipping"
)

const maxLabelLength = 200

type cartItemRequest struct {
	ProductID  string  `json:"product_id" validate:"required,max=64"`
	Quantity   int     `json:"quantity" validate:"gte=0"`
	Categories []int64 `json:"categories" validate:"max=200,dive,gt=0"`
}

type cartRequest struct {
	Items            []cartItemRequest `json:"items" validate:"max=500,dive"`
	Total            decimal.Decimal   `json:"total"`
	PreDiscountTotal decimal.Decimal   `json:"pre_discount_total"`
}

func (c cartRequest) toCart() checkout.Cart {
	cart := checkout.Cart{
		Items:            make([]checkout.Item, 0, len(c.Items)),
		Total:            c.Total,
		PreDiscountTotal: c.PreDiscountTotal,
	}
	for _, item := range c.Items {
		cart.Items = append(cart.Items, checkout.Item{
			ProductID:  strings.TrimSpace(item.ProductID),
			Quantity:   item.Quantity,
			Categories: item.Categories,
		})
	}
	return cart
}

type rateRequest struct {
	Key   string          `json:"key" validate:"required,max=128"`
	Label string          `json:"label" validate:"max=200"`
	Cost  decimal.Decimal `json:"cost"`
}

type rateResponse struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Cost     decimal.Decimal `json:"cost"`
	ImageURL string          `json:"image_url,omitempty"`
}

func newRateResponse(rate shipping.Rate, imageURL string) rateResponse {
	return rateResponse{Key: rate.Key, Label: rate.Label, Cost: rate.Cost, ImageURL: imageURL}
}

type selectionRequest struct {
	MethodKey       string      `json:"method_key" validate:"required,max=128"`
	MethodLabel     string      `json:"method_label" validate:"max=200"`
	ReservationDate string      `json:"reservation_date" validate:"max=32"`
	Cart            cartRequest `json:"cart"`
}

func (s selectionRequest) toSelection() checkout.Selection {
	return checkout.Selection{
		MethodKey:       strings.TrimSpace(s.MethodKey),
		MethodLabel:     validators.SanitizeString(s.MethodLabel, maxLabelLength),
		ReservationDate: strings.TrimSpace(s.ReservationDate),
		Cart:            s.Cart.toCart(),
	}
}

type estimateResponse struct {
	ShipBy    string `json:"ship_by_date"`
	DeliverBy string `json:"deliver_by_date"`
	Priority  bool   `json:"priority"`
}

func newEstimateResponse(est *shipping.Estimate) *estimateResponse {
	if est == nil {
		return nil
	}
	return &estimateResponse{
		ShipBy:    est.ShipBy.String(),
		DeliverBy: est.DeliverBy.String(),
		Priority:  est.Priority,
	}
}
