package konduto

import (
	"encoding/json"
	"errors"
)

// Status is the order status kept by Konduto.
type Status string

const (
	StatusPending       Status = "pending"
	StatusApproved      Status = "approved"
	StatusDeclined      Status = "declined"
	StatusFraud         Status = "fraud"
	StatusNotAuthorized Status = "not_authorized"
	StatusNotAnalyzed   Status = "not_analyzed"
	StatusCanceled      Status = "canceled"
)

// Recommendation is the action Konduto suggests after scoring an order.
type Recommendation string

const (
	RecommendationApprove Recommendation = "approve"
	RecommendationDecline Recommendation = "decline"
	RecommendationReview  Recommendation = "review"
	RecommendationNone    Recommendation = "none"
)

// Purchase is what the order buys: a ShoppingCart or a *Travel, never both.
// A nil Purchase means the order carries neither.
type Purchase interface {
	purchase()
}

// conflictingPurchase holds a decoded payload that carried both shopping_cart and
// travel. It cannot be built outside this package and never passes validation.
type conflictingPurchase struct {
	cart   ShoppingCart
	travel *Travel
}

func (conflictingPurchase) purchase() {}

// Geolocation is filled by Konduto from the buyer's IP.
type Geolocation struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Order is the root entity sent for analysis.
//
// An order is valid when ID is set, TotalAmount is set and non-negative, Customer
// is present and valid, and every optional entity attached to it is valid.
// Validation runs on every call to Validate, IsValid, ErrorMessage and ToJSON;
// nothing is cached.
type Order struct {
	ID          string
	TotalAmount *float64
	Customer    *Customer
	Purchase    Purchase

	Seller                *Seller
	BureauxQueries        []BureauQuery
	TriggeredRules        []TriggeredRule
	TriggeredDecisionList []TriggeredDecision

	Visitor           string
	ShippingAmount    *float64
	TaxAmount         *float64
	Currency          string
	Installments      int
	IP                string
	FirstMessage      DateTime
	MessagesExchanged int
	PurchasedAt       DateTime
	Analyze           *bool
	Payments          []Payment
	Billing           *Address
	Shipping          *Address

	// Filled by Konduto in analysis responses.
	Status         Status
	Recommendation Recommendation
	Score          *float64
	Geolocation    *Geolocation
}

// orderWire is the canonical wire layout of an Order. Its declaration order is the
// key order of the serialized JSON, the order in which rules are checked, and the
// basis of Equal.
type orderWire struct {
	ID                    string              `json:"id,omitempty" validate:"required,max=100"`
	TotalAmount           *float64            `json:"total_amount,omitempty" validate:"required,finite,gte=0"`
	Customer              *Customer           `json:"customer,omitempty" validate:"required"`
	ShoppingCart          ShoppingCart        `json:"shopping_cart,omitempty" validate:"omitempty,dive"`
	Travel                *Travel             `json:"travel,omitempty"`
	Seller                *Seller             `json:"seller,omitempty"`
	BureauxQueries        []BureauQuery       `json:"bureaux_queries,omitempty" validate:"omitempty,dive"`
	TriggeredRules        []TriggeredRule     `json:"triggered_rules,omitempty" validate:"omitempty,dive"`
	TriggeredDecisionList []TriggeredDecision `json:"triggered_decision_list,omitempty" validate:"omitempty,dive"`

	Visitor           string    `json:"visitor,omitempty" validate:"max=40"`
	ShippingAmount    *float64  `json:"shipping_amount,omitempty" validate:"omitempty,finite,gte=0"`
	TaxAmount         *float64  `json:"tax_amount,omitempty" validate:"omitempty,finite,gte=0"`
	Currency          string    `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	Installments      int       `json:"installments,omitempty" validate:"gte=0"`
	IP                string    `json:"ip,omitempty" validate:"omitempty,ip"`
	FirstMessage      DateTime  `json:"first_message,omitzero"`
	MessagesExchanged int       `json:"messages_exchanged,omitempty" validate:"gte=0"`
	PurchasedAt       DateTime  `json:"purchased_at,omitzero"`
	Analyze           *bool     `json:"analyze,omitempty"`
	Payments          []Payment `json:"payment,omitempty" validate:"omitempty,dive"`
	Billing           *Address  `json:"billing,omitempty"`
	Shipping          *Address  `json:"shipping,omitempty"`

	Status         Status         `json:"status,omitempty"`
	Recommendation Recommendation `json:"recommendation,omitempty"`
	Score          *float64       `json:"score,omitempty" validate:"omitempty,finite"`
	Geolocation    *Geolocation   `json:"geolocation,omitempty"`
}

func (o *Order) toWire() orderWire {
	w := orderWire{
		ID:                    o.ID,
		TotalAmount:           o.TotalAmount,
		Customer:              o.Customer,
		Seller:                o.Seller,
		BureauxQueries:        o.BureauxQueries,
		TriggeredRules:        o.TriggeredRules,
		TriggeredDecisionList: o.TriggeredDecisionList,
		Visitor:               o.Visitor,
		ShippingAmount:        o.ShippingAmount,
		TaxAmount:             o.TaxAmount,
		Currency:              o.Currency,
		Installments:          o.Installments,
		IP:                    o.IP,
		FirstMessage:          o.FirstMessage,
		MessagesExchanged:     o.MessagesExchanged,
		PurchasedAt:           o.PurchasedAt,
		Analyze:               o.Analyze,
		Payments:              o.Payments,
		Billing:               o.Billing,
		Shipping:              o.Shipping,
		Status:                o.Status,
		Recommendation:        o.Recommendation,
		Score:                 o.Score,
		Geolocation:           o.Geolocation,
	}
	w.ShoppingCart, w.Travel = o.ShoppingCart(), o.Travel()
	return w
}

func (o *Order) fromWire(w orderWire) {
	*o = Order{
		ID:                    w.ID,
		TotalAmount:           w.TotalAmount,
		Customer:              w.Customer,
		Seller:                w.Seller,
		BureauxQueries:        w.BureauxQueries,
		TriggeredRules:        w.TriggeredRules,
		TriggeredDecisionList: w.TriggeredDecisionList,
		Visitor:               w.Visitor,
		ShippingAmount:        w.ShippingAmount,
		TaxAmount:             w.TaxAmount,
		Currency:              w.Currency,
		Installments:          w.Installments,
		IP:                    w.IP,
		FirstMessage:          w.FirstMessage,
		MessagesExchanged:     w.MessagesExchanged,
		PurchasedAt:           w.PurchasedAt,
		Analyze:               w.Analyze,
		Payments:              w.Payments,
		Billing:               w.Billing,
		Shipping:              w.Shipping,
		Status:                w.Status,
		Recommendation:        w.Recommendation,
		Score:                 w.Score,
		Geolocation:           w.Geolocation,
	}
	switch {
	case w.ShoppingCart != nil && w.Travel != nil:
		o.Purchase = conflictingPurchase{cart: w.ShoppingCart, travel: w.Travel}
	case w.Travel != nil:
		o.Purchase = w.Travel
	case w.ShoppingCart != nil:
		o.Purchase = w.ShoppingCart
	}
}

// ShoppingCart returns the cart the order carries, or nil.
func (o *Order) ShoppingCart() ShoppingCart {
	switch p := o.Purchase.(type) {
	case ShoppingCart:
		return p
	case conflictingPurchase:
		return p.cart
	}
	return nil
}

// Travel returns the flight the order carries, or nil.
func (o *Order) Travel() *Travel {
	switch p := o.Purchase.(type) {
	case *Travel:
		return p
	case conflictingPurchase:
		return p.travel
	}
	return nil
}

// Validate reports the first rule the order breaks as an *InvalidEntityError.
func (o *Order) Validate() error {
	if o == nil {
		return &InvalidEntityError{Entity: "order", Message: "order is required"}
	}
	w := o.toWire()
	if err := check("order", &w); err != nil {
		return err
	}
	if _, ok := o.Purchase.(conflictingPurchase); ok {
		return &InvalidEntityError{
			Entity:  "order",
			Field:   "shopping_cart",
			Message: "shopping_cart and travel cannot be sent in the same order",
		}
	}
	return nil
}

func (o *Order) IsValid() bool {
	return o.Validate() == nil
}

// ErrorMessage describes the first validation failure, or returns "" for a valid order.
func (o *Order) ErrorMessage() string {
	err := o.Validate()
	if err == nil {
		return ""
	}
	var invalid *InvalidEntityError
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	return err.Error()
}

// ToJSON validates the order and returns its canonical JSON.
func (o *Order) ToJSON() ([]byte, error) {
	return ToJSON(o)
}

// Equal reports whether both orders serialize to the same canonical JSON.
func (o *Order) Equal(other *Order) bool {
	return Equal(o, other)
}

// MarshalJSON encodes the order without validating it. Use ToJSON before sending
// an order to Konduto.
func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toWire())
}

// UnmarshalJSON decodes without validating. A payload carrying both shopping_cart
// and travel decodes successfully and then fails Validate.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w orderWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	o.fromWire(w)
	return nil
}
