package model

import (
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of a fuel order.
type OrderStatus int

const (
	OrderDraft OrderStatus = iota
	OrderPending
	OrderConfirmed
	OrderDispatched
	OrderDelivered
	OrderDeliveredShort
	OrderDeliveredOver
	OrderCancelled
)

// String returns the wire representation of the status.
func (s OrderStatus) String() string {
	switch s {
	case OrderDraft:
		return "DRAFT"
	case OrderPending:
		return "PENDING"
	case OrderConfirmed:
		return "CONFIRMED"
	case OrderDispatched:
		return "DISPATCHED"
	case OrderDelivered:
		return "DELIVERED"
	case OrderDeliveredShort:
		return "DELIVERED_SHORT"
	case OrderDeliveredOver:
		return "DELIVERED_OVER"
	case OrderCancelled:
		return "CANCELLED"
	default:
		return "unknown"
	}
}

// MarshalText renders the status for JSON encoding.
func (s OrderStatus) MarshalText() ([]byte, error) {
	v := s.String()
	if v == "unknown" {
		return nil, fmt.Errorf("unknown order status %d", int(s))
	}
	return []byte(v), nil
}

// UnmarshalText parses the wire representation.
func (s *OrderStatus) UnmarshalText(b []byte) error {
	for st := OrderDraft; st <= OrderCancelled; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown order status %q", string(b))
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderDelivered, OrderDeliveredShort, OrderDeliveredOver, OrderCancelled:
		return true
	default:
		return false
	}
}

// OrderLine requests a quantity of one grade into one tank.
type OrderLine struct {
	TankID           string    `json:"tankId"`
	Grade            GradeCode `json:"gradeCode"`
	RequestedGallons float64   `json:"requestedGallons"`
	DeliveredGallons float64   `json:"deliveredGallons"`
}

// Order is the canonical record of a fuel order in the ledger.
type Order struct {
	ID             string      `json:"id"`
	OrderNumber    string      `json:"orderNumber"`
	SiteID         string      `json:"siteId"`
	JobberID       string      `json:"jobberId,omitempty"`
	Status         OrderStatus `json:"status"`
	Lines          []OrderLine `json:"lines"`
	JobberPONumber string      `json:"jobberPoNumber,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	UpdatedBy      string      `json:"updatedBy,omitempty"`
}

// RequestedTotal sums requested gallons over all lines.
func (o Order) RequestedTotal() float64 {
	var total float64
	for _, l := range o.Lines {
		total += l.RequestedGallons
	}
	return total
}

// DeliveredTotal sums delivered gallons over all lines.
func (o Order) DeliveredTotal() float64 {
	var total float64
	for _, l := range o.Lines {
		total += l.DeliveredGallons
	}
	return total
}
