package reconcile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fuelops/atgmon/core/faults"
	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
	"github.com/fuelops/atgmon/internal/eventbus"
)

// Order actions exposed by the API.
const (
	ActionConfirm  = "confirm"
	ActionDispatch = "dispatch"
	ActionDeliver  = "deliver"
	ActionCancel   = "cancel"
)

// OrderLineRequest is one requested line of a new order.
type OrderLineRequest struct {
	TankID           string  `json:"tankId"`
	RequestedGallons float64 `json:"requestedGallons"`
}

// CreateOrder opens a new PENDING order against known tanks at the site.
func (e *Engine) CreateOrder(siteID, jobberID string, lines []OrderLineRequest) (model.Order, error) {
	if siteID == "" {
		return model.Order{}, faults.Invalid("siteId is required")
	}
	if _, ok := e.Catalog.SiteByID(siteID); !ok {
		return model.Order{}, faults.NotFound("site %s not found", siteID)
	}
	if len(lines) == 0 {
		return model.Order{}, faults.Invalid("at least one order line is required")
	}

	now := e.Now()
	order := model.Order{
		ID:          uuid.NewString(),
		OrderNumber: e.Orders.NextOrderNumber(),
		SiteID:      siteID,
		JobberID:    jobberID,
		Status:      model.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, l := range lines {
		tank, ok := e.Catalog.TankByID(l.TankID)
		if !ok || tank.SiteID != siteID {
			return model.Order{}, faults.NotFound("tank %s not found at site %s", l.TankID, siteID)
		}
		if l.RequestedGallons <= 0 {
			return model.Order{}, faults.Invalid("requested gallons must be positive for tank %s", l.TankID)
		}
		order.Lines = append(order.Lines, model.OrderLine{
			TankID:           tank.ID,
			Grade:            tank.Grade,
			RequestedGallons: l.RequestedGallons,
		})
	}
	e.Orders.Upsert(order)
	e.Log.Infof("created order %s for site %s", order.OrderNumber, siteID)
	return order, nil
}

// ApplyOrderStatus drives the order state machine. Confirm assigns a PO
// number when absent, deliver matches post-creation delivery events per line
// and classifies the total against a 1%% tolerance, cancel closes the order.
// Dispatch is deliberately blocked.
func (e *Engine) ApplyOrderStatus(orderID, action, poNumber, updatedBy string) (model.Order, error) {
	order, ok := e.Orders.ByID(orderID)
	if !ok {
		return model.Order{}, faults.NotFound("order %s not found", orderID)
	}
	from := order.Status

	switch action {
	case ActionConfirm:
		if order.Status != model.OrderPending && order.Status != model.OrderConfirmed {
			return model.Order{}, faults.InvalidTransition("cannot confirm order in status %s", order.Status)
		}
		order.Status = model.OrderConfirmed
		if poNumber != "" {
			order.JobberPONumber = poNumber
		} else if order.JobberPONumber == "" {
			order.JobberPONumber = fmt.Sprintf("PO-%d", e.Now().Unix())
		}
	case ActionDispatch:
		return model.Order{}, faults.InvalidTransition("dispatch step is disabled")
	case ActionDeliver:
		if order.Status.Terminal() {
			return model.Order{}, faults.InvalidTransition("order %s is already %s", order.OrderNumber, order.Status)
		}
		status, lines, err := e.settleDelivery(order)
		if err != nil {
			return model.Order{}, err
		}
		order.Status = status
		order.Lines = lines
	case ActionCancel:
		if order.Status.Terminal() {
			return model.Order{}, faults.InvalidTransition("order %s is already %s", order.OrderNumber, order.Status)
		}
		order.Status = model.OrderCancelled
	default:
		return model.Order{}, faults.Invalid("unknown order action %q", action)
	}

	order.UpdatedAt = e.Now()
	order.UpdatedBy = updatedBy
	e.Orders.Upsert(order)
	e.publish(eventbus.OrderTransitionedEvent{
		OrderNumber: order.OrderNumber,
		SiteID:      order.SiteID,
		From:        from.String(),
		To:          order.Status.String(),
		Time:        order.UpdatedAt,
	})
	return order, nil
}

// settleDelivery resolves per-line delivered quantities from the first
// delivery event at or after the order's creation, then classifies the total.
func (e *Engine) settleDelivery(order model.Order) (model.OrderStatus, []model.OrderLine, error) {
	lines := make([]model.OrderLine, len(order.Lines))
	copy(lines, order.Lines)

	matchedAny := false
	for i := range lines {
		ev, ok := e.firstDeliveryAfter(order.SiteID, lines[i].TankID, order.CreatedAt)
		if !ok {
			continue
		}
		lines[i].DeliveredGallons = ev.Delivery.DeliveredVolumeGallons
		matchedAny = true
	}
	if !matchedAny {
		return 0, nil, faults.InvalidTransition("no delivery event found after order creation time")
	}

	var requested, delivered float64
	for _, l := range lines {
		requested += l.RequestedGallons
		delivered += l.DeliveredGallons
	}
	status := model.OrderDelivered
	switch model.ClassifyDelivery(requested, delivered) {
	case model.DeliveryShort:
		status = model.OrderDeliveredShort
	case model.DeliveryOver:
		status = model.OrderDeliveredOver
	}
	return status, lines, nil
}

func (e *Engine) firstDeliveryAfter(siteID, tankID string, after time.Time) (model.Event, bool) {
	typ := model.EventDelivery
	res := e.Events.Query(store.EventQuery{SiteID: siteID, TankID: tankID, Type: &typ, From: after, Limit: 1})
	if len(res.Events) == 0 {
		return model.Event{}, false
	}
	return res.Events[0], true
}
