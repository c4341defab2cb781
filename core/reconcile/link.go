package reconcile

import (
	"github.com/google/uuid"

	"github.com/fuelops/atgmon/core/faults"
	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/internal/eventbus"
)

// LinkRequest binds a delivery event to an order.
type LinkRequest struct {
	DeliveryID  string  `json:"deliveryId"`
	OrderNumber string  `json:"orderNumber,omitempty"`
	BOLGallons  float64 `json:"bolGallons,omitempty"`
	PONumber    string  `json:"poNumber,omitempty"`
	JobberID    string  `json:"jobberId,omitempty"`
}

// LinkDelivery attaches a delivery event to an order, creating an unsolicited
// order when no order number is given. A PO number already used by a
// different delivery of the same product grade is rejected; the same PO
// across grades is allowed, as with combined invoices.
func (e *Engine) LinkDelivery(req LinkRequest) (string, error) {
	if req.DeliveryID == "" {
		return "", faults.Invalid("deliveryId is required")
	}
	ev, ok := e.Events.ByID(req.DeliveryID)
	if !ok || ev.Type != model.EventDelivery {
		return "", faults.NotFound("delivery event %s not found", req.DeliveryID)
	}

	grade := e.gradeOf(ev)
	if req.PONumber != "" {
		if err := e.checkPOConflict(req, grade); err != nil {
			return "", err
		}
	}

	bol := req.BOLGallons
	if bol <= 0 {
		bol = ev.Delivery.DeliveredVolumeGallons
	}

	// An empty order number auto-creates an unsolicited order; a named order
	// is attached to, or created under that number if it does not exist yet.
	orderNumber, err := e.createUnsolicitedOrder(ev, req.JobberID, bol, req.PONumber, req.OrderNumber)
	if err != nil {
		return "", err
	}

	now := e.Now()
	e.Links.Set(model.DeliveryLink{
		DeliveryID:  req.DeliveryID,
		OrderNumber: orderNumber,
		BOLGallons:  bol,
		PONumber:    req.PONumber,
		JobberID:    req.JobberID,
		UpdatedAt:   now,
		UpdatedBy:   "User",
	})
	e.Log.Infof("linked delivery %s to order %s", req.DeliveryID, orderNumber)
	e.publish(eventbus.DeliveryLinkedEvent{
		DeliveryID:  req.DeliveryID,
		OrderNumber: orderNumber,
		SiteID:      ev.SiteID,
		Grade:       string(grade),
		Time:        now,
	})
	return orderNumber, nil
}

func (e *Engine) checkPOConflict(req LinkRequest, grade model.GradeCode) error {
	for _, link := range e.Links.All() {
		if link.PONumber != req.PONumber || link.DeliveryID == req.DeliveryID {
			continue
		}
		other, ok := e.Events.ByID(link.DeliveryID)
		if !ok {
			continue
		}
		if e.gradeOf(other) == grade {
			return faults.Conflict("PO %s is already used by delivery %s of the same grade %s",
				req.PONumber, link.DeliveryID, grade)
		}
	}
	return nil
}

// createUnsolicitedOrder synthesizes a DELIVERED order for a delivery with no
// prior order, matching the drop's grade to a same-grade tank at the site and
// falling back to the site's first tank. Repeated same-grade drops accumulate
// into one line rather than creating duplicates.
func (e *Engine) createUnsolicitedOrder(ev model.Event, jobberID string, bol float64, poNumber, existingNumber string) (string, error) {
	now := e.Now()
	number := existingNumber
	var order model.Order
	if number != "" {
		if existing, ok := e.Orders.ByNumber(number); ok {
			order = existing
		}
	}
	if order.ID == "" {
		if number == "" {
			number = e.Orders.NextOrderNumber()
		}
		order = model.Order{
			ID:          uuid.NewString(),
			OrderNumber: number,
			SiteID:      ev.SiteID,
			JobberID:    jobberID,
			Status:      model.OrderDelivered,
			CreatedAt:   now,
		}
	}

	tank := e.lineTank(ev)
	merged := false
	for i := range order.Lines {
		if order.Lines[i].TankID == tank.ID {
			order.Lines[i].RequestedGallons += bol
			order.Lines[i].DeliveredGallons += ev.Delivery.DeliveredVolumeGallons
			merged = true
			break
		}
	}
	if !merged {
		order.Lines = append(order.Lines, model.OrderLine{
			TankID:           tank.ID,
			Grade:            tank.Grade,
			RequestedGallons: bol,
			DeliveredGallons: ev.Delivery.DeliveredVolumeGallons,
		})
	}
	if poNumber != "" && order.JobberPONumber == "" {
		order.JobberPONumber = poNumber
	}
	order.UpdatedAt = now
	order.UpdatedBy = "User"
	e.Orders.Upsert(order)
	return order.OrderNumber, nil
}

// lineTank finds the tank an unsolicited delivery should be booked against:
// the delivery's own tank, else a same-grade tank, else the site's first.
func (e *Engine) lineTank(ev model.Event) model.Tank {
	if tank, ok := e.Catalog.TankByID(ev.TankID); ok {
		return tank
	}
	tanks := model.PhysicalTanks(e.Catalog.TanksForSite(ev.SiteID))
	grade := e.gradeOf(ev)
	for _, t := range tanks {
		if t.Grade == grade {
			return t
		}
	}
	if len(tanks) > 0 {
		return tanks[0]
	}
	return model.Tank{ID: ev.TankID, SiteID: ev.SiteID}
}
