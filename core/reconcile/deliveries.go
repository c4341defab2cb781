package reconcile

import (
	"fmt"
	"sort"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

// DeliveryRecords builds the reconciled view of every delivery event, joined
// against manual links. An empty siteID means all sites. Unlinked deliveries
// carry a zero BOL and therefore classify as MISSING. Records are returned
// newest first.
func (e *Engine) DeliveryRecords(siteID string) []model.DeliveryRecord {
	var records []model.DeliveryRecord
	for _, ev := range e.deliveryEvents(siteID) {
		records = append(records, e.recordFor(ev))
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].ID < records[j].ID
		}
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records
}

func (e *Engine) deliveryEvents(siteID string) []model.Event {
	typ := model.EventDelivery
	q := store.EventQuery{SiteID: siteID, Type: &typ, Limit: 500}
	res := e.Events.Query(q)
	events := res.Events
	for res.NextOffset != nil {
		q.Offset = *res.NextOffset
		res = e.Events.Query(q)
		events = append(events, res.Events...)
	}
	return events
}

func (e *Engine) recordFor(ev model.Event) model.DeliveryRecord {
	rec := model.DeliveryRecord{
		ID:                 ev.ID,
		SiteID:             ev.SiteID,
		Timestamp:          ev.Delivery.EndTime,
		Supplier:           "Unknown",
		Grade:              e.gradeOf(ev),
		ATGReceivedGallons: ev.Delivery.DeliveredVolumeGallons,
		DropKey:            fmt.Sprintf("DROP-%s-%d", ev.SiteID, ev.Delivery.EndTime.Unix()),
		UpdatedAt:          ev.Delivery.EndTime,
	}
	if link, ok := e.Links.Get(ev.ID); ok {
		rec.BOLGallons = link.BOLGallons
		rec.OrderNumber = link.OrderNumber
		rec.PONumber = link.PONumber
		rec.UpdatedAt = link.UpdatedAt
		rec.UpdatedBy = link.UpdatedBy
		if link.JobberID != "" {
			rec.Supplier = link.JobberID
		}
	}
	rec.Status = model.ClassifyDelivery(rec.BOLGallons, rec.ATGReceivedGallons)
	switch rec.Status {
	case model.DeliveryMissing:
		rec.IssueNote = "No bill of lading on file for this drop"
	case model.DeliveryShort:
		rec.IssueNote = fmt.Sprintf("Received %.1f gal against BOL %.1f gal", rec.ATGReceivedGallons, rec.BOLGallons)
	case model.DeliveryOver:
		rec.IssueNote = fmt.Sprintf("Received %.1f gal over BOL %.1f gal", rec.ATGReceivedGallons, rec.BOLGallons)
	}
	return rec
}

func (e *Engine) gradeOf(ev model.Event) model.GradeCode {
	if tank, ok := e.Catalog.TankByID(ev.TankID); ok {
		return tank.Grade
	}
	return ""
}
