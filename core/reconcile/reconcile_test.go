package reconcile

import (
	"time"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

var testNow = time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	sites := []model.Site{{ID: "s1", Name: "Test Site"}}
	tanks := []model.Tank{
		{ID: "t-reg", SiteID: "s1", Grade: model.GradeRegular, CapacityGallons: 10000},
		{ID: "t-sup", SiteID: "s1", Grade: model.GradeSuper, CapacityGallons: 8000},
		{ID: "t-dsl", SiteID: "s1", Grade: model.GradeDiesel, CapacityGallons: 12000},
	}
	e := New(store.NewEventStore(), store.NewOrderLedger(), store.NewLinkStore(),
		store.NewCatalog(sites, tanks), nil, nil)
	e.Now = func() time.Time { return testNow }
	return e
}

// addDelivery records a gauge-detected drop ending at the given time.
func addDelivery(e *Engine, id, tankID string, end time.Time, gallons float64) {
	ev := model.Event{
		ID:        id,
		SiteID:    "s1",
		TankID:    tankID,
		Timestamp: end,
		Type:      model.EventDelivery,
		Source:    "ATG",
		Delivery: &model.DeliveryDetail{
			StartTime:              end.Add(-30 * time.Minute),
			EndTime:                end,
			DeliveredVolumeGallons: gallons,
		},
	}
	if err := e.Events.Append(ev); err != nil {
		panic(err)
	}
}

func recordByID(recs []model.DeliveryRecord, id string) (model.DeliveryRecord, bool) {
	for _, r := range recs {
		if r.ID == id {
			return r, true
		}
	}
	return model.DeliveryRecord{}, false
}
