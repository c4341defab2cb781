package derive

import (
	"fmt"
	"time"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

var testBase = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func testTanks() []model.Tank {
	return []model.Tank{
		{ID: "t-reg", SiteID: "s1", Grade: model.GradeRegular, CapacityGallons: 10000},
		{ID: "t-sup", SiteID: "s1", Grade: model.GradeSuper, CapacityGallons: 8000},
		{ID: "t-mid", SiteID: "s1", Grade: model.GradeMidgrade, Virtual: true,
			BlendSources: []model.BlendSource{{TankID: "t-reg", Ratio: 0.4}, {TankID: "t-sup", Ratio: 0.6}}},
	}
}

// addReadings appends one inventory event per volume, one hour apart, ending
// at testBase + len(volumes) hours.
func addReadings(es *store.EventStore, tankID string, volumes ...float64) {
	addReadingsFrom(es, tankID, testBase, volumes...)
}

func addReadingsFrom(es *store.EventStore, tankID string, start time.Time, volumes ...float64) {
	for i, v := range volumes {
		ev := model.Event{
			ID:        fmt.Sprintf("%s-%d-%d", tankID, start.Unix(), i),
			SiteID:    "s1",
			TankID:    tankID,
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Type:      model.EventInventory,
			Source:    "ATG",
			Inventory: &model.InventoryReading{VolumeGallons: v, FillPercent: v / 100},
		}
		if err := es.Append(ev); err != nil {
			panic(err)
		}
	}
}

func addWaterReading(es *store.EventStore, tankID string, ts time.Time, volume, water float64) {
	ev := model.Event{
		ID:        fmt.Sprintf("%s-water-%d", tankID, ts.Unix()),
		SiteID:    "s1",
		TankID:    tankID,
		Timestamp: ts,
		Type:      model.EventInventory,
		Source:    "ATG",
		Inventory: &model.InventoryReading{VolumeGallons: volume, WaterHeightInches: water},
	}
	if err := es.Append(ev); err != nil {
		panic(err)
	}
}

func addAlarm(es *store.EventStore, tankID string, ts time.Time, sev model.AlarmSeverity) {
	ev := model.Event{
		ID:        fmt.Sprintf("%s-alarm-%d", tankID, ts.Unix()),
		SiteID:    "s1",
		TankID:    tankID,
		Timestamp: ts,
		Type:      model.EventAlarm,
		Source:    "ATG",
		Alarm:     &model.AlarmDetail{CategoryCode: "WATER", Severity: sev, ActiveAt: ts, Message: "High water level"},
	}
	if err := es.Append(ev); err != nil {
		panic(err)
	}
}
