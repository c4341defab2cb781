package derive

import (
	"sort"
	"time"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

// RetailRatePerGallon is the placeholder rate used to estimate sales value.
const RetailRatePerGallon = 3.5

// varianceHighGallons marks a single-reading drop large enough to flag.
const varianceHighGallons = 400

// VarianceTotals aggregates detected sales over a period.
type VarianceTotals struct {
	Gallons float64 `json:"gallons"`
	Value   float64 `json:"value"`
}

// VarianceReport is the site-level sales variance view.
type VarianceReport struct {
	Today     VarianceTotals        `json:"today"`
	Last7Days VarianceTotals        `json:"last7Days"`
	Events    []model.VarianceEvent `json:"events"`
}

// SalesVariance reconstructs per-tank sale events from consecutive inventory
// readings: every volume decrease becomes a VarianceEvent with a signed
// negative delta. Events are returned newest first.
func SalesVariance(events *store.EventStore, siteID string, tanks []model.Tank, now time.Time) VarianceReport {
	gradeByTank := map[string]model.GradeCode{}
	for _, t := range tanks {
		gradeByTank[t.ID] = t.Grade
	}

	var all []model.VarianceEvent
	byTank := inventoryByTank(events, siteID)
	for _, tankID := range sortedTankIDs(byTank) {
		history := byTank[tankID]
		for i := 1; i < len(history); i++ {
			prev, cur := history[i-1], history[i]
			delta := cur.Inventory.VolumeGallons - prev.Inventory.VolumeGallons
			if delta >= 0 {
				continue
			}
			sev := "INFO"
			if -delta > varianceHighGallons {
				sev = "WARNING"
			}
			all = append(all, model.VarianceEvent{
				SiteID:          siteID,
				TankID:          tankID,
				Grade:           gradeByTank[tankID],
				Timestamp:       cur.Timestamp,
				ExpectedGallons: prev.Inventory.VolumeGallons,
				ActualGallons:   cur.Inventory.VolumeGallons,
				VarianceGallons: delta,
				Severity:        sev,
				Note:            "Projected sale from inventory drop",
			})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].TankID < all[j].TankID
		}
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	report := VarianceReport{Events: all}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := now.Add(-7 * 24 * time.Hour)
	for _, ev := range all {
		gallons := -ev.VarianceGallons
		if !ev.Timestamp.Before(dayStart) {
			report.Today.Gallons += gallons
		}
		if !ev.Timestamp.Before(weekStart) {
			report.Last7Days.Gallons += gallons
		}
	}
	report.Today.Value = report.Today.Gallons * RetailRatePerGallon
	report.Last7Days.Value = report.Last7Days.Gallons * RetailRatePerGallon
	return report
}
