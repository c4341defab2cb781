package derive

import (
	"math"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

// runoutWindow is the number of recent inventory readings used to estimate
// the burn rate.
const runoutWindow = 12

// Blend ratios of a virtual midgrade tank: 40% regular, 60% super.
const (
	BlendRegularRatio = 0.4
	BlendSuperRatio   = 0.6
)

// RunoutForSite forecasts, per tank, the hours until 10% capacity and until
// empty from a linear burn rate over the last readings. Tanks gaining or flat
// report infinite horizons. A virtual tank's runout is the ratio-weighted
// average of its sources' runouts, present only when both sources have one.
func RunoutForSite(events *store.EventStore, siteID string, tanks []model.Tank) []model.RunoutPrediction {
	byTank := inventoryByTank(events, siteID)

	var preds []model.RunoutPrediction
	byTankID := map[string]model.RunoutPrediction{}
	for _, tank := range model.PhysicalTanks(tanks) {
		history := byTank[tank.ID]
		if len(history) < 2 {
			continue
		}
		if len(history) > runoutWindow {
			history = history[len(history)-runoutWindow:]
		}
		earliest := history[0]
		latest := history[len(history)-1]
		elapsed := latest.Timestamp.Sub(earliest.Timestamp).Hours()
		if elapsed <= 0 {
			continue
		}
		burnPerHour := (earliest.Inventory.VolumeGallons - latest.Inventory.VolumeGallons) / elapsed

		pred := model.RunoutPrediction{
			SiteID: siteID,
			TankID: tank.ID,
			Grade:  tank.Grade,
		}
		if burnPerHour <= 0 {
			pred.HoursToTenPercent = model.Hours(math.Inf(1))
			pred.HoursToEmpty = model.Hours(math.Inf(1))
		} else {
			vol := latest.Inventory.VolumeGallons
			pred.HoursToTenPercent = flooredHours((vol - 0.1*tank.CapacityGallons) / burnPerHour)
			pred.HoursToEmpty = flooredHours(vol / burnPerHour)
		}
		preds = append(preds, pred)
		byTankID[tank.ID] = pred
	}

	for _, tank := range tanks {
		if !tank.Virtual {
			continue
		}
		reg, sup, ok := blendSources(tank, tanks)
		if !ok {
			continue
		}
		regPred, haveReg := byTankID[reg.ID]
		supPred, haveSup := byTankID[sup.ID]
		if !haveReg || !haveSup {
			continue
		}
		preds = append(preds, model.RunoutPrediction{
			SiteID:            siteID,
			TankID:            tank.ID,
			Grade:             tank.Grade,
			HoursToTenPercent: weighted(regPred.HoursToTenPercent, supPred.HoursToTenPercent),
			HoursToEmpty:      weighted(regPred.HoursToEmpty, supPred.HoursToEmpty),
		})
	}
	return preds
}

func flooredHours(h float64) model.Hours {
	if h < 0 {
		return 0
	}
	return model.Hours(math.Floor(h))
}

func weighted(reg, sup model.Hours) model.Hours {
	if reg.Infinite() || sup.Infinite() {
		return model.Hours(math.Inf(1))
	}
	return model.Hours(math.Floor(BlendRegularRatio*float64(reg) + BlendSuperRatio*float64(sup)))
}
