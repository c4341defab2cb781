package derive

import (
	"math"

	"github.com/fuelops/atgmon/core/model"
)

// blendSources resolves the regular and super source tanks of a virtual tank.
// Explicit blend sources win; otherwise the site's REG and SUP tanks are used.
func blendSources(virtual model.Tank, tanks []model.Tank) (reg, sup model.Tank, ok bool) {
	byID := map[string]model.Tank{}
	for _, t := range tanks {
		byID[t.ID] = t
	}
	if len(virtual.BlendSources) == 2 {
		for _, src := range virtual.BlendSources {
			t, found := byID[src.TankID]
			if !found {
				return model.Tank{}, model.Tank{}, false
			}
			switch t.Grade {
			case model.GradeRegular:
				reg = t
			case model.GradeSuper:
				sup = t
			}
		}
		if reg.ID != "" && sup.ID != "" {
			return reg, sup, true
		}
		return model.Tank{}, model.Tank{}, false
	}
	for _, t := range tanks {
		if t.Virtual {
			continue
		}
		switch t.Grade {
		case model.GradeRegular:
			reg = t
		case model.GradeSuper:
			sup = t
		}
	}
	if reg.ID == "" || sup.ID == "" {
		return model.Tank{}, model.Tank{}, false
	}
	return reg, sup, true
}

// BlendedAmount computes how much midgrade the two source amounts can supply.
// The blend draws 40% from regular and 60% from super, so the scarcer source
// bounds the result: min(reg/0.4, sup/0.6), rounded.
func BlendedAmount(regGallons, supGallons float64) float64 {
	return math.Round(math.Min(regGallons/BlendRegularRatio, supGallons/BlendSuperRatio))
}

// BlendedSnapshot is the derived state of a virtual midgrade tank.
type BlendedSnapshot struct {
	CapacityGallons float64
	VolumeGallons   float64
	TemperatureF    float64
	FillPercent     float64
}

// BlendMidgrade derives the virtual tank state from the latest readings of
// its two sources.
func BlendMidgrade(reg, sup model.Tank, latestReg, latestSup *model.InventoryReading) BlendedSnapshot {
	snap := BlendedSnapshot{
		CapacityGallons: BlendedAmount(reg.CapacityGallons, sup.CapacityGallons),
	}
	if latestReg == nil || latestSup == nil {
		return snap
	}
	snap.VolumeGallons = BlendedAmount(latestReg.VolumeGallons, latestSup.VolumeGallons)
	snap.TemperatureF = (latestReg.TemperatureF + latestSup.TemperatureF) / 2
	if snap.CapacityGallons > 0 {
		snap.FillPercent = snap.VolumeGallons / snap.CapacityGallons * 100
	}
	return snap
}
