package derive

import (
	"testing"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

func predByTank(preds []model.RunoutPrediction) map[string]model.RunoutPrediction {
	m := map[string]model.RunoutPrediction{}
	for _, p := range preds {
		m[p.TankID] = p
	}
	return m
}

func TestRunout_LinearBurn(t *testing.T) {
	es := store.NewEventStore()
	// 100 gal/h burn ending at 5000 gal, capacity 10000, 10% = 1000.
	addReadings(es, "t-reg", 6100, 6000, 5900, 5800, 5700, 5600, 5500, 5400, 5300, 5200, 5100, 5000)
	addReadings(es, "t-sup", 5550, 5500, 5450, 5400, 5350, 5300, 5250, 5200, 5150, 5100, 5050, 5000)

	preds := predByTank(RunoutForSite(es, "s1", testTanks()))
	reg, ok := preds["t-reg"]
	if !ok {
		t.Fatalf("no prediction for t-reg")
	}
	if reg.HoursToTenPercent != 40 {
		t.Fatalf("hours to 10%%: got %v want 40", reg.HoursToTenPercent)
	}
	if reg.HoursToEmpty != 50 {
		t.Fatalf("hours to empty: got %v want 50", reg.HoursToEmpty)
	}

	// Super burns 50 gal/h from 5000, 10% of 8000 = 800: (5000-800)/50 = 84.
	sup := preds["t-sup"]
	if sup.HoursToTenPercent != 84 {
		t.Fatalf("sup hours to 10%%: got %v want 84", sup.HoursToTenPercent)
	}
}

func TestRunout_FlatOrGainingIsInfinite(t *testing.T) {
	es := store.NewEventStore()
	addReadings(es, "t-reg", 5000, 5000, 5000, 5000)
	addReadings(es, "t-sup", 4000, 4200, 4400, 4600)

	preds := predByTank(RunoutForSite(es, "s1", testTanks()))
	for _, id := range []string{"t-reg", "t-sup"} {
		p, ok := preds[id]
		if !ok {
			t.Fatalf("no prediction for %s", id)
		}
		if !p.HoursToTenPercent.Infinite() || !p.HoursToEmpty.Infinite() {
			t.Fatalf("%s: expected infinite horizons, got %v / %v", id, p.HoursToTenPercent, p.HoursToEmpty)
		}
	}
}

func TestRunout_FlooredAtZero(t *testing.T) {
	es := store.NewEventStore()
	// Below the 10% threshold already: hoursToTenPercent floors at 0.
	addReadings(es, "t-reg", 1000, 900, 800)

	preds := predByTank(RunoutForSite(es, "s1", testTanks()))
	p := preds["t-reg"]
	if p.HoursToTenPercent != 0 {
		t.Fatalf("expected 0 hours to 10%%, got %v", p.HoursToTenPercent)
	}
	if p.HoursToEmpty != 8 {
		t.Fatalf("expected 8 hours to empty, got %v", p.HoursToEmpty)
	}
}

func TestRunout_VirtualTankWeighted(t *testing.T) {
	es := store.NewEventStore()
	// reg: 100 gal/h from 5000 => 10%: 40h; sup: 50 gal/h from 5000 => 10%: 84h.
	addReadings(es, "t-reg", 6100, 6000, 5900, 5800, 5700, 5600, 5500, 5400, 5300, 5200, 5100, 5000)
	addReadings(es, "t-sup", 5550, 5500, 5450, 5400, 5350, 5300, 5250, 5200, 5150, 5100, 5050, 5000)

	preds := predByTank(RunoutForSite(es, "s1", testTanks()))
	mid, ok := preds["t-mid"]
	if !ok {
		t.Fatalf("no virtual prediction")
	}
	// 0.4*40 + 0.6*84 = 66.4 -> 66
	if mid.HoursToTenPercent != 66 {
		t.Fatalf("virtual hours to 10%%: got %v want 66", mid.HoursToTenPercent)
	}
}

func TestRunout_VirtualNeedsBothSources(t *testing.T) {
	es := store.NewEventStore()
	addReadings(es, "t-reg", 6000, 5900, 5800)

	preds := predByTank(RunoutForSite(es, "s1", testTanks()))
	if _, ok := preds["t-mid"]; ok {
		t.Fatalf("virtual prediction should require both sources")
	}
}

func TestRunout_InsufficientHistorySkipped(t *testing.T) {
	es := store.NewEventStore()
	addReadings(es, "t-reg", 5000)

	preds := RunoutForSite(es, "s1", testTanks())
	if len(preds) != 0 {
		t.Fatalf("expected no predictions, got %d", len(preds))
	}
}
