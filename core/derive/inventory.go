// Package derive computes views over the ATG event log: latest inventory,
// runout forecasts, sales variance, banded sales series, live tank status and
// virtual tank blending. Every function is a pure read of the store; given
// the same log, repeated calls produce identical output.
package derive

import (
	"sort"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

// LatestInventoryByTank returns, per tank, the inventory event with the
// maximum timestamp for the site.
func LatestInventoryByTank(events *store.EventStore, siteID string) map[string]model.Event {
	latest := map[string]model.Event{}
	for _, ev := range events.ForSite(siteID) {
		if ev.Type != model.EventInventory {
			continue
		}
		cur, ok := latest[ev.TankID]
		if !ok || ev.Timestamp.After(cur.Timestamp) {
			latest[ev.TankID] = ev
		}
	}
	return latest
}

// AlarmsForSite returns all alarm events for the site in stored order.
// Cleared state is not consulted: an alarm stays visible once raised.
func AlarmsForSite(events *store.EventStore, siteID string) []model.Event {
	var out []model.Event
	for _, ev := range events.ForSite(siteID) {
		if ev.Type == model.EventAlarm {
			out = append(out, ev)
		}
	}
	return out
}

// inventoryByTank groups a site's inventory events per tank, preserving the
// store's ascending order.
func inventoryByTank(events *store.EventStore, siteID string) map[string][]model.Event {
	byTank := map[string][]model.Event{}
	for _, ev := range events.ForSite(siteID) {
		if ev.Type != model.EventInventory {
			continue
		}
		byTank[ev.TankID] = append(byTank[ev.TankID], ev)
	}
	return byTank
}

// sortedTankIDs returns the map's keys in ascending order. Derivations that
// fold per-tank values into shared accumulators must visit tanks in a stable
// order, since float addition order changes the result.
func sortedTankIDs(byTank map[string][]model.Event) []string {
	ids := make([]string, 0, len(byTank))
	for id := range byTank {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
