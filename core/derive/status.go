package derive

import (
	"fmt"
	"sort"
	"time"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

const (
	waterWarningInches  = 1.0
	waterDetectInches   = 1.5
	waterCriticalInches = 3.0
	runoutRiskHours     = 12
)

// TankLiveStatus composes a tank's reference data with its latest reading.
type TankLiveStatus struct {
	Tank              model.Tank          `json:"tank"`
	VolumeGallons     float64             `json:"volumeGallons"`
	FillPercent       float64             `json:"fillPercent"`
	WaterHeightInches float64             `json:"waterHeightInches"`
	TemperatureF      float64             `json:"temperatureF"`
	Status            model.TankStatus    `json:"status"`
	LastReadingAt     time.Time           `json:"lastReadingAt"`
	ActiveAlarms      []model.AlarmDetail `json:"activeAlarms"`
}

// StatusReport is the composed live view of a site.
type StatusReport struct {
	Site   model.Site               `json:"site"`
	Tanks  []TankLiveStatus         `json:"tanks"`
	Runout []model.RunoutPrediction `json:"runout"`
	Alerts []model.Alert            `json:"alerts"`
}

// LiveStatus composes latest inventory, runout predictions and alarms into a
// single per-site view, deriving tank health from water height and
// synthesizing alerts for runout risk, water detection and active alarms.
func LiveStatus(events *store.EventStore, site model.Site, tanks []model.Tank, now time.Time) StatusReport {
	latest := LatestInventoryByTank(events, site.ID)
	runout := RunoutForSite(events, site.ID, tanks)
	alarms := AlarmsForSite(events, site.ID)

	alarmsByTank := map[string][]model.AlarmDetail{}
	for _, ev := range alarms {
		alarmsByTank[ev.TankID] = append(alarmsByTank[ev.TankID], *ev.Alarm)
	}
	runoutByTank := map[string]model.RunoutPrediction{}
	for _, p := range runout {
		runoutByTank[p.TankID] = p
	}

	report := StatusReport{Site: site, Runout: runout}

	sorted := make([]model.Tank, len(tanks))
	copy(sorted, tanks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, tank := range sorted {
		ts := TankLiveStatus{Tank: tank, Status: model.TankOK, ActiveAlarms: []model.AlarmDetail{}}
		if tank.Virtual {
			reg, sup, ok := blendSources(tank, tanks)
			if ok {
				var regInv, supInv *model.InventoryReading
				var at time.Time
				if ev, found := latest[reg.ID]; found {
					regInv = ev.Inventory
					at = ev.Timestamp
				}
				if ev, found := latest[sup.ID]; found {
					supInv = ev.Inventory
					if ev.Timestamp.After(at) {
						at = ev.Timestamp
					}
				}
				snap := BlendMidgrade(reg, sup, regInv, supInv)
				ts.VolumeGallons = snap.VolumeGallons
				ts.FillPercent = snap.FillPercent
				ts.TemperatureF = snap.TemperatureF
				ts.LastReadingAt = at
			}
		} else if ev, ok := latest[tank.ID]; ok {
			inv := ev.Inventory
			ts.VolumeGallons = inv.VolumeGallons
			ts.FillPercent = inv.FillPercent
			ts.WaterHeightInches = inv.WaterHeightInches
			ts.TemperatureF = inv.TemperatureF
			ts.LastReadingAt = ev.Timestamp
			switch {
			case inv.WaterHeightInches > waterCriticalInches:
				ts.Status = model.TankCritical
			case inv.WaterHeightInches > waterWarningInches:
				ts.Status = model.TankWarning
			}
		}
		if al, ok := alarmsByTank[tank.ID]; ok {
			ts.ActiveAlarms = al
		}
		report.Tanks = append(report.Tanks, ts)

		report.Alerts = append(report.Alerts, tankAlerts(site.ID, tank, ts, runoutByTank)...)
	}

	for _, ev := range alarms {
		if ev.Alarm.Severity != model.SeverityAlarm {
			continue
		}
		report.Alerts = append(report.Alerts, model.Alert{
			Type:     "ATG_ALARM",
			Severity: model.SeverityAlarm,
			SiteID:   site.ID,
			TankID:   ev.TankID,
			Message:  ev.Alarm.Message,
		})
	}
	return report
}

func tankAlerts(siteID string, tank model.Tank, ts TankLiveStatus, runout map[string]model.RunoutPrediction) []model.Alert {
	var alerts []model.Alert
	if pred, ok := runout[tank.ID]; ok {
		if !pred.HoursToTenPercent.Infinite() && float64(pred.HoursToTenPercent) < runoutRiskHours {
			alerts = append(alerts, model.Alert{
				Type:     "RUNOUT_RISK",
				Severity: model.SeverityAlarm,
				SiteID:   siteID,
				TankID:   tank.ID,
				Message:  fmt.Sprintf("Tank %s reaches 10%% in %.0f hours", tank.ID, float64(pred.HoursToTenPercent)),
			})
		}
	}
	if ts.WaterHeightInches > waterDetectInches {
		sev := model.SeverityWarning
		if ts.WaterHeightInches > waterCriticalInches {
			sev = model.SeverityAlarm
		}
		alerts = append(alerts, model.Alert{
			Type:     "WATER_DETECTED",
			Severity: sev,
			SiteID:   siteID,
			TankID:   tank.ID,
			Message:  fmt.Sprintf("Water height %.2f in detected in tank %s", ts.WaterHeightInches, tank.ID),
		})
	}
	return alerts
}
