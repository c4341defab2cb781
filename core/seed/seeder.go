// Package seed generates synthetic ATG history: a per-tank random walk of
// hourly inventory readings, occasional delivery refills and water alarms.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
	"github.com/fuelops/atgmon/infra/logger"
	"github.com/fuelops/atgmon/internal/eventbus"
)

// Config tunes the synthetic history generator.
type Config struct {
	// HistoryHours is the walk length; one inventory reading is emitted per
	// hour plus one for the starting instant.
	HistoryHours int `json:"history_hours"`
	// Seed fixes the random source so repeated runs produce the same history.
	Seed int64 `json:"seed"`
}

// SetDefaults applies sane defaults: 30 days of history, fixed seed.
func (c *Config) SetDefaults() {
	if c.HistoryHours <= 0 {
		c.HistoryHours = 720
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.HistoryHours < 1 {
		return fmt.Errorf("history_hours must be positive")
	}
	return nil
}

const (
	deliveryChance    = 0.0025
	waterSpikeChance  = 0.01
	alarmChance       = 0.3
	waterAlarmInches  = 1.5
	waterSevereInches = 3.0
)

// Seeder populates an EventStore with synthetic history. The random source
// and clock are injected so tests are reproducible.
type Seeder struct {
	Events *store.EventStore
	Rand   *rand.Rand
	Now    time.Time
	Bus    eventbus.EventBus
	Log    logger.Logger
}

// New builds a Seeder with a fixed random seed and the current time.
func New(events *store.EventStore, cfg Config, log logger.Logger) *Seeder {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Seeder{
		Events: events,
		Rand:   rand.New(rand.NewSource(cfg.Seed)),
		Now:    time.Now().UTC().Truncate(time.Hour),
		Log:    log,
	}
}

// Seed walks each physical tank through the configured history window and
// appends the resulting events. It is idempotent: only the first call against
// a store generates events, later calls are no-ops returning zero.
func (s *Seeder) Seed(cfg Config, sites []model.Site, tanks []model.Tank) (int, error) {
	if !s.Events.MarkSeeded() {
		return 0, nil
	}

	appended := 0
	for _, tank := range model.PhysicalTanks(tanks) {
		n, err := s.seedTank(cfg, tank)
		if err != nil {
			return appended, err
		}
		appended += n
	}
	// Events were appended tank by tank; restore global time order.
	s.Events.SortChronological()

	s.Log.Infof("seeded %d events for %d sites, %d tanks", appended, len(sites), len(tanks))
	if s.Bus != nil {
		s.Bus.Publish(eventbus.SeededEvent{
			Sites:  len(sites),
			Tanks:  len(tanks),
			Events: appended,
			Time:   s.Now,
		})
	}
	return appended, nil
}

func (s *Seeder) seedTank(cfg Config, tank model.Tank) (int, error) {
	capacity := tank.CapacityGallons
	volume := tank.CurrentVolumeGallons
	if volume <= 0 {
		volume = capacity * 0.6
	}

	appended := 0
	for h := cfg.HistoryHours; h >= 0; h-- {
		ts := s.Now.Add(-time.Duration(h) * time.Hour)

		deliveryHour := s.Rand.Float64() < deliveryChance
		if deliveryHour {
			refill := capacity * (0.3 + s.Rand.Float64()*0.4)
			newVolume := volume + refill
			if newVolume > capacity {
				newVolume = capacity
			}
			ev := model.Event{
				ID:        uuid.NewString(),
				SiteID:    tank.SiteID,
				TankID:    tank.ID,
				Timestamp: ts,
				Type:      model.EventDelivery,
				Source:    "ATG",
				Delivery: &model.DeliveryDetail{
					StartTime:              ts.Add(-30 * time.Minute),
					EndTime:                ts,
					StartVolumeGallons:     round1(volume),
					EndVolumeGallons:       round1(newVolume),
					DeliveredVolumeGallons: round1(newVolume - volume),
				},
			}
			if err := s.Events.Append(ev); err != nil {
				return appended, err
			}
			appended++
			volume = newVolume
		} else {
			draw := capacity * (0.002 + s.Rand.Float64()*0.004)
			volume -= draw
			if volume < 0 {
				volume = 0
			}
		}

		water := s.Rand.Float64() * 0.2
		if s.Rand.Float64() < waterSpikeChance {
			water = s.Rand.Float64() * 2.5
		}
		temp := 55 + s.Rand.Float64()*20

		inv := model.Event{
			ID:        uuid.NewString(),
			SiteID:    tank.SiteID,
			TankID:    tank.ID,
			Timestamp: ts,
			Type:      model.EventInventory,
			Source:    "ATG",
			Inventory: &model.InventoryReading{
				VolumeGallons:      round1(volume),
				UllageGallons:      round1(capacity - volume),
				WaterHeightInches:  round2(water),
				TemperatureF:       round1(temp),
				FillPercent:        round1(volume / capacity * 100),
				DeliveryInProgress: deliveryHour,
			},
		}
		if err := s.Events.Append(inv); err != nil {
			return appended, err
		}
		appended++

		if water > waterAlarmInches && s.Rand.Float64() < alarmChance {
			sev := model.SeverityWarning
			if water > waterSevereInches {
				sev = model.SeverityAlarm
			}
			al := model.Event{
				ID:        uuid.NewString(),
				SiteID:    tank.SiteID,
				TankID:    tank.ID,
				Timestamp: ts,
				Type:      model.EventAlarm,
				Source:    "ATG",
				Alarm: &model.AlarmDetail{
					CategoryCode: "WATER",
					Severity:     sev,
					ActiveAt:     ts,
					Message:      fmt.Sprintf("High water level: %.2f in", water),
				},
			}
			if err := s.Events.Append(al); err != nil {
				return appended, err
			}
			appended++
		}
	}
	return appended, nil
}

func round1(f float64) float64 { return float64(int64(f*10+0.5)) / 10 }
func round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }
