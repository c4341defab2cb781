// Package config loads the service configuration from a yaml or json file
// with optional ATG_-prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/seed"
	"github.com/fuelops/atgmon/infra/metrics"
)

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// TankFixture describes one tank of a configured site.
type TankFixture struct {
	ID            string   `json:"id"`
	Grade         string   `json:"grade"`
	Capacity      float64  `json:"capacity_gallons"`
	CurrentVolume float64  `json:"current_volume_gallons"`
	Virtual       bool     `json:"virtual"`
	BlendTanks    []string `json:"blend_tanks"`
}

// SiteFixture describes one monitored site.
type SiteFixture struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	City  string        `json:"city"`
	Tanks []TankFixture `json:"tanks"`
}

// Config is the root configuration.
type Config struct {
	HTTP    HTTPConfig     `json:"http"`
	Metrics metrics.Config `json:"metrics"`
	Seed    seed.Config    `json:"seed"`
	Sites   []SiteFixture  `json:"sites"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("ATG_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "atg_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset sections, including the built-in demo site when
// no sites are configured.
func (c *Config) ApplyDefaults() {
	c.HTTP.SetDefaults()
	c.Metrics.SetDefaults()
	c.Seed.SetDefaults()
	if len(c.Sites) == 0 {
		c.Sites = DefaultSites()
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Seed.Validate(); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, s := range c.Sites {
		if s.ID == "" {
			return fmt.Errorf("site id is required")
		}
		for _, t := range s.Tanks {
			if t.ID == "" {
				return fmt.Errorf("tank id is required at site %s", s.ID)
			}
			if seen[t.ID] {
				return fmt.Errorf("duplicate tank id %s", t.ID)
			}
			seen[t.ID] = true
			if !t.Virtual && t.Capacity <= 0 {
				return fmt.Errorf("tank %s capacity must be positive", t.ID)
			}
		}
	}
	return nil
}

// DefaultSites is the built-in demo fixture: one station with regular, super
// and diesel tanks plus a blended midgrade.
func DefaultSites() []SiteFixture {
	return []SiteFixture{
		{
			ID:   "site-001",
			Name: "Maple & 5th Fuel Stop",
			City: "Springfield",
			Tanks: []TankFixture{
				{ID: "tank-reg", Grade: "REG", Capacity: 10000, CurrentVolume: 6000},
				{ID: "tank-sup", Grade: "SUP", Capacity: 8000, CurrentVolume: 5000},
				{ID: "tank-dsl", Grade: "DSL", Capacity: 12000, CurrentVolume: 7000},
				{ID: "tank-mid", Grade: "MID", Virtual: true, BlendTanks: []string{"tank-reg", "tank-sup"}},
			},
		},
	}
}

// Materialize converts fixtures into the catalog's model types.
func (c Config) Materialize() ([]model.Site, []model.Tank) {
	var sites []model.Site
	var tanks []model.Tank
	for _, s := range c.Sites {
		sites = append(sites, model.Site{ID: s.ID, Name: s.Name, City: s.City})
		for _, t := range s.Tanks {
			tank := model.Tank{
				ID:                   t.ID,
				SiteID:               s.ID,
				Grade:                model.GradeCode(t.Grade),
				CapacityGallons:      t.Capacity,
				CurrentVolumeGallons: t.CurrentVolume,
				Virtual:              t.Virtual,
			}
			if t.Virtual {
				ratios := []float64{0.4, 0.6}
				for i, src := range t.BlendTanks {
					ratio := 0.5
					if i < len(ratios) {
						ratio = ratios[i]
					}
					tank.BlendSources = append(tank.BlendSources, model.BlendSource{TankID: src, Ratio: ratio})
				}
			}
			tanks = append(tanks, tank)
		}
	}
	return sites, tanks
}
