package store

import (
	"sync"

	"github.com/fuelops/atgmon/core/model"
)

// Catalog holds the reference data the service monitors: sites and their
// tanks. It is loaded once from configuration and read-only afterwards, but
// guarded anyway since handlers share it.
type Catalog struct {
	mu    sync.RWMutex
	sites []model.Site
	tanks map[string][]model.Tank // by site ID
}

// NewCatalog builds a catalog from fixture data.
func NewCatalog(sites []model.Site, tanks []model.Tank) *Catalog {
	bySite := map[string][]model.Tank{}
	for _, t := range tanks {
		bySite[t.SiteID] = append(bySite[t.SiteID], t)
	}
	return &Catalog{sites: sites, tanks: bySite}
}

// Sites returns all known sites.
func (c *Catalog) Sites() []model.Site {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Site, len(c.sites))
	copy(out, c.sites)
	return out
}

// SiteByID looks a site up.
func (c *Catalog) SiteByID(id string) (model.Site, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.sites {
		if s.ID == id {
			return s, true
		}
	}
	return model.Site{}, false
}

// TanksForSite returns the tanks of a site, virtual ones included.
func (c *Catalog) TanksForSite(siteID string) []model.Tank {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src := c.tanks[siteID]
	out := make([]model.Tank, len(src))
	copy(out, src)
	return out
}

// TankByID looks a tank up across all sites.
func (c *Catalog) TankByID(id string) (model.Tank, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ts := range c.tanks {
		for _, t := range ts {
			if t.ID == id {
				return t, true
			}
		}
	}
	return model.Tank{}, false
}

// AllTanks returns every tank of every site.
func (c *Catalog) AllTanks() []model.Tank {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Tank
	for _, s := range c.sites {
		out = append(out, c.tanks[s.ID]...)
	}
	return out
}
