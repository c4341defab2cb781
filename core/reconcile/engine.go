// Package reconcile maintains the canonical order ledger and links it to
// delivery events detected by the gauge.
package reconcile

import (
	"time"

	"github.com/fuelops/atgmon/core/store"
	"github.com/fuelops/atgmon/infra/logger"
	"github.com/fuelops/atgmon/internal/eventbus"
)

// Engine joins delivery events, manual links and the order ledger.
type Engine struct {
	Events  *store.EventStore
	Orders  *store.OrderLedger
	Links   *store.LinkStore
	Catalog *store.Catalog
	Bus     eventbus.EventBus
	Log     logger.Logger
	Now     func() time.Time
}

// New builds an Engine. Bus may be nil when no subscriber cares.
func New(events *store.EventStore, orders *store.OrderLedger, links *store.LinkStore, catalog *store.Catalog, bus eventbus.EventBus, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Engine{
		Events:  events,
		Orders:  orders,
		Links:   links,
		Catalog: catalog,
		Bus:     bus,
		Log:     log,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) publish(ev eventbus.Event) {
	if e.Bus != nil {
		e.Bus.Publish(ev)
	}
}
