// Package app wires the stores, seeder, reconciliation engine and HTTP API
// into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fuelops/atgmon/api"
	"github.com/fuelops/atgmon/config"
	"github.com/fuelops/atgmon/core/derive"
	"github.com/fuelops/atgmon/core/reconcile"
	"github.com/fuelops/atgmon/core/seed"
	"github.com/fuelops/atgmon/core/store"
	"github.com/fuelops/atgmon/infra/logger"
	"github.com/fuelops/atgmon/infra/metrics"
	"github.com/fuelops/atgmon/internal/eventbus"
)

// Service owns the application state and the HTTP servers.
type Service struct {
	Events  *store.EventStore
	Catalog *store.Catalog
	Orders  *store.OrderLedger
	Links   *store.LinkStore
	Recon   *reconcile.Engine

	cfg  *config.Config
	log  logger.Logger
	bus  *eventbus.Bus
	sink metrics.Sink
}

// New creates a Service from the configuration and seeds the event store.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	sites, tanks := cfg.Materialize()

	events := store.NewEventStore()
	catalog := store.NewCatalog(sites, tanks)
	orders := store.NewOrderLedger()
	links := store.NewLinkStore()
	bus := eventbus.New()

	var sinks []metrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink metrics.Sink = metrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	recon := reconcile.New(events, orders, links, catalog, bus, logger.New("reconcile"))

	svc := &Service{
		Events:  events,
		Catalog: catalog,
		Orders:  orders,
		Links:   links,
		Recon:   recon,
		cfg:     cfg,
		log:     logg,
		bus:     bus,
		sink:    sink,
	}

	seeder := seed.New(events, cfg.Seed, logger.New("seeder"))
	seeder.Bus = bus
	n, err := seeder.Seed(cfg.Seed, sites, tanks)
	if err != nil {
		return nil, fmt.Errorf("seed events: %w", err)
	}
	// The bus forwarder is not running yet, so record the seed run directly.
	if rec, ok := sink.(metrics.SeedRecorder); ok {
		if err := rec.RecordSeed(metrics.SeedEvent{Sites: len(sites), Tanks: len(tanks), Events: n, Time: seeder.Now}); err != nil {
			logg.Errorf("record seed: %v", err)
		}
	}
	svc.exportSnapshots()
	return svc, nil
}

// Run serves the API and metrics endpoints until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.forwardBusEvents(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	handler := api.New(s.Events, s.Catalog, s.Orders, s.Recon, logger.New("api"))
	srv := &http.Server{Addr: s.cfg.HTTP.Addr, Handler: handler.Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving API on %s", s.cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}

// forwardBusEvents feeds domain events from the bus into the metrics sink.
func (s *Service) forwardBusEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			s.recordBusEvent(ev)
		}
	}
}

func (s *Service) recordBusEvent(ev eventbus.Event) {
	var err error
	switch e := ev.(type) {
	case eventbus.SeededEvent:
		if rec, ok := s.sink.(metrics.SeedRecorder); ok {
			err = rec.RecordSeed(metrics.SeedEvent{Sites: e.Sites, Tanks: e.Tanks, Events: e.Events, Time: e.Time})
		}
	case eventbus.DeliveryLinkedEvent:
		if rec, ok := s.sink.(metrics.LinkRecorder); ok {
			err = rec.RecordDeliveryLink(metrics.LinkEvent{
				DeliveryID: e.DeliveryID, OrderNumber: e.OrderNumber,
				SiteID: e.SiteID, Grade: e.Grade, Time: e.Time,
			})
		}
	case eventbus.OrderTransitionedEvent:
		if rec, ok := s.sink.(metrics.OrderRecorder); ok {
			err = rec.RecordOrderTransition(metrics.OrderEvent{
				OrderNumber: e.OrderNumber, SiteID: e.SiteID,
				From: e.From, To: e.To, Time: e.Time,
			})
		}
	}
	if err != nil {
		s.log.Errorf("record metrics: %v", err)
	}
}

// exportSnapshots pushes the latest per-tank state to the metrics sink.
func (s *Service) exportSnapshots() {
	var snaps []metrics.TankSnapshot
	for _, site := range s.Catalog.Sites() {
		latest := derive.LatestInventoryByTank(s.Events, site.ID)
		for _, tank := range s.Catalog.TanksForSite(site.ID) {
			ev, ok := latest[tank.ID]
			if !ok {
				continue
			}
			snaps = append(snaps, metrics.TankSnapshot{
				SiteID:            site.ID,
				TankID:            tank.ID,
				Grade:             string(tank.Grade),
				VolumeGallons:     ev.Inventory.VolumeGallons,
				FillPercent:       ev.Inventory.FillPercent,
				WaterHeightInches: ev.Inventory.WaterHeightInches,
				Time:              ev.Timestamp,
			})
		}
	}
	if len(snaps) == 0 {
		return
	}
	if err := s.sink.RecordTankSnapshots(snaps); err != nil {
		s.log.Errorf("record tank snapshots: %v", err)
	}
}
