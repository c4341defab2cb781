package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/fuelops/atgmon/infra/logger"
)

// InfluxSink writes monitoring events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails, so a missing time-series database never blocks
// the service.
func NewInfluxSinkWithFallback(url, token, org, bucket string) Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

// RecordTankSnapshots writes tank state points.
func (s *InfluxSink) RecordTankSnapshots(snaps []TankSnapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, sn := range snaps {
		p := write.NewPointWithMeasurement("tank_snapshot").
			AddTag("site_id", sn.SiteID).
			AddTag("tank_id", sn.TankID).
			AddTag("grade", sn.Grade).
			AddField("volume_gallons", sn.VolumeGallons).
			AddField("fill_percent", sn.FillPercent).
			AddField("water_height_inches", sn.WaterHeightInches).
			SetTime(sn.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordOrderTransition writes an order transition point.
func (s *InfluxSink) RecordOrderTransition(ev OrderEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("order_transition").
		AddTag("site_id", ev.SiteID).
		AddTag("order_number", ev.OrderNumber).
		AddTag("from", ev.From).
		AddTag("to", ev.To).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDeliveryLink writes a link point.
func (s *InfluxSink) RecordDeliveryLink(ev LinkEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("delivery_link").
		AddTag("site_id", ev.SiteID).
		AddTag("grade", ev.Grade).
		AddTag("order_number", ev.OrderNumber).
		AddField("delivery_id", ev.DeliveryID).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSeed writes a seeding summary point.
func (s *InfluxSink) RecordSeed(ev SeedEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("seed_run").
		AddField("sites", ev.Sites).
		AddField("tanks", ev.Tanks).
		AddField("events", ev.Events).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
