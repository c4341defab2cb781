// Package metrics records observability events produced by the monitoring
// service. Sinks implement the base TankSnapshot recording; additional
// recorders are optional interfaces a sink may also satisfy.
package metrics

import "time"

// TankSnapshot is a point-in-time view of one tank, exported after seeding
// and on live status requests.
type TankSnapshot struct {
	SiteID            string
	TankID            string
	Grade             string
	VolumeGallons     float64
	FillPercent       float64
	WaterHeightInches float64
	Time              time.Time
}

// OrderEvent captures an order status transition.
type OrderEvent struct {
	OrderNumber string
	SiteID      string
	From        string
	To          string
	Time        time.Time
}

// LinkEvent captures a delivery-to-order link.
type LinkEvent struct {
	DeliveryID  string
	OrderNumber string
	SiteID      string
	Grade       string
	Time        time.Time
}

// SeedEvent captures a completed seeding run.
type SeedEvent struct {
	Sites  int
	Tanks  int
	Events int
	Time   time.Time
}

// Sink records tank snapshots for observability purposes.
type Sink interface {
	RecordTankSnapshots(snaps []TankSnapshot) error
}

// OrderRecorder records order transitions.
type OrderRecorder interface {
	RecordOrderTransition(ev OrderEvent) error
}

// LinkRecorder records delivery links.
type LinkRecorder interface {
	RecordDeliveryLink(ev LinkEvent) error
}

// SeedRecorder records seeding runs.
type SeedRecorder interface {
	RecordSeed(ev SeedEvent) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordTankSnapshots([]TankSnapshot) error { return nil }
func (NopSink) RecordOrderTransition(OrderEvent) error   { return nil }
func (NopSink) RecordDeliveryLink(LinkEvent) error       { return nil }
func (NopSink) RecordSeed(SeedEvent) error               { return nil }

// Config selects which sinks are active.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9102"
	}
}
