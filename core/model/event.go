package model

import (
	"fmt"
	"time"
)

// EventType discriminates the kind of ATG event carried by an Event.
type EventType int

const (
	EventInventory EventType = iota
	EventDelivery
	EventAlarm
)

// String returns the wire representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventInventory:
		return "INVENTORY"
	case EventDelivery:
		return "DELIVERY"
	case EventAlarm:
		return "ALARM"
	default:
		return "unknown"
	}
}

// MarshalText renders the type for JSON encoding.
func (t EventType) MarshalText() ([]byte, error) {
	s := t.String()
	if s == "unknown" {
		return nil, fmt.Errorf("unknown event type %d", int(t))
	}
	return []byte(s), nil
}

// UnmarshalText parses the wire representation.
func (t *EventType) UnmarshalText(b []byte) error {
	v, ok := ParseEventType(string(b))
	if !ok {
		return fmt.Errorf("unknown event type %q", string(b))
	}
	*t = v
	return nil
}

// ParseEventType converts a wire string into an EventType.
func ParseEventType(s string) (EventType, bool) {
	switch s {
	case "INVENTORY":
		return EventInventory, true
	case "DELIVERY":
		return EventDelivery, true
	case "ALARM":
		return EventAlarm, true
	default:
		return 0, false
	}
}

// AlarmSeverity ranks alarm events as reported by the gauge.
type AlarmSeverity string

const (
	SeverityAlarm   AlarmSeverity = "ALARM"
	SeverityWarning AlarmSeverity = "WARNING"
)

// InventoryReading is the periodic tank measurement payload.
type InventoryReading struct {
	VolumeGallons      float64 `json:"volumeGallons"`
	UllageGallons      float64 `json:"ullageGallons"`
	WaterHeightInches  float64 `json:"waterHeightInches"`
	TemperatureF       float64 `json:"temperatureF"`
	FillPercent        float64 `json:"fillPercent"`
	DeliveryInProgress bool    `json:"deliveryInProgress"`
	LeakTestInProgress bool    `json:"leakTestInProgress"`
	InvalidHeightAlarm bool    `json:"invalidHeightAlarm"`
}

// DeliveryDetail describes a fuel drop detected by the gauge.
type DeliveryDetail struct {
	StartTime              time.Time `json:"startTime"`
	EndTime                time.Time `json:"endTime"`
	StartVolumeGallons     float64   `json:"startVolumeGallons"`
	EndVolumeGallons       float64   `json:"endVolumeGallons"`
	DeliveredVolumeGallons float64   `json:"deliveredVolumeGallons"`
	LinkedOrderID          string    `json:"linkedOrderId,omitempty"`
}

// AlarmDetail describes an alarm raised by the gauge.
type AlarmDetail struct {
	CategoryCode string        `json:"categoryCode"`
	Severity     AlarmSeverity `json:"severity"`
	ActiveAt     time.Time     `json:"activeAt"`
	ClearedAt    *time.Time    `json:"clearedAt,omitempty"`
	Message      string        `json:"message"`
}

// Event is an immutable entry of the ATG event log. Exactly one of the
// variant payloads is set, matching Type.
type Event struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"siteId"`
	TankID    string    `json:"tankId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`

	Inventory *InventoryReading `json:"inventory,omitempty"`
	Delivery  *DeliveryDetail   `json:"delivery,omitempty"`
	Alarm     *AlarmDetail      `json:"alarm,omitempty"`
}

// Validate checks that the event carries exactly the payload its type claims.
func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.SiteID == "" {
		return fmt.Errorf("event site id is required")
	}
	set := 0
	if e.Inventory != nil {
		set++
	}
	if e.Delivery != nil {
		set++
	}
	if e.Alarm != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("event %s must carry exactly one payload, has %d", e.ID, set)
	}
	switch e.Type {
	case EventInventory:
		if e.Inventory == nil {
			return fmt.Errorf("event %s typed INVENTORY without inventory payload", e.ID)
		}
	case EventDelivery:
		if e.Delivery == nil {
			return fmt.Errorf("event %s typed DELIVERY without delivery payload", e.ID)
		}
	case EventAlarm:
		if e.Alarm == nil {
			return fmt.Errorf("event %s typed ALARM without alarm payload", e.ID)
		}
	default:
		return fmt.Errorf("event %s has unknown type %d", e.ID, int(e.Type))
	}
	return nil
}
