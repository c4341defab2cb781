package model

import (
	"math"
	"strconv"
	"time"
)

// DeliveryStatus classifies a delivery against its bill of lading.
type DeliveryStatus string

const (
	DeliveryOK      DeliveryStatus = "OK"
	DeliveryShort   DeliveryStatus = "SHORT"
	DeliveryOver    DeliveryStatus = "OVER"
	DeliveryMissing DeliveryStatus = "MISSING"
)

// DeliveryTolerance is the fraction of BOL gallons within which a delivery
// counts as OK.
const DeliveryTolerance = 0.01

// ClassifyDelivery compares received gallons against the BOL baseline.
// A zero BOL means no ticket exists for the drop and the paperwork is missing,
// whatever the gauge measured.
func ClassifyDelivery(bolGallons, receivedGallons float64) DeliveryStatus {
	if bolGallons == 0 {
		return DeliveryMissing
	}
	switch {
	case receivedGallons < bolGallons*(1-DeliveryTolerance):
		return DeliveryShort
	case receivedGallons > bolGallons*(1+DeliveryTolerance):
		return DeliveryOver
	default:
		return DeliveryOK
	}
}

// DeliveryRecord is the reconciled view of a single delivery event.
type DeliveryRecord struct {
	ID                 string         `json:"id"`
	SiteID             string         `json:"siteId"`
	Timestamp          time.Time      `json:"timestamp"`
	Supplier           string         `json:"supplier"`
	Grade              GradeCode      `json:"gradeCode"`
	BOLGallons         float64        `json:"bolGallons"`
	ATGReceivedGallons float64        `json:"atgReceivedGallons"`
	Status             DeliveryStatus `json:"status"`
	OrderNumber        string         `json:"orderNumber,omitempty"`
	PONumber           string         `json:"poNumber,omitempty"`
	DropKey            string         `json:"dropKey"`
	IssueNote          string         `json:"issueNote,omitempty"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	UpdatedBy          string         `json:"updatedBy,omitempty"`
}

// DeliveryLink is a user-authored association from a delivery event to an
// order. Links are upserted, never deleted.
type DeliveryLink struct {
	DeliveryID  string    `json:"deliveryId"`
	OrderNumber string    `json:"orderNumber"`
	BOLGallons  float64   `json:"bolGallons"`
	PONumber    string    `json:"poNumber,omitempty"`
	JobberID    string    `json:"jobberId,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UpdatedBy   string    `json:"updatedBy"`
}

// VarianceEvent records a detected inventory decrease between two consecutive
// readings, used as a proxy for a sale.
type VarianceEvent struct {
	SiteID          string    `json:"siteId"`
	TankID          string    `json:"tankId"`
	Grade           GradeCode `json:"gradeCode"`
	Timestamp       time.Time `json:"timestamp"`
	ExpectedGallons float64   `json:"expectedGallons"`
	ActualGallons   float64   `json:"actualGallons"`
	VarianceGallons float64   `json:"varianceGallons"`
	Severity        string    `json:"severity"`
	Note            string    `json:"note,omitempty"`
}

// Hours is a duration in hours that may be infinite. Infinite horizons render
// as JSON null rather than a large finite number.
type Hours float64

// Infinite reports whether the horizon never arrives.
func (h Hours) Infinite() bool { return math.IsInf(float64(h), 1) }

// MarshalJSON renders infinity as null.
func (h Hours) MarshalJSON() ([]byte, error) {
	if h.Infinite() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(h), 'f', -1, 64)), nil
}

// RunoutPrediction forecasts when a tank reaches 10% and empty.
type RunoutPrediction struct {
	SiteID            string    `json:"siteId"`
	TankID            string    `json:"tankId"`
	Grade             GradeCode `json:"gradeCode"`
	HoursToTenPercent Hours     `json:"hoursToTenPercent"`
	HoursToEmpty      Hours     `json:"hoursToEmpty"`
}

// TankStatus summarises the health of a tank for display.
type TankStatus string

const (
	TankOK       TankStatus = "OK"
	TankWarning  TankStatus = "WARNING"
	TankCritical TankStatus = "CRITICAL"
)

// Alert is a synthesized operator notification.
type Alert struct {
	Type     string        `json:"type"`
	Severity AlarmSeverity `json:"severity"`
	SiteID   string        `json:"siteId"`
	TankID   string        `json:"tankId,omitempty"`
	Message  string        `json:"message"`
}
