package derive

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

const (
	// SeriesWindowDays is the lookback window of the sales series.
	SeriesWindowDays = 90
	// bollingerPeriod is the trailing bucket count for band computation.
	bollingerPeriod = 14
	// bollingerWidth is the band width in standard deviations.
	bollingerWidth = 2.0
)

// SeriesPoint is one hourly sales bucket. Band values are nil during the
// warm-up period when fewer than bollingerPeriod buckets are available.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Gallons   float64   `json:"gallons"`
	Middle    *float64  `json:"middle,omitempty"`
	Upper     *float64  `json:"upper,omitempty"`
	Lower     *float64  `json:"lower,omitempty"`
}

// GradeSeries is the banded sales series of one product grade.
type GradeSeries struct {
	Grade         model.GradeCode `json:"gradeCode"`
	Points        []SeriesPoint   `json:"points"`
	LastReadingAt time.Time       `json:"lastReadingAt"`
}

// SeriesReport is the site-level sales series view.
type SeriesReport struct {
	UpdatedAt  time.Time     `json:"updatedAt"`
	WindowDays int           `json:"windowDays"`
	Series     []GradeSeries `json:"series"`
}

// SalesSeries buckets sales draws into hourly buckets per grade over the
// window and attaches a trailing Bollinger band to each point: mean and
// population standard deviation over the last bollingerPeriod buckets,
// upper = mean + 2σ, lower = max(0, mean − 2σ).
func SalesSeries(events *store.EventStore, siteID string, tanks []model.Tank, now time.Time) SeriesReport {
	gradeByTank := map[string]model.GradeCode{}
	for _, t := range tanks {
		gradeByTank[t.ID] = t.Grade
	}
	cutoff := now.Add(-SeriesWindowDays * 24 * time.Hour)

	type bucketKey struct {
		grade model.GradeCode
		hour  time.Time
	}
	buckets := map[bucketKey]float64{}
	lastReading := map[model.GradeCode]time.Time{}

	byTank := inventoryByTank(events, siteID)
	for _, tankID := range sortedTankIDs(byTank) {
		history := byTank[tankID]
		grade, ok := gradeByTank[tankID]
		if !ok {
			continue
		}
		for i := 1; i < len(history); i++ {
			prev, cur := history[i-1], history[i]
			if cur.Timestamp.After(lastReading[grade]) {
				lastReading[grade] = cur.Timestamp
			}
			if cur.Timestamp.Before(cutoff) {
				continue
			}
			draw := prev.Inventory.VolumeGallons - cur.Inventory.VolumeGallons
			if draw <= 0 {
				continue
			}
			buckets[bucketKey{grade, cur.Timestamp.Truncate(time.Hour)}] += draw
		}
	}

	byGrade := map[model.GradeCode][]SeriesPoint{}
	for k, gallons := range buckets {
		byGrade[k.grade] = append(byGrade[k.grade], SeriesPoint{Timestamp: k.hour, Gallons: gallons})
	}

	report := SeriesReport{UpdatedAt: now, WindowDays: SeriesWindowDays}
	grades := make([]model.GradeCode, 0, len(byGrade))
	for g := range byGrade {
		grades = append(grades, g)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i] < grades[j] })

	for _, grade := range grades {
		points := byGrade[grade]
		sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
		attachBands(points)
		report.Series = append(report.Series, GradeSeries{
			Grade:         grade,
			Points:        points,
			LastReadingAt: lastReading[grade],
		})
	}
	return report
}

func attachBands(points []SeriesPoint) {
	window := make([]float64, 0, bollingerPeriod)
	for i := range points {
		if i < bollingerPeriod-1 {
			continue
		}
		window = window[:0]
		for j := i - bollingerPeriod + 1; j <= i; j++ {
			window = append(window, points[j].Gallons)
		}
		mean := stat.Mean(window, nil)
		sigma := stat.PopStdDev(window, nil)
		upper := mean + bollingerWidth*sigma
		lower := mean - bollingerWidth*sigma
		if lower < 0 {
			lower = 0
		}
		m, u, l := mean, upper, lower
		points[i].Middle = &m
		points[i].Upper = &u
		points[i].Lower = &l
	}
}
