package model

// GradeCode identifies a fuel product grade.
type GradeCode string

const (
	GradeRegular  GradeCode = "REG"
	GradeMidgrade GradeCode = "MID"
	GradeSuper    GradeCode = "SUP"
	GradeDiesel   GradeCode = "DSL"
)

// BlendSource points a virtual tank at one of its physical sources.
type BlendSource struct {
	TankID string  `json:"tankId"`
	Ratio  float64 `json:"ratio"`
}

// Tank is reference data for a storage tank at a site. Virtual tanks do not
// physically exist; their state is blended from BlendSources.
type Tank struct {
	ID                   string        `json:"id"`
	SiteID               string        `json:"siteId"`
	Grade                GradeCode     `json:"gradeCode"`
	CapacityGallons      float64       `json:"capacityGallons"`
	CurrentVolumeGallons float64       `json:"currentVolumeGallons"`
	Virtual              bool          `json:"isVirtual"`
	BlendSources         []BlendSource `json:"blendSources,omitempty"`
}

// Site is a monitored fuel station.
type Site struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// PhysicalTanks filters out virtual tanks.
func PhysicalTanks(tanks []Tank) []Tank {
	out := make([]Tank, 0, len(tanks))
	for _, t := range tanks {
		if !t.Virtual {
			out = append(out, t)
		}
	}
	return out
}
