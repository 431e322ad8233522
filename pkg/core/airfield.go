package core

// Airfield is an immutable reference record. ID is the ICAO code.
type Airfield struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	ICAOCode        string   `json:"icaoCode" yaml:"icao"`
	IATACode        string   `json:"iataCode,omitempty" yaml:"iata,omitempty"`
	ElevationMeters int      `json:"elevationMeters" yaml:"elevation_m"`
	Runways         []Runway `json:"runways" yaml:"runways"`
	CountryFlag     string   `json:"countryFlag,omitempty" yaml:"flag,omitempty"`
	Region          string   `json:"region,omitempty" yaml:"region,omitempty"`
	OperatingHours  string   `json:"operatingHours,omitempty" yaml:"hours,omitempty"`
	// HasCurfew is nil when unknown.
	HasCurfew *bool `json:"hasCurfew,omitempty" yaml:"curfew,omitempty"`
}

// Runway is one strip of an airfield, named by both reciprocal ends.
type Runway struct {
	ID                       string   `json:"id" yaml:"id"`
	Designation              string   `json:"designation" yaml:"designation"`
	HeadingDegrees           int      `json:"headingDegrees" yaml:"heading"`
	ReciprocalHeadingDegrees int      `json:"reciprocalHeadingDegrees" yaml:"reciprocal"`
	LengthMeters             int      `json:"lengthMeters" yaml:"length_m"`
	WidthMeters              int      `json:"widthMeters" yaml:"width_m"`
	ApproachTypes            []string `json:"approachTypes" yaml:"approaches"`
}

// CurfewLabel renders the tri-state curfew flag.
func (a Airfield) CurfewLabel() string {
	switch {
	case a.HasCurfew == nil:
		return "unknown"
	case *a.HasCurfew:
		return "yes"
	default:
		return "no"
	}
}

// HasApproach reports whether any runway offers the approach type.
func (a Airfield) HasApproach(approach string) bool {
	for _, rw := range a.Runways {
		for _, t := range rw.ApproachTypes {
			if t == approach {
				return true
			}
		}
	}
	return false
}
