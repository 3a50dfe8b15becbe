package emissions

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidActivity is returned by Validate for negative or non-finite quantities.
var ErrInvalidActivity = errors.New("invalid activity")

// Activity is one day's worth of recorded consumption.
type Activity struct {
	DistanceKm     float64
	Mode           TransportMode
	ElectricityKWh float64
	LPGKg          float64
}

// Breakdown is the emission result in kg CO2.
type Breakdown struct {
	Transport   float64 `json:"transport_emission"`
	Electricity float64 `json:"electricity_emission"`
	LPG         float64 `json:"lpg_emission"`
	Total       float64 `json:"total_emission"`
}

// Add sums two breakdowns.
func (b Breakdown) Add(o Breakdown) Breakdown {
	return Breakdown{
		Transport:   b.Transport + o.Transport,
		Electricity: b.Electricity + o.Electricity,
		LPG:         b.LPG + o.LPG,
		Total:       b.Total + o.Total,
	}
}

// Validate checks that every quantity is a finite, non-negative number.
func (a Activity) Validate() error {
	for name, v := range map[string]float64{
		"distance":    a.DistanceKm,
		"electricity": a.ElectricityKWh,
		"lpg":         a.LPGKg,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidActivity, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidActivity, name)
		}
	}
	return nil
}

// Compute applies the factors to an activity.
func (f Factors) Compute(a Activity) Breakdown {
	t := a.DistanceKm * f.TransportFactor(a.Mode)
	e := a.ElectricityKWh * f.Electricity
	l := a.LPGKg * f.LPG
	return Breakdown{
		Transport:   t,
		Electricity: e,
		LPG:         l,
		Total:       t + e + l,
	}
}
