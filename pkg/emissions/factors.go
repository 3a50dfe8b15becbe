package emissions

import "fmt"

const (
	// DefaultElectricityFactor is kg CO2 per kWh of grid electricity.
	DefaultElectricityFactor = 0.18
	// DefaultLPGFactor is kg CO2 per kg of LPG burned.
	DefaultLPGFactor = 3.0
)

var defaultTransportFactors = map[TransportMode]float64{
	ModeCarPetrol:      0.192,
	ModeCarDiesel:      0.171,
	ModeMotorbike:      0.103,
	ModeBus:            0.105,
	ModeBicycleWalking: 0.0,
	ModeOther:          0.0,
}

// Factors holds the emission factors used to compute a Breakdown.
type Factors struct {
	Transport   map[TransportMode]float64
	Electricity float64
	LPG         float64
}

// DefaultFactors returns a fresh copy of the built-in factor table.
func DefaultFactors() Factors {
	transport := make(map[TransportMode]float64, len(defaultTransportFactors))
	for m, f := range defaultTransportFactors {
		transport[m] = f
	}
	return Factors{
		Transport:   transport,
		Electricity: DefaultElectricityFactor,
		LPG:         DefaultLPGFactor,
	}
}

// TransportFactor returns kg CO2 per km for the mode, or 0 for modes
// without a factor.
func (f Factors) TransportFactor(mode TransportMode) float64 {
	return f.Transport[mode]
}

// WithOverrides returns a copy of f with the transport factors named in
// overrides (keyed by mode key or label) replaced, and the electricity and
// LPG factors set to the given values.
func (f Factors) WithOverrides(overrides map[string]float64, electricity, lpg float64) (Factors, error) {
	out := Factors{
		Transport:   make(map[TransportMode]float64, len(f.Transport)),
		Electricity: f.Electricity,
		LPG:         f.LPG,
	}
	for m, v := range f.Transport {
		out.Transport[m] = v
	}
	for name, v := range overrides {
		mode, err := ParseTransportMode(name)
		if err != nil {
			return Factors{}, err
		}
		if v < 0 {
			return Factors{}, fmt.Errorf("negative factor for %s: %v", mode, v)
		}
		out.Transport[mode] = v
	}
	if electricity < 0 || lpg < 0 {
		return Factors{}, fmt.Errorf("factors must not be negative")
	}
	out.Electricity = electricity
	out.LPG = lpg
	return out, nil
}

// FactorRow is a single line of the published factor table.
type FactorRow struct {
	Mode   TransportMode `json:"mode"`
	Label  string        `json:"label"`
	Factor float64       `json:"kg_co2_per_km"`
}

// Table lists the published transport factors in enum order.
func (f Factors) Table() []FactorRow {
	rows := make([]FactorRow, 0, len(TransportModeValues()))
	for _, m := range TransportModeValues() {
		if m == ModeOther {
			continue
		}
		rows = append(rows, FactorRow{Mode: m, Label: m.Label(), Factor: f.TransportFactor(m)})
	}
	return rows
}
