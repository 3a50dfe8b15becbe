package emissions

//go:generate go run github.com/dmarkham/enumer -type TransportMode -trimprefix Mode -transform snake -json -yaml -text -sql -output transport_mode.gen.go

import (
	"fmt"
	"strings"
)

// TransportMode is the vehicle used for the distance of an activity.
type TransportMode int

const (
	ModeCarPetrol TransportMode = iota
	ModeCarDiesel
	ModeMotorbike
	ModeBus
	ModeBicycleWalking
	// ModeOther stands in for modes without a published factor.
	ModeOther
)

var modeLabels = map[TransportMode]string{
	ModeCarPetrol:      "Car (Petrol)",
	ModeCarDiesel:      "Car (Diesel)",
	ModeMotorbike:      "Motorbike",
	ModeBus:            "Matatu/Bus",
	ModeBicycleWalking: "Bicycle/Walking",
	ModeOther:          "Other",
}

// Label returns the human readable name used in forms and CSV files.
func (t TransportMode) Label() string {
	if l, ok := modeLabels[t]; ok {
		return l
	}
	return t.String()
}

// ParseTransportMode accepts either the mode key ("car_petrol") or its
// label ("Car (Petrol)"), ignoring case and surrounding whitespace.
func ParseTransportMode(s string) (TransportMode, error) {
	s = strings.TrimSpace(s)
	if m, err := TransportModeString(s); err == nil {
		return m, nil
	}
	for m, label := range modeLabels {
		if strings.EqualFold(label, s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown transport mode %q", s)
}
