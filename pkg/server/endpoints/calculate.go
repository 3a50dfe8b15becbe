package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/footprint/pkg/emissions"
	"github.com/doodlesbykumbi/footprint/pkg/server"
)

// activityRequest is the activity part of calculate and entry requests.
type activityRequest struct {
	TransportMode string  `json:"transport_mode" validate:"required"`
	Distance      float64 `json:"distance" validate:"gte=0"`
	Electricity   float64 `json:"electricity" validate:"gte=0"`
	LPG           float64 `json:"lpg" validate:"gte=0"`
}

// activity converts the request, reporting an unknown mode as a validation error.
func (a activityRequest) activity() (emissions.Activity, error) {
	mode, err := emissions.ParseTransportMode(a.TransportMode)
	if err != nil {
		return emissions.Activity{}, err
	}
	act := emissions.Activity{
		DistanceKm:     a.Distance,
		Mode:           mode,
		ElectricityKWh: a.Electricity,
		LPGKg:          a.LPG,
	}
	return act, act.Validate()
}

// FactorsResponse is the published factor table
type FactorsResponse struct {
	Transport   []emissions.FactorRow `json:"transport"`
	Electricity float64               `json:"electricity_kg_co2_per_kwh"`
	LPG         float64               `json:"lpg_kg_co2_per_kg"`
}

// CalculateResponse echoes the activity with its emissions
type CalculateResponse struct {
	TransportMode emissions.TransportMode `json:"transport_mode"`
	Distance      float64                 `json:"distance"`
	Electricity   float64                 `json:"electricity"`
	LPG           float64                 `json:"lpg"`
	emissions.Breakdown
}

// RegisterCalculateEndpoints registers /factors and /calculate
func RegisterCalculateEndpoints(s *server.Server) {
	s.Router.HandleFunc("/factors", handleFactors(s)).Methods("GET")
	s.Router.HandleFunc("/calculate", handleCalculate(s)).Methods("POST")
}

func handleFactors(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := s.Factors()
		respondWithJSON(w, http.StatusOK, FactorsResponse{
			Transport:   f.Table(),
			Electricity: f.Electricity,
			LPG:         f.LPG,
		})
	}
}

func handleCalculate(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activityRequest
		if !decodeJSON(s, w, r, &req) {
			return
		}
		act, err := req.activity()
		if err != nil {
			unprocessable(w, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, CalculateResponse{
			TransportMode: act.Mode,
			Distance:      act.DistanceKm,
			Electricity:   act.ElectricityKWh,
			LPG:           act.LPGKg,
			Breakdown:     s.Factors().Compute(act),
		})
	}
}
