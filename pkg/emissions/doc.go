// Package emissions converts daily activity into kg CO2.
//
// An Activity records distance travelled with a transport mode, electricity
// used and LPG burned. Factors holds the kg CO2 per unit for each of these;
// Compute applies them and returns a per-category Breakdown.
//
//	factors := emissions.DefaultFactors()
//	b := factors.Compute(emissions.Activity{
//	    DistanceKm:     12,
//	    Mode:           emissions.ModeCarPetrol,
//	    ElectricityKWh: 5,
//	})
//	fmt.Printf("%.2f kg\n", b.Total)
package emissions
