package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/footprint/pkg/config"
	"github.com/doodlesbykumbi/footprint/pkg/emissions"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Compute the emissions of a day's activity",
	Long: `Compute the emissions of a day's activity with the configured factors.

Example:
  footprintctl calculate --mode car_petrol --distance 12 --electricity 4.5 --lpg 0.2
  footprintctl calculate --mode "Matatu/Bus" --distance 30 --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		modeName, _ := cmd.Flags().GetString("mode")
		distance, _ := cmd.Flags().GetFloat64("distance")
		electricity, _ := cmd.Flags().GetFloat64("electricity")
		lpg, _ := cmd.Flags().GetFloat64("lpg")
		output, _ := cmd.Flags().GetString("output")

		mode, err := emissions.ParseTransportMode(modeName)
		if err != nil {
			fail("%v", err)
		}
		activity := emissions.Activity{DistanceKm: distance, Mode: mode, ElectricityKWh: electricity, LPGKg: lpg}
		if err := activity.Validate(); err != nil {
			fail("%v", err)
		}

		cfg, err := config.Load()
		if err != nil {
			fail("Failed to load configuration: %v", err)
		}
		factors, err := cfg.Factors()
		if err != nil {
			fail("Invalid emission factors: %v", err)
		}
		result := factors.Compute(activity)

		if output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(result)
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Transport (%s)\t%.2f kg\n", mode.Label(), result.Transport)
		fmt.Fprintf(tw, "Electricity\t%.2f kg\n", result.Electricity)
		fmt.Fprintf(tw, "LPG\t%.2f kg\n", result.LPG)
		fmt.Fprintf(tw, "Total\t%.2f kg\n", result.Total)
		_ = tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(calculateCmd)
	calculateCmd.Flags().StringP("mode", "m", emissions.ModeCarPetrol.String(), "transport mode key or label")
	calculateCmd.Flags().Float64P("distance", "d", 0, "distance travelled in km")
	calculateCmd.Flags().Float64P("electricity", "e", 0, "electricity used in kWh")
	calculateCmd.Flags().Float64P("lpg", "l", 0, "LPG used in kg")
	calculateCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}
