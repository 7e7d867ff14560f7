// Command impactcalc estimates the effects of a single impact and prints the
// rounded figures the map shows.
//
// Usage:
//
//	go run ./cmd/impactcalc -diameter 1000 -velocity 20
//	go run ./cmd/impactcalc -diameter 120 -velocity 17 -angle 45 -material iron -json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
)

type result struct {
	Parameters domain.ImpactParameters `json:"parameters"`
	Estimate   domain.ImpactEstimate   `json:"estimate"`
	Display    domain.Display          `json:"display"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("impactcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	diameter := fs.Float64("diameter", 0, "impactor diameter in meters")
	velocity := fs.Float64("velocity", 0, "impact velocity in km/s")
	angle := fs.Float64("angle", domain.VerticalAngleDegrees, "impact angle in degrees from horizontal, (0, 90]")
	material := fs.String("material", string(domain.MaterialRock), "impactor material: rock, iron or ice")
	asJSON := fs.Bool("json", false, "print the full estimate as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	m, err := domain.ParseMaterial(*material)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	p := domain.ImpactParameters{
		DiameterMeters:   *diameter,
		VelocityKmPerSec: *velocity,
		AngleDegrees:     *angle,
		Material:         m,
	}
	if err := p.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}

	est := domain.Estimate(p)
	res := result{Parameters: p, Estimate: est, Display: domain.NewDisplay(est)}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	printTable(stdout, res)
	return 0
}

func printTable(w io.Writer, res result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	d := res.Display
	fmt.Fprintf(tw, "Energy\t%.2f Mt TNT\n", d.EnergyMegatons)
	fmt.Fprintf(tw, "Crater diameter\t%.0f m\n", d.CraterDiameterMeters)
	fmt.Fprintf(tw, "Thermal radius\t%.0f m\n", d.ThermalRadiusMeters)
	fmt.Fprintf(tw, "Shock radius\t%.0f m\n", d.ShockRadiusMeters)
	fmt.Fprintf(tw, "Seismic proxy\t%.0f\n", d.SeismicMagnitudeProxy)
	if d.GlobalEffectRadiusMeters > 0 {
		fmt.Fprintf(tw, "Global effects\t%.0f m\n", d.GlobalEffectRadiusMeters)
	} else {
		fmt.Fprintf(tw, "Global effects\tnone\n")
	}
	tw.Flush() //nolint:errcheck // stdout
}
