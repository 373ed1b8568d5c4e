// Command geominfo builds a demo detector and prints its geometry at
// the requested level of detail.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/sabasehrish/larcorealg/internal/config"
	"github.com/sabasehrish/larcorealg/internal/geom"
	"github.com/sabasehrish/larcorealg/internal/geom/geomtest"
	"github.com/sabasehrish/larcorealg/internal/units"
)

func main() {
	angles := flag.String("angles", "0,60,120", "wire angles in degrees, one plane each")
	verbosity := flag.Int("v", 2, "detail level, 0 (counts) to 4 (per-plane frames)")
	configPath := flag.String("config", "", "optional geometry config (JSON)")
	flag.Parse()

	params := geom.DefaultParams()
	params.DetectorName = "demo"
	if *configPath != "" {
		cfg, err := config.LoadGeometryConfig(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		params = cfg.Params()
	}

	wireAngles, err := parseAngles(*angles)
	if err != nil {
		log.Fatalf("parsing -angles: %v", err)
	}

	g, err := geomtest.NewDetector(params, wireAngles)
	if err != nil {
		log.Fatalf("building detector: %v", err)
	}

	fmt.Print(g.Info(*verbosity))
	fmt.Printf("views: ")
	for i, v := range g.Views() {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(geom.ViewName(v))
	}
	fmt.Println()
}

// parseAngles converts a comma-separated list of degrees to radians.
func parseAngles(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	angles := make([]float64, 0, len(parts))
	for _, p := range parts {
		deg, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad angle %q: %w", p, err)
		}
		angles = append(angles, units.DegToRad(deg))
	}
	if len(angles) == 0 {
		return nil, fmt.Errorf("no angles given")
	}
	return angles, nil
}
