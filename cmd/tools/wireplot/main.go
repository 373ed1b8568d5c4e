// Command wireplot renders the wires of one plane of a demo detector
// on the transverse (z, y) plane and saves the result as an image.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sabasehrish/larcorealg/internal/geom"
	"github.com/sabasehrish/larcorealg/internal/geom/geomtest"
	"github.com/sabasehrish/larcorealg/internal/units"
)

func main() {
	output := flag.String("o", "wires.png", "output image path")
	angles := flag.String("angles", "0,60,120", "wire angles in degrees, one plane each")
	planeNo := flag.Int("plane", 0, "plane to draw")
	flag.Parse()

	wireAngles, err := parseAngles(*angles)
	if err != nil {
		log.Fatalf("parsing -angles: %v", err)
	}

	g, err := geomtest.NewTPCGeometry("demo", wireAngles)
	if err != nil {
		log.Fatalf("building detector: %v", err)
	}
	plane, err := g.Plane(geom.NewPlaneID(0, 0, *planeNo))
	if err != nil {
		log.Fatalf("selecting plane: %v", err)
	}

	if err := drawPlane(plane, *output); err != nil {
		log.Fatalf("drawing plane: %v", err)
	}
	log.Printf("wrote %s (%d wires, view %s)",
		*output, plane.NWires(), geom.ViewName(plane.View()))
}

// drawPlane plots every wire of the plane as a segment in (z, y).
func drawPlane(plane *geom.Plane, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Plane %v - %d wires, pitch %g cm",
		plane.ID(), plane.NWires(), plane.WirePitch())
	p.X.Label.Text = "z (cm)"
	p.Y.Label.Text = "y (cm)"

	for i, wire := range plane.Wires() {
		start, end := wire.Start(), wire.End()
		line, err := plotter.NewLine(plotter.XYs{
			{X: start.Z, Y: start.Y},
			{X: end.Z, Y: end.Y},
		})
		if err != nil {
			return err
		}
		line.Width = vg.Points(1)
		line.Color = wireColor(i, plane.NWires())
		p.Add(line)
	}

	// Mark the first wire so the numbering direction is visible.
	first := plane.FirstWire()
	mark, err := plotter.NewScatter(plotter.XYs{{X: first.Center().Z, Y: first.Center().Y}})
	if err != nil {
		return err
	}
	p.Add(mark)
	p.Legend.Add("wire 0", mark)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}

// wireColor shades wires from dark to light along the numbering order.
func wireColor(i, n int) color.Color {
	shade := uint8(40 + 180*i/n)
	return color.RGBA{R: shade, G: 40, B: 200 - shade/2, A: 255}
}

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
