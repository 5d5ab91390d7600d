// Package main provides the track analysis tool. It reads a marker file
// saved by the measurement GUI, fits a circle to the markers, derives the
// tangent and span angles, the track length, the momentum, and optionally
// the opening angle against the reference line and the optical density of
// the track on the scanned image.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/chamber-lab/trackfit/internal/config"
	"github.com/chamber-lab/trackfit/internal/session"
	"github.com/chamber-lab/trackfit/internal/track"
	"github.com/chamber-lab/trackfit/internal/units"
)

// Config holds the command line configuration.
type Config struct {
	MarkerFile string
	ImageFile  string
	ConfigFile string
	OutputJSON string
	Overrides  *config.AnalysisConfig
}

// Output is the machine-readable result bundle written with -json.
type Output struct {
	MarkerFile     string        `json:"marker_file"`
	Markers        int           `json:"markers"`
	Result         *track.Result `json:"result"`
	OpeningAngle   *float64      `json:"opening_angle,omitempty"`
	OpeningErr     *float64      `json:"opening_angle_err,omitempty"`
	OpticalDensity *float64      `json:"optical_density,omitempty"`
	OpticalErr     *float64      `json:"optical_density_err,omitempty"`
}

func main() {
	cfg := parseFlags()

	if cfg.MarkerFile == "" {
		log.Fatal("marker file is required (-markers)")
	}

	out, report, err := run(cfg)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Print(report)

	if cfg.OutputJSON != "" {
		if err := exportJSON(out, cfg.OutputJSON); err != nil {
			log.Fatalf("Failed to write JSON output: %v", err)
		}
		log.Printf("Results written to %s", cfg.OutputJSON)
	}
}

func parseFlags() *Config {
	cfg := &Config{Overrides: config.EmptyAnalysisConfig()}

	flag.StringVar(&cfg.MarkerFile, "markers", "", "marker file saved by the measurement GUI (JSON)")
	flag.StringVar(&cfg.ImageFile, "image", "", "scanned track image for optical density (defaults to the image recorded in the marker file)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "analysis config file (JSON)")
	flag.StringVar(&cfg.OutputJSON, "json", "", "write results to this file as JSON")

	scale := flag.Float64("scale", 0, "calibration scale in cm per pixel")
	scaleErr := flag.Float64("scale-err", 0, "calibration scale uncertainty in cm per pixel")
	field := flag.Float64("field", 0, "magnetic field strength in kilogauss")
	fieldErr := flag.Float64("field-err", 0, "magnetic field uncertainty in kilogauss")
	markerErr := flag.Float64("marker-err", 0, "marker placement uncertainty in pixels")
	dl := flag.Float64("dl", 0, "corridor half-width in pixels for optical density")
	unitsFlag := flag.String("units", "", "display units for lengths: "+units.GetValidUnitsString())

	flag.Parse()

	// Only flags the user actually set become overrides, so config file
	// values and defaults survive.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scale":
			cfg.Overrides.CmPerPx = scale
		case "scale-err":
			cfg.Overrides.CmPerPxErr = scaleErr
		case "field":
			cfg.Overrides.FieldKGauss = field
		case "field-err":
			cfg.Overrides.FieldErr = fieldErr
		case "marker-err":
			cfg.Overrides.MarkerErrPx = markerErr
		case "dl":
			cfg.Overrides.DL = dl
		case "units":
			cfg.Overrides.Units = unitsFlag
		}
	})

	return cfg
}

func run(cfg *Config) (*Output, string, error) {
	analysis := config.EmptyAnalysisConfig()
	if cfg.ConfigFile != "" {
		loaded, err := config.LoadAnalysisConfig(cfg.ConfigFile)
		if err != nil {
			return nil, "", err
		}
		analysis = loaded
	}
	analysis.Merge(cfg.Overrides)
	if err := analysis.Validate(); err != nil {
		return nil, "", err
	}

	sess, err := session.Load(cfg.MarkerFile)
	if err != nil {
		return nil, "", err
	}
	markers := sess.Markers(analysis.GetMarkerErrPx())

	result, err := track.Analyze(markers, analysis.Scale(), analysis.Field())
	if err != nil {
		return nil, "", err
	}

	out := &Output{
		MarkerFile: cfg.MarkerFile,
		Markers:    markers.Len(),
		Result:     result,
	}

	var report strings.Builder
	writeCircleReport(&report, result, analysis.GetUnits())
	writeMomentumReport(&report, result)
	writeLengthReport(&report, result, analysis.GetUnits())

	// Opening angle needs the operator's reference line.
	if refA, refB, ok := sess.RefLine(); ok {
		start, _ := markers.StartPoint()
		opening, openingErr, err := track.OpeningAngle(result.Circle, start.Point, result.Orientation, refA, refB)
		if err != nil {
			return nil, "", err
		}
		out.OpeningAngle = &opening
		out.OpeningErr = &openingErr
		fmt.Fprintf(&report, "---Opening Angle---\n")
		fmt.Fprintf(&report, "  Opening Angle:\t%.5f +/- %.5f [deg]\n", opening, openingErr)
	}

	// Optical density needs the scanned image and a non-zero corridor.
	dl := analysis.GetDL()
	if dl == 0 {
		dl = sess.ParseDL()
	}
	imagePath := cfg.ImageFile
	if imagePath == "" {
		imagePath = sess.ImageFileName
	}
	if dl > 0 && imagePath != "" {
		img, err := loadImage(imagePath)
		if err != nil {
			return nil, "", err
		}
		blackness, blacknessErr, err := track.Blackness(img, result.Circle, dl, result.StartAngle, result.Span)
		if err != nil {
			return nil, "", err
		}
		density, densityErr, err := track.OpticalDensity(blackness, blacknessErr, result.TrackLengthCm)
		if err != nil {
			return nil, "", err
		}
		out.OpticalDensity = &density
		out.OpticalErr = &densityErr
		fmt.Fprintf(&report, "---Optical Density---\n")
		fmt.Fprintf(&report, "  Optical density:\t%.5f +/- %.5f [1/cm] (with dL=%g)\n", density, densityErr, dl)
	}

	return out, report.String(), nil
}

func writeCircleReport(w *strings.Builder, res *track.Result, unit string) {
	c := res.Circle
	fmt.Fprintf(w, "---Fitted Circle---\n")
	fmt.Fprintf(w, "  Center (x coord):\t%.5f +/- %.5f [px]\n", c.CenterX, c.CenterXErr)
	fmt.Fprintf(w, "  Center (y coord):\t%.5f +/- %.5f [px]\n", c.CenterY, c.CenterYErr)
	fmt.Fprintf(w, "  Radius (px):\t\t%.5f +/- %.5f [px]\n", c.Radius, c.RadiusErr)
	fmt.Fprintf(w, "  Radius (%s):\t\t%.5f +/- %.5f (Stat) +/- %.5f (Cal) [%s]\n",
		unit,
		units.ConvertLength(res.RadiusCm.Cm, unit),
		units.ConvertLength(res.RadiusCm.StatErr, unit),
		units.ConvertLength(res.RadiusCm.CalErr, unit),
		unit)
	fmt.Fprintf(w, "  Fit RMS:\t\t%.5f [px]\n", c.RMS)
	fmt.Fprintf(w, "  Tangent Angle:\t%.5f +/- %.5f [deg]\n", res.TangentAngle, res.TangentErr)
}

func writeMomentumReport(w *strings.Builder, res *track.Result) {
	fmt.Fprintf(w, "---Track Momentum---\n")
	fmt.Fprintf(w, "  Track Momentum:\t%.5f +/- %.5f (Stat) +/- %.5f (Cal) [MeV/c]\n",
		res.Momentum.MeVc, res.Momentum.StatErr, res.Momentum.CalErr)
}

func writeLengthReport(w *strings.Builder, res *track.Result, unit string) {
	fmt.Fprintf(w, "---Track Length---\n")
	fmt.Fprintf(w, "  Track Length (px):\t%.5f [px]\n", res.TrackLengthPx)
	fmt.Fprintf(w, "  Track Length (%s):\t%.5f +/- %.5f [%s]\n",
		unit,
		units.ConvertLength(res.TrackLengthCm.Cm, unit),
		units.ConvertLength(res.TrackLengthCm.Uncertainty(), unit),
		unit)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

func exportJSON(out *Output, path string) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
