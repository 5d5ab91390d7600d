// Package session reads the marker files produced by the measurement GUI.
// The schema is the GUI's native one: the scanned image path, the ordered
// marker list with optional start/end designations, the dL corridor
// half-width, and the operator's angle reference line.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/chamber-lab/trackfit/internal/geom"
)

// PointRecord is one marker as stored in the file. Designation is
// "start", "end" or empty.
type PointRecord struct {
	Designation string  `json:"designation"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Coord is a bare coordinate pair, used for the reference line endpoints.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Session is the parsed marker file. DL is stored as free text by the
// GUI; ParseDL interprets it.
type Session struct {
	ImageFileName   string        `json:"imageFileName"`
	Points          []PointRecord `json:"points"`
	DL              string        `json:"dl,omitempty"`
	RefInitialPoint *Coord        `json:"refInitialPoint,omitempty"`
	RefFinalPoint   *Coord        `json:"refFinalPoint,omitempty"`
}

// Load reads and parses a marker file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker file: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid marker file %s: %w", path, err)
	}
	return &s, nil
}

// Markers converts the stored points into a marker list, attaching
// markerErr as the position uncertainty of every marker. Designations
// other than "start" and "end" are ignored.
func (s *Session) Markers(markerErr float64) *geom.MarkerList {
	list := geom.NewMarkerList()
	for _, p := range s.Points {
		m := list.Add(geom.NewPoint(p.X, p.Y, markerErr))
		if p.Designation == geom.DesignationStart || p.Designation == geom.DesignationEnd {
			list.SetDesignation(m.ID, p.Designation)
		}
	}
	return list
}

// RefLine returns the reference line endpoints when the file has a
// complete reference line.
func (s *Session) RefLine() (a, b geom.Point, ok bool) {
	if s.RefInitialPoint == nil || s.RefFinalPoint == nil {
		return geom.Point{}, geom.Point{}, false
	}
	return geom.NewPoint(s.RefInitialPoint.X, s.RefInitialPoint.Y, 0),
		geom.NewPoint(s.RefFinalPoint.X, s.RefFinalPoint.Y, 0), true
}

// ParseDL interprets the free-text dL field. Empty or unparseable text
// means no corridor, matching the GUI's behaviour.
func (s *Session) ParseDL() float64 {
	if s.DL == "" {
		return 0
	}
	dl, err := strconv.ParseFloat(s.DL, 64)
	if err != nil {
		return 0
	}
	return dl
}
