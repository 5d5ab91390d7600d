package geom

// Marker designations. A marker list has at most one start and one end
// marker; the rest are undesignated.
const (
	DesignationNone  = ""
	DesignationStart = "start"
	DesignationEnd   = "end"
)

// Marker is an operator-placed point on the track image. ID is unique
// within its list and is only used for display.
type Marker struct {
	ID          int
	Designation string
	Point       Point
}

// MarkerList is an ordered collection of track markers. Insertion order is
// preserved; the fit itself does not depend on it, but the start and end
// accessors fall back to the first and last marker when no explicit
// designation has been set.
type MarkerList struct {
	markers []Marker
}

// NewMarkerList returns an empty marker list.
func NewMarkerList() *MarkerList {
	return &MarkerList{}
}

// Add appends a marker at p and returns it. IDs increase monotonically
// from 1, following the numbering the operator sees.
func (l *MarkerList) Add(p Point) Marker {
	id := 1
	if n := len(l.markers); n > 0 {
		id = l.markers[n-1].ID + 1
	}
	m := Marker{ID: id, Point: p}
	l.markers = append(l.markers, m)
	return m
}

// Len returns the number of markers in the list.
func (l *MarkerList) Len() int {
	return len(l.markers)
}

// At returns the marker at index i in insertion order.
func (l *MarkerList) At(i int) Marker {
	return l.markers[i]
}

// Points returns the marker positions in insertion order.
func (l *MarkerList) Points() []Point {
	pts := make([]Point, len(l.markers))
	for i, m := range l.markers {
		pts[i] = m.Point
	}
	return pts
}

// SetDesignation designates the marker with the given id as the start or
// end of the track, clearing any previous marker with the same
// designation. It reports whether a marker with that id exists.
func (l *MarkerList) SetDesignation(id int, designation string) bool {
	if designation != DesignationStart && designation != DesignationEnd {
		return false
	}
	found := false
	for i := range l.markers {
		if l.markers[i].ID == id {
			found = true
		}
	}
	if !found {
		return false
	}
	for i := range l.markers {
		if l.markers[i].Designation == designation {
			l.markers[i].Designation = DesignationNone
		}
	}
	for i := range l.markers {
		if l.markers[i].ID == id {
			l.markers[i].Designation = designation
		}
	}
	return true
}

// StartPoint returns the marker designated as the track start, falling
// back to the first marker. ok is false only when the list is empty.
func (l *MarkerList) StartPoint() (Marker, bool) {
	return l.designated(DesignationStart, 0)
}

// EndPoint returns the marker designated as the track end, falling back
// to the last marker. ok is false only when the list is empty.
func (l *MarkerList) EndPoint() (Marker, bool) {
	return l.designated(DesignationEnd, len(l.markers)-1)
}

func (l *MarkerList) designated(designation string, fallback int) (Marker, bool) {
	if len(l.markers) == 0 {
		return Marker{}, false
	}
	for _, m := range l.markers {
		if m.Designation == designation {
			return m, true
		}
	}
	return l.markers[fallback], true
}
