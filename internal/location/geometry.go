package location

import (
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// minRingVertices is the smallest number of distinct vertices that can
// enclose an area.
const minRingVertices = 3

// polygonCentroid parses parcel geometry text and returns the centroid as
// lat/lng. WKT stores coordinates X Y, i.e. lng before lat. Any parse
// failure, non-areal geometry, or degenerate ring reports ok=false so the
// trust ladder can fall through; it is never an error.
func polygonCentroid(wktText string) (lat, lng float64, ok bool) {
	wktText = strings.TrimSpace(wktText)
	if wktText == "" {
		return 0, 0, false
	}

	g, err := wkt.Unmarshal(wktText)
	if err != nil {
		zap.L().Debug("location: unparsable parcel geometry", zap.Error(err))
		return 0, 0, false
	}

	switch poly := g.(type) {
	case *geom.Polygon:
		if poly.NumLinearRings() == 0 || distinctVertices(poly.LinearRing(0)) < minRingVertices {
			return 0, 0, false
		}
	case *geom.MultiPolygon:
		if poly.NumPolygons() == 0 {
			return 0, 0, false
		}
		first := poly.Polygon(0)
		if first.NumLinearRings() == 0 || distinctVertices(first.LinearRing(0)) < minRingVertices {
			return 0, 0, false
		}
	default:
		zap.L().Debug("location: parcel geometry is not areal", zap.String("type", wktText[:min(12, len(wktText))]))
		return 0, 0, false
	}

	c, err := xy.Centroid(g)
	if err != nil {
		zap.L().Debug("location: centroid computation failed", zap.Error(err))
		return 0, 0, false
	}
	return c.Y(), c.X(), true
}

// distinctVertices counts ring vertices, ignoring the conventional closing
// repeat of the first point.
func distinctVertices(ring *geom.LinearRing) int {
	n := ring.NumCoords()
	if n >= 2 && ring.Coord(0).Equal(geom.XY, ring.Coord(n-1)) {
		n--
	}
	return n
}
