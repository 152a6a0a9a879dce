package geomap

import "math"

// LatLng geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BoundingBox axis-aligned region covering a marker set.
type BoundingBox struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

// Viewport is what the browser-side map is asked to show.
type Viewport struct {
	Center LatLng       `json:"center"`
	Zoom   float64      `json:"zoom"`
	Bounds *BoundingBox `json:"bounds,omitempty"`
}

// Fitting parameters. MaxZoom keeps a single station from over-zooming.
const (
	DefaultPaddingFraction = 0.1
	MaxZoom                = 16.0
)

// DefaultViewport is shown when there are no markers or fitting fails.
var DefaultViewport = Viewport{
	Center: LatLng{Lat: 12.9716, Lng: 77.5946},
	Zoom:   12,
}

// FitBounds computes the minimal padded region covering all points and a zoom
// capped at maxZoom. Zero points, bad padding, or non-finite coordinates fall
// back to DefaultViewport; this function never panics past the package.
func FitBounds(points []LatLng, paddingFraction, maxZoom float64) Viewport {
	if len(points) == 0 {
		return DefaultViewport
	}
	if math.IsNaN(paddingFraction) || paddingFraction < 0 {
		paddingFraction = DefaultPaddingFraction
	}
	if maxZoom <= 0 {
		maxZoom = MaxZoom
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, p := range points {
		if !finite(p.Lat) || !finite(p.Lng) {
			return DefaultViewport
		}
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLng = math.Max(maxLng, p.Lng)
	}

	latPad := (maxLat - minLat) * paddingFraction
	lngPad := (maxLng - minLng) * paddingFraction
	box := &BoundingBox{
		SouthWest: LatLng{Lat: minLat - latPad, Lng: minLng - lngPad},
		NorthEast: LatLng{Lat: maxLat + latPad, Lng: maxLng + lngPad},
	}

	center := LatLng{
		Lat: (box.SouthWest.Lat + box.NorthEast.Lat) / 2,
		Lng: (box.SouthWest.Lng + box.NorthEast.Lng) / 2,
	}

	return Viewport{
		Center: center,
		Zoom:   zoomForSpan(box, maxZoom),
		Bounds: box,
	}
}

// zoomForSpan picks the largest web-mercator zoom whose tile span still
// covers the box. A degenerate single-point box hits the ceiling.
func zoomForSpan(box *BoundingBox, maxZoom float64) float64 {
	latSpan := box.NorthEast.Lat - box.SouthWest.Lat
	lngSpan := box.NorthEast.Lng - box.SouthWest.Lng
	span := math.Max(latSpan, lngSpan)
	if span <= 0 || !finite(span) {
		return maxZoom
	}
	zoom := math.Floor(math.Log2(360 / span))
	if zoom > maxZoom || !finite(zoom) {
		return maxZoom
	}
	if zoom < 1 {
		return 1
	}
	return zoom
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
