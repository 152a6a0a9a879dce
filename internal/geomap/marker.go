package geomap

import (
	"encoding/base64"
	"fmt"

	"github.com/plugspot/plugspot/internal/models"
)

// Pin geometry shared by every marker; only the fill color varies per status.
const markerSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="28" height="40" viewBox="0 0 28 40">` +
	`<path d="M14 0C6.3 0 0 6.3 0 14c0 10.5 14 26 14 26s14-15.5 14-26C28 6.3 21.7 0 14 0z" fill="%s"/>` +
	`<circle cx="14" cy="14" r="6" fill="#ffffff"/>` +
	`<path d="M13 9l-3 6h2.5l-1 5 4.5-7h-2.5l1.5-4z" fill="%s"/>` +
	`</svg>`

// MarkerSVG renders the map-pin icon for a status. The output is a complete
// vector image so rendering hundreds of markers costs zero network fetches.
func MarkerSVG(status models.Status) string {
	color := status.Style().Color
	return fmt.Sprintf(markerSVG, color, color)
}

// MarkerDataURI is MarkerSVG wrapped as a data: URI, usable directly as a
// marker icon URL by the browser's mapping library.
func MarkerDataURI(status models.Status) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(MarkerSVG(status)))
}
