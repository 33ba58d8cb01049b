package route

import (
	"net/url"
	"strings"
)

// mapsDirBaseURL is the Google Maps directions deep-link prefix.
const mapsDirBaseURL = "https://www.google.com/maps/dir/"

// BuildMapsURL builds a Google Maps directions link visiting the stops in
// canonical order. Stops with coordinates contribute a "lat,lng" segment,
// the rest contribute their address text; every segment is path-escaped and
// followed by a slash. An empty stop list yields an empty string.
func BuildMapsURL(stops []Stop) string {
	if len(stops) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(mapsDirBaseURL)
	for _, s := range CanonicalOrder(stops) {
		segment := s.Address
		if s.HasCoordinates() {
			segment = s.Lat + "," + s.Lng
		}
		b.WriteString(url.PathEscape(segment))
		b.WriteString("/")
	}

	return b.String()
}
