package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// LatLong is a geographic coordinate pair. The csv and parquet codecs store
// it in its text form, e.g. "(40.5, -73.9)"; pickle stores it natively.
type LatLong struct {
	Lat float64
	Lon float64
}

func (ll LatLong) String() string {
	return fmt.Sprintf("(%s, %s)",
		strconv.FormatFloat(ll.Lat, 'f', -1, 64),
		strconv.FormatFloat(ll.Lon, 'f', -1, 64))
}

// ParseLatLong decodes the text form of a coordinate pair: the first and
// last characters are stripped, the remainder is split on the comma and both
// parts are parsed as floating-point numbers.
func ParseLatLong(s string) (LatLong, error) {
	if len(s) < 2 {
		return LatLong{}, fmt.Errorf("malformed latlong %q", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return LatLong{}, fmt.Errorf("malformed latlong %q: expected two components", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLong{}, fmt.Errorf("malformed latlong %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLong{}, fmt.Errorf("malformed latlong %q: %w", s, err)
	}
	return LatLong{Lat: lat, Lon: lon}, nil
}
