package geo

import (
	"math"
	"sort"
)

// EarthRadiusKm 지구 반지름 (구면 근사)
const EarthRadiusKm = 6371.0

// Point is an immutable latitude/longitude pair with an optional address.
type Point struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"long"`
	Address string  `json:"address,omitempty"`
}

// Valid reports whether the point holds finite coordinates within range.
func Valid(p Point) bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return false
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Distance returns the great-circle distance between two points in km
// using the haversine formula.
func Distance(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(latA)*math.Cos(latB)*math.Pow(math.Sin(dLng/2), 2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Locatable is anything that may carry coordinates. The second return
// value is false when the item has no location.
type Locatable interface {
	Coordinates() (Point, bool)
}

// Within annotates an item (by its index in the input slice) with its
// distance from the origin.
type Within struct {
	Index      int
	DistanceKm float64
}

// FilterByRadius keeps items located within maxDistanceKm of origin,
// sorted by ascending distance. Items without coordinates are excluded,
// never treated as distance 0.
func FilterByRadius(items []Locatable, origin Point, maxDistanceKm float64) []Within {
	within := make([]Within, 0, len(items))
	for i, item := range items {
		p, ok := item.Coordinates()
		if !ok {
			continue
		}
		d := Distance(origin, p)
		if d <= maxDistanceKm {
			within = append(within, Within{Index: i, DistanceKm: d})
		}
	}

	sort.Slice(within, func(i, j int) bool {
		return within[i].DistanceKm < within[j].DistanceKm
	})
	return within
}
