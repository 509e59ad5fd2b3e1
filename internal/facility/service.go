package facility

import (
	"context"
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// kmPerDegreeLat is close enough for a bounding-box prefilter; the haversine
// pass below does the exact cut.
const kmPerDegreeLat = 111.0

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Nearby returns facilities within radiusKm of the given point, optionally
// filtered by keyword, annotated with distance and sorted ascending by it.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64, keyword string) ([]Result, error) {
	latDelta := radiusKm / kmPerDegreeLat
	lngDelta := latDelta
	if cos := math.Cos(lat * math.Pi / 180); cos > 0.01 {
		lngDelta = radiusKm / (kmPerDegreeLat * cos)
	}

	candidates, err := s.repo.Within(ctx,
		lat-latDelta, lat+latDelta,
		lng-lngDelta, lng+lngDelta,
		keyword)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(candidates))
	for _, f := range candidates {
		d := haversineKm(lat, lng, f.Lat, f.Lng)
		if d > radiusKm {
			continue
		}
		results = append(results, Result{Facility: f, DistanceKm: d})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	return results, nil
}

// haversineKm computes the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
