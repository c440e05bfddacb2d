package services

import (
	"math"

	"github.com/openlistings/directory/internal/domain/entities"
)

const earthRadiusKm = 6371.0

// Score composition. The base is adjusted by locality boosts, a tiered
// distance penalty and quality signals; higher is better.
const (
	baseScore      = 50.0
	zipBoost       = 40.0
	exactCityBoost = 30.0
	maxRatingBoost = 10.0
	maxReviewBoost = 5.0
	claimedBoost   = 3.0
	websiteBoost   = 2.0
	hoursBoost     = 2.0
)

// ScoringEngine computes relevance scores for businesses against a
// target location. It holds no state and has no side effects, so a
// single instance is safe for concurrent use.
type ScoringEngine struct{}

// NewScoringEngine creates a new scoring engine
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// Distance returns the great-circle distance in kilometers between two
// coordinate pairs (haversine formula)
func (e *ScoringEngine) Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Score computes the composite relevance score of one business for a
// target location. exactCityMatch is the caller's normalized city
// equality check and zipSet the queried location's ZIP membership set.
// Businesses without coordinates receive only the non-geographic parts
// of the score; the ranked query path never passes them in.
func (e *ScoringEngine) Score(business *entities.Business, targetLat, targetLng float64, exactCityMatch bool, zipSet map[string]struct{}) float64 {
	score := baseScore

	if _, ok := zipSet[business.Address.Zip]; ok {
		score += zipBoost
	}
	if exactCityMatch {
		score += exactCityBoost
	}

	if business.HasCoordinates() {
		distance := e.Distance(targetLat, targetLng, *business.Latitude, *business.Longitude)
		score -= distancePenalty(distance)
	}

	if business.RatingValue != nil {
		score += math.Min(*business.RatingValue*2, maxRatingBoost)
	}
	if business.RatingCount > 0 {
		score += math.Min(math.Log2(float64(business.RatingCount)), maxReviewBoost)
	}
	if business.IsClaimed {
		score += claimedBoost
	}
	if business.WebsiteURL != "" {
		score += websiteBoost
	}
	if len(business.WorkHours) > 0 {
		score += hoursBoost
	}

	return score
}

// distancePenalty grows piecewise with distance: 1.5/km inside 5 km,
// 2/km from 5 to 20 km, 2.5/km beyond
func distancePenalty(distanceKm float64) float64 {
	switch {
	case distanceKm <= 5:
		return distanceKm * 1.5
	case distanceKm <= 20:
		return 7.5 + (distanceKm-5)*2
	default:
		return 37.5 + (distanceKm-20)*2.5
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
