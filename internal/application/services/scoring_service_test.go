package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openlistings/directory/internal/domain/entities"
)

func floatPtr(v float64) *float64 { return &v }

func bizAt(lat, lng float64) *entities.Business {
	return &entities.Business{
		Latitude:  floatPtr(lat),
		Longitude: floatPtr(lng),
	}
}

func TestDistance_IdenticalCoordinates(t *testing.T) {
	engine := NewScoringEngine()
	assert.Zero(t, engine.Distance(39.78, -89.65, 39.78, -89.65))
}

func TestDistance_OneDegreeLongitudeAtEquator(t *testing.T) {
	engine := NewScoringEngine()
	distance := engine.Distance(0, 0, 0, 1)
	// One degree of longitude at the equator is about 111.2 km.
	assert.InEpsilon(t, 111.2, distance, 0.01)
}

func TestScore_BaseOnly(t *testing.T) {
	engine := NewScoringEngine()
	business := bizAt(10, 10)

	score := engine.Score(business, 10, 10, false, nil)
	assert.Equal(t, baseScore, score)
}

func TestScore_LocalityBoosts(t *testing.T) {
	engine := NewScoringEngine()
	business := bizAt(10, 10)
	business.Address.Zip = "62701"

	zipSet := map[string]struct{}{"62701": {}}

	score := engine.Score(business, 10, 10, true, zipSet)
	assert.Equal(t, baseScore+zipBoost+exactCityBoost, score)
}

func TestScore_QualitySignals(t *testing.T) {
	engine := NewScoringEngine()
	business := bizAt(10, 10)
	business.RatingValue = floatPtr(4.0)
	business.RatingCount = 8
	business.IsClaimed = true
	business.WebsiteURL = "https://example.com"
	business.WorkHours = entities.WorkHours{"monday": {{Open: "09:00", Close: "17:00"}}}

	// rating 4*2=8, log2(8)=3, claimed 3, website 2, hours 2
	score := engine.Score(business, 10, 10, false, nil)
	assert.InDelta(t, baseScore+8+3+3+2+2, score, 1e-9)
}

func TestScore_RatingBoostCapped(t *testing.T) {
	engine := NewScoringEngine()
	business := bizAt(10, 10)
	business.RatingValue = floatPtr(5.0)
	business.RatingCount = 100000

	score := engine.Score(business, 10, 10, false, nil)
	assert.InDelta(t, baseScore+maxRatingBoost+maxReviewBoost, score, 1e-9)
}

func TestDistancePenalty_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		expected float64
	}{
		{"at origin", 0, 0},
		{"inside first tier", 3, 4.5},
		{"first tier boundary", 5, 7.5},
		{"second tier", 15, 27.5},
		{"second tier boundary", 20, 37.5},
		{"third tier", 30, 62.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, distancePenalty(tt.distance), 1e-9)
		})
	}
}

func TestScore_MonotoneInDistanceWithinTier(t *testing.T) {
	engine := NewScoringEngine()

	// Roughly 0.02 and 0.04 degrees north of the target, both < 5km.
	near := bizAt(10.02, 10)
	far := bizAt(10.04, 10)

	nearScore := engine.Score(near, 10, 10, false, nil)
	farScore := engine.Score(far, 10, 10, false, nil)
	assert.Greater(t, nearScore, farScore)
}

func TestScore_CloserBusinessWinsAcrossTiers(t *testing.T) {
	engine := NewScoringEngine()

	// ~3km and ~15km north of the target (1 degree latitude ~ 111km).
	at3km := bizAt(10+3.0/111.0, 10)
	at15km := bizAt(10+15.0/111.0, 10)

	assert.Greater(t,
		engine.Score(at3km, 10, 10, false, nil),
		engine.Score(at15km, 10, 10, false, nil),
	)
}
