package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/woopit/woopit-server/internal/geo"
)

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	d := geo.DistanceKm(45.4642, 9.1900, 45.4642, 9.1900)
	assert.Equal(t, 0.0, d)
}

func TestDistanceKm_OneDegreeLatitude(t *testing.T) {
	// one degree of latitude is ~111 km anywhere on the globe
	d := geo.DistanceKm(45.0, 9.0, 46.0, 9.0)
	assert.InDelta(t, 111.2, d, 1.2)
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{45.4642, 9.1900, 41.9028, 12.4964}, // Milan - Rome
		{45.4642, 9.1900, 45.0703, 7.6869},  // Milan - Turin
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, p := range pairs {
		ab := geo.DistanceKm(p[0], p[1], p[2], p[3])
		ba := geo.DistanceKm(p[2], p[3], p[0], p[1])
		assert.InEpsilon(t, ab, ba, 1e-9)
	}
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Milan - Rome is roughly 477 km
	d := geo.DistanceKm(45.4642, 9.1900, 41.9028, 12.4964)
	assert.InDelta(t, 477, d, 10)
	assert.False(t, math.IsNaN(d))
}
