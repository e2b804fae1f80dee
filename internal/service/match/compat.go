package match

import (
	"math"

	"github.com/woopit/woopit-server/internal/db"
	"github.com/woopit/woopit-server/internal/geo"
)

// selectCompatible returns the subset of the candidate pool that is mutually
// compatible with req on distance.
//
// Behavior:
//   - A candidate qualifies when its distance to req is within the tighter of
//     the two declared radii: neither party is matched beyond their own stated
//     willingness to travel.
//   - Multiple pending requests from the same user collapse to one: the first
//     compatible one wins. The pool arrives in creation order, so "first" is
//     also "earliest".
//
// Activity, level, gender and group size were already constrained by the
// pending-bucket query; this step only applies geography and dedup.
func selectCompatible(req *db.MatchRequest, pool []db.MatchRequest) []db.MatchRequest {
	seen := make(map[uint64]bool, len(pool))
	compatible := make([]db.MatchRequest, 0, len(pool))

	for _, cand := range pool {
		if seen[cand.UserID] {
			continue
		}
		d := geo.DistanceKm(req.Latitude, req.Longitude, cand.Latitude, cand.Longitude)
		if d > math.Min(req.RadiusKm, cand.RadiusKm) {
			continue
		}
		seen[cand.UserID] = true
		compatible = append(compatible, cand)
	}

	return compatible
}

// insertByCreation places req into the already-ordered group, keeping the
// (created_at asc, id asc) order the truncation step relies on. Used by the
// exclude-self policy, where the requester's own row is absent from the pool.
func insertByCreation(group []db.MatchRequest, req db.MatchRequest) []db.MatchRequest {
	out := make([]db.MatchRequest, 0, len(group)+1)
	inserted := false
	for _, cand := range group {
		if !inserted && (req.CreatedAt.Before(cand.CreatedAt) ||
			(req.CreatedAt.Equal(cand.CreatedAt) && req.ID < cand.ID)) {
			out = append(out, req)
			inserted = true
		}
		out = append(out, cand)
	}
	if !inserted {
		out = append(out, req)
	}
	return out
}
