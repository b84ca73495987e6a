package tariff

import "sort"

// MatchNeighborhood finds the active zone for an address. Zones of a matching city are
// tried for an exact neighborhood first, then for a partial one; the first listed wins.
func MatchNeighborhood(zones []Zone, city, neighborhood string) (Zone, bool) {
	c := Normalize(city)
	n := Normalize(neighborhood)
	if c == "" || n == "" {
		return Zone{}, false
	}

	type candidate struct {
		zone         Zone
		neighborhood string
	}
	var inCity []candidate
	for _, z := range zones {
		if !z.Active || !matchNormalized(Normalize(z.City), c) {
			continue
		}
		inCity = append(inCity, candidate{zone: z, neighborhood: Normalize(z.Neighborhood)})
	}

	for _, cand := range inCity {
		if cand.neighborhood != "" && cand.neighborhood == n {
			return cand.zone, true
		}
	}
	for _, cand := range inCity {
		if matchNormalized(cand.neighborhood, n) {
			return cand.zone, true
		}
	}
	return Zone{}, false
}

// MatchDistance picks the smallest distance tier that covers km. Zones without a
// positive MaxDistanceKm take no part; equal tiers keep their listed order.
func MatchDistance(zones []Zone, km float64) (Zone, bool) {
	if km < 0 {
		return Zone{}, false
	}
	var tiers []Zone
	for _, z := range zones {
		if z.Active && z.MaxDistanceKm > 0 {
			tiers = append(tiers, z)
		}
	}
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MaxDistanceKm < tiers[j].MaxDistanceKm })

	for _, z := range tiers {
		if z.MaxDistanceKm >= km {
			return z, true
		}
	}
	return Zone{}, false
}
