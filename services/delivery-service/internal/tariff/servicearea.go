package tariff

// ServiceArea lists the cities a merchant delivers to. An empty list serves nowhere.
type ServiceArea struct {
	Cities []string
}

// IsCityServed reports whether city matches any city of the area.
func IsCityServed(area ServiceArea, city string) bool {
	c := Normalize(city)
	if c == "" {
		return false
	}
	for _, served := range area.Cities {
		if matchNormalized(Normalize(served), c) {
			return true
		}
	}
	return false
}
