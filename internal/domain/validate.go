package domain

import "math"

// Valid reports whether a record satisfies the structural predicate the API
// guarantees: non-empty country and title, a link that is at least present
// (empty string allowed), and finite numeric coordinates.
func (r DestinationRecord) Valid() bool {
	if r.Country == "" || r.Title == "" {
		return false
	}
	if math.IsNaN(r.Coordinates.Lat) || math.IsNaN(r.Coordinates.Lng) {
		return false
	}
	if math.IsInf(r.Coordinates.Lat, 0) || math.IsInf(r.Coordinates.Lng, 0) {
		return false
	}
	return true
}

// FilterValid drops records failing the structural predicate. Dropping is
// silent: a best-effort scraping pipeline keeps whatever survived rather than
// failing the whole section.
func FilterValid(records []DestinationRecord) []DestinationRecord {
	kept := make([]DestinationRecord, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			kept = append(kept, r)
		}
	}
	return kept
}
