package geodata

import (
	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/geo"
)

// Mapper converts a parsed geodata file into resolver dictionaries.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapResolver builds a geo.Resolver from the file contents. Languages that
// the service does not serve are ignored rather than rejected, so the data
// file can carry extra dictionaries.
func (m *Mapper) MapResolver(f *File) *geo.Resolver {
	countries := make(map[domain.Lang]map[string]string)
	for lang, dict := range f.Countries {
		parsed, err := domain.ParseLang(lang)
		if err != nil {
			continue
		}
		countries[parsed] = dict
	}

	coords := make(map[string]domain.Coordinates, len(f.Coordinates))
	for code, p := range f.Coordinates {
		coords[code] = domain.Coordinates{Lat: p.Lat, Lng: p.Lng}
	}

	return geo.NewResolver(countries, f.Aliases, coords)
}
