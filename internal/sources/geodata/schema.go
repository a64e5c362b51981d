package geodata

// File is the top-level structure of the geodata YAML file.
type File struct {
	// Countries maps language code -> canonical country name -> ISO code.
	Countries map[string]map[string]string `yaml:"countries"`

	// Aliases maps common English abbreviations to canonical names.
	Aliases map[string]string `yaml:"aliases"`

	// Coordinates maps ISO code -> representative point.
	Coordinates map[string]Point `yaml:"coordinates"`
}

// Point is a lat/lng pair as it appears in the file.
type Point struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}
