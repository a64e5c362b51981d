package domain

import (
	"fmt"
	"time"
)

// Field is a study field with its own destination source page.
type Field string

const (
	FieldTech     Field = "tech"
	FieldHealth   Field = "health"
	FieldBusiness Field = "business"
	FieldCulture  Field = "culture"

	// DefaultField is used when the requested field is absent or unknown.
	// The directory always answers something, so a bad field is a policy
	// fallback rather than an error.
	DefaultField = FieldTech
)

// Lang is a supported content language.
type Lang string

const (
	LangEN Lang = "en"
	LangFI Lang = "fi"
)

// ParseField maps raw input to a known Field, falling back to DefaultField.
func ParseField(raw string) Field {
	switch Field(raw) {
	case FieldTech, FieldHealth, FieldBusiness, FieldCulture:
		return Field(raw)
	}
	return DefaultField
}

// ParseLang validates raw input against the supported languages.
func ParseLang(raw string) (Lang, error) {
	switch Lang(raw) {
	case LangEN, LangFI:
		return Lang(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadLanguage, raw)
}

// Coordinates is a representative point for a country. Zero values mean the
// country could not be resolved; the API deliberately flattens "unknown" to
// 0/0 so consumers never see missing keys.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// DestinationRecord is one partner institution entry.
type DestinationRecord struct {
	Country     string      `json:"country" bson:"country"`
	Title       string      `json:"title" bson:"title"`
	Link        string      `json:"link" bson:"link"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

// SectionedDestinations groups records by section title. Order within a
// section reflects document order; sections themselves are unordered.
type SectionedDestinations map[string][]DestinationRecord

// CacheEntry is the last successfully built directory for a (field, lang)
// pair. (Field, Lang) is the natural key; entries are upserted on refresh.
type CacheEntry struct {
	Field       Field                 `bson:"field"`
	Lang        Lang                  `bson:"lang"`
	Sections    SectionedDestinations `bson:"sections"`
	LastUpdated time.Time             `bson:"lastUpdated"`
}

// CacheTTL bounds how long a scraped directory is served without a refresh.
// It exists to cap scraping and AI-extraction cost, not for correctness.
const CacheTTL = 30 * 24 * time.Hour

// Fresh reports whether the entry is servable without a refresh at the given
// time. The window is strict: an entry aged exactly CacheTTL is stale.
func (e *CacheEntry) Fresh(now time.Time) bool {
	return now.Sub(e.LastUpdated) < CacheTTL
}

// SourceURL is the admin-configured page to scrape for a (field, lang) pair.
type SourceURL struct {
	Field        Field     `bson:"field" json:"field"`
	Lang         Lang      `bson:"lang" json:"lang"`
	URL          string    `bson:"url" json:"url"`
	LastModified time.Time `bson:"lastModified" json:"lastModified"`
	UpdatedBy    string    `bson:"updatedBy" json:"updatedBy"`
}
