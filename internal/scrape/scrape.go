// Package scrape parses partner-institution source pages into sectioned
// destination records. Field-specific extractors share the same output
// shape; the generic accordion extractor delegates ambiguous panel content
// to the AI adapter, while the table extractor is purely structural.
package scrape

import (
	"context"
	"strings"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

// Blocklist contains section headings that carry application boilerplate
// rather than destinations. Matching is exact, so both the Finnish and
// English variants are listed verbatim.
var Blocklist = []string{
	"Tärkeää tietoa vaihtoon lähtevälle",
	"Important information for exchange students",
	"Hakuohjeet",
	"How to apply",
	"Yleistä tietoa",
	"General information",
}

// Extractor turns a fetched page into sectioned destinations.
type Extractor interface {
	ExtractSections(ctx context.Context, html string, lang domain.Lang) (domain.SectionedDestinations, error)
}

// RecordExtractor is the AI adapter boundary used by the accordion
// extractor.
type RecordExtractor interface {
	Extract(ctx context.Context, sectionTitle, panelHTML, panelCountry string) ([]domain.DestinationRecord, error)
}

// CountryResolver attaches ISO codes and coordinates to scraped countries.
type CountryResolver interface {
	ResolveCountry(name string, lang domain.Lang) (string, bool)
	ResolveCoordinates(isoCode string) (domain.Coordinates, bool)
}

func blocklisted(title string) bool {
	for _, b := range Blocklist {
		if title == b {
			return true
		}
	}
	return false
}

// dedupeTokens collapses consecutive repeated whitespace-separated tokens,
// handling labels that visually repeat themselves ("SWEDEN SWEDEN").
// Comparison is case-insensitive; the first occurrence is kept.
func dedupeTokens(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := fields[:1]
	for _, f := range fields[1:] {
		if !strings.EqualFold(f, out[len(out)-1]) {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

// attachCoordinates resolves each record's country and fills in
// coordinates. Unresolvable countries keep zero coordinates; the record
// stays valid, just unmapped.
func attachCoordinates(records []domain.DestinationRecord, lang domain.Lang, resolver CountryResolver) {
	for i := range records {
		code, ok := resolver.ResolveCountry(records[i].Country, lang)
		if !ok {
			continue
		}
		if c, ok := resolver.ResolveCoordinates(code); ok {
			records[i].Coordinates = c
		}
	}
}
