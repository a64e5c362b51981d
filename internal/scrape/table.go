package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

// TableExtractor handles pages that list partner institutions in plain
// HTML tables, one row per institution with the country in the first
// column and a linked institution name in the second. The structure is
// regular enough to parse without AI.
type TableExtractor struct {
	resolver CountryResolver
}

func NewTableExtractor(resolver CountryResolver) *TableExtractor {
	return &TableExtractor{resolver: resolver}
}

func (e *TableExtractor) ExtractSections(ctx context.Context, html string, lang domain.Lang) (domain.SectionedDestinations, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	out := domain.SectionedDestinations{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		title := tableTitle(table, lang)
		if blocklisted(title) {
			return
		}

		records := out[title]
		if records == nil {
			records = []domain.DestinationRecord{}
		}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return // header row or filler
			}
			country := dedupeTokens(strings.TrimSpace(cells.Eq(0).Text()))
			name := cells.Eq(1)
			link := ""
			inst := strings.TrimSpace(name.Text())
			if a := name.Find("a").First(); a.Length() > 0 {
				link = strings.TrimSpace(a.AttrOr("href", ""))
				if t := strings.TrimSpace(a.Text()); t != "" {
					inst = t
				}
			}
			records = append(records, domain.DestinationRecord{
				Country: country,
				Title:   inst,
				Link:    link,
			})
		})

		attachCoordinates(records, lang, e.resolver)
		out[title] = records
	})
	return out, nil
}

// tableTitle prefers the table's caption, then the closest preceding
// sibling heading. Untitled tables fall into a per-language default
// bucket instead of being dropped.
func tableTitle(table *goquery.Selection, lang domain.Lang) string {
	if caption := strings.TrimSpace(table.Find("caption").First().Text()); caption != "" {
		return caption
	}
	if h := strings.TrimSpace(table.PrevAllFiltered("h2, h3").First().Text()); h != "" {
		return h
	}
	if lang == domain.LangFI {
		return "Yhteistyökorkeakoulut"
	}
	return "Partner institutions"
}
