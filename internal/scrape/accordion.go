package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

// AccordionExtractor handles pages built from accordion widgets: each
// section is a div.accordion with a heading and one panel per country.
// Panel markup varies too much to parse structurally, so every panel is
// handed to the AI adapter together with the country name recovered from
// its aria-labelledby element.
type AccordionExtractor struct {
	records  RecordExtractor
	resolver CountryResolver
}

func NewAccordionExtractor(records RecordExtractor, resolver CountryResolver) *AccordionExtractor {
	return &AccordionExtractor{
		records:  records,
		resolver: resolver,
	}
}

func (e *AccordionExtractor) ExtractSections(ctx context.Context, html string, lang domain.Lang) (domain.SectionedDestinations, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	out := domain.SectionedDestinations{}
	aborted := false

	doc.Find("div.accordion").EachWithBreak(func(_ int, section *goquery.Selection) bool {
		title := strings.TrimSpace(section.Find("h2, h3").First().Text())
		if title == "" {
			// A section without a heading means the page layout changed
			// under us. Partial results would be misleading, so give up
			// on the whole document.
			aborted = true
			return false
		}
		if blocklisted(title) {
			return true
		}

		records := []domain.DestinationRecord{}
		var panelErr error
		section.Find("div.accordion__panel").EachWithBreak(func(_ int, panel *goquery.Selection) bool {
			panelHTML, err := panel.Html()
			if err != nil {
				panelErr = fmt.Errorf("read panel in %q: %w", title, err)
				return false
			}
			country := e.panelCountry(doc, panel)

			recs, err := e.records.Extract(ctx, title, panelHTML, country)
			if err != nil {
				panelErr = fmt.Errorf("extract panel in %q: %w", title, err)
				return false
			}
			records = append(records, recs...)
			return true
		})
		if panelErr != nil {
			err = panelErr
			return false
		}

		attachCoordinates(records, lang, e.resolver)
		out[title] = records
		return true
	})
	if err != nil {
		return nil, err
	}
	if aborted {
		return domain.SectionedDestinations{}, nil
	}
	return out, nil
}

// panelCountry recovers the country name behind a panel's aria-labelledby
// reference. Accordion labels tend to repeat the country name, so the
// text is token-deduplicated before use.
func (e *AccordionExtractor) panelCountry(doc *goquery.Document, panel *goquery.Selection) string {
	id, ok := panel.Attr("aria-labelledby")
	if !ok || id == "" {
		return ""
	}
	label := doc.Find("#" + id).First().Text()
	return dedupeTokens(strings.TrimSpace(label))
}
