// Package geo resolves free-text country names to ISO codes and
// representative coordinates. The dictionaries are immutable after
// construction, so a Resolver is safe for concurrent use.
package geo

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

// MinSimilarity must be exceeded by the character-overlap fallback when the
// subsequence matcher finds nothing.
const MinSimilarity = 0.5

type dictionary struct {
	// normalized holds lowercased, whitespace-collapsed keys in the same
	// order as canonical, so a fuzzy match index maps back to the original
	// dictionary key.
	normalized []string
	canonical  []string
	codes      map[string]string // canonical name -> ISO code
}

// Resolver fuzzy-matches country names against per-language dictionaries and
// maps ISO codes to coordinates.
type Resolver struct {
	dicts   map[domain.Lang]*dictionary
	aliases map[string]string // raw alias -> canonical english name, e.g. "UK" -> "United Kingdom"
	coords  map[string]domain.Coordinates
}

// NewResolver builds a Resolver from canonical name->ISO dictionaries, an
// English alias table, and an ISO->coordinate table.
func NewResolver(
	countries map[domain.Lang]map[string]string,
	aliases map[string]string,
	coords map[string]domain.Coordinates,
) *Resolver {
	r := &Resolver{
		dicts:   make(map[domain.Lang]*dictionary, len(countries)),
		aliases: aliases,
		coords:  coords,
	}
	for lang, codes := range countries {
		d := &dictionary{codes: codes}
		for name := range codes {
			d.canonical = append(d.canonical, name)
			d.normalized = append(d.normalized, Normalize(name))
		}
		r.dicts[lang] = d
	}
	return r
}

// Normalize trims, lowercases and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// ResolveCountry maps a free-text country name (possibly misspelled,
// abbreviated or in Finnish) to an ISO code. For English input the raw,
// non-normalized name is first checked against the alias table ("UK", "USA",
// ...) which bypasses fuzzy matching entirely. Absence is a valid outcome,
// not an error: ok=false means "unknown country" and downstream treats it as
// missing coordinates.
func (r *Resolver) ResolveCountry(name string, lang domain.Lang) (string, bool) {
	dict, exists := r.dicts[lang]
	if !exists || len(dict.canonical) == 0 {
		return "", false
	}

	if lang == domain.LangEN {
		if canonical, ok := r.aliases[name]; ok {
			if code, ok := dict.codes[canonical]; ok {
				return code, true
			}
		}
	}

	needle := Normalize(name)
	if needle == "" {
		return "", false
	}

	// Exact normalized hit avoids matcher ambiguity for clean input.
	for i, key := range dict.normalized {
		if key == needle {
			return dict.codes[dict.canonical[i]], true
		}
	}

	if matches := fuzzy.Find(needle, dict.normalized); len(matches) > 0 {
		return dict.codes[dict.canonical[matches[0].Index]], true
	}

	// The subsequence matcher misses transposed or swallowed characters, so
	// fall back to a character-overlap ranking of all candidates.
	best, score := -1, 0.0
	for i, key := range dict.normalized {
		if s := similarity(needle, key); s > score {
			best, score = i, s
		}
	}
	if best < 0 || score <= MinSimilarity {
		return "", false
	}
	return dict.codes[dict.canonical[best]], true
}

// ResolveCoordinates is a pure table lookup. ok=false when the code is
// absent; the destination is still valid, just unmapped on a map view.
func (r *Resolver) ResolveCoordinates(isoCode string) (domain.Coordinates, bool) {
	c, ok := r.coords[isoCode]
	return c, ok
}

// similarity is the ratio of needle runes present in the candidate.
// Both the count and the denominator are in runes, not bytes.
func similarity(needle, candidate string) float64 {
	if needle == "" || candidate == "" {
		return 0.0
	}
	matches := 0
	for _, c := range needle {
		if strings.ContainsRune(candidate, c) {
			matches++
		}
	}
	return float64(matches) / float64(utf8.RuneCountInString(needle))
}
