package geo

import (
	"testing"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

func testResolver() *Resolver {
	countries := map[domain.Lang]map[string]string{
		domain.LangEN: {
			"Sweden":               "SE",
			"France":               "FR",
			"United Kingdom":       "GB",
			"United States":        "US",
			"United Arab Emirates": "AE",
			"South Korea":          "KR",
			"Germany":              "DE",
		},
		domain.LangFI: {
			"Ruotsi":    "SE",
			"Ranska":    "FR",
			"Saksa":     "DE",
			"Yhdysvallat": "US",
		},
	}
	aliases := map[string]string{
		"UK":  "United Kingdom",
		"USA": "United States",
		"UAE": "United Arab Emirates",
		"ROK": "South Korea",
	}
	coords := map[string]domain.Coordinates{
		"SE": {Lat: 62.0, Lng: 15.0},
		"FR": {Lat: 46.2, Lng: 2.2},
		"GB": {Lat: 54.0, Lng: -2.0},
	}
	return NewResolver(countries, aliases, coords)
}

func TestResolveCountry(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name   string
		input  string
		lang   domain.Lang
		want   string
		wantOK bool
	}{
		{"exact english", "Sweden", domain.LangEN, "SE", true},
		{"case and whitespace", "  sweden ", domain.LangEN, "SE", true},
		{"collapsed inner whitespace", "united   kingdom", domain.LangEN, "GB", true},
		{"alias UK", "UK", domain.LangEN, "GB", true},
		{"alias USA", "USA", domain.LangEN, "US", true},
		{"alias UAE", "UAE", domain.LangEN, "AE", true},
		{"alias ROK", "ROK", domain.LangEN, "KR", true},
		{"misspelled", "Swede", domain.LangEN, "SE", true},
		{"dropped letter", "Frnce", domain.LangEN, "FR", true},
		{"finnish dictionary", "Ruotsi", domain.LangFI, "SE", true},
		{"finnish misspelled", "ruotsii", domain.LangFI, "SE", true},
		{"alias not applied for finnish", "UK", domain.LangFI, "", false},
		{"empty input", "   ", domain.LangEN, "", false},
		{"unknown language", "Sweden", domain.Lang("sv"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.ResolveCountry(tt.input, tt.lang)
			if ok != tt.wantOK {
				t.Fatalf("ResolveCountry(%q, %q) ok = %v, want %v", tt.input, tt.lang, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ResolveCountry(%q, %q) = %q, want %q", tt.input, tt.lang, got, tt.want)
			}
		})
	}
}

func TestResolveCountryAliasMatchesCanonical(t *testing.T) {
	r := testResolver()

	viaAlias, ok := r.ResolveCountry("UK", domain.LangEN)
	if !ok {
		t.Fatal("alias lookup failed")
	}
	viaName, ok := r.ResolveCountry("United Kingdom", domain.LangEN)
	if !ok {
		t.Fatal("canonical lookup failed")
	}
	if viaAlias != viaName {
		t.Errorf("alias resolved to %q, canonical to %q", viaAlias, viaName)
	}
}

func TestResolveCountryMultiByteNames(t *testing.T) {
	countries := map[domain.Lang]map[string]string{
		domain.LangFI: {
			"Tšekki":   "CZ",
			"Itävalta": "AT",
		},
	}
	r := NewResolver(countries, nil, nil)

	// Garbled enough that the subsequence matcher finds nothing, so the
	// rune-overlap fallback decides.
	got, ok := r.ResolveCountry("tšäkkö", domain.LangFI)
	if !ok {
		t.Fatal("expected a fallback match for a garbled multi-byte name")
	}
	if got != "CZ" {
		t.Errorf("ResolveCountry(%q) = %q, want %q", "tšäkkö", got, "CZ")
	}
}

func TestSimilarityRuneRatio(t *testing.T) {
	// "tšäkkö" spans six runes over nine bytes and shares four runes with
	// "tšekki". Dividing by byte length would give 4/9 and drop the score
	// under MinSimilarity.
	if got, want := similarity("tšäkkö", "tšekki"), 4.0/6.0; got != want {
		t.Errorf("similarity(%q, %q) = %v, want %v", "tšäkkö", "tšekki", got, want)
	}
	if similarity("tšäkkö", "tšekki") <= MinSimilarity {
		t.Error("score for a close multi-byte name should exceed MinSimilarity")
	}
}

func TestResolveCountryEmptyDictionary(t *testing.T) {
	r := NewResolver(map[domain.Lang]map[string]string{domain.LangEN: {}}, nil, nil)
	if _, ok := r.ResolveCountry("Sweden", domain.LangEN); ok {
		t.Error("expected no resolution from an empty dictionary")
	}
}

func TestResolveCoordinates(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name   string
		code   string
		want   domain.Coordinates
		wantOK bool
	}{
		{"known code", "FR", domain.Coordinates{Lat: 46.2, Lng: 2.2}, true},
		{"absent code", "XX", domain.Coordinates{}, false},
		{"empty code", "", domain.Coordinates{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.ResolveCoordinates(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("ResolveCoordinates(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ResolveCoordinates(%q) = %+v, want %+v", tt.code, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Sweden  ", "sweden"},
		{"UNITED   KINGDOM", "united kingdom"},
		{"a\tb\nc", "a b c"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
