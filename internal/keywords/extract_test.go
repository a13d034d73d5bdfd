package keywords

import (
	"reflect"
	"testing"

	"github.com/jerilmartin/rankprobe/internal/fetcher"
)

func TestExtract(t *testing.T) {
	page := &fetcher.Page{
		Title:           "Premium Garden Tools | GreenThumb Supply",
		MetaKeywords:    "garden tools, compost bins",
		MetaDescription: "Shop the best garden tools for your yard.",
		Headings:        []string{"Best Garden Tools", "Read More"},
		AltTexts:        []string{"steel hand trowel"},
		AriaLabels:      []string{"Search products"},
	}

	got := Extract(page, []string{"GreenThumb Supply"}, 10)

	want := []string{
		"greenthumb supply",
		"premium garden tools",
		"garden tools",
		"compost bins",
		"best garden tools",
		"steel hand trowel",
		"search products",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractRespectsLimit(t *testing.T) {
	page := &fetcher.Page{
		Headings: []string{
			"garden tools", "compost bins", "hand trowels",
			"raised beds", "pruning shears",
		},
	}

	got := Extract(page, nil, 3)

	if len(got) != 3 {
		t.Fatalf("expected 3 keywords, got %d: %v", len(got), got)
	}
	if got[0] != "garden tools" {
		t.Errorf("expected earlier sources to win the cap, got %v", got)
	}
}

func TestExtractSeedsComeFirst(t *testing.T) {
	page := &fetcher.Page{Title: "Garden Tools"}

	got := Extract(page, []string{"  My Brand  ", ""}, 10)

	if len(got) == 0 || got[0] != "my brand" {
		t.Fatalf("expected cleaned seed first, got %v", got)
	}
}

func TestExtractNilPage(t *testing.T) {
	got := Extract(nil, []string{"brand name"}, 10)

	if len(got) != 1 || got[0] != "brand name" {
		t.Errorf("expected seeds only, got %v", got)
	}
}

func TestExtractFiltersBoilerplate(t *testing.T) {
	page := &fetcher.Page{
		Headings: []string{"Read More", "Learn More", "Privacy Policy", "garden tools"},
	}

	got := Extract(page, nil, 10)

	if !reflect.DeepEqual(got, []string{"garden tools"}) {
		t.Errorf("expected boilerplate filtered, got %v", got)
	}
}

func TestPhrasesFrom(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "stopword splits chunks",
			source: "Best Garden Tools for Beginners",
			want:   []string{"best garden tools"},
		},
		{
			name:   "two chunks from one segment",
			source: "Quality compost bins and garden supplies",
			want:   []string{"quality compost bins", "garden supplies"},
		},
		{
			name:   "long chunk truncates to three words",
			source: "Affordable raised garden beds online",
			want:   []string{"affordable raised garden"},
		},
		{
			name:   "separators split segments",
			source: "Garden Tools | Compost Bins: Contact",
			want:   []string{"garden tools", "compost bins"},
		},
		{
			name:   "single words dropped",
			source: "Home | About",
			want:   nil,
		},
		{
			name:   "stopwords only",
			source: "the and of",
			want:   nil,
		},
		{
			name:   "punctuation stripped from word edges",
			source: "Garden tools, (hand trowels)",
			want:   []string{"garden tools", "hand trowels"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := phrasesFrom(tt.source)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
