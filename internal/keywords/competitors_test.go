package keywords

import (
	"reflect"
	"testing"

	"github.com/jerilmartin/rankprobe/internal/serp"
	"github.com/jerilmartin/rankprobe/internal/types"
)

func TestAnalyzeGap(t *testing.T) {
	matcher := NewMatcher(testTarget(t, "greenthumb.com"), nil)

	signals := []types.KeywordSignal{
		{Keyword: "garden tools", Position: 3, DifficultyLabel: LabelMedium},
		{Keyword: "compost bins", Position: 0, DifficultyLabel: LabelHard},
	}

	pages := map[string]*serp.Response{
		"garden tools": {
			Organic: []serp.Result{
				{Position: 1, Domain: "en.wikipedia.org"},
				{Position: 2, Domain: "rivaltools.com"},
				{Position: 3, Domain: "greenthumb.com"},
				{Position: 4, Domain: "gardenpro.net"},
			},
		},
		"compost bins": {
			Organic: []serp.Result{
				{Position: 1, Domain: "rivaltools.com"},
				{Position: 2, Domain: "gardenpro.net"},
				{Position: 11, Domain: "farpage.com"},
			},
		},
	}

	gap := AnalyzeGap(signals, pages, matcher)

	wantTop := []types.CompetitorRank{
		{Domain: "gardenpro.net", Appearances: 2},
		{Domain: "rivaltools.com", Appearances: 2},
		{Domain: "en.wikipedia.org", Appearances: 1},
	}
	if !reflect.DeepEqual(gap.Top, wantTop) {
		t.Errorf("expected top competitors %v, got %v", wantTop, gap.Top)
	}

	if !reflect.DeepEqual(gap.Competitors.Direct, []string{"gardenpro.net", "rivaltools.com"}) {
		t.Errorf("expected direct competitors, got %v", gap.Competitors.Direct)
	}
	if !reflect.DeepEqual(gap.Competitors.Content, []string{"en.wikipedia.org"}) {
		t.Errorf("expected content platforms, got %v", gap.Competitors.Content)
	}

	wantMissed := []types.MissedKeyword{{Keyword: "compost bins", Difficulty: LabelHard}}
	if !reflect.DeepEqual(gap.Missed, wantMissed) {
		t.Errorf("expected missed keywords %v, got %v", wantMissed, gap.Missed)
	}
}

func TestAnalyzeGapExcludesTarget(t *testing.T) {
	matcher := NewMatcher(testTarget(t, "greenthumb.com"), nil)

	signals := []types.KeywordSignal{{Keyword: "garden tools", Position: 1}}
	pages := map[string]*serp.Response{
		"garden tools": {
			Organic: []serp.Result{
				{Position: 1, Domain: "greenthumb.com"},
				{Position: 2, Domain: "shop.greenthumb.com"},
			},
		},
	}

	gap := AnalyzeGap(signals, pages, matcher)

	if len(gap.Top) != 0 {
		t.Errorf("expected no competitors, got %v", gap.Top)
	}
	if len(gap.Missed) != 0 {
		t.Errorf("expected no missed keywords, got %v", gap.Missed)
	}
}

func TestRankCompetitorsCaps(t *testing.T) {
	appearances := make(map[string]int)
	for _, domain := range []string{
		"a.com", "b.com", "c.com", "d.com", "e.com", "f.com",
		"g.com", "h.com", "i.com", "j.com", "k.com", "l.com",
	} {
		appearances[domain] = 1
	}
	appearances["popular.com"] = 9

	ranked := rankCompetitors(appearances)

	if len(ranked) != maxRankedCompetitors {
		t.Fatalf("expected %d ranked competitors, got %d", maxRankedCompetitors, len(ranked))
	}
	if ranked[0].Domain != "popular.com" || ranked[0].Appearances != 9 {
		t.Errorf("expected popular.com ranked first, got %+v", ranked[0])
	}
	if ranked[1].Domain != "a.com" {
		t.Errorf("expected alphabetical tie-break, got %+v", ranked[1])
	}
}

func TestIsContentPlatform(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"en.wikipedia.org", true},
		{"youtube.com", true},
		{"medium.com", true},
		{"rivaltools.com", false},
	}

	for _, tt := range tests {
		if got := isContentPlatform(tt.host); got != tt.want {
			t.Errorf("isContentPlatform(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
