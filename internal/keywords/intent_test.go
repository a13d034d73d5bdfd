package keywords

import (
	"testing"

	"github.com/jerilmartin/rankprobe/internal/types"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name           string
		keyword        string
		features       types.SERPFeatureSummary
		wantIntent     string
		wantConfidence int
	}{
		{
			name:           "question phrase",
			keyword:        "how to grow tomatoes",
			wantIntent:     IntentInformational,
			wantConfidence: 25,
		},
		{
			name:           "shopping feature and buying phrase stack",
			keyword:        "buy garden tools",
			features:       types.SERPFeatureSummary{Shopping: true},
			wantIntent:     IntentTransactional,
			wantConfidence: 70,
		},
		{
			name:           "local pack and proximity phrase",
			keyword:        "garden center near me",
			features:       types.SERPFeatureSummary{LocalPack: true},
			wantIntent:     IntentLocal,
			wantConfidence: 80,
		},
		{
			name:           "navigational phrase",
			keyword:        "greenthumb account dashboard",
			wantIntent:     IntentNavigational,
			wantConfidence: 40,
		},
		{
			name:           "phrase signal overrides feature signal",
			keyword:        "buy tomato seeds",
			features:       types.SERPFeatureSummary{FeaturedSnippet: true},
			wantIntent:     IntentTransactional,
			wantConfidence: 60,
		},
		{
			name:           "later phrase signal wins",
			keyword:        "how to buy compost",
			wantIntent:     IntentInformational,
			wantConfidence: 55,
		},
		{
			name:           "no signal defaults informational",
			keyword:        "garden tools",
			wantIntent:     IntentInformational,
			wantConfidence: 20,
		},
		{
			name:    "confidence clamps at 100",
			keyword: "how to buy garden tools near me",
			features: types.SERPFeatureSummary{
				Shopping:        true,
				LocalPack:       true,
				FeaturedSnippet: true,
				PeopleAlsoAsk:   4,
			},
			wantIntent:     IntentInformational,
			wantConfidence: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, confidence := ClassifyIntent(tt.keyword, tt.features)
			if intent != tt.wantIntent {
				t.Errorf("expected intent %q, got %q", tt.wantIntent, intent)
			}
			if confidence != tt.wantConfidence {
				t.Errorf("expected confidence %d, got %d", tt.wantConfidence, confidence)
			}
		})
	}
}

func TestGroupSuggestions(t *testing.T) {
	groups := GroupSuggestions([]string{
		"how to compost",
		"buy compost bin",
		"compost delivery near me",
		"composting tips",
	})

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d: %v", len(groups), groups)
	}

	if groups[0].Category != IntentInformational || len(groups[0].Keywords) != 2 {
		t.Errorf("expected informational group with 2 members first, got %+v", groups[0])
	}
	if groups[1].Category != IntentTransactional || len(groups[1].Keywords) != 1 {
		t.Errorf("expected transactional group second, got %+v", groups[1])
	}
	if groups[2].Category != IntentLocal || len(groups[2].Keywords) != 1 {
		t.Errorf("expected local group third, got %+v", groups[2])
	}

	if groups[1].Keywords[0].Word != "buy compost bin" || groups[1].Keywords[0].Intent != IntentTransactional {
		t.Errorf("expected suggestion to carry its intent, got %+v", groups[1].Keywords[0])
	}
}

func TestGroupSuggestionsEmpty(t *testing.T) {
	if groups := GroupSuggestions(nil); groups != nil {
		t.Errorf("expected nil groups, got %v", groups)
	}
}
