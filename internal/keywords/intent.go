package keywords

import (
	"regexp"
	"strings"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// Intent labels.
const (
	IntentInformational = "Informational"
	IntentTransactional = "Transactional"
	IntentNavigational  = "Navigational"
	IntentLocal         = "Local"
)

// Intent confidence points. Feature signals are applied before phrase
// signals, and the label follows whichever signal fired last, so a phrase
// match overrides a feature read of the same keyword.
const (
	intentShoppingFeature = 40
	intentLocalFeature    = 50
	intentSnippetFeature  = 30
	intentQuestionFeature = 20
	intentDefault         = 20
)

// intentPattern pairs a phrase regex with the intent it signals.
type intentPattern struct {
	pattern *regexp.Regexp
	intent  string
	points  int
}

var intentPatterns = []intentPattern{
	{regexp.MustCompile(`\b(buy|price|cheap|deal|discount|order)\b`), IntentTransactional, 30},
	{regexp.MustCompile(`\b(near me|location|address|directions)\b`), IntentLocal, 30},
	{regexp.MustCompile(`\b(login|sign in|account|dashboard)\b`), IntentNavigational, 40},
	{regexp.MustCompile(`\b(how|what|why|guide|tutorial|tips)\b`), IntentInformational, 25},
}

// ClassifyIntent derives the dominant search intent for a keyword from its
// result-page features and from the phrase itself. Confidence accumulates
// across all matching signals, clamped at 100.
func ClassifyIntent(keyword string, features types.SERPFeatureSummary) (string, int) {
	intent := ""
	confidence := 0

	if features.Shopping {
		intent = IntentTransactional
		confidence += intentShoppingFeature
	}
	if features.LocalPack {
		intent = IntentLocal
		confidence += intentLocalFeature
	}
	if features.FeaturedSnippet {
		intent = IntentInformational
		confidence += intentSnippetFeature
	}
	if features.PeopleAlsoAsk > 0 {
		intent = IntentInformational
		confidence += intentQuestionFeature
	}

	phrase := strings.ToLower(keyword)
	for _, p := range intentPatterns {
		if p.pattern.MatchString(phrase) {
			intent = p.intent
			confidence += p.points
		}
	}

	if intent == "" {
		return IntentInformational, intentDefault
	}

	return intent, clampScore(confidence)
}

// GroupSuggestions classifies each suggested phrase and groups the results by
// intent. Suggestions carry no result page of their own, so only the phrase
// signals apply.
func GroupSuggestions(words []string) []types.SuggestionGroup {
	grouped := make(map[string][]types.SuggestedKeyword)

	for _, word := range words {
		intent, _ := ClassifyIntent(word, types.SERPFeatureSummary{})
		grouped[intent] = append(grouped[intent], types.SuggestedKeyword{Word: word, Intent: intent})
	}

	var groups []types.SuggestionGroup
	for _, intent := range []string{IntentInformational, IntentTransactional, IntentNavigational, IntentLocal} {
		if members, ok := grouped[intent]; ok {
			groups = append(groups, types.SuggestionGroup{Category: intent, Keywords: members})
		}
	}

	return groups
}
