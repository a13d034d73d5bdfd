// Package keywords derives the keyword set for a scan target and scores each
// keyword's ranking difficulty, opportunity, and intent from its live result
// page.
package keywords

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/jerilmartin/rankprobe/internal/fetcher"
)

const (
	defaultMaxKeywords = 10
	minPhraseWords     = 2
	maxPhraseWords     = 3
)

// boilerplate lists generic page phrases that carry no search value.
var boilerplate = map[string]struct{}{
	"click here":           {},
	"read more":            {},
	"learn more":           {},
	"sign up":              {},
	"log in":               {},
	"sign in":              {},
	"contact us":           {},
	"about us":             {},
	"get started":          {},
	"find out more":        {},
	"skip to content":      {},
	"privacy policy":       {},
	"cookie policy":        {},
	"terms of service":     {},
	"terms and conditions": {},
	"all rights reserved":  {},
}

// phraseStopwords splits candidate text into phrase chunks. Connective words
// never appear inside an extracted phrase.
var phraseStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "nor": {},
	"so": {}, "yet": {}, "of": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"from": {}, "by": {}, "with": {}, "about": {}, "as": {}, "into": {},
	"through": {}, "over": {}, "under": {}, "between": {}, "after": {},
	"before": {}, "during": {}, "without": {}, "within": {}, "your": {},
	"our": {}, "their": {}, "its": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "you": {}, "we": {}, "they": {}, "it": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "will": {},
	"can": {}, "for": {},
}

// segmentSeparators break a source string into independent candidate texts
// before phrase chunking.
func segmentSeparators(r rune) bool {
	switch r {
	case '|', ',', ':', ';', '/', '•', '·', '–', '—':
		return true
	}

	return false
}

// Extract derives the sampled keyword set for a scan. Seed keywords come
// first, then 2-3 word phrases pulled from the page's title, meta tags,
// headings, and image/aria texts, lowercased and de-duplicated, with generic
// boilerplate filtered out. The result is capped at limit.
func Extract(page *fetcher.Page, seeds []string, limit int) []string {
	if limit <= 0 {
		limit = defaultMaxKeywords
	}

	candidates := make([]string, 0, limit*2)

	for _, seed := range seeds {
		if cleaned := strings.ToLower(strings.TrimSpace(seed)); cleaned != "" {
			candidates = append(candidates, cleaned)
		}
	}

	if page != nil {
		sources := []string{page.Title, page.MetaKeywords, page.MetaDescription}
		sources = append(sources, page.Headings...)
		sources = append(sources, page.AltTexts...)
		sources = append(sources, page.AriaLabels...)

		for _, source := range sources {
			candidates = append(candidates, phrasesFrom(source)...)
		}
	}

	keywords := lo.Uniq(lo.FilterMap(candidates, func(candidate string, _ int) (string, bool) {
		if _, generic := boilerplate[candidate]; generic {
			return "", false
		}

		return candidate, candidate != ""
	}))

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}

	return keywords
}

// phrasesFrom chunks one source string into candidate phrases. The text is
// split at separators and stopwords; each remaining run of content words
// yields one phrase of two or three words.
func phrasesFrom(source string) []string {
	var phrases []string

	for _, segment := range strings.FieldsFunc(source, segmentSeparators) {
		var chunk []string

		flush := func() {
			if len(chunk) >= minPhraseWords {
				if len(chunk) > maxPhraseWords {
					chunk = chunk[:maxPhraseWords]
				}
				phrases = append(phrases, strings.Join(chunk, " "))
			}
			chunk = nil
		}

		for _, word := range strings.Fields(segment) {
			word = normalizeWord(word)
			if word == "" {
				continue
			}
			if _, stop := phraseStopwords[word]; stop {
				flush()
				continue
			}
			chunk = append(chunk, word)
		}
		flush()
	}

	return phrases
}

// normalizeWord lowercases a token and strips edge punctuation, keeping
// hyphens and apostrophes inside the word.
func normalizeWord(word string) string {
	return strings.TrimFunc(strings.ToLower(word), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
