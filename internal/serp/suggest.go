package serp

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// SuggestionSource yields candidate keyword phrases for a seed set.
type SuggestionSource interface {
	Suggest(ctx context.Context, seeds []string) ([]string, error)
}

// Suggester tries its sources in order and keeps the first non-empty set
type Suggester struct {
	sources []SuggestionSource
}

// NewSuggester creates a suggester over an ordered source list
func NewSuggester(sources ...SuggestionSource) *Suggester {
	kept := make([]SuggestionSource, 0, len(sources))

	for _, s := range sources {
		if s != nil {
			kept = append(kept, s)
		}
	}

	return &Suggester{sources: kept}
}

// Suggest returns deduplicated candidate phrases from the first source that
// produces any. Source failures fall through to the next source.
func (s *Suggester) Suggest(ctx context.Context, seeds []string) []string {
	for _, src := range s.sources {
		words, err := src.Suggest(ctx, seeds)
		if err != nil {
			log.Debug().Err(err).Msg("suggestion source failed, trying next source")
			continue
		}

		if cleaned := cleanPhrases(words); len(cleaned) > 0 {
			return cleaned
		}
	}

	return nil
}

// cleanPhrases lowercases, trims, and deduplicates candidate phrases
func cleanPhrases(words []string) []string {
	cleaned := lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != ""
	})

	return lo.Uniq(cleaned)
}

// Suggest derives candidate phrases from the seeds' own result pages,
// related searches first, then People-Also-Ask questions. Cached pages are
// reused, so seeds already queried in this scan cost no extra quota.
func (c *Client) Suggest(ctx context.Context, seeds []string) ([]string, error) {
	var words []string

	for _, seed := range seeds {
		resp, err := c.Search(ctx, Query{Keyword: seed})
		if err != nil {
			continue
		}

		words = append(words, resp.RelatedSearches...)
		words = append(words, resp.PeopleAlsoAsk...)

		if len(words) > 0 {
			break
		}
	}

	return words, nil
}
