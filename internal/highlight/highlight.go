// Package highlight places keyword emphasis into generated article text.
// Placement is a constrained selection problem: the density target, the
// per-keyword and per-paragraph caps, and the spacing window all hold at once,
// and markup regions are never touched. Annotate is pure and does no I/O.
package highlight

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// wordsPerHighlight is the article length that earns one highlight.
	wordsPerHighlight = 175
	// maxHighlights caps the highlights in one article regardless of length.
	maxHighlights = 12
	// maxPerKeyword caps how often a single keyword is highlighted.
	maxPerKeyword = 2
	// minSpacing is the smallest character gap between two highlights.
	minSpacing = 200

	markOpen  = "<mark>"
	markClose = "</mark>"
)

// markedRegion matches text that already carries highlight markup.
var markedRegion = regexp.MustCompile(`(?is)<mark\b[^>]*>.*?</mark>`)

// Placement records one accepted highlight, with offsets into the original
// text.
type Placement struct {
	// Keyword is the ranked-list entry that was highlighted
	Keyword string `json:"keyword"`
	// KeywordIndex is the keyword's index in the ranked list
	KeywordIndex int `json:"keyword_index"`
	// CharOffset is where the match starts in the original text
	CharOffset int `json:"char_offset"`
	// ParagraphIndex is the paragraph containing the match
	ParagraphIndex int `json:"paragraph_index"`
}

// span is a half-open character range within the article text.
type span struct {
	start, end int
}

// candidate pairs a placement with the full match range it covers.
type candidate struct {
	placement Placement
	start     int
	end       int
}

// Annotate wraps keyword occurrences in <mark> tags, up to the density target
// for the article's word count. Keywords are tried in ranked order; each match
// must land in an unused paragraph, keep the spacing window to every accepted
// highlight, and avoid headings, table rows, and existing markup. When the
// word count is not positive it is derived from the text itself.
func Annotate(text string, keywords []string, targetWordCount int) (string, []Placement) {
	if targetWordCount <= 0 {
		targetWordCount = len(strings.Fields(text))
	}

	target := highlightTarget(targetWordCount)
	if text == "" || len(keywords) == 0 || target == 0 {
		return text, nil
	}

	paragraphs := paragraphSpans(text)
	blocked := blockedLineSpans(text)
	protected := protectedSpans(text)

	usedParagraphs := make(map[int]struct{})
	seenKeywords := make(map[string]struct{})

	var accepted []candidate

	for index, keyword := range keywords {
		if len(accepted) == target {
			break
		}

		cleaned := strings.TrimSpace(keyword)
		if cleaned == "" {
			continue
		}

		lowered := strings.ToLower(cleaned)
		if _, seen := seenKeywords[lowered]; seen {
			continue
		}
		seenKeywords[lowered] = struct{}{}

		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(cleaned) + `\b`)

		count := 0
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if len(accepted) == target || count == maxPerKeyword {
				break
			}

			start, end := loc[0], loc[1]

			paragraph := paragraphAt(paragraphs, start)
			if _, used := usedParagraphs[paragraph]; used {
				continue
			}
			if overlapsAny(blocked, start, end) || overlapsAny(protected, start, end) {
				continue
			}
			if tooClose(accepted, start, end) {
				continue
			}

			usedParagraphs[paragraph] = struct{}{}
			accepted = append(accepted, candidate{
				placement: Placement{
					Keyword:        cleaned,
					KeywordIndex:   index,
					CharOffset:     start,
					ParagraphIndex: paragraph,
				},
				start: start,
				end:   end,
			})
			count++
		}
	}

	return insertMarks(text, accepted), placementsOf(accepted)
}

// highlightTarget converts an article word count into the highlight budget.
func highlightTarget(wordCount int) int {
	target := wordCount / wordsPerHighlight
	if target > maxHighlights {
		target = maxHighlights
	}

	return target
}

// paragraphSpans slices the text into paragraphs at blank-line boundaries.
func paragraphSpans(text string) []span {
	var spans []span

	start := 0
	for start < len(text) {
		sep := strings.Index(text[start:], "\n\n")
		if sep < 0 {
			spans = append(spans, span{start, len(text)})
			break
		}

		spans = append(spans, span{start, start + sep})

		start += sep
		for start < len(text) && text[start] == '\n' {
			start++
		}
	}

	return spans
}

// paragraphAt returns the index of the paragraph containing the offset, or -1
// when the offset falls between paragraphs.
func paragraphAt(paragraphs []span, offset int) int {
	for i, p := range paragraphs {
		if offset >= p.start && offset < p.end {
			return i
		}
	}

	return -1
}

// blockedLineSpans marks heading and table lines, which never take highlights.
func blockedLineSpans(text string) []span {
	var spans []span

	start := 0
	for start <= len(text) {
		next := strings.IndexByte(text[start:], '\n')

		lineEnd := len(text)
		if next >= 0 {
			lineEnd = start + next
		}

		line := text[start:lineEnd]
		if strings.HasPrefix(strings.TrimSpace(line), "#") || strings.Contains(line, "|") {
			spans = append(spans, span{start, lineEnd})
		}

		if next < 0 {
			break
		}
		start = lineEnd + 1
	}

	return spans
}

// protectedSpans marks regions a highlight may never overlap: the inside of
// any tag, and text already wrapped in <mark>.
func protectedSpans(text string) []span {
	var spans []span

	for _, loc := range markedRegion.FindAllStringIndex(text, -1) {
		spans = append(spans, span{loc[0], loc[1]})
	}

	for i := 0; i < len(text); {
		lt := strings.IndexByte(text[i:], '<')
		if lt < 0 {
			break
		}
		lt += i

		gt := strings.IndexByte(text[lt:], '>')
		if gt < 0 {
			spans = append(spans, span{lt, len(text)})
			break
		}

		spans = append(spans, span{lt, lt + gt + 1})
		i = lt + gt + 1
	}

	return spans
}

// overlapsAny reports whether [start,end) intersects any span.
func overlapsAny(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}

	return false
}

// tooClose reports whether [start,end) sits within the spacing window of an
// accepted highlight.
func tooClose(accepted []candidate, start, end int) bool {
	for _, c := range accepted {
		if start < c.end+minSpacing && c.start < end+minSpacing {
			return true
		}
	}

	return false
}

// insertMarks splices the markup in descending offset order so the lower
// offsets stay valid as the text grows.
func insertMarks(text string, accepted []candidate) string {
	if len(accepted) == 0 {
		return text
	}

	ordered := make([]candidate, len(accepted))
	copy(ordered, accepted)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].start > ordered[j].start
	})

	for _, c := range ordered {
		text = text[:c.start] + markOpen + text[c.start:c.end] + markClose + text[c.end:]
	}

	return text
}

// placementsOf extracts the placements in document order.
func placementsOf(accepted []candidate) []Placement {
	if len(accepted) == 0 {
		return nil
	}

	placements := make([]Placement, 0, len(accepted))
	for _, c := range accepted {
		placements = append(placements, c.placement)
	}

	sort.Slice(placements, func(i, j int) bool {
		return placements[i].CharOffset < placements[j].CharOffset
	})

	return placements
}
