package keywords

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jerilmartin/rankprobe/internal/serp"
	"github.com/jerilmartin/rankprobe/internal/types"
)

// CTR point values and snippet length windows.
const (
	ctrBasePresent   = 15
	ctrTitleLength   = 25
	ctrDescLength    = 25
	ctrPowerWords    = 20
	ctrNumeralMatch  = 15
	titleLengthMin   = 50
	titleLengthMax   = 60
	descLengthMin    = 150
	descLengthMax    = 160
	numeralAdopters  = 2
	ctrCompareWindow = 3
)

// powerWords are the persuasion words counted in titles and descriptions.
var powerWords = []string{
	"best", "free", "new", "proven", "easy", "fast", "guide", "top", "ultimate", "exclusive",
}

// AnalyzeCTR scores how clickable the target's snippet is for a keyword
// against the top competing results. Each missed bonus adds a flag naming
// the gap.
func AnalyzeCTR(keyword, title, description string, competitors []serp.Result) types.CTRAnalysis {
	if len(competitors) > ctrCompareWindow {
		competitors = competitors[:ctrCompareWindow]
	}

	analysis := types.CTRAnalysis{
		Keyword:           keyword,
		TitleLength:       utf8.RuneCountInString(title),
		DescriptionLength: utf8.RuneCountInString(description),
		PowerWords:        countPowerWords(title + " " + description),
	}

	score := 0

	if title != "" && description != "" {
		score += ctrBasePresent
	}
	if title == "" {
		analysis.Flags = append(analysis.Flags, "page title is missing")
	}
	if description == "" {
		analysis.Flags = append(analysis.Flags, "meta description is missing")
	}

	if analysis.TitleLength >= titleLengthMin && analysis.TitleLength <= titleLengthMax {
		score += ctrTitleLength
	} else if title != "" {
		analysis.Flags = append(analysis.Flags, fmt.Sprintf("title is %d characters, outside the %d-%d window", analysis.TitleLength, titleLengthMin, titleLengthMax))
	}

	if analysis.DescriptionLength >= descLengthMin && analysis.DescriptionLength <= descLengthMax {
		score += ctrDescLength
	} else if description != "" {
		analysis.Flags = append(analysis.Flags, fmt.Sprintf("description is %d characters, outside the %d-%d window", analysis.DescriptionLength, descLengthMin, descLengthMax))
	}

	if float64(analysis.PowerWords) >= competitorPowerWordAverage(competitors) {
		score += ctrPowerWords
	} else {
		analysis.Flags = append(analysis.Flags, "top results use more power words")
	}

	if countNumeralTitles(competitors) >= numeralAdopters {
		if hasNumeral(title) {
			score += ctrNumeralMatch
		} else {
			analysis.Flags = append(analysis.Flags, "top results use numbers in their titles")
		}
	}

	analysis.Score = clampScore(score)

	return analysis
}

// countPowerWords counts power-word occurrences in a text, one per distinct
// word position.
func countPowerWords(text string) int {
	count := 0

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = normalizeWord(word)
		for _, power := range powerWords {
			if word == power {
				count++
				break
			}
		}
	}

	return count
}

// competitorPowerWordAverage is the mean power-word count across competitor
// titles and snippets.
func competitorPowerWordAverage(competitors []serp.Result) float64 {
	if len(competitors) == 0 {
		return 0
	}

	total := 0
	for _, competitor := range competitors {
		total += countPowerWords(competitor.Title + " " + competitor.Snippet)
	}

	return math.Round(float64(total)/float64(len(competitors))*100) / 100
}

// countNumeralTitles counts competitors whose title contains a digit.
func countNumeralTitles(competitors []serp.Result) int {
	count := 0

	for _, competitor := range competitors {
		if hasNumeral(competitor.Title) {
			count++
		}
	}

	return count
}

func hasNumeral(text string) bool {
	return strings.ContainsFunc(text, unicode.IsDigit)
}
