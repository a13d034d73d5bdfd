package keywords

import (
	"math"
	"sort"
	"strings"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// minClusterSize is the smallest keyword group worth reporting as a theme.
const minClusterSize = 2

// Clusters groups the sampled keywords by their leading content word and
// reports every theme shared by at least two keywords, with the mean
// difficulty across the members.
func Clusters(signals []types.KeywordSignal) []types.KeywordCluster {
	type member struct {
		keyword    string
		difficulty int
	}

	grouped := make(map[string][]member)
	var themes []string

	for _, signal := range signals {
		theme := leadingToken(signal.Keyword)
		if theme == "" {
			continue
		}
		if _, seen := grouped[theme]; !seen {
			themes = append(themes, theme)
		}
		grouped[theme] = append(grouped[theme], member{signal.Keyword, signal.Difficulty})
	}

	var clusters []types.KeywordCluster

	for _, theme := range themes {
		members := grouped[theme]
		if len(members) < minClusterSize {
			continue
		}

		cluster := types.KeywordCluster{Theme: theme}
		sum := 0
		for _, m := range members {
			cluster.Keywords = append(cluster.Keywords, m.keyword)
			sum += m.difficulty
		}
		cluster.AvgDifficulty = int(math.Round(float64(sum) / float64(len(members))))

		clusters = append(clusters, cluster)
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i].Keywords) != len(clusters[j].Keywords) {
			return len(clusters[i].Keywords) > len(clusters[j].Keywords)
		}
		return clusters[i].Theme < clusters[j].Theme
	})

	return clusters
}

// leadingToken returns the first content word of a keyword, skipping
// stopwords.
func leadingToken(keyword string) string {
	for _, word := range strings.Fields(strings.ToLower(keyword)) {
		word = normalizeWord(word)
		if word == "" {
			continue
		}
		if _, stop := phraseStopwords[word]; stop {
			continue
		}
		return word
	}

	return ""
}
