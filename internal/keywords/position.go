package keywords

import (
	"strings"

	"github.com/jerilmartin/rankprobe/internal/domain"
	"github.com/jerilmartin/rankprobe/internal/serp"
)

// Matcher decides whether an organic result host belongs to the scan target.
// Match order: exact host or subdomain of the target's registrable domain,
// then the alias table for redirect and parent-brand domains, and finally the
// target's core token appearing inside the result host.
type Matcher struct {
	target  *domain.Info
	aliases map[string]string
}

// NewMatcher builds a matcher for the target. The alias map keys are
// alternate domains and the values name the canonical domain they count as;
// entries whose value is not the target are ignored during matching.
func NewMatcher(target *domain.Info, aliases map[string]string) *Matcher {
	normalized := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		alias = domain.Registrable(alias)
		if alias == "" {
			continue
		}
		normalized[alias] = strings.ToLower(strings.TrimSpace(canonical))
	}

	return &Matcher{target: target, aliases: normalized}
}

// Matches reports whether host counts as the scan target.
func (m *Matcher) Matches(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
	if host == "" {
		return false
	}

	if m.target.Matches(host) {
		return true
	}

	if canonical, ok := m.aliases[domain.Registrable(host)]; ok && canonical == m.target.Domain {
		return true
	}

	core := m.target.CoreToken()

	return core != "" && strings.Contains(strings.ReplaceAll(host, "-", ""), core)
}

// Position walks organic results in rank order and returns the first position
// held by the target, or 0 when the target never appears.
func (m *Matcher) Position(results []serp.Result) int {
	for _, result := range results {
		if m.Matches(result.Domain) {
			return result.Position
		}
	}

	return 0
}
