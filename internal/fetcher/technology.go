package fetcher

import (
	"net/http"
	"sort"

	wappalyzer "github.com/projectdiscovery/wappalyzergo"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// excludedTechnologyNames lists protocol features and web standards that say
// nothing about the site's actual stack
var excludedTechnologyNames = map[string]struct{}{
	"HTTP/2":        {},
	"HTTP/3":        {},
	"QUIC":          {},
	"HSTS":          {},
	"Open Graph":    {},
	"Twitter Cards": {},
	"Schema.org":    {},
	"JSON-LD":       {},
	"Meta Tags":     {},
	"WebP":          {},
}

// fingerprintTechnologies identifies the technology stack from response
// headers and body. Fingerprinting failures yield an empty stack, never
// an error.
func fingerprintTechnologies(headers http.Header, body []byte) []types.Technology {
	client, err := wappalyzer.New()
	if err != nil {
		return nil
	}

	fingerprints := client.FingerprintWithInfo(headers, body)
	technologies := make([]types.Technology, 0, len(fingerprints))

	for tech, info := range fingerprints {
		if _, excluded := excludedTechnologyNames[tech]; excluded {
			continue
		}

		technologies = append(technologies, types.Technology{
			Name:       tech,
			Categories: info.Categories,
		})
	}

	sort.Slice(technologies, func(i, j int) bool {
		return technologies[i].Name < technologies[j].Name
	})

	return technologies
}
