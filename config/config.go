// Package config holds the rankprobe service configuration, loaded from an
// optional YAML file layered with RANKPROBE_ environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
)

const (
	// DefaultConfigFilePath is the config file location used when none is provided
	DefaultConfigFilePath = "./config/.config.yaml"
	// envPrefix is the prefix for environment variable overrides
	envPrefix = "RANKPROBE_"
)

// Config holds the full rankprobe service configuration
type Config struct {
	// Server holds the HTTP server settings
	Server Server `koanf:"server" json:"server"`
	// Scan holds the scan orchestration settings
	Scan Scan `koanf:"scan" json:"scan"`
	// Fetcher holds the page fetching and rendering settings
	Fetcher Fetcher `koanf:"fetcher" json:"fetcher"`
	// Pagespeed holds the performance audit provider settings
	Pagespeed Pagespeed `koanf:"pagespeed" json:"pagespeed"`
	// Whois holds the domain registration lookup settings
	Whois Whois `koanf:"whois" json:"whois"`
	// Entity holds the knowledge graph and language provider settings
	Entity Entity `koanf:"entity" json:"entity"`
	// Serp holds the search results provider settings
	Serp Serp `koanf:"serp" json:"serp"`
	// Planner holds the keyword planner OAuth settings
	Planner Planner `koanf:"planner" json:"planner"`
	// Slack holds the completion notification settings
	Slack Slack `koanf:"slack" json:"slack"`
}

// Server holds the HTTP server settings
type Server struct {
	// Listen is the address the HTTP server binds to
	Listen string `koanf:"listen" json:"listen" default:":8080"`
	// ReadTimeout bounds reading of an incoming request
	ReadTimeout time.Duration `koanf:"readtimeout" json:"readtimeout" default:"30s"`
	// WriteTimeout bounds writing of a response
	WriteTimeout time.Duration `koanf:"writetimeout" json:"writetimeout" default:"60s"`
	// ShutdownGracePeriod bounds graceful shutdown on termination
	ShutdownGracePeriod time.Duration `koanf:"shutdowngraceperiod" json:"shutdowngraceperiod" default:"30s"`
	// MaxBodySize caps accepted request body size in bytes
	MaxBodySize int64 `koanf:"maxbodysize" json:"maxbodysize" default:"102400"`
	// AllowedOrigins lists origins allowed by CORS; all origins when empty
	AllowedOrigins []string `koanf:"allowedorigins" json:"allowedorigins"`
	// Debug enables debug logging, normally set from the command line
	Debug bool `koanf:"debug" json:"debug" default:"false"`
	// Pretty enables human readable logging, normally set from the command line
	Pretty bool `koanf:"pretty" json:"pretty" default:"false"`
}

// Scan holds the scan orchestration settings
type Scan struct {
	// Timeout bounds a single scan end to end
	Timeout time.Duration `koanf:"timeout" json:"timeout" default:"5m"`
	// Workers is the number of scans processed concurrently
	Workers int `koanf:"workers" json:"workers" default:"4"`
	// QueueSize is the pending scan backlog before submissions are rejected
	QueueSize int `koanf:"queuesize" json:"queuesize" default:"64"`
	// MaxStored caps retained scans before the oldest finished ones are evicted
	MaxStored int `koanf:"maxstored" json:"maxstored" default:"500"`
}

// Fetcher holds the page fetching and rendering settings
type Fetcher struct {
	// RequestTimeout bounds a plain HTTP page fetch
	RequestTimeout time.Duration `koanf:"requesttimeout" json:"requesttimeout" default:"20s"`
	// UserAgent is sent on outgoing page fetches
	UserAgent string `koanf:"useragent" json:"useragent" default:"Mozilla/5.0 (compatible; rankprobe/1.0; +https://github.com/jerilmartin/rankprobe)"`
	// Render enables headless browser rendering for script-heavy pages
	Render bool `koanf:"render" json:"render" default:"true"`
	// RenderTimeout bounds a headless browser render
	RenderTimeout time.Duration `koanf:"rendertimeout" json:"rendertimeout" default:"25s"`
	// MinTextChars is the visible text length below which a page is re-fetched
	// through the headless browser
	MinTextChars int `koanf:"mintextchars" json:"mintextchars" default:"200"`
}

// Pagespeed holds the performance audit provider settings
type Pagespeed struct {
	// APIKey authorizes audit requests; audits degrade to defaults when empty
	APIKey string `koanf:"apikey" json:"apikey" sensitive:"true"`
	// RequestTimeout bounds a single audit request
	RequestTimeout time.Duration `koanf:"requesttimeout" json:"requesttimeout" default:"90s"`
}

// Whois holds the domain registration lookup settings
type Whois struct {
	// APIKey authorizes the registration data provider; lookups fall back to
	// RDAP when empty
	APIKey string `koanf:"apikey" json:"apikey" sensitive:"true"`
	// RequestTimeout bounds a single registration lookup
	RequestTimeout time.Duration `koanf:"requesttimeout" json:"requesttimeout" default:"10s"`
}

// Entity holds the knowledge graph and language provider settings
type Entity struct {
	// APIKey authorizes entity and salience requests; skipped when empty
	APIKey string `koanf:"apikey" json:"apikey" sensitive:"true"`
	// RequestTimeout bounds a single provider request
	RequestTimeout time.Duration `koanf:"requesttimeout" json:"requesttimeout" default:"15s"`
}

// Serp holds the search results provider settings
type Serp struct {
	// APIKey authorizes search requests; keyword intelligence is skipped when empty
	APIKey string `koanf:"apikey" json:"apikey" sensitive:"true"`
	// RequestTimeout bounds a single search request
	RequestTimeout time.Duration `koanf:"requesttimeout" json:"requesttimeout" default:"15s"`
	// Interval is the minimum spacing between consecutive search requests
	Interval time.Duration `koanf:"interval" json:"interval" default:"1s"`
	// CacheTTL bounds reuse of cached result pages
	CacheTTL time.Duration `koanf:"cachettl" json:"cachettl" default:"15m"`
	// Locations lists the country codes compared in regional analysis
	Locations []string `koanf:"locations" json:"locations"`
	// MaxKeywords caps the sampled keyword set per scan
	MaxKeywords int `koanf:"maxkeywords" json:"maxkeywords" default:"10"`
	// DomainAliases maps alternate result domains to the canonical domain they
	// count as, covering redirect and parent-brand domains
	DomainAliases map[string]string `koanf:"domainaliases" json:"domainaliases"`
}

// Planner holds the keyword planner OAuth settings; suggestions fall back to
// result-page mining unless every field is set
type Planner struct {
	// ClientID is the OAuth client identifier
	ClientID string `koanf:"clientid" json:"clientid"`
	// ClientSecret is the OAuth client secret
	ClientSecret string `koanf:"clientsecret" json:"clientsecret" sensitive:"true"`
	// RefreshToken is the long-lived OAuth refresh token
	RefreshToken string `koanf:"refreshtoken" json:"refreshtoken" sensitive:"true"`
	// DeveloperToken authorizes planner API access
	DeveloperToken string `koanf:"developertoken" json:"developertoken" sensitive:"true"`
	// CustomerID is the account the planner requests run under
	CustomerID string `koanf:"customerid" json:"customerid"`
}

// Configured reports whether every planner credential is present
func (p Planner) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RefreshToken != "" &&
		p.DeveloperToken != "" && p.CustomerID != ""
}

// Slack holds the completion notification settings
type Slack struct {
	// WebhookURL receives scan completion notifications; disabled when empty
	WebhookURL string `koanf:"webhookurl" json:"webhookurl" sensitive:"true"`
	// RequestTimeout bounds a single webhook delivery
	RequestTimeout time.Duration `koanf:"requesttimeout" json:"requesttimeout" default:"10s"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// RANKPROBE_ environment variables, in that order of precedence.
func Load(cfgFile *string) (*Config, error) {
	k := koanf.New(".")

	// a local .env file feeds the environment layer when present
	_ = godotenv.Load()

	if cfgFile == nil || *cfgFile == "" {
		path := DefaultConfigFilePath
		cfgFile = &path
	}

	conf := &Config{}
	defaults.SetDefaults(conf)

	// the config file is optional, everything can arrive via environment
	if _, err := os.Stat(*cfgFile); err == nil {
		if err := k.Load(file.Provider(*cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadingConfigFile, err)
		}

		if err := k.Unmarshal("", conf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyTransform), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadingEnvVars, err)
	}

	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	if len(conf.Serp.Locations) == 0 {
		conf.Serp.Locations = []string{"us", "gb", "ca"}
	}

	return conf, nil
}

// envKeyTransform maps RANKPROBE_SERVER_LISTEN to server.listen
func envKeyTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
}
