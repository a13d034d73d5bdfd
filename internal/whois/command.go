package whois

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// whoisBinary is the system registry lookup client
const whoisBinary = "whois"

// Registration fields extracted from free-text registry output.
const (
	fieldCreated   = "created"
	fieldExpires   = "expires"
	fieldRegistrar = "registrar"
)

// fieldPattern maps one free-text registry line format to a structured field
type fieldPattern struct {
	field string
	re    *regexp.Regexp
}

// registryPatterns is the free-text parse cascade. Registries format output
// inconsistently, so patterns are ordered and the first match per field wins.
var registryPatterns = []fieldPattern{
	{fieldCreated, regexp.MustCompile(`(?im)^\s*creation date[.:]+\s*(.+)$`)},
	{fieldCreated, regexp.MustCompile(`(?im)^\s*created(?: on| date)?[.:]+\s*(.+)$`)},
	{fieldCreated, regexp.MustCompile(`(?im)^\s*registered(?: on)?[.:]+\s*(.+)$`)},
	{fieldCreated, regexp.MustCompile(`(?im)^\s*registration time[.:]+\s*(.+)$`)},
	{fieldCreated, regexp.MustCompile(`(?im)^\s*domain registered[.:]+\s*(.+)$`)},
	{fieldExpires, regexp.MustCompile(`(?im)^\s*registry expiry date[.:]+\s*(.+)$`)},
	{fieldExpires, regexp.MustCompile(`(?im)^\s*expir(?:y|ation) date[.:]+\s*(.+)$`)},
	{fieldExpires, regexp.MustCompile(`(?im)^\s*expires(?: on)?[.:]+\s*(.+)$`)},
	{fieldExpires, regexp.MustCompile(`(?im)^\s*paid-till[.:]+\s*(.+)$`)},
	{fieldRegistrar, regexp.MustCompile(`(?im)^\s*registrar[.:]+\s*(.+)$`)},
	{fieldRegistrar, regexp.MustCompile(`(?im)^\s*sponsoring registrar[.:]+\s*(.+)$`)},
	{fieldRegistrar, regexp.MustCompile(`(?im)^\s*registrar name[.:]+\s*(.+)$`)},
}

// fromCommand shells out to the system whois client and parses the free-text
// response. Hosts without a whois binary fail fast into the next strategy.
func (r *Resolver) fromCommand(ctx context.Context, domain string) (*types.DomainAge, error) {
	if _, err := exec.LookPath(whoisBinary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandUnavailable, err)
	}

	cmdCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := exec.CommandContext(cmdCtx, whoisBinary, domain).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	return buildCommandAge(string(out))
}

// buildCommandAge runs the parse cascade over raw registry output. A
// registration date is required; expiry and registrar are best-effort.
func buildCommandAge(raw string) (*types.DomainAge, error) {
	fields := extractFields(raw)

	created, ok := parseDate(fields[fieldCreated])
	if !ok {
		return nil, ErrNoRegistrationDate
	}

	age := &types.DomainAge{
		Created:   &created,
		Registrar: fields[fieldRegistrar],
		Source:    SourceCommand,
	}

	if expires, ok := parseDate(fields[fieldExpires]); ok {
		age.Expires = &expires
	}

	years := AgeYears(created, time.Now())
	age.Years = &years

	return age, nil
}

// extractFields applies the cascade, keeping the first match per field
func extractFields(raw string) map[string]string {
	fields := make(map[string]string, 3)

	for _, p := range registryPatterns {
		if _, done := fields[p.field]; done {
			continue
		}

		if m := p.re.FindStringSubmatch(raw); m != nil {
			fields[p.field] = strings.TrimSpace(m[1])
		}
	}

	return fields
}
