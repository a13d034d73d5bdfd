package whois

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	rdaplib "github.com/openrdap/rdap"

	"github.com/jerilmartin/rankprobe/internal/types"
)

func TestAgeYears(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		created time.Time
		want    int
	}{
		{name: "brand new", created: now, want: 0},
		{name: "six months", created: now.AddDate(0, -6, 0), want: 0},
		{name: "just past one year", created: now.AddDate(-1, 0, -1), want: 1},
		{name: "ten years", created: now.AddDate(-10, 0, -3), want: 10},
		{name: "almost three years", created: now.AddDate(-3, 0, 1), want: 2},
		{name: "one thousand days", created: now.AddDate(0, 0, -1000), want: 2},
		{name: "future date clamps to zero", created: now.AddDate(1, 0, 0), want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AgeYears(tc.created, now); got != tc.want {
				t.Errorf("AgeYears(%s) = %d, want %d", tc.created.Format(time.DateOnly), got, tc.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		value string
		want  string
		ok    bool
	}{
		{value: "1995-08-14T04:00:00Z", want: "1995-08-14", ok: true},
		{value: "2003-02-01 10:30:00", want: "2003-02-01", ok: true},
		{value: "2010-11-05", want: "2010-11-05", ok: true},
		{value: "14-Aug-1995", want: "1995-08-14", ok: true},
		{value: "", ok: false},
		{value: "not a date", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			got, ok := parseDate(tc.value)
			if ok != tc.ok {
				t.Fatalf("parseDate(%q) ok = %v, want %v", tc.value, ok, tc.ok)
			}

			if ok && got.Format(time.DateOnly) != tc.want {
				t.Errorf("parseDate(%q) = %s, want %s", tc.value, got.Format(time.DateOnly), tc.want)
			}
		})
	}
}

func TestBuildRDAPAge(t *testing.T) {
	d := &rdaplib.Domain{
		Events: []rdaplib.Event{
			{Action: "registration", Date: "2012-03-20T09:00:00Z"},
			{Action: "expiration", Date: "2026-03-20T09:00:00Z"},
			{Action: "last changed", Date: "2020-01-01T00:00:00Z"},
		},
		Entities: []rdaplib.Entity{
			{Roles: []string{"registrar"}, Handle: "REG-42"},
		},
	}

	age, err := buildRDAPAge(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if age.Source != SourceRDAP {
		t.Errorf("expected source %q, got %q", SourceRDAP, age.Source)
	}
	if age.Created == nil || age.Created.Format(time.DateOnly) != "2012-03-20" {
		t.Errorf("unexpected created date %v", age.Created)
	}
	if age.Expires == nil || age.Expires.Format(time.DateOnly) != "2026-03-20" {
		t.Errorf("unexpected expiry date %v", age.Expires)
	}
	if age.Registrar != "REG-42" {
		t.Errorf("expected registrar REG-42, got %q", age.Registrar)
	}
	if age.Years == nil || *age.Years < 12 {
		t.Errorf("expected at least 12 years of age, got %v", age.Years)
	}
}

func TestBuildRDAPAge_NoRegistration(t *testing.T) {
	d := &rdaplib.Domain{
		Events: []rdaplib.Event{
			{Action: "expiration", Date: "2026-03-20T09:00:00Z"},
		},
	}

	if _, err := buildRDAPAge(d); err != ErrNoRegistrationDate {
		t.Errorf("expected ErrNoRegistrationDate, got %v", err)
	}
}

func TestFromProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		if r.URL.Path != "/example.com" {
			t.Errorf("expected path /example.com, got %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"domain": {
				"domain": "example.com",
				"created_date": "1995-08-14T04:00:00Z",
				"expiration_date": "2026-08-13T04:00:00Z"
			},
			"registrar": {"name": "Example Registrar"}
		}`)
	}))
	defer srv.Close()

	resolver := NewResolver("test-key", WithBaseURL(srv.URL))

	age, err := resolver.fromProvider(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if age.Source != SourceProvider {
		t.Errorf("expected source %q, got %q", SourceProvider, age.Source)
	}
	if age.Registrar != "Example Registrar" {
		t.Errorf("unexpected registrar %q", age.Registrar)
	}
	if age.Years == nil || *age.Years < 28 {
		t.Errorf("expected a multi-decade age, got %v", age.Years)
	}

	want := AgeYears(*age.Created, time.Now())
	if *age.Years != want {
		t.Errorf("expected years %d, got %d", want, *age.Years)
	}
}

func TestFromProvider_NoCreatedDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"domain": {"domain": "example.com"}}`)
	}))
	defer srv.Close()

	resolver := NewResolver("test-key", WithBaseURL(srv.URL))

	if _, err := resolver.fromProvider(context.Background(), "example.com"); err != ErrNoRegistrationDate {
		t.Errorf("expected ErrNoRegistrationDate, got %v", err)
	}
}

func TestResolveEmptyDomain(t *testing.T) {
	resolver := NewResolver("")

	age := resolver.Resolve(context.Background(), "   ")
	if age.Source != SourceUnresolved {
		t.Errorf("expected unresolved source, got %q", age.Source)
	}
	if age.Years != nil {
		t.Errorf("expected nil years, got %v", age.Years)
	}
}

func TestStrategyOrder(t *testing.T) {
	withKey := NewResolver("test-key")
	if got := strategyNames(withKey); len(got) != 3 || got[0] != SourceCommand || got[1] != SourceRDAP || got[2] != SourceProvider {
		t.Errorf("unexpected strategy order with api key: %v", got)
	}

	withoutKey := NewResolver("")
	if got := strategyNames(withoutKey); len(got) != 2 || got[0] != SourceCommand || got[1] != SourceRDAP {
		t.Errorf("unexpected strategy order without api key: %v", got)
	}
}

func strategyNames(r *Resolver) []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.name)
	}

	return names
}

func TestResolveFirstStrategyWins(t *testing.T) {
	created := time.Date(2010, 1, 2, 0, 0, 0, 0, time.UTC)

	resolver := NewResolver("")
	resolver.strategies = []strategy{
		{name: "first", run: func(context.Context, string) (*types.DomainAge, error) {
			return &types.DomainAge{Created: &created, Source: "first"}, nil
		}},
		{name: "second", run: func(context.Context, string) (*types.DomainAge, error) {
			t.Error("second strategy should not run after the first succeeds")
			return nil, ErrNoRegistrationDate
		}},
	}

	age := resolver.Resolve(context.Background(), "example.com")
	if age.Source != "first" {
		t.Errorf("expected the first strategy to win, got source %q", age.Source)
	}
}

func TestResolveFallsThroughFailedStrategies(t *testing.T) {
	created := time.Date(2010, 1, 2, 0, 0, 0, 0, time.UTC)

	resolver := NewResolver("")
	resolver.strategies = []strategy{
		{name: "first", run: func(context.Context, string) (*types.DomainAge, error) {
			return nil, ErrCommandUnavailable
		}},
		{name: "second", run: func(context.Context, string) (*types.DomainAge, error) {
			return &types.DomainAge{Created: &created, Source: "second"}, nil
		}},
	}

	age := resolver.Resolve(context.Background(), "example.com")
	if age.Source != "second" {
		t.Errorf("expected fall-through to the second strategy, got source %q", age.Source)
	}
}

func TestResolveAllStrategiesFail(t *testing.T) {
	resolver := NewResolver("")
	resolver.strategies = []strategy{
		{name: "only", run: func(context.Context, string) (*types.DomainAge, error) {
			return nil, ErrCommandFailed
		}},
	}

	age := resolver.Resolve(context.Background(), "example.com")
	if age.Source != SourceUnresolved {
		t.Errorf("expected unresolved source, got %q", age.Source)
	}
}

func TestBuildCommandAge(t *testing.T) {
	raw := "   Domain Name: EXAMPLE.COM\r\n" +
		"   Registry Domain ID: 2336799_DOMAIN_COM-VRSN\r\n" +
		"   Registrar WHOIS Server: whois.example-registrar.com\r\n" +
		"   Registrar URL: http://www.example-registrar.com\r\n" +
		"   Updated Date: 2024-08-14T07:01:31Z\r\n" +
		"   Creation Date: 1995-08-14T04:00:00Z\r\n" +
		"   Registry Expiry Date: 2026-08-13T04:00:00Z\r\n" +
		"   Registrar: Example Registrar, Inc.\r\n"

	age, err := buildCommandAge(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if age.Source != SourceCommand {
		t.Errorf("expected source %q, got %q", SourceCommand, age.Source)
	}
	if age.Created == nil || age.Created.Format(time.DateOnly) != "1995-08-14" {
		t.Errorf("unexpected created date %v", age.Created)
	}
	if age.Expires == nil || age.Expires.Format(time.DateOnly) != "2026-08-13" {
		t.Errorf("unexpected expiry date %v", age.Expires)
	}
	if age.Registrar != "Example Registrar, Inc." {
		t.Errorf("unexpected registrar %q", age.Registrar)
	}
	if age.Years == nil || *age.Years != AgeYears(*age.Created, time.Now()) {
		t.Errorf("unexpected years %v", age.Years)
	}
}

func TestBuildCommandAge_UKFormat(t *testing.T) {
	raw := `
    Domain name:
        example.co.uk

    Registrar:
        Example Registrar Ltd [Tag = EXAMPLE]

    Registered on: 14-Aug-1995
    Expiry date:  14-Aug-2026
    Last updated:  01-Sep-2024
`

	age, err := buildCommandAge(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if age.Created == nil || age.Created.Format(time.DateOnly) != "1995-08-14" {
		t.Errorf("unexpected created date %v", age.Created)
	}
	if age.Expires == nil || age.Expires.Format(time.DateOnly) != "2026-08-14" {
		t.Errorf("unexpected expiry date %v", age.Expires)
	}
	if age.Registrar != "Example Registrar Ltd [Tag = EXAMPLE]" {
		t.Errorf("unexpected registrar %q", age.Registrar)
	}
}

func TestBuildCommandAge_NoCreationDate(t *testing.T) {
	raw := "Domain Name: example.com\nRegistrar: Example\nStatus: active\n"

	if _, err := buildCommandAge(raw); err != ErrNoRegistrationDate {
		t.Errorf("expected ErrNoRegistrationDate, got %v", err)
	}
}

func TestExtractFieldsFirstMatchWins(t *testing.T) {
	raw := "Creation Date: 2001-01-01\nCreated: 2015-05-05\n"

	fields := extractFields(raw)
	if fields[fieldCreated] != "2001-01-01" {
		t.Errorf("expected the first matching pattern to win, got %q", fields[fieldCreated])
	}
}
