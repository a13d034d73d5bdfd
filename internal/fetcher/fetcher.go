// Package fetcher retrieves a page and extracts the on-page signals the
// keyword and salience analysis feed on. Static extraction runs first; pages
// that come back too thin fall back to a shared headless browser render.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// maxBodyBytes caps how much of a response body is read and fingerprinted
const maxBodyBytes = 2 << 20

// Page holds the on-page signals extracted from one fetched document.
type Page struct {
	// URL is the address the page was fetched from
	URL string
	// Title is the document title text
	Title string
	// MetaDescription is the meta description content
	MetaDescription string
	// MetaKeywords is the raw meta keywords content
	MetaKeywords string
	// Headings lists h1 through h3 texts in document order
	Headings []string
	// AltTexts lists non-empty image alt attributes
	AltTexts []string
	// AriaLabels lists non-empty aria-label attributes
	AriaLabels []string
	// VisibleText is the whitespace-normalized body text without scripts and styles
	VisibleText string
	// WordCount is the number of words in VisibleText
	WordCount int
	// HasViewportMeta indicates a responsive viewport meta tag is present
	HasViewportMeta bool
	// InternalLinks counts anchors resolving to the page's own host
	InternalLinks int
	// ExternalLinks counts anchors resolving elsewhere
	ExternalLinks int
	// Rendered indicates the page content came from the headless browser fallback
	Rendered bool
	// Technologies lists the detected technology stack
	Technologies []types.Technology
}

// Fetcher retrieves pages and extracts their content signals
type Fetcher struct {
	client        *http.Client
	userAgent     string
	minTextChars  int
	renderEnabled bool
	renderTimeout time.Duration

	browserOnce   sync.Once
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// New creates a page fetcher
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:        &http.Client{Timeout: defaultTimeout},
		userAgent:     defaultUserAgent,
		minTextChars:  defaultMinTextChars,
		renderEnabled: true,
		renderTimeout: defaultRenderTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves pageURL and extracts its content signals. When static
// extraction yields less visible text than the render threshold and rendering
// is enabled, the page is re-fetched through the headless browser.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	body, headers, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page, err := parsePage(pageURL, body)
	if err != nil {
		return nil, err
	}

	if f.needsRender(page) && ctx.Err() == nil {
		html, renderErr := f.render(pageURL)
		if renderErr != nil {
			log.Debug().Err(renderErr).Str("url", pageURL).Msg("render fallback failed, keeping static extraction")
		} else if rendered, parseErr := parsePage(pageURL, []byte(html)); parseErr == nil {
			rendered.Rendered = true
			page = rendered
		}
	}

	page.Technologies = fingerprintTechnologies(headers, body)

	return page, nil
}

// needsRender reports whether static extraction came back too thin to analyze
func (f *Fetcher) needsRender(page *Page) bool {
	return f.renderEnabled && utf8.RuneCountInString(page.VisibleText) < f.minTextChars
}

// get performs the plain HTTP retrieval of the page
func (f *Fetcher) get(ctx context.Context, pageURL string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	return body, resp.Header, nil
}

// parsePage extracts content signals from an HTML document
func parsePage(pageURL string, body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	doc.Find("script, style, noscript").Remove()

	page := &Page{URL: pageURL}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	page.MetaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	page.MetaKeywords = strings.TrimSpace(doc.Find(`meta[name="keywords"]`).AttrOr("content", ""))

	doc.Find(`meta[name="viewport"]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok && strings.Contains(strings.ToLower(content), "width=device-width") {
			page.HasViewportMeta = true
		}
	})

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			page.Headings = append(page.Headings, text)
		}
	})

	doc.Find("img[alt]").Each(func(_ int, s *goquery.Selection) {
		if alt := strings.TrimSpace(s.AttrOr("alt", "")); alt != "" {
			page.AltTexts = append(page.AltTexts, alt)
		}
	})

	doc.Find("[aria-label]").Each(func(_ int, s *goquery.Selection) {
		if label := strings.TrimSpace(s.AttrOr("aria-label", "")); label != "" {
			page.AriaLabels = append(page.AriaLabels, label)
		}
	})

	words := strings.Fields(doc.Find("body").Text())
	page.VisibleText = strings.Join(words, " ")
	page.WordCount = len(words)

	countLinks(doc, pageURL, page)

	return page, nil
}

// countLinks tallies internal versus external anchors
func countLinks(doc *goquery.Document, pageURL string, page *Page) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || href == "#" ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		if base.ResolveReference(ref).Host == base.Host {
			page.InternalLinks++
		} else {
			page.ExternalLinks++
		}
	})
}
