package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postHighlight(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/highlight", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	return w
}

func TestHandleHighlight(t *testing.T) {
	handler, _ := newTestRouter(4)

	body := `{"article_text":"Premium garden tools earn their keep in the long run.\n\nSharp blades cut cleaner.","keywords":["garden tools"],"target_word_count":400}`
	w := postHighlight(t, handler, body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HighlightResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Success || resp.Data == nil {
		t.Fatal("expected annotated article in response")
	}

	want := "Premium <mark>garden tools</mark> earn their keep in the long run.\n\nSharp blades cut cleaner."
	if resp.Data.AnnotatedText != want {
		t.Errorf("unexpected annotated text:\n got %q\nwant %q", resp.Data.AnnotatedText, want)
	}
	if resp.Data.HighlightCount != 1 {
		t.Errorf("expected 1 highlight, got %d", resp.Data.HighlightCount)
	}
	if len(resp.Data.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(resp.Data.Placements))
	}

	p := resp.Data.Placements[0]
	if p.Keyword != "garden tools" || p.CharOffset != 8 || p.ParagraphIndex != 0 {
		t.Errorf("unexpected placement: %+v", p)
	}
}

func TestHandleHighlight_NoBudget(t *testing.T) {
	handler, _ := newTestRouter(4)

	body := `{"article_text":"Premium garden tools earn their keep.","keywords":["garden tools"]}`
	w := postHighlight(t, handler, body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HighlightResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data == nil {
		t.Fatal("expected data in response")
	}
	if resp.Data.AnnotatedText != "Premium garden tools earn their keep." {
		t.Errorf("expected text unchanged, got %q", resp.Data.AnnotatedText)
	}
	if resp.Data.HighlightCount != 0 {
		t.Errorf("expected no highlights for a short article, got %d", resp.Data.HighlightCount)
	}
	if len(resp.Data.Placements) != 0 {
		t.Errorf("expected no placements, got %d", len(resp.Data.Placements))
	}
}

func TestHandleHighlight_MissingText(t *testing.T) {
	handler, _ := newTestRouter(4)

	w := postHighlight(t, handler, `{"keywords":["garden tools"]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp HighlightResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error == nil {
		t.Fatal("expected error payload")
	}
	if resp.Error.Code != errCodeValidation {
		t.Errorf("expected %s error, got %s", errCodeValidation, resp.Error.Code)
	}
	if resp.Error.Message != ErrArticleTextRequired.Error() {
		t.Errorf("expected %q, got %q", ErrArticleTextRequired.Error(), resp.Error.Message)
	}
}

func TestHandleHighlight_MissingKeywords(t *testing.T) {
	handler, _ := newTestRouter(4)

	w := postHighlight(t, handler, `{"article_text":"Premium garden tools earn their keep."}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp HighlightResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error == nil {
		t.Fatal("expected error payload")
	}
	if resp.Error.Message != ErrKeywordsRequired.Error() {
		t.Errorf("expected %q, got %q", ErrKeywordsRequired.Error(), resp.Error.Message)
	}
}

func TestHandleHighlight_InvalidJSON(t *testing.T) {
	handler, _ := newTestRouter(4)

	w := postHighlight(t, handler, "not json")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp HighlightResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error == nil || resp.Error.Code != errCodeInvalidRequest {
		t.Errorf("expected %s error, got %+v", errCodeInvalidRequest, resp.Error)
	}
}
