package api

import (
	"net/http"

	"github.com/jerilmartin/rankprobe/internal/highlight"
)

// HighlightRequest represents a keyword highlighting request
type HighlightRequest struct {
	// ArticleText is the draft content to annotate
	ArticleText string `json:"article_text"`
	// Keywords are the phrases to highlight, in priority order
	Keywords []string `json:"keywords"`
	// TargetWordCount sizes the highlight budget when positive; otherwise the
	// article's own word count is used
	TargetWordCount int `json:"target_word_count,omitempty"`
}

// HighlightResult holds the annotated article
type HighlightResult struct {
	// AnnotatedText is the article with mark tags inserted
	AnnotatedText string `json:"annotated_text"`
	// HighlightCount is the number of highlights placed
	HighlightCount int `json:"highlight_count"`
	// Placements records where each highlight landed
	Placements []highlight.Placement `json:"placements,omitempty"`
}

// HighlightResponse is the API response envelope for highlighting
type HighlightResponse struct {
	// Success indicates whether the annotation completed
	Success bool `json:"success"`
	// Data holds the annotated article when successful
	Data *HighlightResult `json:"data,omitempty"`
	// Error is the normalized error payload when validation fails
	Error *Error `json:"error,omitempty"`
}

// handleHighlight annotates article text with keyword highlights. The
// endpoint is pure: no probe or network call is involved.
func (h *Handler) handleHighlight(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req HighlightRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondHighlightError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if req.ArticleText == "" {
		respondHighlightError(w, http.StatusBadRequest, errCodeValidation, ErrArticleTextRequired.Error())
		return
	}

	if len(req.Keywords) == 0 {
		respondHighlightError(w, http.StatusBadRequest, errCodeValidation, ErrKeywordsRequired.Error())
		return
	}

	annotated, placements := highlight.Annotate(req.ArticleText, req.Keywords, req.TargetWordCount)

	writeJSON(w, http.StatusOK, HighlightResponse{
		Success: true,
		Data: &HighlightResult{
			AnnotatedText:  annotated,
			HighlightCount: len(placements),
			Placements:     placements,
		},
	})
}

func respondHighlightError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, HighlightResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}
