package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/theopenlane/httpsling"
)

// Message is the payload posted to the incoming webhook. Text is the fallback
// for clients that cannot render blocks.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is one Block Kit layout block
type Block struct {
	Type string `json:"type"`
	// Text carries the block text for header and plain section blocks
	Text *TextObject `json:"text,omitempty"`
	// Fields carries the column texts of a section block
	Fields []TextObject `json:"fields,omitempty"`
}

// TextObject is a Block Kit text element
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// mrkdwn builds a markdown-formatted text element
func mrkdwn(format string, args ...any) TextObject {
	return TextObject{Type: "mrkdwn", Text: fmt.Sprintf(format, args...)}
}

// plainText builds a plain text element
func plainText(text string) *TextObject {
	return &TextObject{Type: "plain_text", Text: text}
}

// Send posts a message to the configured webhook
func (c *Client) Send(ctx context.Context, msg Message) error {
	requester := httpsling.MustNew(
		httpsling.URL(c.webhookURL),
		httpsling.Post(),
		httpsling.JSONBody(msg),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}
