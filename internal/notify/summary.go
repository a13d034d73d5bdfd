package notify

import (
	"context"
	"fmt"

	"github.com/jerilmartin/rankprobe/internal/scan"
)

// ScanFinished posts a summary of the finished scan to the webhook.
func (c *Client) ScanFinished(ctx context.Context, sc scan.Scan) error {
	return c.Send(ctx, scanMessage(sc))
}

// scanMessage builds the Block Kit summary for a terminal scan.
func scanMessage(sc scan.Scan) Message {
	if sc.Status == scan.StatusFailed {
		return Message{
			Text: fmt.Sprintf("Scan failed: %s", sc.Domain),
			Blocks: []Block{
				{Type: "header", Text: plainText("Scan failed")},
				{Type: "section", Fields: []TextObject{
					mrkdwn("*Domain:*\n%s", sc.Domain),
					mrkdwn("*Error:*\n%s", sc.ErrorMessage),
				}},
			},
		}
	}

	text := fmt.Sprintf("Scan complete: %s", sc.Domain)
	fields := []TextObject{mrkdwn("*Domain:*\n%s", sc.Domain)}

	if sc.Result != nil {
		text = fmt.Sprintf("Scan complete: %s scored %d/100", sc.Domain, sc.Result.HealthScore)
		fields = append(fields,
			mrkdwn("*Health score:*\n%d/100", sc.Result.HealthScore),
			mrkdwn("*Quick wins:*\n%d", len(sc.Result.QuickWins)),
			mrkdwn("*Action items:*\n%d", len(sc.Result.ActionItems)),
		)
	}

	return Message{
		Text: text,
		Blocks: []Block{
			{Type: "header", Text: plainText("Scan complete")},
			{Type: "section", Fields: fields},
		},
	}
}
