package assistant

import (
	"bytes"
	"context"
	"strings"

	"github.com/tbourn/go-eco-backend/internal/search"
)

// NoMatchReply is returned by TipsClient when no tip matches.
const NoMatchReply = "I don't have a tip for that yet. Try asking about electricity, water, transport, trees or waste."

// TipsClient answers from a local tips index. It never fails.
type TipsClient struct {
	Index     search.Index
	K         int
	Threshold float64
}

// NewTipsClient indexes md, or the bundled tips when md is empty.
func NewTipsClient(md []byte, threshold float64) (*TipsClient, error) {
	if len(md) == 0 {
		md = defaultTips
	}
	idx, err := search.FromMarkdown(bytes.NewReader(md))
	if err != nil {
		return nil, err
	}
	return &TipsClient{Index: idx, K: 2, Threshold: threshold}, nil
}

// Reply implements Client. The system prompt is ignored.
func (c *TipsClient) Reply(_ context.Context, req Request) (string, error) {
	var parts []string
	for _, h := range c.Index.TopK(req.Prompt, c.K) {
		if h.Score < c.Threshold {
			continue
		}
		parts = append(parts, h.Text)
	}
	if len(parts) == 0 {
		return NoMatchReply, nil
	}
	return strings.Join(parts, "\n\n"), nil
}
