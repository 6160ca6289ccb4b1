// Package assistant answers free-text sustainability questions. OpenAIClient
// relays to an OpenAI-compatible chat completion API; TipsClient answers
// offline from a bundled tips document.
package assistant

import (
	"context"
	_ "embed"
)

// Request is one question with an optional system prompt carrying context
// such as the user's latest footprint.
type Request struct {
	System string
	Prompt string
}

// Client produces a reply for a request.
type Client interface {
	Reply(ctx context.Context, req Request) (string, error)
}

//go:embed tips.md
var defaultTips []byte

// DefaultTips returns the bundled tips document.
func DefaultTips() []byte { return defaultTips }
