// Package services – AssistantService
//
// AssistantService validates a prompt, adds the user's latest footprint as
// system context and relays it to an assistant.Client under a timeout.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-eco-backend/internal/assistant"
	"github.com/tbourn/go-eco-backend/internal/domain"
)

const systemPrompt = "You are an eco assistant. Give short, practical advice for lowering a person's daily CO2 footprint."

// LatestFunc returns the most recent footprint, or nil.
type LatestFunc func(ctx context.Context) (*domain.FootprintResult, error)

// AssistantService answers eco questions.
type AssistantService struct {
	Client         assistant.Client
	Latest         LatestFunc
	MaxPromptRunes int
	Timeout        time.Duration
}

// Reply validates prompt and returns the assistant's answer.
func (s *AssistantService) Reply(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("services/AssistantService").Start(ctx, "Reply",
		trace.WithAttributes(attribute.Int("prompt.runes", utf8.RuneCountInString(prompt))),
	)
	defer span.End()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(prompt) > s.MaxPromptRunes {
		return "", ErrTooLong
	}

	req := assistant.Request{System: s.system(ctx), Prompt: prompt}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	reply, err := s.Client.Reply(ctx, req)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}
	return reply, nil
}

func (s *AssistantService) system(ctx context.Context) string {
	if s.Latest == nil {
		return systemPrompt
	}
	latest, err := s.Latest(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("assistant: latest footprint unavailable")
		return systemPrompt
	}
	if latest == nil {
		return systemPrompt
	}
	return fmt.Sprintf("%s The user's latest daily footprint is %.0f g CO2 (%s), commuting by %s.",
		systemPrompt, latest.TotalGramsCO2, latest.Tier.Label(), latest.TransportMode.Label())
}
