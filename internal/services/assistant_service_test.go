package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-eco-backend/internal/assistant"
	"github.com/tbourn/go-eco-backend/internal/domain"
)

type fakeClient struct {
	got   assistant.Request
	reply string
	err   error
	wait  bool
}

func (f *fakeClient) Reply(ctx context.Context, req assistant.Request) (string, error) {
	f.got = req
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func TestReply_Validation(t *testing.T) {
	s := &AssistantService{Client: &fakeClient{reply: "ok"}, MaxPromptRunes: 5}
	ctx := context.Background()

	if _, err := s.Reply(ctx, "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if _, err := s.Reply(ctx, "ünïcødé"); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
	if got, err := s.Reply(ctx, " hi "); err != nil || got != "ok" {
		t.Fatalf("unexpected reply %q %v", got, err)
	}
}

func TestReply_IncludesLatestFootprint(t *testing.T) {
	fc := &fakeClient{reply: "ok"}
	s := &AssistantService{
		Client: fc,
		Latest: func(context.Context) (*domain.FootprintResult, error) {
			return &domain.FootprintResult{
				FootprintInput: domain.FootprintInput{TransportMode: domain.TransportBus},
				TotalGramsCO2:  4321.4,
				Tier:           domain.TierGood,
			}, nil
		},
	}
	_, _ = s.Reply(context.Background(), "tips")
	if !strings.Contains(fc.got.System, "4321 g") || !strings.Contains(fc.got.System, "Bus") {
		t.Fatalf("system prompt missing context: %q", fc.got.System)
	}
	if fc.got.Prompt != "tips" {
		t.Fatalf("unexpected prompt %q", fc.got.Prompt)
	}
}

func TestReply_LatestErrorFallsBack(t *testing.T) {
	fc := &fakeClient{reply: "ok"}
	s := &AssistantService{
		Client: fc,
		Latest: func(context.Context) (*domain.FootprintResult, error) { return nil, errors.New("io") },
	}
	if _, err := s.Reply(context.Background(), "tips"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if fc.got.System != systemPrompt {
		t.Fatalf("expected plain system prompt, got %q", fc.got.System)
	}
}

func TestReply_ClientFailureIsUnavailable(t *testing.T) {
	s := &AssistantService{Client: &fakeClient{err: errors.New("503")}}
	if _, err := s.Reply(context.Background(), "hello"); !errors.Is(err, ErrAssistantUnavailable) {
		t.Fatalf("expected ErrAssistantUnavailable, got %v", err)
	}

	slow := &AssistantService{Client: &fakeClient{wait: true}, Timeout: 10 * time.Millisecond}
	if _, err := slow.Reply(context.Background(), "hello"); !errors.Is(err, ErrAssistantUnavailable) {
		t.Fatalf("expected timeout mapped to ErrAssistantUnavailable, got %v", err)
	}
}
