package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pienaaranker/storypoints-sub000/internal/store"
)

type recordingEvents struct {
	mu   sync.Mutex
	llm  []store.LLMRequestEventData
	fail error
}

func (r *recordingEvents) AppendAttempt(context.Context, store.AttemptEventData) (int64, error) {
	return 0, nil
}

func (r *recordingEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llm = append(r.llm, data)
	return r.fail
}

func (r *recordingEvents) RecentAttempts(context.Context, string, int) ([]store.AttemptEvent, error) {
	return nil, nil
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil, nil)
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
	if _, ok := p.(*TimeoutProvider); !ok {
		t.Fatalf("expected outermost TimeoutProvider, got %T", p)
	}
}

func TestWithLogging_RecordsEvent(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"hint":"Split it.","focus":"size"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7, TotalTokens: 19},
	})
	events := &recordingEvents{}
	core, logs := observer.New(zapcore.DebugLevel)

	p := WithLogging(mock, ProviderMock, events, zap.New(core))
	ctx := WithPurpose(context.Background(), "hint")
	if _, err := p.Generate(ctx, NewRequest("", "hint", testHintSchema(), 64)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events.llm) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.llm))
	}
	ev := events.llm[0]
	if ev.Provider != "mock" || ev.Model != "mock" || ev.Purpose != "hint" {
		t.Fatalf("event = %+v", ev)
	}
	if !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 7 {
		t.Fatalf("event = %+v", ev)
	}
	if logs.FilterMessage("llm request").Len() != 1 {
		t.Fatalf("expected one debug entry, got %v", logs.All())
	}
}

func TestWithLogging_Failure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	events := &recordingEvents{fail: errors.New("disk full")}
	core, logs := observer.New(zapcore.WarnLevel)

	p := WithLogging(mock, ProviderMock, events, zap.New(core))
	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error to pass through, got: %v", err)
	}

	if len(events.llm) != 1 || events.llm[0].Success || events.llm[0].ErrorMessage == "" {
		t.Fatalf("event = %+v", events.llm)
	}
	if events.llm[0].Purpose != "unknown" {
		t.Fatalf("purpose = %q", events.llm[0].Purpose)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatal("expected failure warning")
	}
	if logs.FilterMessage("record llm request event").Len() != 1 {
		t.Fatal("expected event-log warning")
	}
}

func TestWithLogging_NilEvents(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, ProviderMock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 5*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got: %v", err)
	}
	if p.ModelID() != "blocking" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}

func TestTimeoutNotRetried(t *testing.T) {
	p := WithTimeout(WithRetry(blockingProvider{}, fastRetry()), 5*time.Millisecond)
	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("timeout should stop retries")
	}
}
