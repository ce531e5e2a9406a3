package coach

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pienaaranker/storypoints-sub000/internal/llm"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
)

// Service generates hints asynchronously and feedback on demand. A nil
// provider disables every LLM call; feedback then falls back to the summary
// line.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger

	wg sync.WaitGroup

	mu      sync.Mutex
	seq     uint64
	pending *Hint
	err     error
	ready   bool
}

// NewService creates a coach service. provider and logger may be nil.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// Enabled reports whether an LLM provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// RequestHint starts async hint generation and reports whether a request
// was made. Nothing is requested unless settings.ShowHints is on. Only the
// latest request counts; a result from an earlier one is dropped.
func (s *Service) RequestHint(ctx context.Context, settings progression.Settings, input HintInput) bool {
	if !settings.ShowHints || !s.Enabled() {
		return false
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.pending, s.err, s.ready = nil, nil, false
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		hint, err := s.generateHint(ctx, input)
		if err != nil {
			s.logger.Warn("hint generation failed",
				zap.String("exercise_id", input.Exercise.ID), zap.Error(err))
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return
		}
		s.pending = hint
		s.err = err
		s.ready = true
	}()
	return true
}

// ConsumeHint returns the pending hint if one is ready. It returns
// (nil, false) while generation is running or when it failed. After
// consumption the pending slot is cleared.
func (s *Service) ConsumeHint() (*Hint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	hint := s.pending
	s.pending = nil
	s.ready = false
	s.err = nil
	return hint, hint != nil
}

// Err returns the error of the latest finished request that has not been
// consumed.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until all in-flight hint requests have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Hint generates a hint synchronously. It honours settings.ShowHints like
// RequestHint and returns (nil, nil) when hints are off.
func (s *Service) Hint(ctx context.Context, settings progression.Settings, input HintInput) (*Hint, error) {
	if !settings.ShowHints || !s.Enabled() {
		return nil, nil
	}
	return s.generateHint(ctx, input)
}

type hintOutput struct {
	Hint  string `json:"hint"`
	Focus string `json:"focus"`
}

func (s *Service) generateHint(ctx context.Context, input HintInput) (*Hint, error) {
	ctx = llm.WithPurpose(ctx, "hint")

	req := llm.NewRequest(hintSystemPrompt, buildHintUserMessage(input), HintSchema, s.cfg.HintMaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("hint generation: %w", err)
	}

	var out hintOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse hint response: %w", err)
	}

	return &Hint{
		ExerciseID: input.Exercise.ID,
		Checkpoint: input.Checkpoint,
		Text:       out.Hint,
		Focus:      out.Focus,
	}, nil
}

type feedbackOutput struct {
	Explanation string   `json:"explanation"`
	Tips        []string `json:"tips"`
}

// Feedback returns feedback for a finished attempt. The summary line is
// always set. With settings.DetailedFeedback on and a provider configured,
// the LLM adds an explanation and tips; a failed call leaves the summary
// only and returns the error alongside it.
func (s *Service) Feedback(ctx context.Context, settings progression.Settings, input FeedbackInput) (Feedback, error) {
	fb := Feedback{Summary: summaryLine(input)}
	if !settings.DetailedFeedback || !s.Enabled() {
		return fb, nil
	}

	ctx = llm.WithPurpose(ctx, "feedback")
	req := llm.NewRequest(feedbackSystemPrompt, buildFeedbackUserMessage(input), FeedbackSchema, s.cfg.FeedbackMaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		err = fmt.Errorf("feedback generation: %w", err)
		s.logger.Warn("feedback generation failed",
			zap.String("exercise_id", input.Exercise.ID), zap.Error(err))
		return fb, err
	}

	var out feedbackOutput
	if err := resp.Decode(&out); err != nil {
		err = fmt.Errorf("parse feedback response: %w", err)
		s.logger.Warn("feedback generation failed",
			zap.String("exercise_id", input.Exercise.ID), zap.Error(err))
		return fb, err
	}
	fb.Detail = out.Explanation
	fb.Tips = out.Tips
	return fb, nil
}
