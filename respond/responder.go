package respond

import (
	"context"

	"transit-agent/config"
	apperrors "transit-agent/errors"
	"transit-agent/matching"
	"transit-agent/prompts"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Generator is the external language-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, temperature *float64) (string, error)
}

// Answer is the final outcome of one inquiry.
type Answer struct {
	Text       string
	Validation Result
	Candidates []matching.Candidate
	Cached     bool
}

// Responder runs the full pipeline: cache lookup, candidate ranking,
// generation, validation with one conservative retry, cache write and
// conversation update. Concurrent identical misses share one generation call
// through a single-flight group.
type Responder struct {
	cfg       *config.Config
	logger    *zap.Logger
	engine    *matching.Engine
	generator Generator
	validator *Validator
	cache     *Cache
	contexts  *ContextStore
	flight    singleflight.Group
}

func NewResponder(cfg *config.Config, engine *matching.Engine, generator Generator, validator *Validator, logger *zap.Logger) (*Responder, error) {
	contexts, err := NewContextStore(cfg.SessionCacheSize, cfg.HistoryMaxTurns)
	if err != nil {
		return nil, err
	}
	return &Responder{
		cfg:       cfg,
		logger:    logger,
		engine:    engine,
		generator: generator,
		validator: validator,
		cache:     NewCache(cfg.CacheMaxEntries, cfg.CacheTTL),
		contexts:  contexts,
	}, nil
}

// Rank exposes candidate ranking without generation.
func (r *Responder) Rank(ctx context.Context, inquiry string, maxResults int) ([]matching.Candidate, error) {
	return r.engine.Rank(ctx, inquiry, maxResults)
}

// Engine returns the underlying matching engine.
func (r *Responder) Engine() *matching.Engine {
	return r.engine
}

// Respond answers one inquiry end to end. The pipeline has no interim side
// effects: cache and conversation are only touched once a final answer exists,
// so an abandoned request cannot corrupt shared state.
func (r *Responder) Respond(ctx context.Context, sessionID, inquiry string) (Answer, error) {
	conv := r.contexts.Get(sessionID)
	hasHistory := conv.HasHistory()

	if cached, ok := r.cache.Get(inquiry, hasHistory); ok {
		answer := Answer{
			Text:       cached,
			Validation: r.validator.Validate(cached, inquiry),
			Cached:     true,
		}
		r.recordTurn(conv, inquiry, answer.Text)
		return answer, nil
	}

	key := CacheKey(inquiry, hasHistory)
	v, err, shared := r.flight.Do(key, func() (interface{}, error) {
		return r.respondUncached(ctx, conv, inquiry, hasHistory)
	})
	if err != nil {
		return Answer{}, err
	}
	answer := v.(Answer)
	if shared {
		r.logger.Debug("Shared in-flight answer with concurrent request", zap.String("key", key))
	}
	r.recordTurn(conv, inquiry, answer.Text)
	return answer, nil
}

func (r *Responder) respondUncached(ctx context.Context, conv *Conversation, inquiry string, hasHistory bool) (Answer, error) {
	candidates, err := r.engine.Rank(ctx, inquiry, r.cfg.RankResults)
	if err != nil {
		return Answer{}, apperrors.WrapError(err, "rank candidates")
	}

	candidateResponse := ""
	if len(candidates) > 0 {
		// An empty candidate list is not an error: generation simply runs
		// without historical context.
		candidateResponse = candidates[0].Record.ResponseText
	}

	var recent []string
	for _, turn := range conv.History() {
		recent = append(recent, turn.Inquiry)
	}
	userPrompt := prompts.BuildUserPrompt(inquiry, candidateResponse, recent)

	text, err := r.generator.Generate(ctx, prompts.System(), userPrompt, nil)
	if err != nil {
		if ctx.Err() != nil {
			return Answer{}, err
		}
		r.logger.Warn("Generation backend unavailable, using template fallback", zap.Error(err))
		text = candidateResponse
		if text == "" {
			text = prompts.FallbackResponse()
		}
		answer := Answer{
			Text:       text,
			Validation: r.validator.Validate(text, inquiry),
			Candidates: candidates,
		}
		r.cache.Set(inquiry, hasHistory, text)
		return answer, nil
	}

	finalText, validation := r.ValidateAndFinalize(ctx, inquiry, text)
	r.cache.Set(inquiry, hasHistory, finalText)
	return Answer{
		Text:       finalText,
		Validation: validation,
		Candidates: candidates,
	}, nil
}

// ValidateAndFinalize gates a generated response. An invalid response is
// regenerated once with the conservative prompt; if the retry is still
// invalid it is returned anyway with its low score. Availability over purity:
// the citizen always receives some answer.
func (r *Responder) ValidateAndFinalize(ctx context.Context, inquiry, generated string) (string, Result) {
	validation := r.validator.Validate(generated, inquiry)
	if validation.IsValid {
		return generated, validation
	}

	r.logger.Warn("Generated response failed validation, retrying with conservative prompt",
		zap.Int("score", validation.Score),
		zap.Strings("issues", validation.Issues))

	retry, err := r.generator.Generate(ctx, prompts.ConservativeSystem(), prompts.BuildUserPrompt(inquiry, "", nil), nil)
	if err != nil {
		r.logger.Warn("Conservative retry failed, returning original response", zap.Error(err))
		return generated, validation
	}

	retryValidation := r.validator.Validate(retry, inquiry)
	if !retryValidation.IsValid {
		r.logger.Warn("Conservative retry still invalid, returning it best-effort",
			zap.Int("score", retryValidation.Score),
			zap.Strings("issues", retryValidation.Issues))
	}
	return retry, retryValidation
}

// recordTurn updates the session history and topic counters.
func (r *Responder) recordTurn(conv *Conversation, inquiry, response string) {
	signals := matching.ExtractSignals(inquiry)
	metadata := map[string]string{}
	if signals.ProblemType != "" {
		metadata["problem_type"] = signals.ProblemType
		conv.RecordTopic(signals.ProblemType)
	}
	for _, loc := range signals.Locations {
		conv.RecordTopic(loc)
	}
	conv.AddTurn(inquiry, response, metadata)
}

// Sessions returns the conversation store, for handlers that need history.
func (r *Responder) Sessions() *ContextStore {
	return r.contexts
}
