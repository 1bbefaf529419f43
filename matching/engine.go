package matching

import (
	"context"

	"transit-agent/config"
	"transit-agent/corpus"

	"go.uber.org/zap"
)

// Engine turns a raw inquiry into a ranked set of historical candidates.
// It owns no global state: the corpus provider and embedder are injected,
// and every request works against a point-in-time snapshot.
type Engine struct {
	cfg      *config.Config
	logger   *zap.Logger
	provider corpus.Provider
	embedder Embedder
}

func NewEngine(cfg *config.Config, provider corpus.Provider, embedder Embedder, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		embedder: embedder,
	}
}

// snapshot loads the corpus and fills in derived line numbers for records the
// ingestion job left bare.
func (e *Engine) snapshot(ctx context.Context) ([]corpus.Record, error) {
	records, err := e.provider.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if len(records[i].LineNumbers) == 0 {
			records[i].LineNumbers = ExtractLineNumbers(records[i].InquiryText)
		}
	}
	return records, nil
}

// corpusState reports embedding coverage for strategy selection.
func (e *Engine) corpusState(records []corpus.Record) CorpusState {
	state := CorpusState{
		Records:       len(records),
		EmbedderReady: e.embedder != nil,
	}
	for _, rec := range records {
		if len(rec.Embedding) > 0 {
			state.WithEmbedding++
		}
	}
	return state
}

// CorpusInfo returns corpus size and embedding coverage for health reporting.
func (e *Engine) CorpusInfo(ctx context.Context) (CorpusState, error) {
	records, err := e.snapshot(ctx)
	if err != nil {
		return CorpusState{}, err
	}
	return e.corpusState(records), nil
}
