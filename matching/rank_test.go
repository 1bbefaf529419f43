package matching

import (
	"context"
	"testing"
	"time"

	"transit-agent/config"
	"transit-agent/corpus"
	apperrors "transit-agent/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	records []corpus.Record
}

func (s *stubProvider) ListRecords(ctx context.Context) ([]corpus.Record, error) {
	return s.records, nil
}

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vector, s.err
}

func rankTestConfig() *config.Config {
	return &config.Config{
		RankResults:              3,
		MinStructuredCandidates:  3,
		StructuredLineWeight:     0.4,
		StructuredLocationWeight: 0.3,
		StructuredProblemWeight:  0.2,
		StructuredKeywordWeight:  0.1,
		StructuredScoreFloor:     0.15,
		EmbeddingMatchThreshold:  0.78,
		EmbeddingExactThreshold:  0.85,
		LexicalMatchThreshold:    0.2,
		EmbeddingBoostWeight:     0.1,
		LexicalBoostWeight:       0.3,
	}
}

func testRecords() []corpus.Record {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return []corpus.Record{
		{
			ID:           "rec-408",
			InquiryText:  "קו 408 שינוי מסלול באזור התחנה",
			ResponseText: "שלום, בקשת שינוי המסלול של קו 408 הועברה לגורמי התכנון. בברכה",
			LineNumbers:  []int{408},
			CreatedDate:  created,
			IsOfficial:   true,
		},
		{
			ID:           "rec-30",
			InquiryText:  "צפיפות קשה בקו 30 בבוקר",
			ResponseText: "שלום, נושא הצפיפות בקו 30 נבחן. בברכה",
			LineNumbers:  []int{30},
			CreatedDate:  created,
		},
	}
}

func TestRankStructuredFirstScenario(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cfg := rankTestConfig()
	// One structured hit is enough; the similarity pass stays off.
	cfg.MinStructuredCandidates = 1
	engine := NewEngine(cfg, &stubProvider{records: testRecords()}, nil, logger)

	candidates, err := engine.Rank(context.Background(), "קו 408 שינוי מסלול", 5)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	best := candidates[0]
	assert.Equal(t, "rec-408", best.Record.ID)
	assert.GreaterOrEqual(t, best.Score, 0.4)

	foundLineReason := false
	for _, reason := range best.Reasons {
		if reason == "matches line 408" {
			foundLineReason = true
		}
	}
	assert.True(t, foundLineReason, "reasons should mention line 408, got %v", best.Reasons)
}

func TestRankDegradedModeFallsBackToLexical(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	records := testRecords()
	// Embeddings exist in the corpus, but the provider is down.
	for i := range records {
		records[i].Embedding = []float32{1, 0, 0}
	}
	embedder := &stubEmbedder{err: apperrors.ErrProviderUnavailable}
	engine := NewEngine(rankTestConfig(), &stubProvider{records: records}, embedder, logger)

	candidates, err := engine.Rank(context.Background(), "קו 408 שינוי מסלול", 5)
	require.NoError(t, err, "provider unavailability must never surface as an error")
	require.NotEmpty(t, candidates)
	assert.Equal(t, "rec-408", candidates[0].Record.ID)
}

func TestRankLexicalOnlyWithoutStructuredSignals(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	records := []corpus.Record{
		{
			ID:           "rec-general",
			InquiryText:  "האוטובוס דילג עלי הבוקר ליד הבית",
			ResponseText: "שלום, הנושא נבדק מול המפעיל. בברכה",
		},
	}
	engine := NewEngine(rankTestConfig(), &stubProvider{records: records}, nil, logger)

	candidates, err := engine.Rank(context.Background(), "האוטובוס דילג עלי הבוקר", 5)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, StrategyLexical, candidates[0].Strategy)
}

func TestRankEmbeddingStrategy(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	records := []corpus.Record{
		{
			ID:          "rec-close",
			InquiryText: "נסיעה ארוכה מדי",
			Embedding:   []float32{1, 0.05, 0},
		},
		{
			ID:          "rec-far",
			InquiryText: "נושא אחר לגמרי",
			Embedding:   []float32{0, 1, 0},
		},
	}
	embedder := &stubEmbedder{vector: []float32{1, 0, 0}}
	engine := NewEngine(rankTestConfig(), &stubProvider{records: records}, embedder, logger)

	candidates, err := engine.Rank(context.Background(), "נסיעה שלוקחת יותר מדי זמן", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "rec-close", candidates[0].Record.ID)
	assert.Equal(t, StrategyEmbedding, candidates[0].Strategy)
	assert.Contains(t, candidates[0].Reasons, "exact match")
}

func TestRankTruncatesToRequestedCount(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	records := []corpus.Record{}
	for _, id := range []string{"a", "b", "c", "d"} {
		records = append(records, corpus.Record{
			ID:          "rec-" + id,
			InquiryText: "קו 30 מאחר כל בוקר",
			LineNumbers: []int{30},
		})
	}
	engine := NewEngine(rankTestConfig(), &stubProvider{records: records}, nil, logger)

	candidates, err := engine.Rank(context.Background(), "קו 30 מאחר", 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	// Deterministic tie-break on record ID for equal scores.
	assert.Equal(t, "rec-a", candidates[0].Record.ID)
	assert.Equal(t, "rec-b", candidates[1].Record.ID)
}
