package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChooseStrategies(t *testing.T) {
	tests := []struct {
		name  string
		state CorpusState
		want  []Strategy
	}{
		{
			"embedder_ready_with_coverage",
			CorpusState{Records: 10, WithEmbedding: 10, EmbedderReady: true},
			[]Strategy{StrategyStructured, StrategyEmbedding, StrategyLexical},
		},
		{
			"embedder_down",
			CorpusState{Records: 10, WithEmbedding: 10, EmbedderReady: false},
			[]Strategy{StrategyStructured, StrategyLexical},
		},
		{
			"corpus_not_embedded_yet",
			CorpusState{Records: 10, WithEmbedding: 0, EmbedderReady: true},
			[]Strategy{StrategyStructured, StrategyLexical},
		},
		{
			"partial_coverage_still_tries_embeddings",
			CorpusState{Records: 10, WithEmbedding: 3, EmbedderReady: true},
			[]Strategy{StrategyStructured, StrategyEmbedding, StrategyLexical},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseStrategies(tt.state))
		})
	}
}
