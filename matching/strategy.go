package matching

// Strategy identifies which scoring path produced a candidate.
type Strategy string

const (
	StrategyStructured Strategy = "structured"
	StrategyEmbedding  Strategy = "embedding"
	StrategyLexical    Strategy = "lexical"
)

// CorpusState summarizes what the similarity strategies have to work with.
type CorpusState struct {
	Records       int
	WithEmbedding int
	EmbedderReady bool
}

// ChooseStrategies returns the ranked list of strategies to apply for the
// given corpus state. Structured matching always runs first; embedding
// similarity is only attempted when the provider is up and at least part of
// the corpus is embedded; lexical scoring is always available as the floor.
func ChooseStrategies(state CorpusState) []Strategy {
	strategies := []Strategy{StrategyStructured}
	if state.EmbedderReady && state.WithEmbedding > 0 {
		strategies = append(strategies, StrategyEmbedding)
	}
	strategies = append(strategies, StrategyLexical)
	return strategies
}
