package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"transit-agent/corpus"
	apperrors "transit-agent/errors"

	"go.uber.org/zap"
)

// Candidate is one ranked historical record with a human-auditable score
// justification. Request-scoped, never persisted.
type Candidate struct {
	Record   corpus.Record
	Score    float64
	Reasons  []string
	Strategy Strategy
}

// Rank returns up to maxResults candidates for the inquiry, best first.
//
// Structured-first mode scores every record on entity overlap. When it yields
// fewer candidates than the configured minimum, a similarity pass runs as
// well: embedding similarity if the provider and corpus allow it, otherwise
// lexical similarity, with boundary-matched shared line numbers applied as an
// additive boost. An unreachable embedding provider degrades to lexical
// scoring silently; it is never surfaced to the caller as an error.
func (e *Engine) Rank(ctx context.Context, inquiry string, maxResults int) ([]Candidate, error) {
	if maxResults <= 0 {
		maxResults = e.cfg.RankResults
	}
	records, err := e.snapshot(ctx)
	if err != nil {
		return nil, apperrors.WrapError(err, "load corpus snapshot")
	}

	signals := ExtractSignals(inquiry)
	merged := make(map[string]Candidate)

	for _, cand := range e.rankStructured(signals, records) {
		merged[cand.Record.ID] = cand
	}

	minStructured := e.cfg.MinStructuredCandidates
	if minStructured <= 0 {
		minStructured = 3
	}
	if len(merged) < minStructured {
		for _, cand := range e.rankBySimilarity(ctx, inquiry, signals, records) {
			if existing, ok := merged[cand.Record.ID]; !ok || cand.Score > existing.Score {
				merged[cand.Record.ID] = cand
			}
		}
	}

	ranked := make([]Candidate, 0, len(merged))
	for _, cand := range merged {
		ranked = append(ranked, cand)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Record.ID < ranked[j].Record.ID
		}
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked, nil
}

// rankStructured scores every record on weighted entity overlap and keeps
// those above the configured floor.
func (e *Engine) rankStructured(signals Signals, records []corpus.Record) []Candidate {
	var out []Candidate
	for _, rec := range records {
		score, reasons := e.scoreStructured(signals, rec)
		if score <= e.cfg.StructuredScoreFloor {
			continue
		}
		out = append(out, Candidate{
			Record:   rec,
			Score:    score,
			Reasons:  reasons,
			Strategy: StrategyStructured,
		})
	}
	return out
}

func (e *Engine) scoreStructured(signals Signals, rec corpus.Record) (float64, []string) {
	var score float64
	var reasons []string

	if len(signals.LineNumbers) > 0 {
		shared := sharedLineCount(signals.LineNumbers, rec.LineNumbers, rec.InquiryText)
		if shared > 0 {
			score += e.cfg.StructuredLineWeight * float64(shared) / float64(len(signals.LineNumbers))
			for _, n := range signals.LineNumbers {
				if MatchesLine(rec.InquiryText, n) || containsLine(rec.LineNumbers, n) {
					reasons = append(reasons, fmt.Sprintf("matches line %d", n))
				}
			}
		}
	}

	if len(signals.Locations) > 0 {
		shared := 0
		for _, loc := range signals.Locations {
			if strings.Contains(rec.InquiryText, loc) || strings.Contains(rec.ResponseText, loc) {
				shared++
				reasons = append(reasons, fmt.Sprintf("shared location %q", loc))
			}
		}
		score += e.cfg.StructuredLocationWeight * float64(shared) / float64(len(signals.Locations))
	}

	if signals.ProblemType != "" && classifyProblem(rec.InquiryText) == signals.ProblemType {
		score += e.cfg.StructuredProblemWeight
		reasons = append(reasons, "same problem type: "+signals.ProblemType)
	}

	if len(signals.Keywords) > 0 {
		recText := NormalizeText(rec.InquiryText + " " + rec.ResponseText)
		shared := 0
		for _, kw := range signals.Keywords {
			if strings.Contains(recText, kw) {
				shared++
			}
		}
		if shared > 0 {
			score += e.cfg.StructuredKeywordWeight * float64(shared) / float64(len(signals.Keywords))
			reasons = append(reasons, fmt.Sprintf("keyword overlap %d/%d", shared, len(signals.Keywords)))
		}
	}

	return score, reasons
}

// rankBySimilarity applies the first similarity strategy that produces
// results: embedding when ready, lexical otherwise.
func (e *Engine) rankBySimilarity(ctx context.Context, inquiry string, signals Signals, records []corpus.Record) []Candidate {
	state := e.corpusState(records)
	for _, strategy := range ChooseStrategies(state) {
		switch strategy {
		case StrategyEmbedding:
			cands, err := e.rankByEmbedding(ctx, inquiry, signals, records)
			if err != nil {
				e.logger.Warn("Embedding similarity unavailable, degrading to lexical scoring",
					zap.Error(err))
				continue
			}
			return cands
		case StrategyLexical:
			return e.rankByLexical(inquiry, signals, records)
		}
	}
	return nil
}

func (e *Engine) rankByEmbedding(ctx context.Context, inquiry string, signals Signals, records []corpus.Record) ([]Candidate, error) {
	queryVec, err := e.embedder.Embed(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, rec := range records {
		if len(rec.Embedding) == 0 {
			// Embedding backfill is an out-of-band concern; skip for this strategy.
			continue
		}
		base := CosineSimilarity(queryVec, rec.Embedding)
		boosted, boostReason := e.applyLineBoost(base, e.cfg.EmbeddingBoostWeight, signals, rec)
		if boosted < e.cfg.EmbeddingMatchThreshold {
			continue
		}
		reasons := []string{fmt.Sprintf("semantic similarity %.2f", base)}
		if boosted >= e.cfg.EmbeddingExactThreshold {
			reasons = append(reasons, "exact match")
		} else {
			reasons = append(reasons, "related match")
		}
		if boostReason != "" {
			reasons = append(reasons, boostReason)
		}
		out = append(out, Candidate{
			Record:   rec,
			Score:    boosted,
			Reasons:  reasons,
			Strategy: StrategyEmbedding,
		})
	}
	return out, nil
}

func (e *Engine) rankByLexical(inquiry string, signals Signals, records []corpus.Record) []Candidate {
	var out []Candidate
	for _, rec := range records {
		// The higher of the inquiry-side and response-side similarity wins:
		// a citizen often phrases the problem the way a previous answer did.
		base := LexicalSimilarity(inquiry, rec.InquiryText)
		if s := LexicalSimilarity(inquiry, rec.ResponseText); s > base {
			base = s
		}
		boosted, boostReason := e.applyLineBoost(base, e.cfg.LexicalBoostWeight, signals, rec)
		if boosted < e.cfg.LexicalMatchThreshold {
			continue
		}
		reasons := []string{fmt.Sprintf("text similarity %.2f", base)}
		if boostReason != "" {
			reasons = append(reasons, boostReason)
		}
		out = append(out, Candidate{
			Record:   rec,
			Score:    boosted,
			Reasons:  reasons,
			Strategy: StrategyLexical,
		})
	}
	return out
}

// applyLineBoost adds weight×(shared/query) for boundary-matched shared line
// numbers, capped at 1.0.
func (e *Engine) applyLineBoost(base, weight float64, signals Signals, rec corpus.Record) (float64, string) {
	if len(signals.LineNumbers) == 0 {
		return base, ""
	}
	shared := sharedLineCount(signals.LineNumbers, rec.LineNumbers, rec.InquiryText)
	if shared == 0 {
		return base, ""
	}
	boosted := base + weight*float64(shared)/float64(len(signals.LineNumbers))
	if boosted > 1.0 {
		boosted = 1.0
	}
	return boosted, fmt.Sprintf("shared lines boost %d/%d", shared, len(signals.LineNumbers))
}

func containsLine(lines []int, n int) bool {
	for _, l := range lines {
		if l == n {
			return true
		}
	}
	return false
}
