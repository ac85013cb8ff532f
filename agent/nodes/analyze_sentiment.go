package pipelinenode

import (
	"context"
	"fmt"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
)

// AnalyzeSentiment scores the normalized text; a parse fallback still
// produces a usable analysis.
func AnalyzeSentiment(ctx context.Context, in *GraphState, analyzer contractx.SentimentAnalyzer) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	analysis, err := analyzer.Analyze(ctx, in.Translation.Translated)
	if err != nil {
		return nil, err
	}
	in.Sentiment = analysis
	return in, nil
}
