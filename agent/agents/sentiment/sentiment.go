// Package sentiment adapts the completion capability for sentiment,
// priority, and category analysis of inbound messages.
package sentiment

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	llmx "github.com/amilie-studio/inbox-agent/agent/llm"
	promptx "github.com/amilie-studio/inbox-agent/agent/prompt"
)

const (
	analyzeMaxTokens   = 256
	quickMaxTokens     = 20
	priorityMaxTokens  = 10
	categoryMaxTokens  = 30
	fallbackSummaryLen = 100
)

type analyzerImpl struct {
	client  contractx.CompletionClient
	prompts promptx.PromptSet
}

var _ contractx.SentimentAnalyzer = (*analyzerImpl)(nil)

func New(client contractx.CompletionClient, prompts promptx.PromptSet) contractx.SentimentAnalyzer {
	return &analyzerImpl{client: client, prompts: prompts}
}

// Fallback is the deterministic analysis substituted when the model response
// cannot be parsed. It is part of the adapter contract, not an error.
func Fallback(message string) contractx.SentimentAnalysis {
	summary := message
	if len(summary) > fallbackSummaryLen {
		cut := fallbackSummaryLen
		// Back off to a rune boundary so the summary stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}
	return contractx.SentimentAnalysis{
		Sentiment:                  contractx.SentimentNeutral,
		Priority:                   5,
		Category:                   contractx.CategoryGeneralInquiry,
		RequiresImmediateAttention: false,
		Summary:                    summary,
	}
}

func (a *analyzerImpl) Analyze(ctx context.Context, message string) (contractx.SentimentAnalysis, error) {
	prompt, err := llmx.Render("sentiment", a.prompts.Sentiment, map[string]string{"Message": message})
	if err != nil {
		return contractx.SentimentAnalysis{}, err
	}

	raw, err := a.client.Complete(ctx, prompt, analyzeMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("sentiment call failed, using fallback")
		return Fallback(message), nil
	}

	var result contractx.SentimentAnalysis
	if err := llmx.DecodeJSON(raw, &result); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("sentiment response unparseable, using fallback")
		return Fallback(message), nil
	}
	return result, nil
}

// QuickSentiment asks for the one-word emotional tone only.
func (a *analyzerImpl) QuickSentiment(ctx context.Context, message string) (contractx.Sentiment, error) {
	prompt, err := llmx.Render("quick_sentiment", a.prompts.QuickSentiment, map[string]string{"Message": message})
	if err != nil {
		return "", err
	}

	raw, err := a.client.Complete(ctx, prompt, quickMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("quick sentiment failed, using neutral")
		return contractx.SentimentNeutral, nil
	}
	return contractx.Sentiment(strings.ToLower(strings.TrimSpace(raw))), nil
}

// QuickPriority asks for the 1-10 urgency number only.
func (a *analyzerImpl) QuickPriority(ctx context.Context, message string) (int, error) {
	prompt, err := llmx.Render("priority", a.prompts.Priority, map[string]string{"Message": message})
	if err != nil {
		return 0, err
	}

	raw, err := a.client.Complete(ctx, prompt, priorityMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("priority call failed, using default")
		return 5, nil
	}
	priority, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Warn().Str("raw", raw).Msg("priority response not a number, using default")
		return 5, nil
	}
	return priority, nil
}

func (a *analyzerImpl) Categorize(ctx context.Context, message string) (contractx.Category, error) {
	prompt, err := llmx.Render("categorize", a.prompts.Categorize, map[string]string{"Message": message})
	if err != nil {
		return "", err
	}

	raw, err := a.client.Complete(ctx, prompt, categoryMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("categorize call failed, using general_inquiry")
		return contractx.CategoryGeneralInquiry, nil
	}
	return contractx.Category(strings.ToLower(strings.TrimSpace(raw))), nil
}
