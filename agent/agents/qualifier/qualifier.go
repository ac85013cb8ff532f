// Package qualifier adapts the completion capability for lead scoring,
// buying-signal detection, and qualification gap analysis.
package qualifier

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	llmx "github.com/amilie-studio/inbox-agent/agent/llm"
	promptx "github.com/amilie-studio/inbox-agent/agent/prompt"
)

const (
	scoreMaxTokens   = 512
	signalsMaxTokens = 256
	missingMaxTokens = 128
)

// questionBank maps a missing qualification dimension to ready-made
// questions; the first entry per dimension is the one handed out.
var questionBank = map[string][]string{
	"budget": {
		"What budget range are you working with for this?",
		"Do you have a specific budget in mind?",
		"What's your investment range for this project?",
	},
	"timeline": {
		"When are you looking to make a decision?",
		"What's your timeline for this?",
		"How soon do you need this?",
	},
	"requirements": {
		"What specific features are most important to you?",
		"Can you tell me more about what you're looking for?",
		"What problem are you trying to solve?",
	},
	"authority": {
		"Are you the decision maker for this purchase?",
		"Who else is involved in making this decision?",
		"Will anyone else need to approve this?",
	},
}

type qualifierImpl struct {
	client  contractx.CompletionClient
	prompts promptx.PromptSet
}

var _ contractx.LeadQualifier = (*qualifierImpl)(nil)

func New(client contractx.CompletionClient, prompts promptx.PromptSet) contractx.LeadQualifier {
	return &qualifierImpl{client: client, prompts: prompts}
}

// ScoreFallback is the deterministic qualification substituted when the
// model response cannot be parsed.
func ScoreFallback() contractx.LeadQualification {
	return contractx.LeadQualification{
		Score:       contractx.LeadWarm,
		Confidence:  50,
		IntentLevel: 5,
		Reasoning:   "Unable to fully analyze conversation",
	}
}

// SignalsFallback is the deterministic no-signal result.
func SignalsFallback() contractx.BuyingSignals {
	return contractx.BuyingSignals{
		HasBuyingSignal: false,
		SignalStrength:  contractx.SignalWeak,
		SignalsDetected: []string{},
	}
}

// MissingFallback assumes the broad gaps are still open.
func MissingFallback() []string {
	return []string{"budget", "timeline", "requirements"}
}

func renderConversation(conversation []contractx.Turn) string {
	lines := make([]string, 0, len(conversation))
	for _, turn := range conversation {
		lines = append(lines, turn.Role+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}

func (q *qualifierImpl) ScoreLead(ctx context.Context, conversation []contractx.Turn) (contractx.LeadQualification, error) {
	prompt, err := llmx.Render("lead_score", q.prompts.LeadScore, map[string]string{
		"Conversation": renderConversation(conversation),
	})
	if err != nil {
		return contractx.LeadQualification{}, err
	}

	raw, err := q.client.Complete(ctx, prompt, scoreMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("lead scoring call failed, using fallback")
		return ScoreFallback(), nil
	}

	var result contractx.LeadQualification
	if err := llmx.DecodeJSON(raw, &result); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("lead score unparseable, using fallback")
		return ScoreFallback(), nil
	}
	return result, nil
}

func (q *qualifierImpl) DetectBuyingSignals(ctx context.Context, message string) (contractx.BuyingSignals, error) {
	prompt, err := llmx.Render("buying_signals", q.prompts.BuyingSignals, map[string]string{"Message": message})
	if err != nil {
		return contractx.BuyingSignals{}, err
	}

	raw, err := q.client.Complete(ctx, prompt, signalsMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("buying signal call failed, using fallback")
		return SignalsFallback(), nil
	}

	var result contractx.BuyingSignals
	if err := llmx.DecodeJSON(raw, &result); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("buying signals unparseable, using fallback")
		return SignalsFallback(), nil
	}
	if result.SignalsDetected == nil {
		result.SignalsDetected = []string{}
	}
	return result, nil
}

// MissingQualificationInfo lists which of budget/timeline/requirements/
// authority the conversation has not yet covered.
func (q *qualifierImpl) MissingQualificationInfo(ctx context.Context, conversation []contractx.Turn) ([]string, error) {
	prompt, err := llmx.Render("missing_info", q.prompts.MissingInfo, map[string]string{
		"Conversation": renderConversation(conversation),
	})
	if err != nil {
		return nil, err
	}

	raw, err := q.client.Complete(ctx, prompt, missingMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("missing info call failed, using fallback")
		return MissingFallback(), nil
	}

	var missing []string
	if err := llmx.DecodeJSON(raw, &missing); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("missing info unparseable, using fallback")
		return MissingFallback(), nil
	}
	return missing, nil
}

// QualificationQuestions picks one ready-made question per missing
// dimension. Unknown dimensions are skipped.
func (q *qualifierImpl) QualificationQuestions(missing []string) []string {
	questions := make([]string, 0, len(missing))
	for _, dimension := range missing {
		bank, ok := questionBank[strings.ToLower(strings.TrimSpace(dimension))]
		if !ok || len(bank) == 0 {
			continue
		}
		questions = append(questions, bank[0])
	}
	return questions
}

// Categorize collapses a qualification to the coarse hot/warm/cold bucket,
// letting a strong or weak intent level override the scored label.
func Categorize(lead contractx.LeadQualification) contractx.LeadScore {
	switch {
	case lead.Score == contractx.LeadHot || lead.IntentLevel >= 8:
		return contractx.LeadHot
	case lead.Score == contractx.LeadCold || lead.IntentLevel <= 3:
		return contractx.LeadCold
	default:
		return contractx.LeadWarm
	}
}

// SuggestClosingApproach maps the coarse score to a closing strategy.
func SuggestClosingApproach(lead contractx.LeadQualification) string {
	switch lead.Score {
	case contractx.LeadHot:
		return "Direct close - ask for the sale"
	case contractx.LeadWarm:
		return "Nurture - address objections and provide more value"
	default:
		return "Qualify further - determine if worth pursuing"
	}
}
