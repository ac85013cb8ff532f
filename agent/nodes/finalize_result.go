package pipelinenode

import (
	"fmt"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
)

// Recommended actions, ordered by precedence. First match wins; the order
// is part of the contract.
const (
	ActionUrgent           = "URGENT: Respond immediately - customer needs attention"
	ActionStrongSignal     = "HOT LEAD: Strong buying signal detected - prioritize closing"
	ActionHotLead          = "Ready to buy - present offer and close"
	ActionComplaint        = "Address complaint promptly - risk of losing customer"
	ActionWarmLead         = "Nurture lead - provide value and build relationship"
	ActionSalesOpportunity = "Sales opportunity - qualify further and present value"
	ActionStandardInquiry  = "Respond helpfully - standard inquiry"
)

// DeriveAction applies the fixed first-match precedence over the aggregated
// signals.
func DeriveAction(sentiment contractx.SentimentAnalysis, lead contractx.LeadQualification, signals contractx.BuyingSignals) string {
	switch {
	case sentiment.RequiresImmediateAttention:
		return ActionUrgent
	case signals.SignalStrength == contractx.SignalStrong:
		return ActionStrongSignal
	case lead.Score == contractx.LeadHot:
		return ActionHotLead
	case sentiment.Category == contractx.CategoryComplaint:
		return ActionComplaint
	case lead.Score == contractx.LeadWarm:
		return ActionWarmLead
	case sentiment.Category == contractx.CategorySalesOpportunity:
		return ActionSalesOpportunity
	default:
		return ActionStandardInquiry
	}
}

// FinalizeResult assembles the aggregate analysis from the accumulated
// stage outputs.
func FinalizeResult(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	return GraphOutput{
		PersistErr: in.PersistErr,
		Analysis: &contractx.MessageAnalysis{
			ClientID:                   in.ClientID,
			MessageID:                  in.MessageID,
			OriginalMessage:            in.Message,
			TranslatedMessage:          in.Translation.Translated,
			DetectedLanguage:           in.Translation.SourceLanguage,
			Sentiment:                  in.Sentiment,
			Lead:                       in.Lead,
			BuyingSignals:              in.Signals,
			ClientContext:              in.Snapshot,
			SuggestedResponses:         in.Suggestions,
			RequiresImmediateAttention: in.Sentiment.RequiresImmediateAttention,
			RecommendedAction:          DeriveAction(in.Sentiment, in.Lead, in.Signals),
		},
	}, nil
}
