// Package responder adapts the completion capability for reply suggestion,
// inquiry categorisation, and final reply generation.
package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	llmx "github.com/amilie-studio/inbox-agent/agent/llm"
	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
	promptx "github.com/amilie-studio/inbox-agent/agent/prompt"
)

const (
	suggestMaxTokens   = 1024
	inquiryMaxTokens   = 50
	bestReplyMaxTokens = 300
	styleMaxTokens     = 256

	styleExampleWindow = 10
)

// replyTemplates are canned responses per inquiry category, kept for the
// interactive flow where a human picks and fills placeholders.
var replyTemplates = map[string][]string{
	"pricing": {
		"Thanks for your interest! Our pricing starts at {price}. Would you like more details?",
		"Great question! I'd be happy to share our pricing. What specific product/service are you interested in?",
		"Our {product} is priced at {price}. This includes {features}. Interested?",
	},
	"availability": {
		"Yes, that's currently available! Would you like to place an order?",
		"Let me check availability for you. What quantity are you looking for?",
		"That item is in stock and ready to ship. Shall I reserve one for you?",
	},
	"shipping": {
		"We offer shipping to {location}. Delivery typically takes {time}.",
		"Shipping costs depend on your location. Where should we deliver?",
		"We ship worldwide! Standard delivery is {time}, express is {express_time}.",
	},
	"hours": {
		"We're available {hours}. How can I help you today?",
		"Our business hours are {hours}. Feel free to reach out anytime!",
		"We're here {hours}. What can I assist you with?",
	},
	"greeting": {
		"Hi there! Thanks for reaching out. How can I help you today?",
		"Hello! Great to hear from you. What can I do for you?",
		"Hey! Welcome! Let me know how I can assist you.",
	},
	"thanks": {
		"You're welcome! Let me know if you need anything else.",
		"Happy to help! Don't hesitate to reach out anytime.",
		"My pleasure! Is there anything else I can help with?",
	},
}

// StyleSource is the slice of the context store the responder reads for
// style-informed suggestions.
type StyleSource interface {
	RecentStyleExamples(ctx context.Context, limit int) ([]memoryx.StyleExample, error)
}

type responderImpl struct {
	client       contractx.CompletionClient
	prompts      promptx.PromptSet
	styles       StyleSource
	businessName string
}

var _ contractx.Responder = (*responderImpl)(nil)

func New(client contractx.CompletionClient, prompts promptx.PromptSet, styles StyleSource, businessName string) contractx.Responder {
	return &responderImpl{
		client:       client,
		prompts:      prompts,
		styles:       styles,
		businessName: businessName,
	}
}

// SuggestReplies returns up to count candidate replies. When the response
// does not parse as a JSON array, the raw text is the single candidate.
func (r *responderImpl) SuggestReplies(ctx context.Context, message, contextSummary string, count int) ([]string, error) {
	if count <= 0 {
		count = 3
	}

	prompt, err := llmx.Render("suggest_replies", r.prompts.SuggestReplies, map[string]any{
		"Count":   count,
		"Message": message,
		"Context": contextSummary,
	})
	if err != nil {
		return nil, err
	}

	raw, err := r.client.Complete(ctx, prompt, suggestMaxTokens)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	if err := llmx.DecodeJSON(raw, &suggestions); err != nil {
		log.Warn().Err(err).Msg("suggestions unparseable, returning raw text")
		return []string{strings.TrimSpace(raw)}, nil
	}
	if len(suggestions) > count {
		suggestions = suggestions[:count]
	}
	return suggestions, nil
}

func (r *responderImpl) CategorizeInquiry(ctx context.Context, message string) (string, error) {
	prompt, err := llmx.Render("categorize_inquiry", r.prompts.CategorizeInquiry, map[string]string{"Message": message})
	if err != nil {
		return "", err
	}

	raw, err := r.client.Complete(ctx, prompt, inquiryMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(raw)), nil
}

// Templates returns the canned replies for an inquiry category.
func Templates(category string) []string {
	return replyTemplates[category]
}

// GenerateBestReply produces the single outbound reply from the aggregated
// signals. It has no fallback: a remote failure propagates to the caller.
func (r *responderImpl) GenerateBestReply(ctx context.Context, req contractx.BestReplyRequest) (string, error) {
	system, err := llmx.Render("best_reply_system", r.prompts.BestReplySystem, map[string]string{
		"BusinessName":    r.businessName,
		"BusinessContext": req.BusinessContext,
		"ToneInstruction": toneInstruction(req.Sentiment, req.Lead),
	})
	if err != nil {
		return "", err
	}
	user, err := llmx.Render("best_reply", r.prompts.BestReply, map[string]string{
		"Message":        req.Message,
		"Sentiment":      string(req.Sentiment.Sentiment),
		"Category":       string(req.Sentiment.Category),
		"LeadScore":      string(req.Lead.Score),
		"ContextSummary": req.ContextSummary,
	})
	if err != nil {
		return "", err
	}

	reply, err := r.client.Complete(ctx, system+"\n\n"+user, bestReplyMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// PersonalizedSuggestion uses the stored style ring to mimic past chosen
// replies; with no examples yet it degrades to a plain suggestion.
func (r *responderImpl) PersonalizedSuggestion(ctx context.Context, message string) (string, error) {
	examples, err := r.styles.RecentStyleExamples(ctx, styleExampleWindow)
	if err != nil {
		return "", err
	}
	if len(examples) == 0 {
		suggestions, err := r.SuggestReplies(ctx, message, "", 1)
		if err != nil {
			return "", err
		}
		// A valid empty JSON array leaves nothing to pick from.
		if len(suggestions) == 0 {
			return "", fmt.Errorf("%w: model returned no suggestions", contractx.ErrValidation)
		}
		return suggestions[0], nil
	}

	lines := make([]string, 0, len(examples))
	for i := len(examples) - 1; i >= 0; i-- { // oldest first reads naturally
		lines = append(lines, "Q: "+examples[i].Inquiry+"\nA: "+examples[i].Response)
	}

	prompt, err := llmx.Render("style_suggestion", r.prompts.StyleSuggestion, map[string]string{
		"Examples": strings.Join(lines, "\n"),
		"Message":  message,
	})
	if err != nil {
		return "", err
	}

	reply, err := r.client.Complete(ctx, prompt, styleMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func toneInstruction(sentiment contractx.SentimentAnalysis, lead contractx.LeadQualification) string {
	switch {
	case sentiment.Sentiment.IsUpset():
		return "The customer is upset. Be apologetic, empathetic, and solution-focused. Acknowledge their frustration."
	case sentiment.Sentiment == contractx.SentimentPositive:
		return "The customer is happy. Be warm and enthusiastic. Build on their positive energy."
	case lead.Score == contractx.LeadHot:
		return "This is a hot lead ready to buy. Be helpful and guide them toward purchase without being pushy."
	case sentiment.Category == contractx.CategorySalesOpportunity:
		return "This is a sales opportunity. Be helpful, highlight value, and gently guide toward a decision."
	default:
		return "Be friendly, helpful, and professional."
	}
}
